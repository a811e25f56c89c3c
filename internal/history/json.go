package history

import (
	"encoding/json"
	"fmt"
	"io"
)

// EncodeJSON writes s as indented JSON, stamping the current format version.
func EncodeJSON(w io.Writer, s *Snapshot) error {
	out := *s
	out.FormatVersion = FormatVersion
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&out); err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return nil
}

// MarshalJSON encodes s to a byte slice.
func MarshalJSON(s *Snapshot) ([]byte, error) {
	out := *s
	out.FormatVersion = FormatVersion
	data, err := json.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("marshal history: %w", err)
	}
	return data, nil
}

// UnmarshalJSON decodes and migrates a snapshot.
func UnmarshalJSON(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	if err := Migrate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// DecodeJSON reads and migrates a snapshot from r.
func DecodeJSON(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return UnmarshalJSON(data)
}
