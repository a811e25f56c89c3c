package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

// Deck is a named question source and the properties that load it.
type Deck struct {
	ent.Schema
}

func (Deck) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "decks"}}
}

func (Deck) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			StorageKey("name").
			NotEmpty().
			Immutable().
			Comment("Deck name chosen by the user"),
		field.String("source").
			Default("").
			Comment("Registered source name: file or solfege"),
		field.Text("props").
			Default("{}").
			Comment("Source properties as a JSON object"),
		field.Time("created_at").
			Immutable(),
		field.Time("updated_at"),
	}
}
