// Package migrate holds the SQL tables described by ent/schema and creates
// them on a database.
package migrate

import (
	"context"
	"fmt"

	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/sql/schema"
)

// Schema creates the tables on one driver.
type Schema struct {
	drv dialect.Driver
}

// NewSchema returns a Schema for drv.
func NewSchema(drv dialect.Driver) *Schema { return &Schema{drv: drv} }

// Create adds missing tables, columns and indexes. It never drops.
func (s *Schema) Create(ctx context.Context, opts ...schema.MigrateOption) error {
	m, err := schema.NewMigrate(s.drv, opts...)
	if err != nil {
		return fmt.Errorf("ent/migrate: %w", err)
	}
	return m.Create(ctx, Tables...)
}
