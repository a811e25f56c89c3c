package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Session records one drill session. The end columns are filled in when
// the session finishes.
type Session struct {
	ent.Schema
}

func (Session) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "sessions"}}
}

func (Session) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable().
			Comment("UUID of the session"),
		field.String("deck").
			NotEmpty(),
		field.Time("started_at").
			Immutable(),
		field.Time("ended_at").
			Optional().
			Nillable().
			Comment("Unset while the session is open"),
		field.Int("questions_answered").
			Default(0).
			Comment("Questions answered correctly"),
		field.Int64("duration_ms").
			Default(0),
		field.Float("knowledge_index").
			Default(0).
			Comment("Knowledge index at the end of the session"),
		field.Int("percent_known").
			Default(0).
			Comment("Overall deck score, rounded"),
	}
}

func (Session) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("deck", "started_at"),
	}
}
