package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// DeckHistory is one saved history snapshot of a deck. The newest row is
// loaded at the start of a session; older rows are pruned.
type DeckHistory struct {
	ent.Schema
}

func (DeckHistory) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (DeckHistory) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "deck_histories"}}
}

func (DeckHistory) Fields() []ent.Field {
	return []ent.Field{
		field.String("deck").
			NotEmpty(),
		field.Time("taken_at").
			Comment("When the snapshot was saved"),
		field.String("format_version").
			Comment("Semantic version of the snapshot JSON"),
		field.Text("data").
			Comment("Question histories, scores and knowledge index as JSON"),
	}
}

func (DeckHistory) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("deck"),
	}
}
