package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// AnswerEvent records a single answer given within a session.
type AnswerEvent struct {
	ent.Schema
}

func (AnswerEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (AnswerEvent) Annotations() []schema.Annotation {
	return []schema.Annotation{entsql.Annotation{Table: "answer_events"}}
}

func (AnswerEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty().
			Comment("Links to Session"),
		field.String("deck").
			NotEmpty(),
		field.Text("question").
			Comment("The question shown"),
		field.Text("expected").
			Comment("The canonical answer"),
		field.Text("given").
			Comment("What the user entered"),
		field.Bool("correct"),
		field.Bool("first_attempt").
			Comment("False for retries after a wrong answer"),
		field.Int64("time_ms").
			Comment("Milliseconds to answer"),
		field.String("selection").
			Default("").
			Comment("How the question was chosen"),
		field.Time("answered_at"),
	}
}

func (AnswerEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("deck"),
	}
}
