package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/google/uuid"
)

// IndexDoc is one entry of the name-normalization index: a master-dictionary
// line together with its embedding vector.
type IndexDoc struct {
	ent.Schema
}

func (IndexDoc) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "index_docs"},
	}
}

func (IndexDoc) Fields() []ent.Field {
	return []ent.Field{
		field.UUID("id", uuid.UUID{}).
			Default(uuid.New).
			Immutable().
			StorageKey("id"),
		// "product" or "customer"; which dictionary the line came from.
		field.String("kind").
			NotEmpty(),
		field.Text("content").
			NotEmpty(),
		// float32 vector, little-endian packed.
		field.Bytes("embedding"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (IndexDoc) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("kind"),
	}
}
