// Code generated by ent, DO NOT EDIT.

package ent

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderdesk/order-intake/db/ent/schema"
	"github.com/orderdesk/order-intake/gen/ent/indexdoc"
)

// The init function reads all schema descriptors with runtime code
// (default values, validators, hooks and policies) and stitches it
// to their package variables.
func init() {
	indexdocFields := schema.IndexDoc{}.Fields()
	_ = indexdocFields
	// indexdocDescKind is the schema descriptor for kind field.
	indexdocDescKind := indexdocFields[1].Descriptor()
	// indexdoc.KindValidator is a validator for the "kind" field. It is called by the builders before save.
	indexdoc.KindValidator = indexdocDescKind.Validators[0].(func(string) error)
	// indexdocDescContent is the schema descriptor for content field.
	indexdocDescContent := indexdocFields[2].Descriptor()
	// indexdoc.ContentValidator is a validator for the "content" field. It is called by the builders before save.
	indexdoc.ContentValidator = indexdocDescContent.Validators[0].(func(string) error)
	// indexdocDescCreatedAt is the schema descriptor for created_at field.
	indexdocDescCreatedAt := indexdocFields[4].Descriptor()
	// indexdoc.DefaultCreatedAt holds the default value on creation for the created_at field.
	indexdoc.DefaultCreatedAt = indexdocDescCreatedAt.Default.(func() time.Time)
	// indexdocDescID is the schema descriptor for id field.
	indexdocDescID := indexdocFields[0].Descriptor()
	// indexdoc.DefaultID holds the default value on creation for the id field.
	indexdoc.DefaultID = indexdocDescID.Default.(func() uuid.UUID)
}
