// Code generated by ent, DO NOT EDIT.

package migrate

import (
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// IndexDocsColumns holds the columns for the "index_docs" table.
	IndexDocsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeUUID},
		{Name: "kind", Type: field.TypeString},
		{Name: "content", Type: field.TypeString, Size: 2147483647},
		{Name: "embedding", Type: field.TypeBytes},
		{Name: "created_at", Type: field.TypeTime},
	}
	// IndexDocsTable holds the schema information for the "index_docs" table.
	IndexDocsTable = &schema.Table{
		Name:       "index_docs",
		Columns:    IndexDocsColumns,
		PrimaryKey: []*schema.Column{IndexDocsColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "indexdoc_kind",
				Unique:  false,
				Columns: []*schema.Column{IndexDocsColumns[1]},
			},
		},
	}
	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		IndexDocsTable,
	}
)

func init() {
	IndexDocsTable.Annotation = &entsql.Annotation{
		Table: "index_docs",
	}
}
