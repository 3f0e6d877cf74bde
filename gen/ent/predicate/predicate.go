// Code generated by ent, DO NOT EDIT.

package predicate

import (
	"entgo.io/ent/dialect/sql"
)

// IndexDoc is the predicate function for indexdoc builders.
type IndexDoc func(*sql.Selector)
