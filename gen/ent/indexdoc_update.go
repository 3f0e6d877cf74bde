// Code generated by ent, DO NOT EDIT.

package ent

import (
	"context"
	"errors"
	"fmt"

	"entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/sqlgraph"
	"entgo.io/ent/schema/field"
	"github.com/orderdesk/order-intake/gen/ent/indexdoc"
	"github.com/orderdesk/order-intake/gen/ent/predicate"
)

// IndexDocUpdate is the builder for updating IndexDoc entities.
type IndexDocUpdate struct {
	config
	hooks    []Hook
	mutation *IndexDocMutation
}

// Where appends a list predicates to the IndexDocUpdate builder.
func (_u *IndexDocUpdate) Where(ps ...predicate.IndexDoc) *IndexDocUpdate {
	_u.mutation.Where(ps...)
	return _u
}

// SetKind sets the "kind" field.
func (_u *IndexDocUpdate) SetKind(v string) *IndexDocUpdate {
	_u.mutation.SetKind(v)
	return _u
}

// SetNillableKind sets the "kind" field if the given value is not nil.
func (_u *IndexDocUpdate) SetNillableKind(v *string) *IndexDocUpdate {
	if v != nil {
		_u.SetKind(*v)
	}
	return _u
}

// SetContent sets the "content" field.
func (_u *IndexDocUpdate) SetContent(v string) *IndexDocUpdate {
	_u.mutation.SetContent(v)
	return _u
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_u *IndexDocUpdate) SetNillableContent(v *string) *IndexDocUpdate {
	if v != nil {
		_u.SetContent(*v)
	}
	return _u
}

// SetEmbedding sets the "embedding" field.
func (_u *IndexDocUpdate) SetEmbedding(v []byte) *IndexDocUpdate {
	_u.mutation.SetEmbedding(v)
	return _u
}

// Mutation returns the IndexDocMutation object of the builder.
func (_u *IndexDocUpdate) Mutation() *IndexDocMutation {
	return _u.mutation
}

// Save executes the query and returns the number of nodes affected by the update operation.
func (_u *IndexDocUpdate) Save(ctx context.Context) (int, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *IndexDocUpdate) SaveX(ctx context.Context) int {
	affected, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return affected
}

// Exec executes the query.
func (_u *IndexDocUpdate) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *IndexDocUpdate) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *IndexDocUpdate) check() error {
	if v, ok := _u.mutation.Kind(); ok {
		if err := indexdoc.KindValidator(v); err != nil {
			return &ValidationError{Name: "kind", err: fmt.Errorf(`ent: validator failed for field "IndexDoc.kind": %w`, err)}
		}
	}
	if v, ok := _u.mutation.Content(); ok {
		if err := indexdoc.ContentValidator(v); err != nil {
			return &ValidationError{Name: "content", err: fmt.Errorf(`ent: validator failed for field "IndexDoc.content": %w`, err)}
		}
	}
	return nil
}

func (_u *IndexDocUpdate) sqlSave(ctx context.Context) (_node int, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(indexdoc.Table, indexdoc.Columns, sqlgraph.NewFieldSpec(indexdoc.FieldID, field.TypeUUID))
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Kind(); ok {
		_spec.SetField(indexdoc.FieldKind, field.TypeString, value)
	}
	if value, ok := _u.mutation.Content(); ok {
		_spec.SetField(indexdoc.FieldContent, field.TypeString, value)
	}
	if value, ok := _u.mutation.Embedding(); ok {
		_spec.SetField(indexdoc.FieldEmbedding, field.TypeBytes, value)
	}
	if _node, err = sqlgraph.UpdateNodes(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{indexdoc.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return 0, err
	}
	_u.mutation.done = true
	return _node, nil
}

// IndexDocUpdateOne is the builder for updating a single IndexDoc entity.
type IndexDocUpdateOne struct {
	config
	fields   []string
	hooks    []Hook
	mutation *IndexDocMutation
}

// SetKind sets the "kind" field.
func (_u *IndexDocUpdateOne) SetKind(v string) *IndexDocUpdateOne {
	_u.mutation.SetKind(v)
	return _u
}

// SetNillableKind sets the "kind" field if the given value is not nil.
func (_u *IndexDocUpdateOne) SetNillableKind(v *string) *IndexDocUpdateOne {
	if v != nil {
		_u.SetKind(*v)
	}
	return _u
}

// SetContent sets the "content" field.
func (_u *IndexDocUpdateOne) SetContent(v string) *IndexDocUpdateOne {
	_u.mutation.SetContent(v)
	return _u
}

// SetNillableContent sets the "content" field if the given value is not nil.
func (_u *IndexDocUpdateOne) SetNillableContent(v *string) *IndexDocUpdateOne {
	if v != nil {
		_u.SetContent(*v)
	}
	return _u
}

// SetEmbedding sets the "embedding" field.
func (_u *IndexDocUpdateOne) SetEmbedding(v []byte) *IndexDocUpdateOne {
	_u.mutation.SetEmbedding(v)
	return _u
}

// Mutation returns the IndexDocMutation object of the builder.
func (_u *IndexDocUpdateOne) Mutation() *IndexDocMutation {
	return _u.mutation
}

// Where appends a list predicates to the IndexDocUpdate builder.
func (_u *IndexDocUpdateOne) Where(ps ...predicate.IndexDoc) *IndexDocUpdateOne {
	_u.mutation.Where(ps...)
	return _u
}

// Select allows selecting one or more fields (columns) of the returned entity.
// The default is selecting all fields defined in the entity schema.
func (_u *IndexDocUpdateOne) Select(field string, fields ...string) *IndexDocUpdateOne {
	_u.fields = append([]string{field}, fields...)
	return _u
}

// Save executes the query and returns the updated IndexDoc entity.
func (_u *IndexDocUpdateOne) Save(ctx context.Context) (*IndexDoc, error) {
	return withHooks(ctx, _u.sqlSave, _u.mutation, _u.hooks)
}

// SaveX is like Save, but panics if an error occurs.
func (_u *IndexDocUpdateOne) SaveX(ctx context.Context) *IndexDoc {
	node, err := _u.Save(ctx)
	if err != nil {
		panic(err)
	}
	return node
}

// Exec executes the query on the entity.
func (_u *IndexDocUpdateOne) Exec(ctx context.Context) error {
	_, err := _u.Save(ctx)
	return err
}

// ExecX is like Exec, but panics if an error occurs.
func (_u *IndexDocUpdateOne) ExecX(ctx context.Context) {
	if err := _u.Exec(ctx); err != nil {
		panic(err)
	}
}

// check runs all checks and user-defined validators on the builder.
func (_u *IndexDocUpdateOne) check() error {
	if v, ok := _u.mutation.Kind(); ok {
		if err := indexdoc.KindValidator(v); err != nil {
			return &ValidationError{Name: "kind", err: fmt.Errorf(`ent: validator failed for field "IndexDoc.kind": %w`, err)}
		}
	}
	if v, ok := _u.mutation.Content(); ok {
		if err := indexdoc.ContentValidator(v); err != nil {
			return &ValidationError{Name: "content", err: fmt.Errorf(`ent: validator failed for field "IndexDoc.content": %w`, err)}
		}
	}
	return nil
}

func (_u *IndexDocUpdateOne) sqlSave(ctx context.Context) (_node *IndexDoc, err error) {
	if err := _u.check(); err != nil {
		return _node, err
	}
	_spec := sqlgraph.NewUpdateSpec(indexdoc.Table, indexdoc.Columns, sqlgraph.NewFieldSpec(indexdoc.FieldID, field.TypeUUID))
	id, ok := _u.mutation.ID()
	if !ok {
		return nil, &ValidationError{Name: "id", err: errors.New(`ent: missing "IndexDoc.id" for update`)}
	}
	_spec.Node.ID.Value = id
	if fields := _u.fields; len(fields) > 0 {
		_spec.Node.Columns = make([]string, 0, len(fields))
		_spec.Node.Columns = append(_spec.Node.Columns, indexdoc.FieldID)
		for _, f := range fields {
			if !indexdoc.ValidColumn(f) {
				return nil, &ValidationError{Name: f, err: fmt.Errorf("ent: invalid field %q for query", f)}
			}
			if f != indexdoc.FieldID {
				_spec.Node.Columns = append(_spec.Node.Columns, f)
			}
		}
	}
	if ps := _u.mutation.predicates; len(ps) > 0 {
		_spec.Predicate = func(selector *sql.Selector) {
			for i := range ps {
				ps[i](selector)
			}
		}
	}
	if value, ok := _u.mutation.Kind(); ok {
		_spec.SetField(indexdoc.FieldKind, field.TypeString, value)
	}
	if value, ok := _u.mutation.Content(); ok {
		_spec.SetField(indexdoc.FieldContent, field.TypeString, value)
	}
	if value, ok := _u.mutation.Embedding(); ok {
		_spec.SetField(indexdoc.FieldEmbedding, field.TypeBytes, value)
	}
	_node = &IndexDoc{config: _u.config}
	_spec.Assign = _node.assignValues
	_spec.ScanValues = _node.scanValues
	if err = sqlgraph.UpdateNode(ctx, _u.driver, _spec); err != nil {
		if _, ok := err.(*sqlgraph.NotFoundError); ok {
			err = &NotFoundError{indexdoc.Label}
		} else if sqlgraph.IsConstraintError(err) {
			err = &ConstraintError{msg: err.Error(), wrap: err}
		}
		return nil, err
	}
	_u.mutation.done = true
	return _node, nil
}
