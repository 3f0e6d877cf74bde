package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/orderdesk/order-intake/gen/ent"
	"github.com/orderdesk/order-intake/gen/ent/indexdoc"
)

// Doc is the storage shape of one index entry.
type Doc struct {
	Kind      string
	Content   string
	Embedding []byte
}

// IndexDocRepository persists the normalization index.
type IndexDocRepository struct {
	client *ent.Client
	logger *slog.Logger
}

func NewIndexDocRepository(client *ent.Client, logger *slog.Logger) *IndexDocRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexDocRepository{client: client, logger: logger}
}

// Replace rebuilds one kind's entries atomically: old rows go, new rows
// land in the same transaction, so a half-written index never serves reads.
func (r *IndexDocRepository) Replace(ctx context.Context, kind string, docs []Doc) error {
	tx, err := r.client.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin index replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.IndexDoc.Delete().Where(indexdoc.Kind(kind)).Exec(ctx); err != nil {
		return fmt.Errorf("clear %s index: %w", kind, err)
	}
	builders := make([]*ent.IndexDocCreate, 0, len(docs))
	for _, d := range docs {
		builders = append(builders, tx.IndexDoc.Create().
			SetKind(kind).
			SetContent(d.Content).
			SetEmbedding(d.Embedding))
	}
	if _, err := tx.IndexDoc.CreateBulk(builders...).Save(ctx); err != nil {
		return fmt.Errorf("write %s index: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit index replace: %w", err)
	}
	r.logger.Info("repository.index.replaced", "kind", kind, "docs", len(docs))
	return nil
}

// ByKind loads one kind's entries in insertion order.
func (r *IndexDocRepository) ByKind(ctx context.Context, kind string) ([]Doc, error) {
	rows, err := r.client.IndexDoc.Query().
		Where(indexdoc.Kind(kind)).
		Order(ent.Asc(indexdoc.FieldCreatedAt)).
		All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load %s index: %w", kind, err)
	}
	docs := make([]Doc, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, Doc{Kind: row.Kind, Content: row.Content, Embedding: row.Embedding})
	}
	return docs, nil
}
