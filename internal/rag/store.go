package rag

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/orderdesk/order-intake/internal/repository"
)

// Dictionary kinds in the index.
const (
	KindProduct  = "product"
	KindCustomer = "customer"
)

// Embedder turns text into a vector. Satisfied by *openai.Client.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// DocStore persists index entries. Satisfied by
// *repository.IndexDocRepository.
type DocStore interface {
	Replace(ctx context.Context, kind string, docs []repository.Doc) error
	ByKind(ctx context.Context, kind string) ([]repository.Doc, error)
}

// VectorStore embeds dictionary entries at build time and answers
// nearest-neighbor queries at lookup time. The index is a few hundred rows,
// so lookup is an exact linear scan, not an approximate structure.
type VectorStore struct {
	embedder Embedder
	docs     DocStore
	logger   *slog.Logger
}

func NewVectorStore(embedder Embedder, docs DocStore, logger *slog.Logger) *VectorStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &VectorStore{embedder: embedder, docs: docs, logger: logger}
}

// Build embeds every entry and replaces the stored index for the kind.
func (s *VectorStore) Build(ctx context.Context, kind string, entries []string) error {
	docs := make([]repository.Doc, 0, len(entries))
	for _, entry := range entries {
		vec, err := s.embedder.EmbedText(ctx, entry)
		if err != nil {
			return fmt.Errorf("embed %s entry: %w", kind, err)
		}
		docs = append(docs, repository.Doc{
			Kind:      kind,
			Content:   entry,
			Embedding: EncodeVector(vec),
		})
	}
	if err := s.docs.Replace(ctx, kind, docs); err != nil {
		return err
	}
	s.logger.Info("rag.index.built", "kind", kind, "entries", len(docs))
	return nil
}

// Query returns the topK stored entries nearest to the text.
func (s *VectorStore) Query(ctx context.Context, kind, text string, topK int) ([]string, error) {
	docs, err := s.docs.ByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}

	qvec, err := s.embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	type scored struct {
		content string
		dist    float64
	}
	ranked := make([]scored, 0, len(docs))
	for _, doc := range docs {
		vec, err := DecodeVector(doc.Embedding)
		if err != nil {
			s.logger.Warn("rag.index.bad_embedding", "kind", kind, "error", err)
			continue
		}
		ranked = append(ranked, scored{content: doc.Content, dist: l2Distance(qvec, vec)})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].dist < ranked[j].dist })

	if topK > len(ranked) {
		topK = len(ranked)
	}
	out := make([]string, 0, topK)
	for _, r := range ranked[:topK] {
		out = append(out, r.content)
	}
	return out, nil
}
