package rag

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/order-intake/internal/repository"
)

// charEmbedder produces a tiny deterministic vector so nearest-neighbor
// ordering is predictable in tests.
type charEmbedder struct{}

func (charEmbedder) EmbedText(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, 4)
	for i, r := range []rune(text) {
		vec[i%4] += float32(r % 97)
	}
	return vec, nil
}

type memDocStore struct {
	docs map[string][]repository.Doc
}

func (m *memDocStore) Replace(_ context.Context, kind string, docs []repository.Doc) error {
	if m.docs == nil {
		m.docs = map[string][]repository.Doc{}
	}
	m.docs[kind] = docs
	return nil
}

func (m *memDocStore) ByKind(_ context.Context, kind string) ([]repository.Doc, error) {
	return m.docs[kind], nil
}

func TestVectorRoundTrip(t *testing.T) {
	vec := []float32{1.5, -2.25, 0, 3.125}
	decoded, err := DecodeVector(EncodeVector(vec))
	require.NoError(t, err)
	assert.Equal(t, vec, decoded)

	_, err = DecodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestVectorStoreQueryRanksByDistance(t *testing.T) {
	store := NewVectorStore(charEmbedder{}, &memDocStore{}, nil)
	ctx := context.Background()

	entries := []string{
		"A001 ウィジェットA",
		"B002 ガジェットB",
		"C003 ドングルC",
	}
	require.NoError(t, store.Build(ctx, KindProduct, entries))

	got, err := store.Query(ctx, KindProduct, "A001 ウィジェットA", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "A001 ウィジェットA", got[0], "exact entry is nearest to itself")
}

func TestVectorStoreQueryEmptyIndex(t *testing.T) {
	store := NewVectorStore(charEmbedder{}, &memDocStore{}, nil)
	got, err := store.Query(context.Background(), KindCustomer, "テスト商店", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

type scriptedCompleter struct {
	lastSystem string
	lastUser   string
	answer     string
}

func (s *scriptedCompleter) Complete(_ context.Context, system, user string) (string, error) {
	s.lastSystem = system
	s.lastUser = user
	return s.answer, nil
}

func TestCorrectProductNamePromptsWithRetrievedEntries(t *testing.T) {
	store := NewVectorStore(charEmbedder{}, &memDocStore{}, nil)
	ctx := context.Background()
	require.NoError(t, store.Build(ctx, KindProduct, []string{"A001 ウィジェットA", "B002 ガジェットB"}))

	completer := &scriptedCompleter{answer: "  A001\n"}
	corrector := NewCorrector(store, completer, nil)

	got, err := corrector.CorrectProductName(ctx, "うぃじぇっとA")
	require.NoError(t, err)
	assert.Equal(t, "A001", got, "answer is trimmed")
	assert.Contains(t, completer.lastSystem, "商品マスタ辞書")
	assert.Contains(t, completer.lastSystem, "A001 ウィジェットA")
	assert.True(t, strings.Contains(completer.lastSystem, "うぃじぇっとA"))
	assert.Empty(t, completer.lastUser, "input travels inside the dictionary prompt only")
}

func TestCorrectCustomerName(t *testing.T) {
	store := NewVectorStore(charEmbedder{}, &memDocStore{}, nil)
	ctx := context.Background()
	require.NoError(t, store.Build(ctx, KindCustomer, []string{"テスト商店", "山田物産"}))

	completer := &scriptedCompleter{answer: "テスト商店"}
	corrector := NewCorrector(store, completer, nil)

	got, err := corrector.CorrectCustomerName(ctx, "てすと商店")
	require.NoError(t, err)
	assert.Equal(t, "テスト商店", got)
	assert.Contains(t, completer.lastSystem, "顧客マスタ辞書")
}
