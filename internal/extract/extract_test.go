package extract

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeadingScanParsesItemTable(t *testing.T) {
	text := "顧客: テスト商店\n配送希望日: 2025-08-01\n\n商品 数量\nA001 2\nB002 3\n合計 5"

	fields, err := headingScan{}.Attempt(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "テスト商店", fields.CustomerName)
	assert.Equal(t, "2025-08-01", fields.DeliveryDate)
	assert.Equal(t, []LineItem{
		{ProductID: "A001", Quantity: 2},
		{ProductID: "B002", Quantity: 3},
	}, fields.Items)
}

func TestHeadingScanStopsAtBlankLine(t *testing.T) {
	text := "商品 数量\nA001 2\n\nB002 3"

	fields, err := headingScan{}.Attempt(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, []LineItem{{ProductID: "A001", Quantity: 2}}, fields.Items)
}

func TestHeadingScanNoHeading(t *testing.T) {
	fields, err := headingScan{}.Attempt(context.Background(), "A001 2\nB002 3")
	require.NoError(t, err)
	assert.Nil(t, fields, "rows without a heading are not this strategy's shape")
}

func TestTwoTokenScan(t *testing.T) {
	fields, err := twoTokenScan{}.Attempt(context.Background(), "よろしくお願いします\nA001 2\nB002 3")
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, []LineItem{
		{ProductID: "A001", Quantity: 2},
		{ProductID: "B002", Quantity: 3},
	}, fields.Items)
	assert.Empty(t, fields.CustomerName)
}

func TestTwoTokenScanIgnoresLabeledLines(t *testing.T) {
	fields, err := twoTokenScan{}.Attempt(context.Background(), "商品: A001\n数量: 5")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestRegexFallbackMultiItem(t *testing.T) {
	text := "顧客: テスト商店\n商品:A001 数量:2\n商品:B002 数量:3\n配送希望日:2025-08-01"

	fields, err := regexFallback{}.Attempt(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "テスト商店", fields.CustomerName)
	assert.Equal(t, "2025-08-01", fields.DeliveryDate)
	assert.Equal(t, []LineItem{
		{ProductID: "A001", Quantity: 2},
		{ProductID: "B002", Quantity: 3},
	}, fields.Items)
	assert.Empty(t, fields.ProductID, "multi path never fills the single pair")
}

func TestRegexFallbackSingleItem(t *testing.T) {
	text := "顧客: テスト商店\n商品: A001\n数量: 5\n配送希望日: 2025-07-20"

	fields, err := regexFallback{}.Attempt(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "テスト商店", fields.CustomerName)
	assert.Equal(t, "A001", fields.ProductID)
	require.NotNil(t, fields.Quantity)
	assert.Equal(t, 5, *fields.Quantity)
	assert.Equal(t, "2025-07-20", fields.DeliveryDate)
	assert.Empty(t, fields.Items)
}

func TestRegexFallbackNoMatch(t *testing.T) {
	fields, err := regexFallback{}.Attempt(context.Background(), "いつもお世話になっております。")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestRegexFallbackEnglishLabels(t *testing.T) {
	text := "Customer: Test Shop\nProduct: A001\nQty: 4\nDelivery date: 2025-09"

	fields, err := regexFallback{}.Attempt(context.Background(), text)
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "Test Shop", fields.CustomerName)
	assert.Equal(t, "A001", fields.ProductID)
	assert.Equal(t, "2025-09", fields.DeliveryDate)
}

// recordingStrategy instruments cascade ordering.
type recordingStrategy struct {
	name   string
	fields *Fields
	err    error
	calls  *[]string
}

func (r recordingStrategy) Name() string { return r.name }

func (r recordingStrategy) Attempt(context.Context, string) (*Fields, error) {
	*r.calls = append(*r.calls, r.name)
	return r.fields, r.err
}

func TestCascadeFirstNonEmptyWins(t *testing.T) {
	var calls []string
	qty := 1
	c := &Cascade{logger: slog.Default(), strategies: []Strategy{
		recordingStrategy{name: "first", calls: &calls},
		recordingStrategy{name: "second", fields: &Fields{ProductID: "A001", Quantity: &qty}, calls: &calls},
		recordingStrategy{name: "third", calls: &calls},
	}}

	fields, err := c.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, "A001", fields.ProductID)
	assert.Equal(t, []string{"first", "second"}, calls, "later strategies never run")
}

func TestCascadeExhaustedReturnsEmptyMapping(t *testing.T) {
	var calls []string
	c := &Cascade{logger: slog.Default(), strategies: []Strategy{
		recordingStrategy{name: "only", calls: &calls},
	}}

	fields, err := c.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.True(t, fields.Empty())
}

func TestCascadeStrategyErrorIsFatal(t *testing.T) {
	var calls []string
	c := &Cascade{logger: slog.Default(), strategies: []Strategy{
		recordingStrategy{name: "boom", err: &ExtractionError{Reason: "bad response"}, calls: &calls},
		recordingStrategy{name: "never", calls: &calls},
	}}

	_, err := c.Extract(context.Background(), "text")
	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Equal(t, []string{"boom"}, calls)
}

func TestNewCascadeChoosesFallbackAtConstruction(t *testing.T) {
	withoutLLM := NewCascade(nil, nil)
	require.Len(t, withoutLLM.strategies, 3)
	assert.Equal(t, "regex-fallback", withoutLLM.strategies[2].Name())

	withLLM := NewCascade(completerFunc(func(context.Context, string, string) (string, error) {
		return "", nil
	}), nil)
	require.Len(t, withLLM.strategies, 3)
	assert.Equal(t, "llm", withLLM.strategies[2].Name())
}

type completerFunc func(ctx context.Context, system, user string) (string, error)

func (f completerFunc) Complete(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestLLMStrategyParsesWrappedJSON(t *testing.T) {
	s := newLLMStrategy(completerFunc(func(_ context.Context, _, user string) (string, error) {
		assert.Contains(t, user, "注文テキスト")
		return "結果は以下です。\n{\"customer_name\": \"テスト商店\", \"items\": [{\"product_id\": \"A001\", \"quantity\": 2}], \"delivery_date\": \"2025-08-01\"}", nil
	}), nil)

	fields, err := s.Attempt(context.Background(), "注文テキスト")
	require.NoError(t, err)
	require.NotNil(t, fields)
	assert.Equal(t, "テスト商店", fields.CustomerName)
	assert.Equal(t, []LineItem{{ProductID: "A001", Quantity: 2}}, fields.Items)
}

func TestLLMStrategyNoJSONIsExtractionError(t *testing.T) {
	s := newLLMStrategy(completerFunc(func(context.Context, string, string) (string, error) {
		return "申し訳ありませんが、注文情報が見つかりません。", nil
	}), nil)

	_, err := s.Attempt(context.Background(), "text")
	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
	assert.Contains(t, exErr.Raw, "申し訳ありません")
}

func TestLLMStrategySchemaViolationIsExtractionError(t *testing.T) {
	s := newLLMStrategy(completerFunc(func(context.Context, string, string) (string, error) {
		return `{"customer_name": 42}`, nil
	}), nil)

	_, err := s.Attempt(context.Background(), "text")
	var exErr *ExtractionError
	require.ErrorAs(t, err, &exErr)
}

func TestLLMStrategyEmptyObjectFallsThrough(t *testing.T) {
	s := newLLMStrategy(completerFunc(func(context.Context, string, string) (string, error) {
		return "{}", nil
	}), nil)

	fields, err := s.Attempt(context.Background(), "text")
	require.NoError(t, err)
	assert.Nil(t, fields)
}
