package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "surrounded by prose",
			in:   "抽出結果は以下です。\n{\"customer_name\":\"山田屋\"}\nご確認ください。",
			want: `{"customer_name":"山田屋"}`,
		},
		{
			name: "markdown fence",
			in:   "```json\n{\"quantity\": 3}\n```",
			want: `{"quantity": 3}`,
		},
		{
			name: "nested objects and arrays",
			in:   `x {"items":[{"product_id":"A","quantity":1},{"product_id":"B","quantity":2}]} y`,
			want: `{"items":[{"product_id":"A","quantity":1},{"product_id":"B","quantity":2}]}`,
		},
		{
			name: "braces inside strings ignored",
			in:   `{"note":"use } carefully","n":1}`,
			want: `{"note":"use } carefully","n":1}`,
		},
		{
			name: "escaped quote inside string",
			in:   `{"note":"she said \"}\"","n":2}`,
			want: `{"note":"she said \"}\"","n":2}`,
		},
		{
			name: "first of two objects wins",
			in:   `{"a":1} {"b":2}`,
			want: `{"a":1}`,
		},
		{
			name: "no object",
			in:   "no json here",
			want: "",
		},
		{
			name: "unbalanced",
			in:   `{"a":1`,
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstJSONObject(tt.in))
		})
	}
}

func TestValidateJSONAgainstSchemaAccepts(t *testing.T) {
	schema := BuildOrderJSONSchema()

	for name, doc := range map[string]string{
		"single":        `{"customer_name":"山田屋","product_id":"A001","quantity":3,"delivery_date":"2025-07-20"}`,
		"multi":         `{"items":[{"product_id":"A001","quantity":2},{"product_id":"B002","quantity":1}],"delivery_date":"2025-07"}`,
		"partial":       `{"customer_name":"山田屋"}`,
		"empty mapping": `{}`,
	} {
		assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(doc)), name)
	}
}

func TestValidateJSONAgainstSchemaRejects(t *testing.T) {
	schema := BuildOrderJSONSchema()

	for name, doc := range map[string]string{
		"quantity as string":  `{"quantity":"3"}`,
		"zero quantity":       `{"quantity":0}`,
		"customer not string": `{"customer_name":42}`,
		"item missing qty":    `{"items":[{"product_id":"A001"}]}`,
		"empty items":         `{"items":[]}`,
		"date with prose":     `{"delivery_date":"来週の金曜日"}`,
		"not json":            `customer_name: 山田屋`,
	} {
		assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(doc)), name)
	}
}
