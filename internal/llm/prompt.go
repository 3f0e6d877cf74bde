package llm

import "strings"

// OrderSystemPrompt pins the model to JSON-only output.
const OrderSystemPrompt = "JSON 出力専用モード"

// BuildOrderPrompt asks for a single JSON object with customer_name,
// delivery_date, and either items or a single product_id/quantity pair.
// The worked examples keep the output shape stable across models.
func BuildOrderPrompt(text string) string {
	var b strings.Builder
	b.WriteString("あなたは注文受付システムのアシスタントです。\n")
	b.WriteString("以下のメール本文から、必ず JSON で抽出結果を返してください。\n")
	b.WriteString("商品が複数ある場合は、`items` リストとして\n")
	b.WriteString("  [{\"product_id\":string,\"quantity\":number}, ...]\n")
	b.WriteString("として返却し、`customer_name` と `delivery_date` も含めてください。\n")
	b.WriteString("delivery_date は ISO-8601 (YYYY-MM-DD) 形式にしてください。\n\n")
	b.WriteString("【本文】\n")
	b.WriteString(text)
	b.WriteString("\n\n例1: 単一商品\n")
	b.WriteString("入力: 「ご注文者様: 山田屋、商品:A001、個数:3、お届け希望日:2025-07-20」\n")
	b.WriteString(`出力: {"customer_name":"山田屋","items":[{"product_id":"A001","quantity":3}],"delivery_date":"2025-07-20"}`)
	b.WriteString("\n\n例2: 複数商品\n")
	b.WriteString("入力:\n  商品:A001 数量:2\n  商品:B002 数量:1\n  配送希望日:2025-07-20\n")
	b.WriteString(`出力: {"customer_name":"","items":[{"product_id":"A001","quantity":2},{"product_id":"B002","quantity":1}],"delivery_date":"2025-07-20"}`)
	b.WriteString("\n\n---- この形式で JSON を返してください ----\n")
	return b.String()
}
