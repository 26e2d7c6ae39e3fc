package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"txninsights/internal/dto"
)

const DefaultModelName = "gemini-2.0-flash"

const systemPrompt = `You are a data analyst assistant that converts natural language questions into structured query specifications for a merchant transactions dataset.

Dataset Schema:
- day (date): Transaction date, format YYYY-MM-DD
- day_of_week (string): Day name (Monday, Tuesday, etc.)
- entity (string): 'individual' or 'business'
- product (string): e.g. pix, pos, tap, link, bank_slip
- price_tier (string): normal, aggressive, intermediary, domination
- anticipation_method (string): open set, e.g. D0/Nitro, D1Anticipation, Pix, Bank Slip
- settlement_speed (string): nitro or d0
- payment_method (string): credit, debit, uninformed
- installments (integer): Number of installments
- amount_transacted (float): Transaction amount
- quantity_transactions (integer): Number of transactions
- quantity_of_merchants (integer): Number of merchants

Business Metrics:
- tpv (Total Payment Volume): SUM(amount_transacted)
- average_ticket: SUM(amount_transacted) / SUM(quantity_transactions)
- transaction_count: SUM(quantity_transactions)
- merchant_count: SUM(quantity_of_merchants)

Your task: Convert the user's question into a JSON object with this structure:
{
    "metric": "tpv" | "average_ticket" | "transaction_count" | "merchant_count",
    "group_by": ["column1"],
    "filters": {"column": "value"},
    "sort_by": "metric",
    "sort_order": "desc" | "asc",
    "limit": null | number,
    "explanation": "Brief explanation of what you understood"
}

Examples:

Question: "Which product has the highest TPV?"
Response: {
    "metric": "tpv",
    "group_by": ["product"],
    "filters": {},
    "sort_by": "metric",
    "sort_order": "desc",
    "limit": 1,
    "explanation": "Calculate total TPV for each product and return the highest"
}

Question: "How do weekdays influence TPV?"
Response: {
    "metric": "tpv",
    "group_by": ["day_of_week"],
    "filters": {},
    "sort_by": "metric",
    "sort_order": "desc",
    "limit": null,
    "explanation": "Calculate TPV grouped by day of week to show influence"
}

Question: "What is the most used anticipation method by businesses?"
Response: {
    "metric": "transaction_count",
    "group_by": ["anticipation_method"],
    "filters": {"entity": "business"},
    "sort_by": "metric",
    "sort_order": "desc",
    "limit": 1,
    "explanation": "Count transactions by anticipation method for business entities"
}

IMPORTANT: Return ONLY the JSON object, no additional text. Do NOT wrap the response in code fences.`

// GeminiTranslator asks Gemini for the structured spec. Credentials come
// from the environment (GOOGLE_API_KEY / GEMINI_API_KEY), as the genai
// client resolves them itself.
type GeminiTranslator struct {
	client *genai.Client
	model  string
}

func NewGeminiTranslator(ctx context.Context, model string) (*GeminiTranslator, error) {
	if model == "" {
		model = DefaultModelName
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiTranslator{client: client, model: model}, nil
}

func (t *GeminiTranslator) Translate(ctx context.Context, question string) (*dto.QuerySpec, error) {
	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: systemPrompt},
				{Text: "Question: " + question},
			},
		},
	}

	resp, err := t.client.Models.GenerateContent(ctx, t.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	raw := resp.Text()
	if raw == "" {
		return nil, fmt.Errorf("empty response from model")
	}

	return DecodeSpec(raw)
}
