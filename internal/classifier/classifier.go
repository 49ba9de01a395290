package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ahleite/plannito-bot/internal/model"
)

// IntentKind discriminates what the classifier made of a message.
type IntentKind string

const (
	// IntentStructured means amount + category were extracted.
	IntentStructured IntentKind = "structured"
	// IntentPlain is a conversational answer with no financial data.
	IntentPlain IntentKind = "plain"
	// IntentError means the classifier could not process the message.
	IntentError IntentKind = "error"
)

// Intent is the classifier's reading of one user message.
type Intent struct {
	Kind        IntentKind
	Amount      decimal.Decimal
	Category    string
	Description string
	TxKind      model.TransactionKind // empty when the model did not say
	Text        string                // plain reply text
}

// Classifier turns free text into a structured intent. Implementations
// must tolerate malformed model output and degrade to IntentError.
type Classifier interface {
	Classify(ctx context.Context, text string, valid []model.Category) (Intent, error)
}

const requestTimeout = 15 * time.Second

// Anthropic is the production classifier, backed by the Claude API.
type Anthropic struct {
	client anthropic.Client
	model  string
}

func NewAnthropic(apiKey, modelName string) *Anthropic {
	if modelName == "" {
		modelName = "claude-sonnet-4-5-20250929"
	}
	return &Anthropic{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  modelName,
	}
}

// wire format the prompt asks the model for.
type modelResponse struct {
	Type string `json:"type"` // "form" | "message"
	Data struct {
		Value    string `json:"value"`
		Category string `json:"category"`
		Type     string `json:"type"`
		Desc     string `json:"description"`
	} `json:"data"`
	Content string `json:"content"`
}

func buildPrompt(valid []model.Category) string {
	var list strings.Builder
	for _, c := range valid {
		marker := "📉"
		if c.Kind == model.KindIncome {
			marker = "📈"
		}
		fmt.Fprintf(&list, "• %s %s\n", c.Title, marker)
	}

	return "Você é o Plannito🤖, assistente financeiro do app Planno. Siga à risca:\n\n" +
		"1. Use APENAS estas categorias válidas:\n" + list.String() + "\n" +
		"2. Para registros financeiros, extraia o valor (ex: R$ 50,00 → \"50.00\"), " +
		"a categoria e o tipo (\"income\" ou \"expense\").\n" +
		"3. Nunca invente categorias nem aceite valores inválidos.\n\n" +
		"Responda SOMENTE com JSON neste formato:\n" +
		`{"type":"form"|"message","data":{"value":string,"category":string,"type":string,"description":string},"content":string}`
}

// Classify sends the message to Claude and validates the extracted
// category server-side: an inexact category falls back to a plain
// reply listing close matches instead of being passed through.
func (a *Anthropic) Classify(ctx context.Context, text string, valid []model.Category) (Intent, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: buildPrompt(valid)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		return Intent{Kind: IntentError}, errors.Wrap(err, "classifier call failed")
	}

	var responseText string
	for _, block := range message.Content {
		if block.Type == "text" {
			responseText += block.Text
		}
	}

	return parseResponse(responseText, valid)
}

// parseResponse turns raw model output into an Intent.
func parseResponse(responseText string, valid []model.Category) (Intent, error) {
	// The model may wrap the JSON in a code fence; take the outermost
	// object.
	start := strings.Index(responseText, "{")
	end := strings.LastIndex(responseText, "}")
	if start == -1 || end == -1 || end < start {
		return Intent{Kind: IntentError}, errors.Errorf("no JSON in classifier response: %q", responseText)
	}

	var parsed modelResponse
	if err := json.Unmarshal([]byte(responseText[start:end+1]), &parsed); err != nil {
		return Intent{Kind: IntentError}, errors.Wrap(err, "failed to parse classifier response")
	}

	if parsed.Type != "form" {
		return Intent{Kind: IntentPlain, Text: parsed.Content}, nil
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(parsed.Data.Value))
	if err != nil || parsed.Data.Category == "" {
		return Intent{Kind: IntentError}, errors.New("classifier returned an incomplete form")
	}

	if verdict := ValidateCategory(parsed.Data.Category, valid); !verdict.ExactMatch && len(verdict.Suggestions) > 0 {
		// Close but not exact: hand the ambiguity back to the user
		// rather than guessing on their behalf.
		return Intent{
			Kind: IntentPlain,
			Text: fmt.Sprintf("🔍 Categoria %q não encontrada. Você quis dizer: %s?",
				parsed.Data.Category, strings.Join(verdict.Suggestions, ", ")),
		}, nil
	}

	intent := Intent{
		Kind:        IntentStructured,
		Amount:      amount,
		Category:    parsed.Data.Category,
		Description: parsed.Data.Desc,
	}
	switch parsed.Data.Type {
	case string(model.KindIncome):
		intent.TxKind = model.KindIncome
	case string(model.KindExpense):
		intent.TxKind = model.KindExpense
	}
	return intent, nil
}
