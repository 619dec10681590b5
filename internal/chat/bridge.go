package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"orcaview/internal/model"
)

const requestTimeout = 60 * time.Second

var (
	// ErrNoAPIKey indicates no Gemini key is configured.
	ErrNoAPIKey = errors.New("chat: chave da API Gemini não configurada")
	// ErrEmptyAnswer indicates the model returned no usable text.
	ErrEmptyAnswer = errors.New("chat: o modelo não retornou resposta")
)

const systemPrompt = `Você é um assistente de análise orçamentária. Abaixo está uma
tabela de execução orçamentária (valores em reais, separados por "|").
Responda à pergunta do usuário usando APENAS os dados da tabela.
Se a resposta não puder ser obtida a partir da tabela, diga isso claramente.
Se a tabela terminar com "` + TruncationMarker + `", avise que os dados estão
incompletos. Responda em português, de forma objetiva.`

// Bridge sends table-grounded questions to the Gemini API.
type Bridge struct {
	apiKey   string
	model    string
	maxChars int
}

// Exchange is one question/answer turn kept in the session history.
type Exchange struct {
	Question string
	Answer   string
	Failed   bool
	AskedAt  time.Time
}

// NewBridge creates a bridge for the given API key.
// Returns nil if the key is empty.
func NewBridge(apiKey, modelName string) *Bridge {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &Bridge{
		apiKey:   apiKey,
		model:    modelName,
		maxChars: DefaultMaxChars,
	}
}

// Ask sends the currently filtered table plus the question to the model
// and returns the answer text.
func (b *Bridge) Ask(ctx context.Context, recs []model.Record, question string) (string, error) {
	if b == nil {
		return "", ErrNoAPIKey
	}

	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  b.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("chat: criando cliente Gemini: %w", err)
	}

	prompt := BuildPrompt(recs, question, b.maxChars)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, b.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("chat: consultando o modelo: %w", err)
	}

	answer := strings.TrimSpace(resp.Text())
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	return answer, nil
}

// BuildPrompt assembles the full prompt shipped to the model: instructions,
// the serialized table, and the question.
func BuildPrompt(recs []model.Record, question string, maxChars int) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\nTabela:\n")
	b.WriteString(SerializeTable(recs, maxChars))
	b.WriteString("\nPergunta: ")
	b.WriteString(strings.TrimSpace(question))
	return b.String()
}

// History is an append-only record of the session's exchanges.
type History struct {
	exchanges []Exchange
}

// Add appends an exchange.
func (h *History) Add(e Exchange) {
	h.exchanges = append(h.exchanges, e)
}

// All returns the exchanges in ask order.
func (h *History) All() []Exchange {
	return h.exchanges
}

// Len returns the number of exchanges.
func (h *History) Len() int {
	return len(h.exchanges)
}
