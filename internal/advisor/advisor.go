// internal/advisor/advisor.go
//
// Advisory word lookup backed by Gemini. Purely informational: the ledger
// never consults it, and every failure surfaces as "no advice" to the
// caller, never as a crash past this boundary.

package advisor

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

const definePrompt = `Define the word %q in the context of Scrabble using Merriam Dictionary. Keep it brief (max 30 words). Output VALID or INVALID followed by the definition.`

// Client wraps the Google GenAI client.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a client against the Gemini API using an API key.
// model may be empty to use the default.
func New(ctx context.Context, apiKey, model string) (*Client, error) {
	if model == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Client{client: client, model: model}, nil
}

// Define asks Gemini for a short verdict-prefixed definition of word.
// Words shorter than two letters return empty advice without a lookup.
func (c *Client) Define(ctx context.Context, word string) (string, error) {
	word = strings.TrimSpace(word)
	if utf8.RuneCountInString(word) < 2 {
		return "", nil
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: fmt.Sprintf(definePrompt, word)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:     genai.Ptr(float32(0.5)),
			MaxOutputTokens: 200,
			ThinkingConfig:  &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(int32(100))},
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return strings.TrimSpace(resp.Text()), nil
}

// Verdict is the optional legality token prefixed to advice text.
type Verdict string

const (
	VerdictValid   Verdict = "VALID"
	VerdictInvalid Verdict = "INVALID"
	VerdictNone    Verdict = ""
)

// Advice is a parsed checker response.
type Advice struct {
	Verdict Verdict `json:"verdict,omitempty"`
	Text    string  `json:"text"`
}

// ParseAdvice splits an optional VALID/INVALID prefix off the raw response
// text. Without a recognizable prefix the whole text is informational only.
func ParseAdvice(raw string) Advice {
	raw = strings.TrimSpace(raw)
	token, rest, _ := strings.Cut(raw, " ")
	switch strings.ToUpper(strings.Trim(token, ":,.!")) {
	case string(VerdictValid):
		return Advice{Verdict: VerdictValid, Text: strings.TrimSpace(rest)}
	case string(VerdictInvalid):
		return Advice{Verdict: VerdictInvalid, Text: strings.TrimSpace(rest)}
	}
	return Advice{Verdict: VerdictNone, Text: raw}
}
