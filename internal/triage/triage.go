// Package triage asks a language model which budget item an unmatched
// transaction most likely belongs to. Suggestions are advisory: they are
// appended to the debug note and never change the classification.
package triage

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Suggester proposes a recurring item ID for a transaction. An empty ID means
// no suggestion.
type Suggester interface {
	Suggest(ctx context.Context, tx *models.Transaction, items []models.RecurringDefinition) (string, error)
}

// NoopSuggester never suggests anything. It is used when AI triage is disabled.
type NoopSuggester struct{}

// Suggest implements Suggester.
func (NoopSuggester) Suggest(context.Context, *models.Transaction, []models.RecurringDefinition) (string, error) {
	return "", nil
}

// Triager annotates unmatched transactions with suggestions.
type Triager struct {
	suggester Suggester
	logger    logging.Logger
}

// NewTriager creates a triager; a nil suggester disables it.
func NewTriager(s Suggester, logger logging.Logger) *Triager {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if s == nil {
		s = NoopSuggester{}
	}
	return &Triager{suggester: s, logger: logger}
}

// Annotate appends "AI suggests <id>" to the debug note of every unmatched
// transaction the suggester has an opinion on. It returns the number of
// suggestions made. Suggester errors are logged and skipped.
func (t *Triager) Annotate(ctx context.Context, txs []*models.Transaction, items []models.RecurringDefinition) int {
	if _, noop := t.suggester.(NoopSuggester); noop {
		return 0
	}
	known := make(map[string]bool, len(items))
	for _, it := range items {
		known[it.ID] = true
	}

	suggested := 0
	for _, tx := range txs {
		if tx.Classification.Type != models.MatchUnmatched {
			continue
		}
		if err := ctx.Err(); err != nil {
			t.logger.WithError(err).Warn("Triage interrupted")
			break
		}
		id, err := t.suggester.Suggest(ctx, tx, items)
		if err != nil {
			t.logger.WithError(err).Warn("Triage suggestion failed",
				logging.Field{Key: logging.FieldTransactionID, Value: tx.ID})
			continue
		}
		if id == "" || !known[id] {
			continue
		}
		note := "AI suggests " + id
		if tx.Classification.DebugNote != "" {
			note = tx.Classification.DebugNote + "; " + note
		}
		tx.Classification.DebugNote = note
		suggested++
		t.logger.Debug("Triage suggestion",
			logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
			logging.Field{Key: logging.FieldRecurringID, Value: id})
	}

	t.logger.Info("Triage complete", logging.Field{Key: logging.FieldCount, Value: suggested})
	return suggested
}

// GeminiSuggester asks a Gemini model.
type GeminiSuggester struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	timeout time.Duration
}

// NewGeminiSuggester creates a Gemini client for model.
func NewGeminiSuggester(ctx context.Context, apiKey, model string, timeout time.Duration) (*GeminiSuggester, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	m := client.GenerativeModel(model)
	m.SetTemperature(0)
	return &GeminiSuggester{client: client, model: m, timeout: timeout}, nil
}

// Close releases the client.
func (g *GeminiSuggester) Close() error {
	return g.client.Close()
}

// Suggest implements Suggester.
func (g *GeminiSuggester) Suggest(ctx context.Context, tx *models.Transaction, items []models.RecurringDefinition) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(tx, items)))
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini API")
	}
	return ParseSuggestion(fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])), nil
}

// BuildPrompt lists the budget items and the transaction to place.
func BuildPrompt(tx *models.Transaction, items []models.RecurringDefinition) string {
	sorted := make([]models.RecurringDefinition, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var b strings.Builder
	b.WriteString("Assign this personal finance transaction to one budget item.\n\n")
	fmt.Fprintf(&b, "Transaction:\n- Name: %s\n- Merchant: %s\n- Amount: %s %s\n- Category: %s / %s\n- Date: %s\n- Project: %s\n\n",
		tx.Name, tx.Merchant, tx.Amount.String(), tx.Currency, tx.Category, tx.SubCategory, tx.Date, tx.Project)
	b.WriteString("Budget items:\n")
	for _, it := range sorted {
		fmt.Fprintf(&b, "- %s: %s (%s, %s)\n", it.ID, it.Name, it.Type, it.Category)
	}
	b.WriteString("\nRespond in this format:\nItem: [ID or NONE]")
	return b.String()
}

var itemPattern = regexp.MustCompile(`(?i)item:\s*([A-Za-z]+\d+|none)`)

// ParseSuggestion extracts the ID from a model reply. "NONE" and replies
// without the expected line yield "".
func ParseSuggestion(reply string) string {
	m := itemPattern.FindStringSubmatch(reply)
	if m == nil || strings.EqualFold(m[1], "none") {
		return ""
	}
	return strings.ToUpper(m[1])
}
