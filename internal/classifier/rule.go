package classifier

import (
	"strings"

	"fjacquet/moze-ledger/internal/models"
)

// Rule is one step of the classification cascade. Apply is pure: it inspects
// the transaction and reference data and reports an outcome when it matches.
type Rule interface {
	Apply(tx *models.Transaction, ref *Reference) (Outcome, bool)
	Name() string
}

// Outcome is what a matching rule decides. An empty Status means the
// classifier writes the generic "Matched: <id>" status.
type Outcome struct {
	Classification models.Classification
	Status         string
}

// Reference is the lookup data rules consult during one run.
type Reference struct {
	Recurring    map[string]models.RecurringDefinition
	TravelEvents []models.OneOffEvent
}

// NewReference indexes recurring definitions by ID and keeps the
// GlobalTravel one-off events.
func NewReference(recurring []models.RecurringDefinition, events []models.OneOffEvent) *Reference {
	ref := &Reference{Recurring: make(map[string]models.RecurringDefinition, len(recurring))}
	for _, r := range recurring {
		if r.ID == "" {
			continue
		}
		ref.Recurring[r.ID] = r
	}
	for _, e := range events {
		if e.Category == models.CategoryGlobalTravel {
			ref.TravelEvents = append(ref.TravelEvents, e)
		}
	}
	return ref
}

func (r *Reference) recurringName(id, fallback string) string {
	if r != nil {
		if def, ok := r.Recurring[id]; ok && def.Name != "" {
			return def.Name
		}
	}
	return fallback
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
