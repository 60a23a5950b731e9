package classifier

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/moze-ledger/internal/dateutils"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/store"

	"github.com/shopspring/decimal"
)

// TagRule matches "#R12" style tags naming a known recurring item.
type TagRule struct {
	prefix  string
	pattern *regexp.Regexp
}

// NewTagRule builds a tag rule for the given letter prefix, matched case-insensitively.
func NewTagRule(prefix string) *TagRule {
	prefix = strings.ToUpper(strings.TrimSpace(prefix))
	if prefix == "" {
		prefix = "R"
	}
	return &TagRule{
		prefix:  prefix,
		pattern: regexp.MustCompile(`(?i)#` + regexp.QuoteMeta(prefix) + `(\d+)`),
	}
}

func (r *TagRule) Name() string { return "Tag" }

func (r *TagRule) Apply(tx *models.Transaction, ref *Reference) (Outcome, bool) {
	m := r.pattern.FindStringSubmatch(tx.Tag)
	if m == nil || ref == nil {
		return Outcome{}, false
	}
	id := r.prefix + m[1]
	def, ok := ref.Recurring[id]
	if !ok {
		return Outcome{}, false
	}
	return Outcome{Classification: models.Classification{
		Type:       models.MatchTag,
		TargetID:   id,
		TargetName: def.Name,
		DebugNote:  "Matched Tag: " + tx.Tag,
	}}, true
}

// ProjectKeywordRule maps project labels containing a group keyword to the
// group's budget item.
type ProjectKeywordRule struct {
	groups []store.KeywordGroup
}

func NewProjectKeywordRule(groups []store.KeywordGroup) *ProjectKeywordRule {
	return &ProjectKeywordRule{groups: groups}
}

func (r *ProjectKeywordRule) Name() string { return "ProjectKeyword" }

func (r *ProjectKeywordRule) Apply(tx *models.Transaction, ref *Reference) (Outcome, bool) {
	if strings.TrimSpace(tx.Project) == "" {
		return Outcome{}, false
	}
	for _, g := range r.groups {
		for _, kw := range g.Keywords {
			if kw == "" || !containsFold(tx.Project, kw) {
				continue
			}
			return Outcome{Classification: models.Classification{
				Type:       models.MatchProjectBudget,
				TargetID:   g.ID,
				TargetName: ref.recurringName(g.ID, g.DefaultName),
				DebugNote:  "Matched Project: " + tx.Project,
			}}, true
		}
	}
	return Outcome{}, false
}

// ProjectEventRule links a project label to a GlobalTravel one-off event when
// either name contains the other. Labels are compared as written; a blank
// label or event name never matches.
type ProjectEventRule struct{}

func (ProjectEventRule) Name() string { return "ProjectEvent" }

func (ProjectEventRule) Apply(tx *models.Transaction, ref *Reference) (Outcome, bool) {
	project := tx.Project
	if strings.TrimSpace(project) == "" || ref == nil {
		return Outcome{}, false
	}
	for _, e := range ref.TravelEvents {
		name := e.Name
		if strings.TrimSpace(name) == "" {
			continue
		}
		if strings.Contains(name, project) || strings.Contains(project, name) {
			return Outcome{Classification: models.Classification{
				Type:       models.MatchProjectEvent,
				TargetID:   e.ID,
				TargetName: e.Name,
				DebugNote:  "Matched Project: " + tx.Project,
			}}, true
		}
	}
	return Outcome{}, false
}

// TechFeeRule separates the annual technician licence fee: the large payout
// in the configured month is income, every other instance is amortized
// elsewhere and ignored here.
type TechFeeRule struct {
	Keyword   string
	Month     int
	Threshold decimal.Decimal
}

func (r *TechFeeRule) Name() string { return "TechnicianFee" }

func (r *TechFeeRule) Apply(tx *models.Transaction, _ *Reference) (Outcome, bool) {
	if r.Keyword == "" || !(strings.Contains(tx.SubCategory, r.Keyword) || strings.Contains(tx.Name, r.Keyword)) {
		return Outcome{}, false
	}
	if r.isIncome(tx) {
		return Outcome{
			Classification: models.Classification{Type: models.MatchTechFeeIncome, TargetName: models.TechFeeIncomeName},
			Status:         models.StatusTechFeeIncome,
		}, true
	}
	return Outcome{
		Classification: models.Classification{Type: models.MatchIgnoreTechFee},
		Status:         models.StatusTechFeeIgnored,
	}, true
}

func (r *TechFeeRule) isIncome(tx *models.Transaction) bool {
	d, err := dateutils.ParseDate(tx.Date)
	if err != nil || int(d.Month()) != r.Month {
		return false
	}
	return tx.Amount.GreaterThanOrEqual(r.Threshold)
}

// TransferRule ignores transfers between own accounts and card settlements.
type TransferRule struct{}

func (TransferRule) Name() string { return "Transfer" }

func (TransferRule) Apply(tx *models.Transaction, _ *Reference) (Outcome, bool) {
	if !tx.IsTransfer() {
		return Outcome{}, false
	}
	return Outcome{
		Classification: models.Classification{Type: models.MatchIgnoreTransfer},
		Status:         models.StatusTransferIgnored,
	}, true
}

// ReceivableRule parks receivables and refunds with a named counterparty for netting.
type ReceivableRule struct{}

func (ReceivableRule) Name() string { return "Receivable" }

func (ReceivableRule) Apply(tx *models.Transaction, _ *Reference) (Outcome, bool) {
	if !tx.IsReceivable() || strings.TrimSpace(tx.Counterparty) == "" {
		return Outcome{}, false
	}
	return Outcome{
		Classification: models.Classification{Type: models.MatchReceivable},
		Status:         models.StatusReceivableCheck,
	}, true
}

// IncomeRule books income without a budget item under a per-subcategory line.
type IncomeRule struct{}

func (IncomeRule) Name() string { return "UnmatchedIncome" }

func (IncomeRule) Apply(tx *models.Transaction, _ *Reference) (Outcome, bool) {
	if !tx.IsIncome() {
		return Outcome{}, false
	}
	sub := strings.TrimSpace(tx.SubCategory)
	if sub == "" {
		sub = models.DefaultIncomeSubLabel
	}
	return Outcome{
		Classification: models.Classification{
			Type:       models.MatchUnmatchedIncome,
			TargetID:   "INC_" + sub,
			TargetName: "非固定收入/" + sub,
		},
		Status: "Income: " + sub,
	}, true
}

func fallbackOutcome(tx *models.Transaction) Outcome {
	return Outcome{
		Classification: models.Classification{
			Type:       models.MatchUnmatched,
			TargetName: models.StatusWaitingRules,
			DebugNote:  fmt.Sprintf("[%s] Proj:%s", tx.Name, tx.Project),
		},
		Status: models.StatusWaitingRules,
	}
}
