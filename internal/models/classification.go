package models

// MatchType discriminates the outcome of classifying a transaction.
type MatchType string

const (
	MatchNone             MatchType = ""
	MatchTag              MatchType = "TAG"
	MatchProjectBudget    MatchType = "PROJECT_BUDGET"
	MatchProjectEvent     MatchType = "PROJECT_EVENT"
	MatchTechFeeIncome    MatchType = "TECH_FEE_INCOME"
	MatchIgnoreTechFee    MatchType = "IGNORE_TECH_FEE"
	MatchIgnoreTransfer   MatchType = "IGNORE_TRANSFER"
	MatchReceivable       MatchType = "RECEIVABLE_PENDING"
	MatchUnmatchedIncome  MatchType = "UNMATCHED_INCOME"
	MatchUnmatched        MatchType = "UNMATCHED"
	MatchInferredExchange MatchType = "INFERRED_EXCHANGE"
)

// Classification is the tagged result attached to every transaction.
// TargetID and TargetName identify the budget line the amount rolls up to;
// they are empty for the ignore variants.
type Classification struct {
	Type       MatchType
	TargetID   string
	TargetName string
	DebugNote  string
}

// IsIgnored reports whether the aggregator must skip the transaction.
func (c Classification) IsIgnored() bool {
	switch c.Type {
	case MatchIgnoreTransfer, MatchIgnoreTechFee, MatchReceivable, MatchInferredExchange:
		return true
	}
	return false
}

// IsRecognized reports whether a rule other than the fallback produced c.
func (c Classification) IsRecognized() bool {
	return c.Type != MatchNone && c.Type != MatchUnmatched
}
