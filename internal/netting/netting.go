// Package netting settles receivables: money advanced for someone, refunds
// and repayments are grouped per counterparty and description, and the net
// becomes a synthetic profit, loss or expense entry once it is decided.
package netting

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/moze-ledger/internal/currencyutils"
	"fjacquet/moze-ledger/internal/dateutils"
	"fjacquet/moze-ledger/internal/grouping"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"

	"github.com/shopspring/decimal"
)

// Netter nets pending receivables.
type Netter struct {
	baseCurrency string
	logger       logging.Logger
}

// NewNetter creates a netter that converts non-base legs with the rate table.
func NewNetter(baseCurrency string, logger logging.Logger) *Netter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if baseCurrency == "" {
		baseCurrency = models.DefaultBaseCurrency
	}
	return &Netter{baseCurrency: baseCurrency, logger: logger}
}

type groupKey struct {
	counterparty string
	name         string
}

// Net rewrites the status of every pending receivable and returns the
// synthetic entries produced by settled groups, in first-seen group order.
func (n *Netter) Net(txs []*models.Transaction, rates *models.RateTable) []models.SyntheticEntry {
	groups := grouping.By(txs, func(tx *models.Transaction) (groupKey, bool) {
		return groupKey{counterparty: tx.Counterparty, name: grouping.NormalizeText(tx.Name)},
			tx.Classification.Type == models.MatchReceivable
	})

	entries := grouping.Reduce(groups, func(_ groupKey, group []*models.Transaction) (models.SyntheticEntry, bool) {
		return n.settle(group, rates)
	})

	n.logger.Info("Netted receivables",
		logging.Field{Key: "groups", Value: groups.Len()},
		logging.Field{Key: "synthetic_entries", Value: len(entries)})
	return entries
}

func (n *Netter) settle(group []*models.Transaction, rates *models.RateTable) (models.SyntheticEntry, bool) {
	who := group[0].Counterparty
	if strings.TrimSpace(who) == "" {
		who = models.UnknownCounterparty
	}
	rawName := group[0].Name

	net := decimal.Zero
	action := models.ActionNone
	for _, tx := range group {
		if tx.ManualAction == models.ActionExclude {
			continue
		}
		net = net.Add(n.convert(tx, rates))
		if tx.ManualAction != models.ActionNone {
			action = tx.ManualAction
		}
	}

	status := groupStatus(action, net)
	for _, tx := range group {
		tx.MatchStatus = status
	}

	month := latestMonth(group)
	n.logger.Debug("Settled receivable group",
		logging.Field{Key: logging.FieldCounterparty, Value: who},
		logging.Field{Key: "net", Value: net.String()},
		logging.Field{Key: logging.FieldStatus, Value: status})

	switch {
	case action == models.ActionTreatExpense:
		return models.SyntheticEntry{
			YearMonth: month,
			ID:        models.SyntheticManualExpenseID,
			Name:      who + "代墊轉支出",
			Amount:    net.Abs().Neg(),
			Note:      fmt.Sprintf("Manual: 當作支出 [%s]", rawName),
		}, true
	case action == models.ActionIgnore:
		return models.SyntheticEntry{}, false
	case net.IsPositive():
		return models.SyntheticEntry{
			YearMonth: month,
			ID:        models.SyntheticProfitID,
			Name:      "差額收入/" + who,
			Amount:    net.Abs(),
			Note:      "Profit from " + rawName,
		}, true
	case net.IsNegative() && action == models.ActionClose:
		return models.SyntheticEntry{
			YearMonth: month,
			ID:        models.SyntheticLossID,
			Name:      "差額支出/" + who,
			Amount:    net.Abs().Neg(),
			Note:      "Loss closed: " + rawName,
		}, true
	}
	return models.SyntheticEntry{}, false
}

// convert returns the leg amount in base currency. Legs whose currency has no
// known rate are summed unconverted.
func (n *Netter) convert(tx *models.Transaction, rates *models.RateTable) decimal.Decimal {
	if tx.Currency == n.baseCurrency {
		return tx.Amount
	}
	if rate, ok := rates.Lookup(tx.Project, tx.YearMonth, tx.Currency); ok {
		return tx.Amount.Mul(rate)
	}
	n.logger.Warn("No rate for receivable leg, summing unconverted",
		logging.Field{Key: logging.FieldTransactionID, Value: tx.ID},
		logging.Field{Key: logging.FieldCurrency, Value: tx.Currency})
	return tx.Amount
}

func groupStatus(action models.ManualAction, net decimal.Decimal) string {
	switch action {
	case models.ActionTreatExpense:
		return models.StatusNettedExpense
	case models.ActionIgnore:
		return models.StatusNettedIgnored
	case models.ActionClose:
		if net.IsPositive() {
			return models.StatusNettedProfit
		}
		return models.StatusNettedClosedLoss
	}
	if net.IsPositive() {
		return models.StatusNettedProfit
	}
	return fmt.Sprintf("Receivable: Pending (Net: %s)", currencyutils.RoundHalfUp(net).String())
}

// latestMonth returns the month bucket of the most recently dated leg.
func latestMonth(group []*models.Transaction) string {
	sorted := make([]*models.Transaction, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, erri := dateutils.ParseDate(sorted[i].Date)
		tj, errj := dateutils.ParseDate(sorted[j].Date)
		if erri != nil || errj != nil {
			return sorted[i].Date > sorted[j].Date
		}
		return ti.After(tj)
	})
	return sorted[0].YearMonth
}
