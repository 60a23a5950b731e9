// Package repository maps row-store tables to domain records.
package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"fjacquet/moze-ledger/internal/currencyutils"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/rowstore"
)

// Tables names the tables the repository reads and writes.
type Tables struct {
	Transactions    string
	Ledger          string
	Recurring       string
	OneOff          string
	Assets          string
	AssetHistory    string
	InsurancePrefix string
	DebtPrefix      string
}

// DefaultTables returns the stock spreadsheet tab names.
func DefaultTables() Tables {
	return Tables{
		Transactions:    "Raw_Transactions",
		Ledger:          "Expense_History",
		Recurring:       "Recurring_Items",
		OneOff:          "One_Off_Events",
		Assets:          "Assets_Inventory",
		AssetHistory:    "Assets_History",
		InsurancePrefix: "Insurance_",
		DebtPrefix:      "Debt_",
	}
}

// Insurance returns the detail table name of a policy.
func (t Tables) Insurance(id string) string {
	return t.InsurancePrefix + id
}

// Debt returns the schedule table name of a loan.
func (t Tables) Debt(id string) string {
	return t.DebtPrefix + id
}

// Repository reads and writes domain records through a row store.
type Repository struct {
	store        rowstore.Store
	tables       Tables
	baseCurrency string
	now          func() time.Time
	logger       logging.Logger
}

// Option customizes a Repository.
type Option func(*Repository)

// WithBaseCurrency sets the currency of reference rows that leave it blank.
func WithBaseCurrency(code string) Option {
	return func(r *Repository) {
		if code = strings.ToUpper(strings.TrimSpace(code)); code != "" {
			r.baseCurrency = code
		}
	}
}

// WithClock sets the time source used to stamp history rows.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// New creates a repository over store.
func New(store rowstore.Store, tables Tables, logger logging.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = logging.GetLogger()
	}
	r := &Repository{
		store:        store,
		tables:       tables,
		baseCurrency: models.DefaultBaseCurrency,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tables returns the configured table names.
func (r *Repository) Tables() Tables { return r.tables }

// LoadTransactions reads the persisted transactions.
func (r *Repository) LoadTransactions(ctx context.Context) ([]*models.Transaction, error) {
	rows, err := r.store.FetchRows(ctx, r.tables.Transactions)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, TransactionFromRow(row))
	}
	return out, nil
}

// ManualActions indexes the non-empty manual actions of persisted transactions by ID.
func ManualActions(txs []*models.Transaction) map[string]models.ManualAction {
	out := make(map[string]models.ManualAction)
	for _, tx := range txs {
		if tx.ID != "" && tx.ManualAction != models.ActionNone {
			out[tx.ID] = tx.ManualAction
		}
	}
	return out
}

// SaveTransactions rewrites the transactions table: persisted rows of months
// outside touchedMonths are kept in order, then txs are appended.
func (r *Repository) SaveTransactions(ctx context.Context, txs []*models.Transaction, touchedMonths []string) error {
	existing, err := r.store.FetchRows(ctx, r.tables.Transactions)
	if err != nil {
		return err
	}

	touched := make(map[string]bool, len(touchedMonths))
	for _, m := range touchedMonths {
		touched[m] = true
	}

	rows := make([]rowstore.Row, 0, len(existing)+len(txs))
	kept := 0
	for _, row := range existing {
		if touched[row[models.ColYearMonth]] {
			continue
		}
		rows = append(rows, row)
		kept++
	}
	for _, tx := range txs {
		rows = append(rows, TransactionRow(tx))
	}

	if err := r.store.ReplaceRows(ctx, r.tables.Transactions, models.TransactionColumns, rows); err != nil {
		return err
	}
	r.logger.Info("Saved transactions",
		logging.Field{Key: logging.FieldTable, Value: r.tables.Transactions},
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "kept_rows", Value: kept},
		logging.Field{Key: "months", Value: strings.Join(touchedMonths, ",")})
	return nil
}

// SaveLedger overwrites the ledger table.
func (r *Repository) SaveLedger(ctx context.Context, entries []models.LedgerEntry) error {
	rows := make([]rowstore.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, LedgerRow(e))
	}
	if err := r.store.ReplaceRows(ctx, r.tables.Ledger, models.LedgerColumns, rows); err != nil {
		return err
	}
	r.logger.Info("Saved ledger",
		logging.Field{Key: logging.FieldTable, Value: r.tables.Ledger},
		logging.Field{Key: logging.FieldCount, Value: len(entries)})
	return nil
}

// LoadLedger reads the persisted ledger.
func (r *Repository) LoadLedger(ctx context.Context) ([]models.LedgerEntry, error) {
	rows, err := r.store.FetchRows(ctx, r.tables.Ledger)
	if err != nil {
		return nil, err
	}
	out := make([]models.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, LedgerFromRow(row))
	}
	return out, nil
}

// LoadRecurring reads the budget lines.
func (r *Repository) LoadRecurring(ctx context.Context) ([]models.RecurringDefinition, error) {
	rows, err := r.store.FetchRows(ctx, r.tables.Recurring)
	if err != nil {
		return nil, err
	}
	out := make([]models.RecurringDefinition, 0, len(rows))
	for i, row := range rows {
		out = append(out, RecurringFromRow(row, i, r.baseCurrency))
	}
	return out, nil
}

// LoadOneOffs reads the one-off events.
func (r *Repository) LoadOneOffs(ctx context.Context) ([]models.OneOffEvent, error) {
	rows, err := r.store.FetchRows(ctx, r.tables.OneOff)
	if err != nil {
		return nil, err
	}
	out := make([]models.OneOffEvent, 0, len(rows))
	for i, row := range rows {
		out = append(out, OneOffFromRow(row, i))
	}
	return out, nil
}

// LoadAssets reads the asset inventory.
func (r *Repository) LoadAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := r.store.FetchRows(ctx, r.tables.Assets)
	if err != nil {
		return nil, err
	}
	out := make([]models.Asset, 0, len(rows))
	for i, row := range rows {
		out = append(out, AssetFromRow(row, i, r.baseCurrency))
	}
	return out, nil
}

// LoadInsurance reads the detail table of each policy. A policy whose table
// cannot be read is logged and left out.
func (r *Repository) LoadInsurance(ctx context.Context, ids []string) map[string][]models.InsuranceYearRecord {
	out := make(map[string][]models.InsuranceYearRecord, len(ids))
	for _, id := range ids {
		table := r.tables.Insurance(id)
		rows, err := r.store.FetchRows(ctx, table)
		if err != nil {
			r.logger.WithError(err).Warn("Failed to read insurance details",
				logging.Field{Key: logging.FieldTable, Value: table})
			continue
		}
		records := make([]models.InsuranceYearRecord, 0, len(rows))
		for _, row := range rows {
			records = append(records, InsuranceFromRow(row))
		}
		out[id] = records
	}
	return out
}

// TransactionRow renders a transaction for persistence.
func TransactionRow(tx *models.Transaction) rowstore.Row {
	return rowstore.Row{
		models.ColID:            tx.ID,
		models.ColYearMonth:     tx.YearMonth,
		models.ColAccount:       tx.Account,
		models.ColCurrency:      tx.Currency,
		models.ColType:          tx.Type,
		models.ColCategory:      tx.Category,
		models.ColSubCategory:   tx.SubCategory,
		models.ColAmount:        tx.Amount.String(),
		models.ColFee:           tx.Fee.String(),
		models.ColDiscount:      tx.Discount.String(),
		models.ColName:          tx.Name,
		models.ColMerchant:      tx.Merchant,
		models.ColDate:          tx.Date,
		models.ColTime:          tx.Time,
		models.ColProject:       tx.Project,
		models.ColDescription:   tx.Description,
		models.ColTag:           tx.Tag,
		models.ColCounterparty:  tx.Counterparty,
		models.ColMatchStatus:   tx.MatchStatus,
		models.ColManualAction:  string(tx.ManualAction),
		models.ColActionOptions: models.ActionOptionsText,
		models.ColActionDesc:    models.ActionDescriptionText,
	}
}

// TransactionFromRow reads a persisted transaction.
func TransactionFromRow(row rowstore.Row) *models.Transaction {
	return &models.Transaction{
		ID:           strings.TrimSpace(row[models.ColID]),
		YearMonth:    row[models.ColYearMonth],
		Account:      row[models.ColAccount],
		Currency:     row[models.ColCurrency],
		Type:         row[models.ColType],
		Category:     row[models.ColCategory],
		SubCategory:  row[models.ColSubCategory],
		Amount:       currencyutils.ParseAmount(row[models.ColAmount]),
		Fee:          currencyutils.ParseAmount(row[models.ColFee]),
		Discount:     currencyutils.ParseAmount(row[models.ColDiscount]),
		Name:         row[models.ColName],
		Merchant:     row[models.ColMerchant],
		Date:         row[models.ColDate],
		Time:         row[models.ColTime],
		Project:      row[models.ColProject],
		Description:  row[models.ColDescription],
		Tag:          row[models.ColTag],
		Counterparty: row[models.ColCounterparty],
		MatchStatus:  row[models.ColMatchStatus],
		ManualAction: models.ManualAction(strings.TrimSpace(row[models.ColManualAction])),
	}
}

// LedgerRow renders a ledger line. Amounts keep two decimals at most.
func LedgerRow(e models.LedgerEntry) rowstore.Row {
	return rowstore.Row{
		models.ColLedgerMonth:  e.YearMonth,
		models.ColLedgerItemID: e.ID,
		models.ColLedgerName:   e.Name,
		models.ColLedgerAmount: e.ActualAmount.Round(2).String(),
		models.ColLedgerNote:   e.Note,
	}
}

// LedgerFromRow reads a ledger line.
func LedgerFromRow(row rowstore.Row) models.LedgerEntry {
	return models.LedgerEntry{
		YearMonth:    row[models.ColLedgerMonth],
		ID:           row[models.ColLedgerItemID],
		Name:         row[models.ColLedgerName],
		ActualAmount: currencyutils.ParseAmount(row[models.ColLedgerAmount]),
		Note:         row[models.ColLedgerNote],
	}
}

// RecurringFromRow reads a budget line; blanks get the spreadsheet's defaults.
func RecurringFromRow(row rowstore.Row, index int, baseCurrency string) models.RecurringDefinition {
	return models.RecurringDefinition{
		ID:            orDefault(row[models.ColRefID], fmt.Sprintf("R%d", index)),
		Name:          orDefault(row[models.ColRefName], "Unnamed Item"),
		Type:          orDefault(row[models.ColRefType], models.TypeExpenseEN),
		Category:      orDefault(row[models.ColRefCategory], "General"),
		CategoryName:  strings.TrimSpace(row[models.ColRefCategoryName]),
		AmountBase:    currencyutils.ParseAmount(row[models.ColRefAmountBase]),
		Currency:      strings.ToUpper(orDefault(row[models.ColRefCurrency], baseCurrency)),
		Frequency:     strings.TrimSpace(row[models.ColRefFrequency]),
		SpecificMonth: strings.TrimSpace(row[models.ColRefSpecificMonth]),
		PaymentDay:    strings.TrimSpace(row[models.ColRefPaymentDay]),
		StartDate:     strings.TrimSpace(row[models.ColRefStartDate]),
		EndDate:       strings.TrimSpace(row[models.ColRefEndDate]),
		Note:          row[models.ColRefNote],
	}
}

// OneOffFromRow reads a one-off event.
func OneOffFromRow(row rowstore.Row, index int) models.OneOffEvent {
	return models.OneOffEvent{
		ID:       orDefault(row[models.ColRefID], fmt.Sprintf("E%d", index)),
		Name:     orDefault(row[models.ColRefName], "Unnamed Event"),
		Type:     orDefault(row[models.ColRefType], models.TypeExpenseEN),
		Amount:   currencyutils.ParseAmount(row[models.ColRefAmount]),
		Date:     strings.TrimSpace(row[models.ColRefDate]),
		Category: strings.TrimSpace(row[models.ColRefCategory]),
		Status:   strings.TrimSpace(row[models.ColRefStatus]),
		Note:     row[models.ColRefNote],
	}
}

// AssetFromRow reads a holding.
func AssetFromRow(row rowstore.Row, index int, baseCurrency string) models.Asset {
	return models.Asset{
		ID:        orDefault(row[models.ColRefID], fmt.Sprintf("A%d", index)),
		Type:      orDefault(row[models.ColRefType], "Other"),
		Category:  orDefault(row[models.ColRefCategory], "Uncategorized"),
		Name:      orDefault(row[models.ColRefName], "Unknown Asset"),
		Quantity:  currencyutils.ParseAmount(row[models.ColRefQuantity]),
		Currency:  strings.ToUpper(orDefault(row[models.ColRefCurrency], baseCurrency)),
		Location:  row[models.ColRefLocation],
		Note:      row[models.ColRefNote],
		UnitPrice: currencyutils.ParseAmount(row[models.ColRefUnitPrice]),
	}
}

// InsuranceFromRow reads one policy year.
func InsuranceFromRow(row rowstore.Row) models.InsuranceYearRecord {
	return models.InsuranceYearRecord{
		PaymentDate:     strings.TrimSpace(row[models.ColInsPaymentDate]),
		PremiumTotal:    currencyutils.ParseAmount(row[models.ColInsPremiumTotal]),
		ActualYearEnd:   currencyutils.ParseAmount(row[models.ColInsActualYearEnd]),
		ExpectedYearEnd: currencyutils.ParseAmount(row[models.ColInsExpectedYearEnd]),
		AccuSavings:     currencyutils.ParseAmount(row[models.ColInsAccuSavings]),
		InsuranceCost:   currencyutils.ParseAmount(row[models.ColInsCost]),
		Year:            strings.TrimSpace(row[models.ColInsYear]),
		EndDate:         strings.TrimSpace(row[models.ColInsEndDate]),
		CalculationEXP:  currencyutils.ParseAmount(row[models.ColInsCalcEXP]),
		CalculationSAV:  currencyutils.ParseAmount(row[models.ColInsCalcSAV]),
		CalculationWIN:  currencyutils.ParseAmount(row[models.ColInsCalcWIN]),
	}
}

// LoadDebt reads the amortization schedule of a loan.
func (r *Repository) LoadDebt(ctx context.Context, id string) ([]models.DebtScheduleEntry, error) {
	rows, err := r.store.FetchRows(ctx, r.tables.Debt(id))
	if err != nil {
		return nil, err
	}
	out := make([]models.DebtScheduleEntry, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row[models.ColDebtPaymentDate]) == "" {
			continue
		}
		out = append(out, DebtFromRow(row))
	}
	return out, nil
}

// DebtFromRow reads one installment.
func DebtFromRow(row rowstore.Row) models.DebtScheduleEntry {
	return models.DebtScheduleEntry{
		PaymentDate: strings.TrimSpace(row[models.ColDebtPaymentDate]),
		Principal:   currencyutils.ParseAmount(row[models.ColDebtPrincipal]),
		Interest:    currencyutils.ParseAmount(row[models.ColDebtInterest]),
		Balance:     currencyutils.ParseAmount(row[models.ColDebtBalance]),
		Payment:     currencyutils.ParseAmount(row[models.ColDebtPayment]),
		TotalLoan:   currencyutils.ParseAmount(row[models.ColDebtTotal]),
	}
}

// UpdateAssets sets new quantities in the asset inventory and appends one
// history row per applied update. Updates naming an unknown holding are
// skipped. It returns the number of holdings changed.
func (r *Repository) UpdateAssets(ctx context.Context, updates []models.AssetUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	rows, err := r.store.FetchRows(ctx, r.tables.Assets)
	if err != nil {
		return 0, err
	}

	byID := make(map[string]models.AssetUpdate, len(updates))
	for _, u := range updates {
		byID[strings.TrimSpace(u.ID)] = u
	}

	now := r.now()
	var history []models.AssetHistoryRecord
	for i, row := range rows {
		id := strings.TrimSpace(row[models.ColRefID])
		u, ok := byID[id]
		if !ok || id == "" {
			continue
		}
		row[models.ColRefQuantity] = u.Quantity.String()
		history = append(history, HistoryFor(AssetFromRow(row, i, r.baseCurrency), now))
		delete(byID, id)
	}
	for id := range byID {
		r.logger.Warn("Asset not found in inventory, update skipped",
			logging.Field{Key: "asset_id", Value: id})
	}
	if len(history) == 0 {
		return 0, nil
	}

	if err := r.store.ReplaceRows(ctx, r.tables.Assets, headerFor(models.AssetColumns, rows), rows); err != nil {
		return 0, err
	}
	if err := r.appendHistory(ctx, history); err != nil {
		return len(history), fmt.Errorf("inventory updated but history not written: %w", err)
	}
	r.logger.Info("Updated asset inventory",
		logging.Field{Key: logging.FieldTable, Value: r.tables.Assets},
		logging.Field{Key: logging.FieldCount, Value: len(history)})
	return len(history), nil
}

func (r *Repository) appendHistory(ctx context.Context, records []models.AssetHistoryRecord) error {
	rows, err := r.store.FetchRows(ctx, r.tables.AssetHistory)
	if err != nil {
		return err
	}
	for _, h := range records {
		rows = append(rows, HistoryRow(h))
	}
	return r.store.ReplaceRows(ctx, r.tables.AssetHistory, headerFor(models.AssetHistoryColumns, rows), rows)
}

// HistoryFor builds the history entry for an updated holding. Bank and cash
// holdings log a balance update, everything else a holding update.
func HistoryFor(a models.Asset, at time.Time) models.AssetHistoryRecord {
	kind := models.HistoryHoldingUpdate
	if a.Category == "Bank" || a.Category == "Cash" {
		kind = models.HistoryBalanceUpdate
	}
	at = at.UTC()
	return models.AssetHistoryRecord{
		Date:      at.Format("2006-01-02"),
		AssetID:   a.ID,
		Name:      a.Name,
		Category:  a.Category,
		Type:      kind,
		Value:     a.Quantity,
		Unit:      a.Currency,
		UnitPrice: a.UnitPrice,
		LoggedAt:  at.Format(time.RFC3339),
	}
}

// HistoryRow renders a history entry.
func HistoryRow(h models.AssetHistoryRecord) rowstore.Row {
	return rowstore.Row{
		models.ColHistDate:      h.Date,
		models.ColHistAssetID:   h.AssetID,
		models.ColHistName:      h.Name,
		models.ColHistCategory:  h.Category,
		models.ColHistType:      h.Type,
		models.ColHistValue:     h.Value.String(),
		models.ColHistUnit:      h.Unit,
		models.ColHistUnitPrice: h.UnitPrice.String(),
		models.ColHistLoggedAt:  h.LoggedAt,
	}
}

// headerFor returns known followed by any other column present in rows, sorted.
func headerFor(known []string, rows []rowstore.Row) []string {
	header := append([]string(nil), known...)
	seen := make(map[string]bool, len(known))
	for _, col := range known {
		seen[col] = true
	}
	var extra []string
	for _, row := range rows {
		for col := range row {
			if col != "" && !seen[col] {
				seen[col] = true
				extra = append(extra, col)
			}
		}
	}
	sort.Strings(extra)
	return append(header, extra...)
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
