// Package importer turns an exported bookkeeping CSV into transactions with
// stable IDs, carrying forward manual actions recorded in earlier runs.
package importer

import (
	"bufio"
	"bytes"
	"io"
	"sort"
	"strings"

	"fjacquet/moze-ledger/internal/currencyutils"
	"fjacquet/moze-ledger/internal/dateutils"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/syncerror"

	"github.com/gocarina/gocsv"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Record is one source row keyed by its canonical field name.
type Record map[string]string

// Importer parses source exports.
type Importer struct {
	baseCurrency string
	logger       logging.Logger
}

// NewImporter creates an importer. Rows without a currency are booked in
// baseCurrency.
func NewImporter(baseCurrency string, logger logging.Logger) *Importer {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if baseCurrency == "" {
		baseCurrency = models.DefaultBaseCurrency
	}
	return &Importer{baseCurrency: baseCurrency, logger: logger}
}

// Parse reads CSV records from r. A leading byte-order mark is ignored and
// header names are trimmed. Blank lines are skipped.
func (im *Importer) Parse(source string, r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &syncerror.ImportError{Source: source, Reason: "unreadable input", Err: err}
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	maps, err := gocsv.CSVToMaps(bufio.NewReader(bytes.NewReader(data)))
	if err != nil {
		return nil, &syncerror.ImportError{Source: source, Reason: "malformed CSV", Err: err}
	}

	records := make([]Record, 0, len(maps))
	for _, m := range maps {
		rec := make(Record, len(m))
		blank := true
		for k, v := range m {
			rec[strings.TrimSpace(k)] = v
			if strings.TrimSpace(v) != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		records = append(records, rec)
	}

	im.logger.Info("Parsed source export",
		logging.Field{Key: logging.FieldInputFile, Value: source},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return records, nil
}

// Build maps records to transactions. manual holds actions persisted against
// transaction IDs by earlier runs; matching IDs get them back.
func (im *Importer) Build(records []Record, manual map[string]models.ManualAction) []*models.Transaction {
	txs := make([]*models.Transaction, 0, len(records))
	preserved := 0
	for _, rec := range records {
		tx := FromRecord(rec, im.baseCurrency)
		if action, ok := manual[tx.ID]; ok {
			tx.ManualAction = action
			preserved++
		}
		txs = append(txs, tx)
	}
	im.logger.Info("Built transactions",
		logging.Field{Key: logging.FieldCount, Value: len(txs)},
		logging.Field{Key: "manual_actions_preserved", Value: preserved})
	return txs
}

// Import parses and builds in one step.
func (im *Importer) Import(source string, r io.Reader, manual map[string]models.ManualAction) ([]*models.Transaction, error) {
	records, err := im.Parse(source, r)
	if err != nil {
		return nil, err
	}
	return im.Build(records, manual), nil
}

// FromRecord maps one source record. Missing fields read as empty; unparsable
// amounts as zero; a missing currency as baseCurrency.
func FromRecord(rec Record, baseCurrency string) *models.Transaction {
	date := rec[models.SourceDate]
	return &models.Transaction{
		ID: models.TransactionID(
			date,
			rec[models.SourceTime],
			rec[models.SourceName],
			rec[models.SourceAmount],
			rec[models.SourceCurrency],
			rec[models.SourceCategory],
			rec[models.SourceSubCategory],
			rec[models.SourceBalance],
		),
		YearMonth:    dateutils.YearMonth(date),
		Account:      rec[models.SourceAccount],
		Currency:     orDefault(rec[models.SourceCurrency], baseCurrency),
		Type:         orDefault(rec[models.SourceType], models.TypeExpenseEN),
		Category:     rec[models.SourceCategory],
		SubCategory:  rec[models.SourceSubCategory],
		Amount:       currencyutils.ParseAmount(rec[models.SourceAmount]),
		Fee:          currencyutils.ParseAmount(rec[models.SourceFee]),
		Discount:     currencyutils.ParseAmount(rec[models.SourceDiscount]),
		Name:         rec[models.SourceName],
		Merchant:     rec[models.SourceMerchant],
		Date:         date,
		Time:         rec[models.SourceTime],
		Project:      rec[models.SourceProject],
		Description:  rec[models.SourceDescription],
		Tag:          rec[models.SourceTag],
		Counterparty: rec[models.SourceCounterparty],
	}
}

// TouchedMonths lists the distinct non-empty months of txs, sorted.
func TouchedMonths(txs []*models.Transaction) []string {
	seen := make(map[string]bool)
	var months []string
	for _, tx := range txs {
		if tx.YearMonth == "" || seen[tx.YearMonth] {
			continue
		}
		seen[tx.YearMonth] = true
		months = append(months, tx.YearMonth)
	}
	sort.Strings(months)
	return months
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
