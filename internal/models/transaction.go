// Package models defines the records that flow through the ledger pipeline:
// imported transactions, their classification, reference data and the
// aggregated ledger.
package models

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Transaction is one imported bookkeeping record plus its pipeline state.
type Transaction struct {
	ID        string
	YearMonth string

	Account      string
	Currency     string
	Type         string
	Category     string
	SubCategory  string
	Amount       decimal.Decimal
	Fee          decimal.Decimal
	Discount     decimal.Decimal
	Name         string
	Merchant     string
	Date         string
	Time         string
	Project      string
	Description  string
	Tag          string
	Counterparty string

	MatchStatus    string
	ManualAction   ManualAction
	Classification Classification
}

// TransactionID derives the stable identifier of a source record: the first
// 12 hex characters of the MD5 over the pipe-joined identity fields.
func TransactionID(date, tm, name, amount, currency, category, subCategory, balance string) string {
	key := strings.Join([]string{date, tm, name, amount, currency, category, subCategory, balance}, "|")
	sum := md5.Sum([]byte(key))
	return hex.EncodeToString(sum[:])[:12]
}

// Timestamp is the pairing key used to match the two legs of an exchange.
func (t *Transaction) Timestamp() string {
	return t.Date + "|" + t.Time
}

// IsType reports whether the record type equals any of the given spellings.
func (t *Transaction) IsType(types ...string) bool {
	for _, ty := range types {
		if t.Type == ty {
			return true
		}
	}
	return false
}

// IsTransfer reports transfers, including credit-card settlements.
func (t *Transaction) IsTransfer() bool {
	return t.IsType(TypeTransfer, TypeTransferEN) ||
		t.Category == CategoryTransfer ||
		t.IsCreditCard()
}

// IsCreditCard reports credit-card related records, which never form exchange pairs.
func (t *Transaction) IsCreditCard() bool {
	return strings.Contains(t.Category, CategoryCreditCard)
}

// IsIncome reports income records.
func (t *Transaction) IsIncome() bool {
	return t.IsType(TypeIncome, TypeIncomeEN)
}

// IsReceivable reports receivable and refund records.
func (t *Transaction) IsReceivable() bool {
	return t.IsType(TypeReceivable, TypeReceivableEN, TypeRefund, TypeRefundEN)
}

// IsPayable reports payable records. They are recognized but not netted.
func (t *Transaction) IsPayable() bool {
	return t.IsType(TypePayable)
}

// Gross returns amount + fee + discount, the figure rolled into the ledger.
func (t *Transaction) Gross() decimal.Decimal {
	return t.Amount.Add(t.Fee).Add(t.Discount)
}

// LegValue returns |amount + fee - discount|, the value of an exchange leg.
func (t *Transaction) LegValue() decimal.Decimal {
	return t.Amount.Add(t.Fee).Sub(t.Discount).Abs()
}
