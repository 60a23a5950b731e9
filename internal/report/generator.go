// Package report renders the ledger, projection and net-worth views for the
// terminal (text), for scripts (json) and for spreadsheets (csv).
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"fjacquet/moze-ledger/internal/currencyutils"
	"fjacquet/moze-ledger/internal/logging"
	"fjacquet/moze-ledger/internal/models"
	"fjacquet/moze-ledger/internal/networth"
	"fjacquet/moze-ledger/internal/projector"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// NetWorth is the valuation view.
type NetWorth struct {
	Currency     string             `json:"currency"`
	LiveRates    bool               `json:"live_rates"`
	Rates        models.Rates       `json:"rates"`
	Liquid       networth.Liquid    `json:"liquid"`
	Fixed        networth.Fixed     `json:"fixed"`
	InitialTotal decimal.Decimal    `json:"initial_total"`
	Liquidity    networth.Liquidity `json:"liquidity"`
	Allocation   []networth.Slice   `json:"allocation"`
}

// Generator renders reports.
type Generator struct {
	currency string
	logger   logging.Logger
}

// NewGenerator creates a generator displaying amounts in currency.
func NewGenerator(currency string, logger logging.Logger) *Generator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if currency == "" {
		currency = models.DefaultBaseCurrency
	}
	return &Generator{currency: currency, logger: logger}
}

func (g *Generator) money(d decimal.Decimal) string {
	return currencyutils.Display(d, g.currency)
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if f == format {
			return nil
		}
	}
	return fmt.Errorf("unsupported report format: %s", format)
}

func (g *Generator) writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return nil
}

// Ledger renders ledger lines.
func (g *Generator) Ledger(w io.Writer, entries []models.LedgerEntry, format string) error {
	if err := checkFormat(format, FormatText, FormatJSON, FormatCSV); err != nil {
		return err
	}
	switch format {
	case FormatJSON:
		return g.writeJSON(w, entries)
	case FormatCSV:
		csvw := gocsv.NewSafeCSVWriter(csv.NewWriter(w))
		if err := csvw.Write(models.LedgerColumns); err != nil {
			return err
		}
		for _, e := range entries {
			if err := csvw.Write([]string{e.YearMonth, e.ID, e.Name, e.ActualAmount.StringFixed(2), e.Note}); err != nil {
				return err
			}
		}
		csvw.Flush()
		return csvw.Error()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MONTH\tID\tNAME\tAMOUNT\tNOTE")
	month := ""
	total := decimal.Zero
	for _, e := range entries {
		if month != "" && e.YearMonth != month {
			fmt.Fprintf(tw, "\t\t%s total\t%s\t\n", month, g.money(total))
			total = decimal.Zero
		}
		month = e.YearMonth
		total = total.Add(e.ActualAmount)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.YearMonth, e.ID, e.Name, g.money(e.ActualAmount), shorten(e.Note, 60))
	}
	if month != "" {
		fmt.Fprintf(tw, "\t\t%s total\t%s\t\n", month, g.money(total))
	}
	return tw.Flush()
}

// Projection renders a twelve-month projection. With details set, the
// contributing line items are listed under each month.
func (g *Generator) Projection(w io.Writer, months []projector.Month, format string, details bool) error {
	if err := checkFormat(format, FormatText, FormatJSON); err != nil {
		return err
	}
	if format == FormatJSON {
		return g.writeJSON(w, months)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MONTH\tINCOME\tEXPENSE\tSAVINGS\tNET\tNET WORTH\t")
	for _, m := range months {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t\n", m.Label,
			g.money(m.Income), g.money(m.Expense), g.money(m.Savings), g.money(m.Net), g.money(m.ProjectedNetWorth))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if !details {
		return nil
	}

	for _, m := range months {
		fmt.Fprintf(w, "\n%s\n", m.Label)
		g.items(w, "income", m.IncomeItems)
		g.items(w, "expense", m.ExpenseItems)
		g.items(w, "savings", m.SavingsItems)
	}
	return nil
}

func (g *Generator) items(w io.Writer, label string, items []projector.LineItem) {
	for _, it := range items {
		mark := ""
		if it.IsConverted {
			mark = " *"
		}
		fmt.Fprintf(w, "  %-8s %-40s %s%s\n", label, it.Name, g.money(it.Amount), mark)
	}
}

// NetWorth renders the valuation.
func (g *Generator) NetWorth(w io.Writer, nw NetWorth, format string) error {
	if err := checkFormat(format, FormatText, FormatJSON); err != nil {
		return err
	}
	if format == FormatJSON {
		return g.writeJSON(w, nw)
	}

	source := "fallback"
	if nw.LiveRates {
		source = "live"
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Rates\t%s\n", source)
	fmt.Fprintf(tw, "Cash\t%s\n", g.money(nw.Liquid.Cash))
	fmt.Fprintf(tw, "Stock\t%s\n", g.money(nw.Liquid.Stock))
	fmt.Fprintf(tw, "Crypto\t%s\n", g.money(nw.Liquid.Crypto))
	fmt.Fprintf(tw, "Other\t%s\n", g.money(nw.Liquid.Other))
	fmt.Fprintf(tw, "House equity\t%s\n", g.money(nw.Fixed.House))
	fmt.Fprintf(tw, "Insurance cash value\t%s\n", g.money(nw.Fixed.Insurance))
	fmt.Fprintf(tw, "Net worth\t%s\n", g.money(nw.InitialTotal))
	if err := tw.Flush(); err != nil {
		return err
	}

	if e := nw.Liquidity.NextEvent; e != nil {
		fmt.Fprintf(w, "\nNext expense: %s on %s (%s)\n", e.Name, e.Date, g.money(e.Amount))
		if nw.Liquidity.HasCrisis {
			fmt.Fprintf(w, "WARNING: cash falls short by %s\n", g.money(nw.Liquidity.Shortfall))
		}
	}

	if len(nw.Allocation) > 0 {
		fmt.Fprintln(w, "\nAllocation")
		for _, s := range nw.Allocation {
			fmt.Fprintf(w, "  %-12s %s\n", s.Category, g.money(s.Value))
		}
	}
	return nil
}

// Debts renders loan status, one row per loan.
func (g *Generator) Debts(w io.Writer, debts []networth.Debt, format string) error {
	if err := checkFormat(format, FormatText, FormatJSON); err != nil {
		return err
	}
	if format == FormatJSON {
		return g.writeJSON(w, debts)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LOAN	BALANCE	PAYMENT	PAID	NEXT")
	for _, d := range debts {
		if !d.HasData {
			fmt.Fprintf(tw, "%s\tno schedule\t\t\t\n", d.ID)
			continue
		}
		next := "N/A"
		if d.NextPayment != nil {
			next = fmt.Sprintf("%s (%s)", d.NextPayment.PaymentDate, g.money(d.NextPayment.Payment))
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s%%\t%s\n", d.ID, g.money(d.Balance), g.money(d.Payment), d.PaidPercent.StringFixed(1), next)
	}
	return tw.Flush()
}

func shorten(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
