// Package billing holds the pure money and tax arithmetic for invoices.
// All amounts are shopspring decimals rounded half-up to 2 places; nothing
// in this package touches the database.
package billing

import (
	"github.com/shopspring/decimal"

	"github.com/wlmost/dog-school-app-sub001/internal/apierror"
)

// paidEpsilon is the tolerance under which a remaining balance counts as zero.
// Covers rounding drift from per-line tax rounding.
var paidEpsilon = decimal.NewFromFloat(0.01)

// Line is the minimal input for a billable invoice line.
type Line struct {
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	TaxRate   decimal.Decimal // percentage, e.g. 19 for 19 %
}

// TaxLine is one row of a tax breakdown: the net base and tax for a rate.
type TaxLine struct {
	Rate decimal.Decimal
	Net  decimal.Decimal
	Tax  decimal.Decimal
}

// Totals is the result of totalling an invoice.
type Totals struct {
	Net       decimal.Decimal
	Tax       decimal.Decimal
	Gross     decimal.Decimal
	Breakdown []TaxLine
}

// LineAmount returns quantity × unit price rounded half-up to 2 places.
func LineAmount(quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity.IsNegative() {
		return decimal.Zero, apierror.Validation("Menge darf nicht negativ sein")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, apierror.Validation("Einzelpreis darf nicht negativ sein")
	}
	return quantity.Mul(unitPrice).Round(2), nil
}

// TaxForRate returns the tax amount for a net base at the given percentage
// rate, rounded half-up to 2 places.
func TaxForRate(net, rate decimal.Decimal) decimal.Decimal {
	return net.Mul(rate).Div(decimal.NewFromInt(100)).Round(2)
}

// Total computes net, tax, gross, and the per-rate tax breakdown for a set of
// lines. In small-business mode (§19 UStG) the tax is zeroed and no breakdown
// is produced — the line tax rates themselves are left untouched by callers so
// the stored rates survive a later setting change. Zero lines yields 0.00
// totals with an empty breakdown.
func Total(lines []Line, smallBusiness bool) (Totals, error) {
	net := decimal.Zero
	byRate := map[string]*TaxLine{}
	var rateOrder []string

	for _, l := range lines {
		amount, err := LineAmount(l.Quantity, l.UnitPrice)
		if err != nil {
			return Totals{}, err
		}
		if l.TaxRate.IsNegative() {
			return Totals{}, apierror.Validation("Steuersatz darf nicht negativ sein")
		}
		net = net.Add(amount)

		if smallBusiness {
			continue
		}
		key := l.TaxRate.String()
		entry, ok := byRate[key]
		if !ok {
			entry = &TaxLine{Rate: l.TaxRate, Net: decimal.Zero, Tax: decimal.Zero}
			byRate[key] = entry
			rateOrder = append(rateOrder, key)
		}
		entry.Net = entry.Net.Add(amount)
	}

	totals := Totals{Net: net.Round(2), Tax: decimal.Zero}

	if !smallBusiness {
		for _, key := range rateOrder {
			entry := byRate[key]
			entry.Tax = TaxForRate(entry.Net, entry.Rate)
			totals.Tax = totals.Tax.Add(entry.Tax)
			totals.Breakdown = append(totals.Breakdown, *entry)
		}
	}

	totals.Tax = totals.Tax.Round(2)
	totals.Gross = totals.Net.Add(totals.Tax)
	return totals, nil
}

// RemainingBalance returns gross minus the sum of completed payments,
// never below zero.
func RemainingBalance(gross, sumCompleted decimal.Decimal) decimal.Decimal {
	rem := gross.Sub(sumCompleted)
	if rem.IsNegative() {
		return decimal.Zero
	}
	return rem
}

// IsSettled reports whether a remaining balance counts as fully paid.
func IsSettled(remaining decimal.Decimal) bool {
	return remaining.LessThanOrEqual(paidEpsilon)
}
