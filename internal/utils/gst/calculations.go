package gst

import (
	"fmt"

	"github.com/hisaabkitab/hisaab_backend/internal/apperrors"
	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

var (
	hundred    = decimal.NewFromInt(100)
	twoHundred = decimal.NewFromInt(200)
)

// ComputeLineTax computes the GST split for a single taxable value.
//
// Export supply and reverse charge shift the tax liability elsewhere, so all
// components are zero regardless of rate; the nominal rate stays on the line
// for audit. Intra-state supply (place of supply == seller state) splits the
// rate evenly into CGST and SGST; anything else is IGST. Each component is
// rounded half-up to the paisa independently - components are never
// back-derived from a rounded total, which would let cgst+sgst drift from
// half the nominal tax.
func ComputeLineTax(taxableValue domain.Money, taxRate decimal.Decimal, sellerStateCode, placeOfSupplyStateCode string, reverseCharge, exportSupply bool) domain.TaxSplit {
	split := domain.TaxSplit{ReverseCharge: reverseCharge}
	if reverseCharge || exportSupply || taxRate.IsZero() {
		return split
	}

	if placeOfSupplyStateCode == sellerStateCode {
		half := taxableValue.MulDecimal(taxRate.Div(twoHundred))
		split.CGST = half
		split.SGST = half
		return split
	}

	split.IGST = taxableValue.MulDecimal(taxRate.Div(hundred))
	return split
}

// Recompute derives every monetary field of the document from its lines:
// per-line taxable values and tax splits, then taxableValue, totalDiscount,
// taxTotal and grandTotal. It is a pure function of the lines and the
// document-level supply fields and must run on every line mutation and
// before any persist. Calling it twice on an unchanged line set yields
// identical totals.
//
// A discount larger than a line's gross value clamps the taxable value to
// zero and marks the line invalid instead of producing negative tax.
func Recompute(doc *domain.Document, sellerStateCode string) error {
	taxableValue := domain.ZeroMoney
	totalDiscount := domain.ZeroMoney
	taxTotal := domain.ZeroMoney

	for i := range doc.Lines {
		line := &doc.Lines[i]
		line.Invalid = false

		gross := line.UnitRate.MulDecimal(line.Quantity)
		lineTaxable := gross.Sub(line.Discount)
		if lineTaxable.IsNegative() {
			lineTaxable = domain.ZeroMoney
			line.Invalid = true
		}

		line.TaxableValue = lineTaxable
		line.Tax = ComputeLineTax(lineTaxable, line.TaxRate, sellerStateCode, doc.PlaceOfSupply, doc.ReverseCharge, doc.ExportSupply)

		taxableValue = taxableValue.Add(lineTaxable)
		totalDiscount = totalDiscount.Add(line.Discount)
		taxTotal = taxTotal.Add(line.Tax.Total())
	}

	if err := checkRoundingInvariant(doc, sellerStateCode); err != nil {
		return err
	}

	doc.TaxableValue = taxableValue
	doc.TotalDiscount = totalDiscount
	doc.TaxTotal = taxTotal
	doc.GrandTotal = taxableValue.Add(taxTotal)
	doc.BalanceAmount = doc.GrandTotal.Sub(doc.PaidAmount)
	return nil
}

// checkRoundingInvariant cross-checks each line's component sum against the
// nominal tax (taxable * rate rounded once). Independent component rounding
// may legitimately differ by one paisa on intra-state splits; anything more
// is a calculation bug and fails loudly.
func checkRoundingInvariant(doc *domain.Document, sellerStateCode string) error {
	for i := range doc.Lines {
		line := &doc.Lines[i]
		if doc.ReverseCharge || doc.ExportSupply {
			continue
		}
		nominal := line.TaxableValue.MulDecimal(line.TaxRate.Div(hundred))
		diff := line.Tax.Total().Sub(nominal).Paise()
		if diff < 0 {
			diff = -diff
		}
		if diff > 1 {
			return fmt.Errorf("%w: line %s components sum to %s, nominal tax is %s",
				apperrors.ErrRoundingInvariant, line.LineID, line.Tax.Total(), nominal)
		}
	}
	return nil
}
