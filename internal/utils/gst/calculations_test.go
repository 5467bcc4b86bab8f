package gst_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisaabkitab/hisaab_backend/internal/core/domain"
	"github.com/hisaabkitab/hisaab_backend/internal/utils/gst"
)

const sellerState = "27" // Maharashtra

func money(paise int64) domain.Money {
	return domain.NewMoneyFromPaise(paise)
}

func TestComputeLineTax_IntraState(t *testing.T) {
	// 1000.00 at 18% within the seller's state: 90.00 CGST + 90.00 SGST.
	split := gst.ComputeLineTax(money(100000), decimal.NewFromInt(18), sellerState, sellerState, false, false)

	assert.Equal(t, int64(9000), split.CGST.Paise())
	assert.Equal(t, int64(9000), split.SGST.Paise())
	assert.True(t, split.IGST.IsZero())
	assert.Equal(t, int64(18000), split.Total().Paise())
}

func TestComputeLineTax_InterState(t *testing.T) {
	// Supply to Karnataka (29): full 18% as IGST.
	split := gst.ComputeLineTax(money(100000), decimal.NewFromInt(18), sellerState, "29", false, false)

	assert.True(t, split.CGST.IsZero())
	assert.True(t, split.SGST.IsZero())
	assert.Equal(t, int64(18000), split.IGST.Paise())
}

func TestComputeLineTax_ExportZeroesComponents(t *testing.T) {
	split := gst.ComputeLineTax(money(100000), decimal.NewFromInt(18), sellerState, "29", false, true)

	assert.True(t, split.Total().IsZero())
	assert.False(t, split.ReverseCharge)
}

func TestComputeLineTax_ReverseChargeZeroesComponents(t *testing.T) {
	split := gst.ComputeLineTax(money(100000), decimal.NewFromInt(18), sellerState, sellerState, true, false)

	assert.True(t, split.Total().IsZero())
	assert.True(t, split.ReverseCharge)
}

func TestComputeLineTax_ZeroRate(t *testing.T) {
	split := gst.ComputeLineTax(money(100000), decimal.Zero, sellerState, sellerState, false, false)
	assert.True(t, split.Total().IsZero())
}

func TestComputeLineTax_ComponentsRoundIndependently(t *testing.T) {
	// 33.33 at 18% intra-state: each half is 3.00 (2.9997 rounded),
	// so the component sum may exceed the once-rounded nominal by a paisa.
	split := gst.ComputeLineTax(money(3333), decimal.NewFromInt(18), sellerState, sellerState, false, false)

	assert.Equal(t, int64(300), split.CGST.Paise())
	assert.Equal(t, int64(300), split.SGST.Paise())
	assert.Equal(t, int64(600), split.Total().Paise())

	nominal := money(3333).MulDecimal(decimal.NewFromInt(18).Div(decimal.NewFromInt(100)))
	assert.LessOrEqual(t, split.Total().Sub(nominal).Paise(), int64(1))
}

func newTestDocument(placeOfSupply string, lines []domain.LineItem) *domain.Document {
	return &domain.Document{
		DocumentID:    "doc-1",
		DocumentType:  domain.Invoice,
		PlaceOfSupply: placeOfSupply,
		Lines:         lines,
	}
}

func TestRecompute_TotalsFromLines(t *testing.T) {
	doc := newTestDocument(sellerState, []domain.LineItem{
		{
			LineID:   "l1",
			Quantity: decimal.NewFromInt(2),
			UnitRate: money(50000), // 2 x 500.00
			Discount: money(10000), // 100.00 off
			TaxRate:  decimal.NewFromInt(18),
		},
		{
			LineID:   "l2",
			Quantity: decimal.NewFromInt(1),
			UnitRate: money(20000), // 200.00
			TaxRate:  decimal.NewFromInt(5),
		},
	})

	require.NoError(t, gst.Recompute(doc, sellerState))

	// Line 1: taxable 900.00, tax 162.00. Line 2: taxable 200.00, tax 10.00.
	assert.Equal(t, int64(110000), doc.TaxableValue.Paise())
	assert.Equal(t, int64(10000), doc.TotalDiscount.Paise())
	assert.Equal(t, int64(17200), doc.TaxTotal.Paise())
	assert.Equal(t, int64(127200), doc.GrandTotal.Paise())
	assert.Equal(t, doc.GrandTotal, doc.BalanceAmount)
}

func TestRecompute_IsIdempotent(t *testing.T) {
	doc := newTestDocument("29", []domain.LineItem{
		{
			LineID:   "l1",
			Quantity: decimal.NewFromFloat(1.5),
			UnitRate: money(33333),
			TaxRate:  decimal.NewFromInt(12),
		},
	})

	require.NoError(t, gst.Recompute(doc, sellerState))
	first := doc.GrandTotal

	require.NoError(t, gst.Recompute(doc, sellerState))
	assert.Equal(t, first, doc.GrandTotal)
}

func TestRecompute_ClampsNegativeLine(t *testing.T) {
	doc := newTestDocument(sellerState, []domain.LineItem{
		{
			LineID:   "l1",
			Quantity: decimal.NewFromInt(1),
			UnitRate: money(10000),
			Discount: money(15000), // discount exceeds gross
			TaxRate:  decimal.NewFromInt(18),
		},
	})

	require.NoError(t, gst.Recompute(doc, sellerState))

	require.Len(t, doc.Lines, 1)
	assert.True(t, doc.Lines[0].Invalid)
	assert.True(t, doc.Lines[0].TaxableValue.IsZero())
	assert.True(t, doc.Lines[0].Tax.Total().IsZero())
	assert.True(t, doc.TaxableValue.IsZero())
	assert.Equal(t, int64(15000), doc.TotalDiscount.Paise())
}

func TestRecompute_ExportDocumentCarriesNoTax(t *testing.T) {
	doc := newTestDocument("29", []domain.LineItem{
		{
			LineID:   "l1",
			Quantity: decimal.NewFromInt(10),
			UnitRate: money(100000),
			TaxRate:  decimal.NewFromInt(28),
		},
	})
	doc.ExportSupply = true

	require.NoError(t, gst.Recompute(doc, sellerState))

	assert.Equal(t, int64(1000000), doc.TaxableValue.Paise())
	assert.True(t, doc.TaxTotal.IsZero())
	assert.Equal(t, doc.TaxableValue, doc.GrandTotal)
}

func TestRecompute_BalanceReflectsPaidAmount(t *testing.T) {
	doc := newTestDocument(sellerState, []domain.LineItem{
		{
			LineID:   "l1",
			Quantity: decimal.NewFromInt(1),
			UnitRate: money(100000),
			TaxRate:  decimal.NewFromInt(18),
		},
	})
	doc.PaidAmount = money(50000)

	require.NoError(t, gst.Recompute(doc, sellerState))

	assert.Equal(t, int64(118000), doc.GrandTotal.Paise())
	assert.Equal(t, int64(68000), doc.BalanceAmount.Paise())
}
