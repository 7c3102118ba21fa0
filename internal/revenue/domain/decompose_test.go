package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func pct(v string) AdjustmentSpec {
	return AdjustmentSpec{Type: AdjustmentPercentage, Value: dec(v)}
}

func fixed(v string) AdjustmentSpec {
	return AdjustmentSpec{Type: AdjustmentFixed, Value: dec(v)}
}

func TestDecompose_PercentageDiscountAndTax(t *testing.T) {
	// 1,000,000 gross with 10% inclusive discount and 5% inclusive tax.
	b, err := Decompose(dec("1000000"), pct("10"), pct("5"))
	assert.NoError(t, err)

	assert.True(t, b.DiscountAmount.Equal(dec("90909.09")), "discount = %s", b.DiscountAmount)
	assert.True(t, b.AmountAfterDiscount.Equal(dec("909090.91")), "after discount = %s", b.AmountAfterDiscount)
	assert.True(t, b.TaxAmount.Equal(dec("43290.04")), "tax = %s", b.TaxAmount)
	assert.True(t, b.NetAmount.Equal(dec("865800.87")), "net = %s", b.NetAmount)
	assert.True(t, b.DiscountPctEquiv.Equal(dec("10")))
	assert.True(t, b.TaxPctEquiv.Equal(dec("5")))
}

func TestDecompose_NoAdjustments(t *testing.T) {
	b, err := Decompose(dec("500.25"), AdjustmentSpec{}, AdjustmentSpec{})
	assert.NoError(t, err)

	assert.True(t, b.DiscountAmount.IsZero())
	assert.True(t, b.TaxAmount.IsZero())
	assert.True(t, b.AmountAfterDiscount.Equal(dec("500.25")))
	assert.True(t, b.NetAmount.Equal(dec("500.25")))
}

func TestDecompose_FixedComponents(t *testing.T) {
	b, err := Decompose(dec("1000"), fixed("100"), fixed("90"))
	assert.NoError(t, err)

	assert.True(t, b.DiscountAmount.Equal(dec("100")))
	assert.True(t, b.DiscountPctEquiv.Equal(dec("10")))
	assert.True(t, b.AmountAfterDiscount.Equal(dec("900")))
	assert.True(t, b.TaxAmount.Equal(dec("90")))
	assert.True(t, b.TaxPctEquiv.Equal(dec("10")))
	assert.True(t, b.NetAmount.Equal(dec("810")))
}

func TestDecompose_TaxComputedOnAmountAfterDiscount(t *testing.T) {
	withDiscount, err := Decompose(dec("1100"), fixed("100"), pct("10"))
	assert.NoError(t, err)

	without, err := Decompose(dec("1000"), AdjustmentSpec{}, pct("10"))
	assert.NoError(t, err)

	// The tax base is the post-discount amount, so both decompose the
	// same 1000 into the same tax component.
	assert.True(t, withDiscount.TaxAmount.Equal(without.TaxAmount),
		"tax %s vs %s", withDiscount.TaxAmount, without.TaxAmount)
}

func TestDecompose_Reconstruction(t *testing.T) {
	// component + remainder must always rebuild the base exactly, because
	// the remainder is defined as base minus the rounded component.
	cases := []struct {
		gross    string
		discount AdjustmentSpec
		tax      AdjustmentSpec
	}{
		{"1000000", pct("10"), pct("5")},
		{"999.99", pct("7.5"), pct("11")},
		{"0.01", pct("50"), AdjustmentSpec{}},
		{"123456.78", fixed("456.78"), pct("21")},
		{"1000", AdjustmentSpec{}, fixed("1000")},
	}

	for _, tc := range cases {
		b, err := Decompose(dec(tc.gross), tc.discount, tc.tax)
		assert.NoError(t, err)

		assert.True(t, b.DiscountAmount.Add(b.AmountAfterDiscount).Equal(dec(tc.gross)),
			"gross %s: discount %s + after %s", tc.gross, b.DiscountAmount, b.AmountAfterDiscount)
		assert.True(t, b.TaxAmount.Add(b.NetAmount).Equal(b.AmountAfterDiscount),
			"gross %s: tax %s + net %s", tc.gross, b.TaxAmount, b.NetAmount)
	}
}

func TestDecompose_NegativeGross(t *testing.T) {
	_, err := Decompose(dec("-1"), AdjustmentSpec{}, AdjustmentSpec{})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDecompose_MinusHundredPercent(t *testing.T) {
	_, err := Decompose(dec("1000"), pct("-100"), AdjustmentSpec{})
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = Decompose(dec("1000"), AdjustmentSpec{}, pct("-100"))
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestDecompose_FixedExceedsBase(t *testing.T) {
	_, err := Decompose(dec("100"), fixed("100.01"), AdjustmentSpec{})
	assert.ErrorIs(t, err, ErrAdjustmentExceedsBase)

	// The tax bound applies after the discount is taken out.
	_, err = Decompose(dec("1000"), fixed("500"), fixed("500.01"))
	assert.ErrorIs(t, err, ErrAdjustmentExceedsBase)
}

func TestDecompose_NegativeFixed(t *testing.T) {
	_, err := Decompose(dec("100"), fixed("-5"), AdjustmentSpec{})
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDecompose_UnknownAdjustmentType(t *testing.T) {
	_, err := Decompose(dec("100"), AdjustmentSpec{Type: "RELATIVE", Value: dec("5")}, AdjustmentSpec{})
	assert.ErrorIs(t, err, ErrInvalidAdjustmentType)
}

func TestDecompose_NegativeNetNotClamped(t *testing.T) {
	// A negative percentage inflates the component beyond the base. The
	// result is stored as-is and surfaced as a warning upstream.
	b, err := Decompose(dec("100"), pct("-50"), AdjustmentSpec{})
	assert.NoError(t, err)
	assert.True(t, b.DiscountAmount.IsNegative())
	assert.True(t, b.NetAmount.GreaterThan(dec("100")))
}

func TestDecompose_ZeroGrossWithFixedZero(t *testing.T) {
	b, err := Decompose(dec("0"), fixed("0"), AdjustmentSpec{})
	assert.NoError(t, err)
	assert.True(t, b.NetAmount.IsZero())
	assert.True(t, b.DiscountPctEquiv.IsZero())
}
