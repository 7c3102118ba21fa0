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

func TestSplitApply(t *testing.T) {
	split := Split{OperatorPct: dec("70"), ResortPct: dec("30")}

	operator, resort := split.Apply(dec("865800.87"))
	assert.True(t, operator.Equal(dec("606060.61")), "operator = %s", operator)
	assert.True(t, resort.Equal(dec("259740.26")), "resort = %s", resort)
}

func TestSplitApply_NegativeNet(t *testing.T) {
	split := Split{OperatorPct: dec("60"), ResortPct: dec("40")}

	operator, resort := split.Apply(dec("-100"))
	assert.True(t, operator.Equal(dec("-60")))
	assert.True(t, resort.Equal(dec("-40")))
}

func TestSplitApply_UnbalancedNotRenormalized(t *testing.T) {
	split := Split{OperatorPct: dec("80"), ResortPct: dec("30")}
	assert.False(t, split.Balanced())

	operator, resort := split.Apply(dec("1000"))
	assert.True(t, operator.Equal(dec("800")))
	assert.True(t, resort.Equal(dec("300")))
}

func TestFallbackSplit(t *testing.T) {
	split := FallbackSplit()
	assert.True(t, split.Fallback)
	assert.True(t, split.OperatorPct.Equal(dec("70")))
	assert.True(t, split.ResortPct.Equal(dec("30")))
	assert.True(t, split.Balanced())
}
