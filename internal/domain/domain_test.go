package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegimeOrder(t *testing.T) {
	require.Len(t, RegimeOrder, 4)
	for i, r := range RegimeOrder {
		assert.Equal(t, i, r.Order())
	}
	assert.Equal(t, -1, Regime("lucro_arbitrado").Order())

	assert.True(t, RegimeRealProfit.IsCurrent())
	assert.False(t, RegimeProspectiveUnified.IsCurrent())
}

func TestRegimeNames(t *testing.T) {
	assert.Equal(t, "Real Profit (Lucro Real)", RegimeRealProfit.DisplayName())
	assert.Equal(t, "IBS+CBS", RegimeProspectiveUnified.ShortName())
	assert.Equal(t, "other", Regime("other").ShortName())
}

func TestParseRegime(t *testing.T) {
	tests := []struct {
		in   string
		want Regime
	}{
		{"unified_simplified", RegimeUnifiedSimplified},
		{"Simples", RegimeUnifiedSimplified},
		{" presumido ", RegimePresumedProfit},
		{"REAL", RegimeRealProfit},
		{"ibs+cbs", RegimeProspectiveUnified},
	}
	for _, tt := range tests {
		got, err := ParseRegime(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseRegime("mei")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown regime")
}

func TestNewInputRecord(t *testing.T) {
	in, err := NewInputRecord(1000000, 50000, " sp ", "Servicos")
	require.NoError(t, err)
	assert.Equal(t, "SP", in.Jurisdiction)
	assert.Equal(t, "servicos", in.Sector)
	assert.True(t, in.GrossAnnualRevenue.Equal(decimal.NewFromInt(1000000)))
	assert.Equal(t, "SP/servicos", in.Label())

	// Profit above revenue is accepted
	_, err = NewInputRecord(10, 20, "", "")
	assert.NoError(t, err)
}

func TestNewInputRecord_Rejects(t *testing.T) {
	cases := []struct {
		name            string
		revenue, profit float64
		msg             string
	}{
		{"negative revenue", -1, 0, "revenue cannot be negative"},
		{"negative profit", 1, -1, "profit cannot be negative"},
		{"NaN revenue", math.NaN(), 0, "revenue must be a finite number"},
		{"infinite profit", 1, math.Inf(1), "profit must be a finite number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewInputRecord(tc.revenue, tc.profit, "SP", "servicos")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}

func TestInputRecord_Validate(t *testing.T) {
	in := InputRecord{GrossAnnualRevenue: decimal.NewFromInt(-5)}
	assert.ErrorIs(t, in.Validate(), ErrInvalidInput)

	in = InputRecord{NetProfit: decimal.NewFromInt(-5)}
	assert.ErrorIs(t, in.Validate(), ErrInvalidInput)

	assert.NoError(t, InputRecord{}.Validate())
}

func TestInputRecord_Copies(t *testing.T) {
	base := InputRecord{Name: "Alfa", Jurisdiction: "rj ", Sector: " SAUDE"}
	norm := base.Normalized()
	assert.Equal(t, "RJ", norm.Jurisdiction)
	assert.Equal(t, "saude", norm.Sector)
	assert.Equal(t, "rj ", base.Jurisdiction)

	changed := base.WithRevenue(decimal.NewFromInt(7)).WithProfit(decimal.NewFromInt(3))
	assert.True(t, changed.GrossAnnualRevenue.Equal(decimal.NewFromInt(7)))
	assert.True(t, changed.NetProfit.Equal(decimal.NewFromInt(3)))
	assert.True(t, base.GrossAnnualRevenue.IsZero())
	assert.Equal(t, "Alfa", changed.Label())
}

func TestResultRecord(t *testing.T) {
	record := &ResultRecord{
		Regimes: []RegimeResult{
			{Regime: RegimePresumedProfit, TaxAmount: decimal.NewFromInt(200)},
			{Regime: RegimeRealProfit, TaxAmount: decimal.NewFromInt(100)},
		},
		Ineligible: []IneligibleRegime{{Regime: RegimeUnifiedSimplified, Reason: "above ceiling"}},
	}

	rr, ok := record.Get(RegimeRealProfit)
	require.True(t, ok)
	assert.True(t, rr.TaxAmount.Equal(decimal.NewFromInt(100)))

	assert.False(t, record.IsEligible(RegimeUnifiedSimplified))
	assert.True(t, record.IsEligible(RegimePresumedProfit))

	totals := record.TotalsByRegime()
	assert.Len(t, totals, 2)
	assert.True(t, totals[RegimePresumedProfit].Equal(decimal.NewFromInt(200)))
}

func TestCheckAmount(t *testing.T) {
	assert.NoError(t, CheckAmount("income", 0))
	assert.NoError(t, CheckAmount("income", 1e9))

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		err := CheckAmount("income", v)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "income must be a finite number")
	}

	err := CheckAmount("income", -0.01)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "income cannot be negative")
}
