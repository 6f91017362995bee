package calculation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateFlatReform(t *testing.T) {
	tests := []struct {
		name       string
		tt         TaxpayerType
		current    string
		reform     string
		difference string
		percent    string
	}{
		{"individual", TaxpayerIndividual, "12000", "15000", "3000", "25.00"},
		{"entity", TaxpayerEntity, "15000", "20000", "5000", "33.33"},
		{"unknown type is untaxed", TaxpayerType("XX"), "0", "0", "0", "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := EstimateFlatReform(decimal.NewFromInt(100000), tt.tt)
			require.NoError(t, err)
			assert.Equal(t, tt.current, est.CurrentTax.String())
			assert.Equal(t, tt.reform, est.ReformTax.String())
			assert.Equal(t, tt.difference, est.Difference.String())
			assert.Equal(t, tt.percent, est.PercentDifference.StringFixed(2))
		})
	}
}

func TestEstimateFlatReform_Negative(t *testing.T) {
	_, err := EstimateFlatReform(decimal.NewFromInt(-1), TaxpayerIndividual)
	assert.Error(t, err)
}

func TestParseTaxpayerType(t *testing.T) {
	assert.Equal(t, TaxpayerIndividual, ParseTaxpayerType(""))
	assert.Equal(t, TaxpayerEntity, ParseTaxpayerType(" pj "))
	assert.Equal(t, TaxpayerType("MEI"), ParseTaxpayerType("mei"))
}
