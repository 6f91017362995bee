package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultCatalog(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)

	sp := cat.RatesForJurisdiction("SP")
	assert.Equal(t, "0.18", sp.ConsumptionTaxRate.String())
	assert.Equal(t, "0.18", sp.ValueAddedRate.String())
	assert.Equal(t, "0.05", cat.RateForSector("servicos").String())
	assert.True(t, cat.RateForSector("comercio").IsZero())

	// SC and CE omit value_added_rate
	assert.Equal(t, "0.18", cat.RatesForJurisdiction("SC").ValueAddedRate.String())
	assert.Equal(t, "0.17", cat.RatesForJurisdiction("SC").ConsumptionTaxRate.String())

	assert.Contains(t, cat.Jurisdictions(), "RJ")
	assert.Equal(t, 2025, cat.Metadata().DataYear)
	assert.Equal(t, "commerce", cat.BracketsForSector("comercio").Name)
	assert.Equal(t, "services", cat.BracketsForSector("tecnologia").Name)
	assert.Equal(t, "4800000", cat.Parameters().SimplifiedRevenueCeiling.String())
}

func TestDefaultDatasetIsACopy(t *testing.T) {
	data := DefaultDataset()
	require.NotEmpty(t, data)
	data[0] = '!'
	assert.NotEqual(t, byte('!'), DefaultDataset()[0])
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := writeFile(t, "rates.yaml", `
jurisdictions:
  sp:
    name: São Paulo
    consumption_tax_rate: 0.18
    value_added_rate: 0.17
  rj:
    consumption_tax_rate: 0.2
sectors:
  servicos:
    service_tax_rate: 0.05
`)

	cat, err := NewInputParser().LoadCatalogFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"RJ", "SP"}, cat.Jurisdictions())
	assert.Equal(t, "0.17", cat.RatesForJurisdiction("SP").ValueAddedRate.String())
	assert.Equal(t, "0.18", cat.RatesForJurisdiction("RJ").ValueAddedRate.String())
	assert.Equal(t, "0.05", cat.RateForSector("servicos").String())
	assert.Equal(t, "default", cat.BracketsForSector("servicos").Name)
}

func TestLoadCatalogFromFile_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadCatalogFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = parser.LoadCatalogFromFile(writeFile(t, "bad.yaml", "jurisdictions: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateDataset(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "rate above one",
			yaml:    "jurisdictions:\n  SP: { consumption_tax_rate: 1.5 }\n",
			wantErr: "jurisdictions.SP.consumption_tax_rate must be between 0 and 1",
		},
		{
			name:    "negative sector rate",
			yaml:    "sectors:\n  servicos: { service_tax_rate: -0.01 }\n",
			wantErr: "sectors.servicos.service_tax_rate must be between 0 and 1",
		},
		{
			name:    "empty bracket table",
			yaml:    "simplified_brackets:\n  name: x\n  brackets: []\n",
			wantErr: "simplified_brackets must contain at least one bracket",
		},
		{
			name: "brackets not increasing",
			yaml: `simplified_brackets:
  brackets:
    - { up_to: 200, nominal_rate: 0.1, deduction: 0 }
    - { up_to: 100, nominal_rate: 0.2, deduction: 0 }
`,
			wantErr: "simplified_brackets[1].up_to (100) must be greater than the previous bracket (200)",
		},
		{
			name: "negative deduction",
			yaml: `sector_brackets:
  comercio:
    brackets:
      - { up_to: 100, nominal_rate: 0.1, deduction: -1 }
`,
			wantErr: "sector_brackets.comercio[0].deduction cannot be negative",
		},
		{
			name:    "jurisdiction codes differing only in case",
			yaml:    "jurisdictions:\n  SP: { consumption_tax_rate: 0.10 }\n  sp: { consumption_tax_rate: 0.30 }\n",
			wantErr: "jurisdictions.sp duplicates jurisdictions.SP",
		},
		{
			name:    "sector codes differing only in case",
			yaml:    "sectors:\n  Servicos: { service_tax_rate: 0.05 }\n  servicos: { service_tax_rate: 0.02 }\n",
			wantErr: "sectors.servicos duplicates sectors.Servicos",
		},
		{
			name: "sector bracket codes differing only in case",
			yaml: `sector_brackets:
  comercio:
    brackets:
      - { up_to: 100, nominal_rate: 0.1, deduction: 0 }
  " COMERCIO":
    brackets:
      - { up_to: 100, nominal_rate: 0.2, deduction: 0 }
`,
			wantErr: "sector_brackets.comercio duplicates sector_brackets. COMERCIO",
		},
		{
			name:    "negative ceiling",
			yaml:    "regime_parameters:\n  simplified_revenue_ceiling: -1\n",
			wantErr: "simplified_revenue_ceiling cannot be negative",
		},
		{
			name:    "real profit rate out of range",
			yaml:    "regime_parameters:\n  real_profit_rate: 2\n",
			wantErr: "regime_parameters.real_profit_rate must be between 0 and 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewInputParser().LoadCatalog([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "catalog validation failed")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadInputsFromFile(t *testing.T) {
	path := writeFile(t, "companies.yaml", `
companies:
  - name: Agência Alfa
    revenue: 1000000
    profit: 50000
    jurisdiction: sp
    sector: Servicos
  - name: Loja Beta
    revenue: 5000000
    jurisdiction: RJ
    sector: comercio
`)

	inputs, err := NewInputParser().LoadInputsFromFile(path)
	require.NoError(t, err)
	require.Len(t, inputs, 2)

	assert.Equal(t, "Agência Alfa", inputs[0].Name)
	assert.Equal(t, "1000000", inputs[0].GrossAnnualRevenue.String())
	assert.Equal(t, "50000", inputs[0].NetProfit.String())
	assert.Equal(t, "SP", inputs[0].Jurisdiction)
	assert.Equal(t, "servicos", inputs[0].Sector)

	assert.True(t, inputs[1].NetProfit.IsZero(), "profit defaults to zero")
}

func TestParseInputs_Errors(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.ParseInputs([]byte("companies: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no companies provided")

	_, err = parser.ParseInputs([]byte("companies:\n  - name: A\n    profit: 10\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "company A: revenue is required")

	_, err = parser.ParseInputs([]byte("companies:\n  - revenue: -5\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Contains(t, err.Error(), "company #1")

	_, err = parser.ParseInputs([]byte("companies:\n  - revenue: .nan\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a finite number")
}
