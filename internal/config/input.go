package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/regimesim/internal/catalog"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed data/default_rates.yaml
var defaultRatesYAML []byte

// InputParser handles parsing of rate datasets and batch input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// DefaultDataset returns the embedded rate dataset
func DefaultDataset() []byte {
	return append([]byte(nil), defaultRatesYAML...)
}

// DefaultCatalog builds a catalog from the embedded rate dataset
func DefaultCatalog() (*catalog.RateCatalog, error) {
	return NewInputParser().LoadCatalog(defaultRatesYAML)
}

// LoadCatalogFromFile loads and validates a rate dataset from a YAML file
func (ip *InputParser) LoadCatalogFromFile(filename string) (*catalog.RateCatalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.LoadCatalog(data)
}

// LoadCatalog parses and validates a rate dataset
func (ip *InputParser) LoadCatalog(data []byte) (*catalog.RateCatalog, error) {
	dataset, err := ip.ParseDataset(data)
	if err != nil {
		return nil, err
	}
	return catalog.New(*dataset), nil
}

// ParseDataset decodes and validates a rate dataset without building a catalog
func (ip *InputParser) ParseDataset(data []byte) (*domain.RateDataset, error) {
	var dataset domain.RateDataset
	if err := yaml.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := ip.ValidateDataset(&dataset); err != nil {
		return nil, fmt.Errorf("catalog validation failed: %w", err)
	}

	return &dataset, nil
}

// ValidateDataset checks rate ranges, bracket tables and regime parameters
func (ip *InputParser) ValidateDataset(dataset *domain.RateDataset) error {
	if err := checkUniqueCodes("jurisdictions", lo.Keys(dataset.Jurisdictions), domain.NormalizeJurisdiction); err != nil {
		return err
	}
	if err := checkUniqueCodes("sectors", lo.Keys(dataset.Sectors), domain.NormalizeSector); err != nil {
		return err
	}
	if err := checkUniqueCodes("sector_brackets", lo.Keys(dataset.SectorBrackets), domain.NormalizeSector); err != nil {
		return err
	}

	for code, spec := range dataset.Jurisdictions {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("jurisdiction code cannot be empty")
		}
		if err := validateRate("jurisdictions."+code+".consumption_tax_rate", spec.ConsumptionTaxRate); err != nil {
			return err
		}
		if err := validateRate("jurisdictions."+code+".value_added_rate", spec.ValueAddedRate); err != nil {
			return err
		}
	}

	for code, spec := range dataset.Sectors {
		if strings.TrimSpace(code) == "" {
			return fmt.Errorf("sector code cannot be empty")
		}
		if err := validateRate("sectors."+code+".service_tax_rate", spec.ServiceTaxRate); err != nil {
			return err
		}
	}

	if dataset.SimplifiedBrackets != nil {
		if err := validateBracketTable("simplified_brackets", *dataset.SimplifiedBrackets); err != nil {
			return err
		}
	}
	for code, table := range dataset.SectorBrackets {
		if err := validateBracketTable("sector_brackets."+code, table); err != nil {
			return err
		}
	}

	if p := dataset.RegimeParameters; p != nil {
		if p.SimplifiedRevenueCeiling != nil && p.SimplifiedRevenueCeiling.IsNegative() {
			return fmt.Errorf("regime_parameters.simplified_revenue_ceiling cannot be negative")
		}
		if err := validateRate("regime_parameters.real_profit_rate", p.RealProfitRate); err != nil {
			return err
		}
		if err := validateRate("regime_parameters.federal_add_on_rate", p.FederalAddOnRate); err != nil {
			return err
		}
	}

	return nil
}

// checkUniqueCodes rejects keys that collapse to the same catalog code once normalised
func checkUniqueCodes(section string, codes []string, normalize func(string) string) error {
	sort.Strings(codes)
	seen := make(map[string]string, len(codes))
	for _, code := range codes {
		key := normalize(code)
		if first, ok := seen[key]; ok {
			return fmt.Errorf("%s.%s duplicates %s.%s (codes are case-insensitive)", section, code, section, first)
		}
		seen[key] = code
	}
	return nil
}

func validateRate(key string, rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("%s must be between 0 and 1, got %s", key, rate.String())
	}
	return nil
}

func validateBracketTable(key string, table domain.BracketTable) error {
	if len(table.Brackets) == 0 {
		return fmt.Errorf("%s must contain at least one bracket", key)
	}

	previous := decimal.Zero
	for i, b := range table.Brackets {
		if !b.UpTo.IsPositive() {
			return fmt.Errorf("%s[%d].up_to must be positive", key, i)
		}
		if i > 0 && !b.UpTo.GreaterThan(previous) {
			return fmt.Errorf("%s[%d].up_to (%s) must be greater than the previous bracket (%s)",
				key, i, b.UpTo.String(), previous.String())
		}
		if b.NominalRate.IsNegative() || b.NominalRate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("%s[%d].nominal_rate must be between 0 and 1, got %s", key, i, b.NominalRate.String())
		}
		if b.Deduction.IsNegative() {
			return fmt.Errorf("%s[%d].deduction cannot be negative", key, i)
		}
		previous = b.UpTo
	}

	return nil
}

// batchFile is the on-disk layout of a batch of companies
type batchFile struct {
	Companies []batchCompany `yaml:"companies"`
}

type batchCompany struct {
	Name         string   `yaml:"name"`
	Revenue      *float64 `yaml:"revenue"`
	Profit       *float64 `yaml:"profit"`
	Jurisdiction string   `yaml:"jurisdiction"`
	Sector       string   `yaml:"sector"`
}

// LoadInputsFromFile loads a batch of companies from a YAML file
func (ip *InputParser) LoadInputsFromFile(filename string) ([]domain.InputRecord, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.ParseInputs(data)
}

// ParseInputs decodes a `companies:` list. Each entry goes through the same
// constructor as the CLI and HTTP inputs. Profit defaults to zero.
func (ip *InputParser) ParseInputs(data []byte) ([]domain.InputRecord, error) {
	var batch batchFile
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(batch.Companies) == 0 {
		return nil, fmt.Errorf("no companies provided")
	}

	inputs := make([]domain.InputRecord, 0, len(batch.Companies))
	for i, c := range batch.Companies {
		label := c.Name
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}
		if c.Revenue == nil {
			return nil, fmt.Errorf("company %s: revenue is required", label)
		}
		profit := 0.0
		if c.Profit != nil {
			profit = *c.Profit
		}

		in, err := domain.NewInputRecord(*c.Revenue, profit, c.Jurisdiction, c.Sector)
		if err != nil {
			return nil, fmt.Errorf("company %s: %w", label, err)
		}
		in.Name = c.Name
		inputs = append(inputs, in)
	}

	return inputs, nil
}
