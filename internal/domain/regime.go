package domain

import (
	"fmt"
	"strings"
)

// Regime identifies a fiscal regime the simulator can price
type Regime string

const (
	RegimeUnifiedSimplified  Regime = "unified_simplified"
	RegimePresumedProfit     Regime = "presumed_profit"
	RegimeRealProfit         Regime = "real_profit"
	RegimeProspectiveUnified Regime = "prospective_unified"
)

// RegimeOrder is the fixed declaration order. Ties in tax owed are resolved in
// favour of the regime that appears first here.
var RegimeOrder = []Regime{
	RegimeUnifiedSimplified,
	RegimePresumedProfit,
	RegimeRealProfit,
	RegimeProspectiveUnified,
}

// CurrentRegimes are the regimes available under the current tax system
var CurrentRegimes = []Regime{
	RegimeUnifiedSimplified,
	RegimePresumedProfit,
	RegimeRealProfit,
}

// DisplayName returns a human-readable label for the regime
func (r Regime) DisplayName() string {
	switch r {
	case RegimeUnifiedSimplified:
		return "Unified Simplified (Simples Nacional)"
	case RegimePresumedProfit:
		return "Presumed Profit (Lucro Presumido)"
	case RegimeRealProfit:
		return "Real Profit (Lucro Real)"
	case RegimeProspectiveUnified:
		return "Prospective Unified (IBS+CBS)"
	default:
		return string(r)
	}
}

// ShortName returns a compact label for tables
func (r Regime) ShortName() string {
	switch r {
	case RegimeUnifiedSimplified:
		return "Simples"
	case RegimePresumedProfit:
		return "Presumido"
	case RegimeRealProfit:
		return "Real"
	case RegimeProspectiveUnified:
		return "IBS+CBS"
	default:
		return string(r)
	}
}

// Order returns the position of the regime in RegimeOrder, or -1 if unknown
func (r Regime) Order() int {
	for i, candidate := range RegimeOrder {
		if candidate == r {
			return i
		}
	}
	return -1
}

// IsCurrent reports whether the regime belongs to the current tax system
func (r Regime) IsCurrent() bool {
	for _, candidate := range CurrentRegimes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegime accepts the canonical identifier or the short name (case-insensitive)
func ParseRegime(s string) (Regime, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, r := range RegimeOrder {
		if needle == string(r) || needle == strings.ToLower(r.ShortName()) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown regime %q (valid: %s)", s, strings.Join(regimeNames(), ", "))
}

func regimeNames() []string {
	names := make([]string, len(RegimeOrder))
	for i, r := range RegimeOrder {
		names[i] = string(r)
	}
	return names
}
