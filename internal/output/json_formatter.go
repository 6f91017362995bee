package output

import (
	"encoding/json"

	"github.com/rgehrsitz/regimesim/internal/compare"
)

// JSONFormatter emits the analysed result as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(result *compare.ComparisonResult) ([]byte, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
