package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/regimesim/internal/compare"
	"github.com/rgehrsitz/regimesim/internal/domain"
)

// CSVSummarizer writes one row per regime in declaration order
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(result *compare.ComparisonResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Regime", "Eligible", "Base", "TaxAmount", "PercentOfRevenue", "Rank", "Best"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	ranks := make(map[domain.Regime]compare.RegimeRanking, len(result.Ranking))
	for _, r := range result.Ranking {
		ranks[r.Regime] = r
	}

	for _, regime := range domain.RegimeOrder {
		rr, ok := result.Result.Get(regime)
		if !ok {
			if err := w.Write([]string{string(regime), "false", "", "", "", "", "false"}); err != nil {
				return nil, err
			}
			continue
		}
		pct := ""
		if rr.PercentOfRevenue != nil {
			pct = rr.PercentOfRevenue.StringFixed(2)
		}
		rank := ranks[regime]
		row := []string{
			string(regime),
			"true",
			rr.Base.StringFixed(2),
			rr.TaxAmount.StringFixed(2),
			pct,
			strconv.Itoa(rank.Rank),
			strconv.FormatBool(rank.IsBest),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
