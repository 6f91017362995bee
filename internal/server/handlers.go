package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rgehrsitz/regimesim/internal/calculation"
	"github.com/rgehrsitz/regimesim/internal/compare"
	"github.com/rgehrsitz/regimesim/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type simulateRequest struct {
	Name         string   `json:"name"`
	Revenue      *float64 `json:"revenue"`
	Profit       *float64 `json:"profit"`
	Jurisdiction string   `json:"jurisdiction"`
	Sector       string   `json:"sector"`
}

type simulateResponse struct {
	Result  *domain.ResultRecord    `json:"result"`
	Ranking []compare.RegimeRanking `json:"ranking"`
	Reform  *compare.ReformImpact   `json:"reform"`
}

// calculateRequest is the legacy flat-rate body. A missing renda means zero
// and a missing tipo means PF.
type calculateRequest struct {
	Renda float64 `json:"renda"`
	Tipo  string  `json:"tipo"`
}

type calculateResponse struct {
	Renda               float64 `json:"renda"`
	ImpostoAntigo       float64 `json:"imposto_antigo"`
	ImpostoNovo         float64 `json:"imposto_novo"`
	Diferenca           float64 `json:"diferenca"`
	PercentualDiferenca float64 `json:"percentual_diferenca"`
}

type jurisdictionEntry struct {
	Code  string                   `json:"code"`
	Name  string                   `json:"name"`
	Rates domain.JurisdictionRates `json:"rates"`
}

type sectorEntry struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	ServiceTaxRate decimal.Decimal `json:"serviceTaxRate"`
}

type catalogResponse struct {
	Metadata      domain.DatasetMetadata  `json:"metadata"`
	Parameters    domain.RegimeParameters `json:"parameters"`
	Jurisdictions []jurisdictionEntry     `json:"jurisdictions"`
	Sectors       []sectorEntry           `json:"sectors"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Revenue == nil {
		writeError(w, http.StatusBadRequest, errors.New("revenue is required"))
		return
	}
	profit := 0.0
	if req.Profit != nil {
		profit = *req.Profit
	}

	in, err := domain.NewInputRecord(*req.Revenue, profit, req.Jurisdiction, req.Sector)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	in.Name = req.Name

	result, err := s.compare.CompareOne(in)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}

	writeJSON(w, http.StatusOK, simulateResponse{
		Result:  result.Result,
		Ranking: result.Ranking,
		Reform:  result.Reform,
	})
}

// handleCalculate prices renda under the flat PF/PJ tables. tipo is matched
// case-insensitively ("pj" prices as PJ); unknown types price at zero.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	req := calculateRequest{Tipo: string(calculation.TaxpayerIndividual)}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	estimate, err := calculation.EstimateFlatReform(decimal.NewFromFloat(req.Renda), calculation.ParseTaxpayerType(req.Tipo))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, calculateResponse{
		Renda:               estimate.Income.InexactFloat64(),
		ImpostoAntigo:       estimate.CurrentTax.InexactFloat64(),
		ImpostoNovo:         estimate.ReformTax.InexactFloat64(),
		Diferenca:           estimate.Difference.InexactFloat64(),
		PercentualDiferenca: estimate.PercentDifference.InexactFloat64(),
	})
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	resp := catalogResponse{
		Metadata:   s.catalog.Metadata(),
		Parameters: s.catalog.Parameters(),
		Jurisdictions: lo.Map(s.catalog.Jurisdictions(), func(code string, _ int) jurisdictionEntry {
			return jurisdictionEntry{
				Code:  code,
				Name:  s.catalog.JurisdictionName(code),
				Rates: s.catalog.RatesForJurisdiction(code),
			}
		}),
		Sectors: lo.Map(s.catalog.Sectors(), func(code string, _ int) sectorEntry {
			return sectorEntry{
				Code:           code,
				Name:           s.catalog.SectorName(code),
				ServiceTaxRate: s.catalog.RateForSector(code),
			}
		}),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("malformed JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
