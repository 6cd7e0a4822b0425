// Package audit exposes the audit toolkit over HTTP: single ratios, the
// composite scores, validation and the full report in Markdown, HTML, PDF or
// JSON.
package audit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/phuslu/log"

	coreaudit "fundamental_audit/pkg/core/audit"
	"fundamental_audit/pkg/core/config"
	"fundamental_audit/pkg/core/forecast"
	"fundamental_audit/pkg/core/ratio"
	"fundamental_audit/pkg/core/score"
	"fundamental_audit/pkg/core/technical"
	"fundamental_audit/pkg/core/validation"
	"fundamental_audit/pkg/core/valuation"
	"fundamental_audit/pkg/models"
	"fundamental_audit/pkg/report"
)

// ScoreDefaults carries configured score-model assumptions applied when a
// request does not override them.
type ScoreDefaults struct {
	EVA    score.EVAParams
	Merton score.MertonParams
}

// DefaultsFromConfig maps configured score assumptions onto engine
// parameters. Zero config values leave the package defaults in force.
func DefaultsFromConfig(p config.ScoreParams) ScoreDefaults {
	var d ScoreDefaults
	if p.WACC != 0 {
		d.EVA.WACC = score.Float(p.WACC)
	}
	if p.TaxRate != 0 {
		d.EVA.TaxRate = score.Float(p.TaxRate)
	}
	if p.RiskFreeRate != 0 {
		d.Merton.RiskFreeRate = score.Float(p.RiskFreeRate)
	}
	if p.HorizonYears != 0 {
		d.Merton.HorizonYears = score.Float(p.HorizonYears)
	}
	return d
}

// Handler serves the audit API.
type Handler struct {
	ratios     *ratio.Engine
	scores     *score.Engine
	validator  *validation.Engine
	technical  *technical.Engine
	valuations *valuation.Engine
	assembler  *coreaudit.Assembler
	defaults   ScoreDefaults
}

// NewHandler wires the engines into one HTTP handler set.
func NewHandler(ratios *ratio.Engine, scores *score.Engine, validator *validation.Engine, tech *technical.Engine, valuations *valuation.Engine, assembler *coreaudit.Assembler, defaults ScoreDefaults) *Handler {
	return &Handler{
		ratios:     ratios,
		scores:     scores,
		validator:  validator,
		technical:  tech,
		valuations: valuations,
		assembler:  assembler,
		defaults:   defaults,
	}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/ratios", h.HandleRatio)
	mux.HandleFunc("/api/ratios/names", h.HandleRatioNames)
	mux.HandleFunc("/api/scores", h.HandleScores)
	mux.HandleFunc("/api/validate", h.HandleValidate)
	mux.HandleFunc("/api/technical", h.HandleTechnical)
	mux.HandleFunc("/api/forecast", h.HandleForecast)
	mux.HandleFunc("/api/valuation", h.HandleValuation)
	mux.HandleFunc("/api/report", h.HandleReport)
}

// statementKey pulls the shared (ticker, period, date) query triple.
func statementKey(r *http.Request) (string, models.PeriodType, string, bool) {
	q := r.URL.Query()
	ticker := strings.ToUpper(q.Get("ticker"))
	period := models.PeriodType(q.Get("period"))
	if period == "" {
		period = models.PeriodAnnual
	}
	date := q.Get("date")
	return ticker, period, date, ticker != "" && date != "" && period.Valid()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("response encode failed")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// queryFloat parses a float query parameter, keeping the fallback on absence
// or a malformed value.
func queryFloat(q url.Values, name string, fallback float64) float64 {
	if raw := q.Get(name); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return v
		}
	}
	return fallback
}

// HandleRatio computes one named catalog ratio, or a custom field-over-field
// ratio when num/den parameters are given.
func (h *Handler) HandleRatio(w http.ResponseWriter, r *http.Request) {
	ticker, period, date, ok := statementKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ticker, date and a valid period are required")
		return
	}
	q := r.URL.Query()

	if num, den := q.Get("num"), q.Get("den"); num != "" || den != "" {
		result, err := h.ratios.ComputeCustomRatio(r.Context(), ticker, period, date, num, den)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, result)
		return
	}

	name := q.Get("name")
	result, known := h.ratios.ComputeByName(r.Context(), name, ticker, period, date)
	if !known {
		writeError(w, http.StatusNotFound, "unknown ratio name: "+name)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleRatioNames lists the canonical catalog names.
func (h *Handler) HandleRatioNames(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"names": ratio.Names()})
}

// scoresResponse bundles every composite score for one statement key.
type scoresResponse struct {
	DuPont         *score.DuPontResult         `json:"dupont"`
	ExtendedDuPont *score.ExtendedDuPontResult `json:"extended_dupont"`
	Altman         *score.AltmanResult         `json:"altman"`
	Beneish        *score.BeneishResult        `json:"beneish"`
	Ohlson         *score.OhlsonResult         `json:"ohlson"`
	Piotroski      *score.PiotroskiResult      `json:"piotroski"`
	EVA            *score.EVAResult            `json:"eva"`
	Merton         *score.MertonResult         `json:"merton"`
	Rating         *score.RatingResult         `json:"rating"`
	VaR            *score.VaRResult            `json:"value_at_risk"`
	Benford        *score.BenfordResult        `json:"benford"`
}

// HandleScores runs the full composite suite.
func (h *Handler) HandleScores(w http.ResponseWriter, r *http.Request) {
	ticker, period, date, ok := statementKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ticker, date and a valid period are required")
		return
	}
	ctx := r.Context()

	resp := scoresResponse{
		DuPont:         h.scores.DuPont(ctx, ticker, period, date),
		ExtendedDuPont: h.scores.ExtendedDuPont(ctx, ticker, period, date),
		Altman:         h.scores.AltmanZ(ctx, ticker, period, date),
		Beneish:        h.scores.BeneishM(ctx, ticker, period, date),
		Ohlson:         h.scores.OhlsonO(ctx, ticker, period, date),
		Piotroski:      h.scores.PiotroskiF(ctx, ticker, period, date),
		EVA:            h.scores.EVA(ctx, ticker, period, date, h.defaults.EVA),
		Merton:         h.scores.MertonDD(ctx, ticker, period, date, h.defaults.Merton),
		Rating:         h.scores.CreditRating(ctx, ticker, period, date),
		VaR:            h.scores.ComputeVaRFixed95(ctx, ticker, date),
		Benford:        h.scores.BenfordScreen(ctx, ticker, period, date),
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleValidate cross-checks reported ratios, optionally at a non-default
// confidence VaR via the "confidence" parameter.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ticker, period, date, ok := statementKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ticker, date and a valid period are required")
		return
	}

	records, err := h.validator.ValidateRatios(r.Context(), ticker, period, date)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ratio.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	resp := map[string]any{"records": records}
	if c := r.URL.Query().Get("confidence"); c != "" {
		conf, err := strconv.ParseFloat(c, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "confidence must be a number")
			return
		}
		resp["value_at_risk"] = h.scores.ComputeVaRParam(r.Context(), ticker, conf)
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleTechnical returns the indicator snapshot for a ticker.
func (h *Handler) HandleTechnical(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.URL.Query().Get("ticker"))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	snap := h.technical.Analyze(r.Context(), ticker, r.URL.Query().Get("date"))
	if snap == nil {
		writeError(w, http.StatusNotFound, "no price history for "+ticker)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleValuation runs the DCF, Gordon DDM and Graham number models for one
// statement key. Model assumptions come from query parameters with sensible
// defaults. The discount rate is taken from the "wacc" parameter when given;
// otherwise it is derived from CAPM assumptions and the balance-sheet capital
// structure, with the package default as the last resort.
func (h *Handler) HandleValuation(w http.ResponseWriter, r *http.Request) {
	ticker, period, date, ok := statementKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ticker, date and a valid period are required")
		return
	}
	q := r.URL.Query()
	ctx := r.Context()

	years := 5
	if raw := q.Get("years"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			years = v
		}
	}

	growth := queryFloat(q, "growth", 0.05)
	terminal := queryFloat(q, "terminal_growth", 0.025)
	required := queryFloat(q, "required_rate", 0.09)
	divGrowth := queryFloat(q, "dividend_growth", 0.03)

	var waccDetail *valuation.WACCResult
	wacc := score.DefaultWACC
	if q.Get("wacc") != "" {
		wacc = queryFloat(q, "wacc", wacc)
	} else {
		in := valuation.WACCInput{
			UnleveredBeta:     queryFloat(q, "beta", 1.0),
			RiskFreeRate:      queryFloat(q, "risk_free_rate", score.DefaultRiskFreeRate),
			MarketRiskPremium: queryFloat(q, "market_risk_premium", 0.055),
			PreTaxCostOfDebt:  queryFloat(q, "cost_of_debt", 0.05),
			TaxRate:           queryFloat(q, "tax_rate", score.DefaultTaxRate),
		}
		if waccDetail = h.valuations.WACCFromStatements(ctx, ticker, period, date, in); waccDetail != nil {
			wacc = waccDetail.WACC
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"wacc":          waccDetail,
		"dcf":           h.valuations.DCFFromStatements(ctx, ticker, period, date, growth, years, wacc, terminal),
		"gordon_ddm":    h.valuations.GordonDDM(ctx, ticker, period, date, required, divGrowth),
		"graham_number": h.valuations.GrahamNumber(ctx, ticker, period, date),
	})
}

// HandleForecast projects the ticker's close series forward. The "method"
// parameter selects linear (default), ses or holt; "horizon" is the number of
// projected steps.
func (h *Handler) HandleForecast(w http.ResponseWriter, r *http.Request) {
	ticker := strings.ToUpper(r.URL.Query().Get("ticker"))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	q := r.URL.Query()

	horizon := 5
	if raw := q.Get("horizon"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			horizon = v
		}
	}

	closes := h.technical.Closes(r.Context(), ticker, q.Get("date"))

	var proj *forecast.Projection
	switch q.Get("method") {
	case "", "linear":
		proj = forecast.LinearTrend(closes, horizon)
	case "ses":
		proj = forecast.ExponentialSmoothing(closes, queryFloat(q, "alpha", 0.5), horizon)
	case "holt":
		proj = forecast.HoltSmoothing(closes, queryFloat(q, "alpha", 0.5), queryFloat(q, "beta", 0.3), horizon)
	default:
		writeError(w, http.StatusBadRequest, "unknown method: "+q.Get("method"))
		return
	}
	if proj == nil {
		writeError(w, http.StatusNotFound, "not enough price history for "+ticker)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ticker":       ticker,
		"observations": len(closes),
		"projection":   proj,
	})
}

// HandleReport assembles the full audit report. The "format" parameter
// selects json (default), markdown, html or pdf; "trend_dates" is a
// comma-separated fiscal date list for the ROE trend section.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ticker, period, date, ok := statementKey(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ticker, date and a valid period are required")
		return
	}

	var trendDates []string
	if raw := r.URL.Query().Get("trend_dates"); raw != "" {
		for _, d := range strings.Split(raw, ",") {
			if d = strings.TrimSpace(d); d != "" {
				trendDates = append(trendDates, d)
			}
		}
	}

	rep, err := h.assembler.GenerateReport(r.Context(), ticker, period, date, trendDates)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ratio.ErrInvalidArgument) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	switch r.URL.Query().Get("format") {
	case "", "json":
		writeJSON(w, http.StatusOK, rep)
	case "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Write([]byte(report.RenderMarkdown(rep)))
	case "html":
		html, err := report.RenderHTML(rep)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
	case "pdf":
		pdf, err := report.RenderPDF(rep)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Write(pdf)
	default:
		writeError(w, http.StatusBadRequest, "unknown format")
	}

	log.Info().Str("ticker", ticker).Str("date", date).Msg("audit report served")
}
