package handlers

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"

	"raincheck/internal/advisor"
	"raincheck/internal/core"
	"raincheck/internal/external"
	"raincheck/internal/types"
)

// ForecastSynthesizer produces mock observations and hourly forecasts.
type ForecastSynthesizer interface {
	Hourly(baseTemp float64) []types.HourlyPoint
	Observation() types.Observation
}

// WeatherAnalysisRequest is the request body for POST /v1/weather/analysis.
// CurrentConditions is optional; when absent a bounded random observation is
// synthesized.
type WeatherAnalysisRequest struct {
	Latitude          float64            `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude         float64            `json:"longitude" validate:"gte=-180,lte=180"`
	Date              string             `json:"date" validate:"required,datetime=2006-01-02"`
	EventType         string             `json:"event_type,omitempty"`
	CurrentConditions *types.Observation `json:"current_conditions,omitempty"`
}

// AdvisorPrediction is the model-style prediction section of the analysis
// response.
type AdvisorPrediction struct {
	OverallRisk         types.RiskLevel `json:"overall_risk"`
	Confidence          float64         `json:"confidence"`
	KeyFactors          []string        `json:"key_factors"`
	Recommendations     []string        `json:"recommendations"`
	EventSpecificAdvice string          `json:"event_specific_advice"`
	Insights            string          `json:"insights"`
	ModelVersion        string          `json:"model_version"`
}

// WeatherAnalysisResponse is the full analysis payload.
type WeatherAnalysisResponse struct {
	Latitude          float64               `json:"latitude"`
	Longitude         float64               `json:"longitude"`
	Date              string                `json:"date"`
	EventType         string                `json:"event_type"`
	CurrentConditions types.Observation     `json:"current_conditions"`
	RiskAnalysis      types.RiskAnalysis    `json:"risk_analysis"`
	Recommendations   types.Recommendations `json:"recommendations"`
	HourlyForecast    []types.HourlyPoint   `json:"hourly_forecast"`
	Advisor           AdvisorPrediction     `json:"advisor"`
}

const (
	advisorModelVersion  = "z-ai-weather-v1.0"
	fallbackModelVersion = "fallback-v1.0"
)

var baseAdvisorRecommendations = []string{
	"Monitor weather conditions closely leading up to the event",
	"Have indoor backup plans ready",
	"Set up weather alert notifications",
	"Check for any weather warnings in the area",
}

var eventAdvisorRecommendations = map[string][]string{
	"wedding": {
		"Consider tent coverage for outdoor ceremonies",
		"Have indoor venue option available",
		"Plan for guest comfort in various conditions",
		"Coordinate with vendors on weather contingency plans",
	},
	"outdoor": {
		"Ensure proper shelter availability",
		"Plan for equipment protection",
		"Consider crowd management in different weather",
		"Have evacuation plans ready",
	},
	"concert": {
		"Protect electrical equipment from moisture",
		"Ensure stage coverage",
		"Plan for artist safety in various conditions",
		"Consider sound quality in different weather",
	},
	"parade": {
		"Plan alternative routes if needed",
		"Ensure participant safety in various conditions",
		"Have emergency shelter access points",
		"Coordinate with local authorities on weather plans",
	},
	"sports": {
		"Monitor player safety conditions",
		"Have field maintenance plans ready",
		"Consider spectator comfort and safety",
		"Plan for game delays or cancellations",
	},
}

var eventSpecificAdvice = map[string]string{
	"wedding": "For weddings, consider the comfort of guests and the importance of photography. Indoor venues with outdoor backup options work well. Monitor conditions closely and have rain contingency plans ready.",
	"outdoor": "General outdoor activities require flexibility and preparation. Have shelter options available and monitor changing conditions. Consider participant comfort and safety.",
	"concert": "Concerts require special attention to equipment protection and artist safety. Ensure proper coverage for stages and electrical equipment. Monitor wind conditions for outdoor setups.",
	"parade":  "Parades involve many participants and spectators. Plan for crowd safety, alternative routes, and emergency access. Monitor conditions that could affect visibility or safety.",
	"sports":  "Sports events require focus on player safety and field conditions. Monitor temperature extremes, precipitation, and wind that could affect play. Have plans for weather delays.",
}

const genericEventAdvice = "Monitor conditions and plan accordingly for your event."

// fallbackPrediction is substituted when the text advisor is unavailable.
func fallbackPrediction() AdvisorPrediction {
	return AdvisorPrediction{
		OverallRisk:         types.RiskMedium,
		Confidence:          0.6,
		KeyFactors:          []string{"Limited data available", "Using fallback analysis"},
		Recommendations:     []string{"Monitor conditions", "Have backup plans"},
		EventSpecificAdvice: "Proceed with caution and monitor weather updates",
		Insights:            "AI service unavailable - using standard weather analysis",
		ModelVersion:        fallbackModelVersion,
	}
}

// WeatherHandler serves the analysis endpoint, combining classification,
// recommendations, the synthetic hourly forecast, and advisor insight.
type WeatherHandler struct {
	synth     ForecastSynthesizer
	insight   external.TextAdvisor
	rngMu     sync.Mutex
	rng       *rand.Rand
	validator *core.Validator
	logger    *slog.Logger
}

// NewWeatherHandler creates a WeatherHandler with the provided dependencies.
func NewWeatherHandler(synth ForecastSynthesizer, insight external.TextAdvisor, rng *rand.Rand, v *core.Validator, l *slog.Logger) *WeatherHandler {
	if l == nil {
		l = slog.Default()
	}
	return &WeatherHandler{synth: synth, insight: insight, rng: rng, validator: v, logger: l}
}

// Routes returns the registrar mounting the weather endpoints under /v1.
func (h *WeatherHandler) Routes() core.RouteRegistrar {
	return func(r chi.Router) {
		r.Post("/weather/analysis", h.Analyze)
	}
}

// Analyze handles POST /v1/weather/analysis.
func (h *WeatherHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req WeatherAnalysisRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.Error(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		core.Error(w, r, err)
		return
	}

	eventType := req.EventType
	if eventType == "" {
		eventType = "outdoor"
	}

	var obs types.Observation
	if req.CurrentConditions != nil {
		obs = *req.CurrentConditions
	} else {
		obs = h.synth.Observation()
	}

	analysis := advisor.Classify(obs)
	recs := advisor.Recommend(obs.Conditions, analysis.OverallRisk, eventType)

	baseTemp := 20.0
	if obs.Temperature != nil {
		baseTemp = *obs.Temperature
	}

	resp := WeatherAnalysisResponse{
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		Date:              req.Date,
		EventType:         eventType,
		CurrentConditions: obs,
		RiskAnalysis:      analysis,
		Recommendations:   recs,
		HourlyForecast:    h.synth.Hourly(baseTemp),
		Advisor:           h.prediction(r, req, eventType, obs, analysis),
	}

	core.JSON(w, r, http.StatusOK, core.APIResponse{Data: resp})
}

// prediction assembles the advisor section. An unavailable insight backend
// degrades to the fixed fallback payload rather than failing the request.
func (h *WeatherHandler) prediction(r *http.Request, req WeatherAnalysisRequest, eventType string, obs types.Observation, analysis types.RiskAnalysis) AdvisorPrediction {
	insight, err := h.insight.Insight(r.Context(), external.Prompt{
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Date:       req.Date,
		EventType:  eventType,
		Conditions: obs,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "advisor insight unavailable, using fallback",
			slog.String("error", err.Error()),
		)
		return fallbackPrediction()
	}

	h.rngMu.Lock()
	confidence := math.Round((0.75+h.rng.Float64()*0.2)*100) / 100
	h.rngMu.Unlock()

	return AdvisorPrediction{
		OverallRisk:         analysis.OverallRisk,
		Confidence:          confidence,
		KeyFactors:          keyFactors(obs),
		Recommendations:     advisorRecommendations(eventType),
		EventSpecificAdvice: adviceFor(eventType),
		Insights:            insight,
		ModelVersion:        advisorModelVersion,
	}
}

// keyFactors renders the observation as display strings. Absent measurements
// show as N/A.
func keyFactors(obs types.Observation) []string {
	num := func(p *float64) string {
		if p == nil {
			return "N/A"
		}
		return fmt.Sprintf("%g", *p)
	}
	conditions := obs.Conditions
	if conditions == "" {
		conditions = "N/A"
	}
	return []string{
		fmt.Sprintf("Temperature: %s°C", num(obs.Temperature)),
		fmt.Sprintf("Humidity: %s%%", num(obs.Humidity)),
		fmt.Sprintf("Wind Speed: %s km/h", num(obs.WindSpeed)),
		fmt.Sprintf("Precipitation: %s%%", num(obs.Precipitation)),
		fmt.Sprintf("Conditions: %s", conditions),
	}
}

// advisorRecommendations joins the base list with event-specific entries,
// capped at six.
func advisorRecommendations(eventType string) []string {
	out := append([]string(nil), baseAdvisorRecommendations...)
	out = append(out, eventAdvisorRecommendations[eventType]...)
	if len(out) > 6 {
		out = out[:6]
	}
	return out
}

func adviceFor(eventType string) string {
	if advice, ok := eventSpecificAdvice[eventType]; ok {
		return advice
	}
	return genericEventAdvice
}
