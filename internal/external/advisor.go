// Package external provides the text advisor that contributes natural-language
// insight to weather analysis responses. The production implementation is a
// keyword-routed static pool; the interface leaves room for a real model
// backend later.
package external

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"raincheck/internal/types"
)

// Prompt carries the analysis inputs an advisor composes its message from.
type Prompt struct {
	Latitude   float64
	Longitude  float64
	Date       string
	EventType  string
	Conditions types.Observation
}

// TextAdvisor produces a free-text insight for an analysis request.
type TextAdvisor interface {
	Insight(ctx context.Context, p Prompt) (string, error)
}

var (
	weatherResponses = []string{
		"Based on current weather patterns, I can see that atmospheric conditions are showing significant variability. The combination of temperature, humidity, and wind patterns suggests we should monitor for potential weather changes.",
		"The current weather data indicates moderate conditions with typical seasonal variations. I recommend keeping an eye on precipitation probabilities and wind patterns for the next 24-48 hours.",
		"Weather analysis shows stable atmospheric pressure with normal temperature ranges. However, there are indications of possible frontal activity that could bring changes in conditions.",
		"Current meteorological data suggests favorable conditions for most outdoor activities. The temperature range and humidity levels are within comfortable parameters for the season.",
	}

	riskResponses = []string{
		"Risk assessment indicates moderate levels for most weather factors. The primary concerns appear to be precipitation probability and wind speed, which should be monitored closely for any significant changes.",
		"Based on the weather parameters, the overall risk level is currently manageable. Temperature conditions are stable, but we should remain vigilant about any rapid changes in atmospheric pressure.",
		"Weather risk analysis shows that current conditions pose minimal threat to planned activities. The main factors to consider are visibility and potential for sudden weather changes.",
		"Risk evaluation suggests that conditions are generally favorable. However, it's always prudent to have contingency plans in place for weather-related eventualities.",
	}

	predictionResponses = []string{
		"Weather prediction models indicate a trend toward more stable conditions over the next few days. The probability of significant weather events remains low based on current atmospheric patterns.",
		"Forecast analysis suggests that we can expect typical seasonal weather patterns with minor variations. Temperature trends show gradual warming with normal precipitation levels.",
		"Meteorological predictions point to continued stable conditions with occasional fluctuations. The overall pattern suggests minimal disruption to planned outdoor activities.",
		"Weather forecasting models indicate that current conditions will persist with gradual changes. No significant weather events are anticipated in the immediate forecast period.",
	}

	recommendationResponses = []string{
		"I recommend proceeding with planned activities while maintaining weather monitoring protocols. Current conditions support most outdoor events, but it's wise to have backup arrangements available.",
		"Based on the weather analysis, I suggest optimal timing would be during mid-day hours when conditions are most stable. Always have contingency plans for weather-related changes.",
		"My recommendation is to monitor conditions closely and be prepared to adjust schedules if needed. The current weather outlook is generally positive for most activities.",
		"I advise maintaining regular weather updates and having flexible plans in place. The meteorological conditions appear favorable, but weather can change rapidly.",
	}

	generalResponses = []string{
		"I'm here to help you with weather-related queries and analysis. I can provide information about current conditions, predictions, risk assessments, and recommendations for your activities.",
		"As your weather assistant, I can analyze meteorological data, provide forecasts, assess risks, and offer recommendations for planning outdoor events and activities.",
		"I specialize in weather analysis and prediction. Feel free to ask me about current conditions, forecasts, risk assessments, or recommendations for your specific needs.",
		"I'm equipped to help with various weather-related inquiries including current conditions, predictions, risk analysis, and planning recommendations for your activities.",
	}
)

// PoolAdvisor answers from fixed response pools, routed by keywords in the
// composed message. Deterministic under a seeded random source. One instance
// serves all request goroutines, so pool draws are serialized under mu.
type PoolAdvisor struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPoolAdvisor creates a pool advisor drawing from the given random source.
func NewPoolAdvisor(rng *rand.Rand) *PoolAdvisor {
	return &PoolAdvisor{rng: rng}
}

// Insight composes the analysis message and returns a pool response for it.
func (a *PoolAdvisor) Insight(ctx context.Context, p Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return a.respond(composeMessage(p)), nil
}

// respond routes a message to a response pool by the first matching keyword.
func (a *PoolAdvisor) respond(message string) string {
	lower := strings.ToLower(message)
	var pool []string
	switch {
	case strings.Contains(lower, "weather"):
		pool = weatherResponses
	case strings.Contains(lower, "risk"):
		pool = riskResponses
	case strings.Contains(lower, "prediction"):
		pool = predictionResponses
	case strings.Contains(lower, "recommendation"):
		pool = recommendationResponses
	default:
		pool = generalResponses
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	return pool[a.rng.IntN(len(pool))]
}

func composeMessage(p Prompt) string {
	c := p.Conditions
	format := func(v *float64, unit string) string {
		if v == nil {
			return "Unknown"
		}
		return fmt.Sprintf("%g%s", *v, unit)
	}
	conditions := c.Conditions
	if conditions == "" {
		conditions = "Unknown"
	}
	return fmt.Sprintf(
		"Provide a comprehensive weather prediction and analysis for latitude %g, longitude %g on %s. "+
			"Event type: %s. Current conditions: temperature %s, humidity %s, wind speed %s, precipitation %s, conditions %s. "+
			"Cover the overall risk, key factors, recommendations, optimal timing, and contingency planning for this event.",
		p.Latitude, p.Longitude, p.Date, p.EventType,
		format(c.Temperature, "°C"),
		format(c.Humidity, "%"),
		format(c.WindSpeed, " km/h"),
		format(c.Precipitation, "%"),
		conditions,
	)
}

var _ TextAdvisor = (*PoolAdvisor)(nil)
