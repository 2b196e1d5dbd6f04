// Package advisor derives risk classifications, recommendations, and
// synthetic forecasts from weather observations. All functions here are
// deterministic given their inputs; the only randomness lives in Synthesizer,
// whose source is injected.
package advisor

import "raincheck/internal/types"

// Neutral defaults substituted for measurements absent from an observation.
// Chosen so a fully absent observation classifies as Low risk.
const (
	defaultTemperature   = 20
	defaultHumidity      = 50
	defaultWindSpeed     = 10
	defaultPrecipitation = 20
)

// Score thresholds for the additive overall risk level.
const (
	scoreCritical = 8
	scoreHigh     = 6
	scoreMedium   = 3
)

// Classify produces the full risk analysis for an observation: a per-factor
// assessment for precipitation, wind, and temperature, plus an additive
// overall score across all four measured factors. It is total; any
// observation yields a result.
func Classify(obs types.Observation) types.RiskAnalysis {
	temp := orDefault(obs.Temperature, defaultTemperature)
	humidity := orDefault(obs.Humidity, defaultHumidity)
	wind := orDefault(obs.WindSpeed, defaultWindSpeed)
	precip := orDefault(obs.Precipitation, defaultPrecipitation)

	score := temperatureScore(temp) + humidityScore(humidity) + windScore(wind) + precipitationScore(precip)

	return types.RiskAnalysis{
		PrecipitationRisk:  assessPrecipitation(precip),
		WindImpact:         assessWind(wind),
		TemperatureComfort: assessTemperature(temp),
		OverallRisk:        overallLevel(score),
		Score:              score,
	}
}

func orDefault(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func assessPrecipitation(precip float64) types.FactorAssessment {
	switch {
	case precip > 70:
		return types.FactorAssessment{
			Level:       string(types.RiskHigh),
			Description: "Heavy precipitation likely, significant impact on activities",
		}
	case precip > 40:
		return types.FactorAssessment{
			Level:       string(types.RiskMedium),
			Description: "Moderate precipitation expected, some impact on activities",
		}
	default:
		return types.FactorAssessment{
			Level:       string(types.RiskLow),
			Description: "Minimal precipitation expected, low impact on activities",
		}
	}
}

func assessWind(wind float64) types.FactorAssessment {
	switch {
	case wind > 30:
		return types.FactorAssessment{
			Level:       string(types.RiskHigh),
			Description: "Strong winds expected, high impact on outdoor activities",
		}
	case wind > 15:
		return types.FactorAssessment{
			Level:       string(types.RiskMedium),
			Description: "Moderate winds, some impact on activities and equipment",
		}
	default:
		return types.FactorAssessment{
			Level:       string(types.RiskLow),
			Description: "Light winds, minimal impact on activities",
		}
	}
}

func assessTemperature(temp float64) types.FactorAssessment {
	switch {
	case temp > 30:
		return types.FactorAssessment{
			Level:       string(types.RiskHigh),
			Description: "Very hot conditions, heat stress risk for prolonged exposure",
		}
	case temp < 5:
		return types.FactorAssessment{
			Level:       string(types.RiskHigh),
			Description: "Very cold conditions, risk of hypothermia and ice hazards",
		}
	case temp >= 18 && temp <= 25:
		return types.FactorAssessment{
			Level:       string(types.RiskLow),
			Description: "Comfortable temperature range for most activities",
		}
	default:
		return types.FactorAssessment{
			Level:       string(types.RiskMedium),
			Description: "Moderate temperature, some discomfort possible for extended periods",
		}
	}
}

func temperatureScore(temp float64) int {
	switch {
	case temp > 35 || temp < 0:
		return 3
	case temp > 30 || temp < 5:
		return 2
	case temp > 25 || temp < 10:
		return 1
	default:
		return 0
	}
}

func humidityScore(humidity float64) int {
	switch {
	case humidity > 80 || humidity < 20:
		return 2
	case humidity > 70 || humidity < 30:
		return 1
	default:
		return 0
	}
}

func windScore(wind float64) int {
	switch {
	case wind > 30:
		return 3
	case wind > 20:
		return 2
	case wind > 15:
		return 1
	default:
		return 0
	}
}

func precipitationScore(precip float64) int {
	switch {
	case precip > 70:
		return 3
	case precip > 50:
		return 2
	case precip > 30:
		return 1
	default:
		return 0
	}
}

func overallLevel(score int) types.RiskLevel {
	switch {
	case score >= scoreCritical:
		return types.RiskCritical
	case score >= scoreHigh:
		return types.RiskHigh
	case score >= scoreMedium:
		return types.RiskMedium
	default:
		return types.RiskLow
	}
}
