package types

// Observation is a single snapshot of weather measurements at a place and
// time. Fields are pointers so that an absent measurement is distinguishable
// from a zero one; classification substitutes neutral defaults for absent
// fields, alert evaluation substitutes zero.
type Observation struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	Humidity      *float64 `json:"humidity,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
	Conditions    string   `json:"conditions,omitempty"`
}

// NewObservation builds a fully populated observation.
func NewObservation(temperature, humidity, windSpeed, precipitation float64, conditions string) Observation {
	return Observation{
		Temperature:   &temperature,
		Humidity:      &humidity,
		WindSpeed:     &windSpeed,
		Precipitation: &precipitation,
		Conditions:    conditions,
	}
}

// ValueFor returns the measurement matching an alert type. Absent measurements
// read as zero. The second return is false only for unrecognized alert types,
// which must never match an alert.
func (o Observation) ValueFor(t AlertType) (float64, bool) {
	deref := func(p *float64) float64 {
		if p == nil {
			return 0
		}
		return *p
	}
	switch t {
	case AlertTemperature:
		return deref(o.Temperature), true
	case AlertPrecipitation:
		return deref(o.Precipitation), true
	case AlertWind:
		return deref(o.WindSpeed), true
	case AlertHumidity:
		return deref(o.Humidity), true
	default:
		return 0, false
	}
}

// FactorAssessment is the per-factor classification outcome.
type FactorAssessment struct {
	Level       string `json:"level"`
	Description string `json:"description"`
}

// RiskAnalysis is the full classification of an observation: three factor
// assessments plus the additive overall score and its categorical level.
// Derived, never persisted.
type RiskAnalysis struct {
	PrecipitationRisk  FactorAssessment `json:"precipitation_risk"`
	WindImpact         FactorAssessment `json:"wind_impact"`
	TemperatureComfort FactorAssessment `json:"temperature_comfort"`
	OverallRisk        RiskLevel        `json:"overall_risk"`
	Score              int              `json:"score"`
}

// HourlyPoint is one entry of the synthetic intraday forecast.
type HourlyPoint struct {
	Time          string  `json:"time"`
	Temperature   float64 `json:"temperature"`
	Precipitation float64 `json:"precipitation"`
	Conditions    string  `json:"conditions"`
}

// Recommendations is the advisory text bundle for a condition/risk/event
// combination.
type Recommendations struct {
	WeatherAdvisory string `json:"weather_advisory"`
	OptimalTiming   string `json:"optimal_timing"`
	BackupPlans     string `json:"backup_plans"`
}
