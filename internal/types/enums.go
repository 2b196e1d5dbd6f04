package types

// RiskLevel is the categorical severity rating derived from an observation.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskMedium   RiskLevel = "Medium"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// AlertType identifies which observation field a threshold alert watches.
type AlertType string

const (
	AlertTemperature   AlertType = "temperature"
	AlertPrecipitation AlertType = "precipitation"
	AlertWind          AlertType = "wind"
	AlertHumidity      AlertType = "humidity"
)

// IsValid reports whether t is one of the known alert types.
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTemperature, AlertPrecipitation, AlertWind, AlertHumidity:
		return true
	}
	return false
}

// AlertCondition is the comparison direction for a threshold alert.
type AlertCondition string

const (
	ConditionAbove AlertCondition = "above"
	ConditionBelow AlertCondition = "below"
)

// IsValid reports whether c is a known comparison direction.
func (c AlertCondition) IsValid() bool {
	return c == ConditionAbove || c == ConditionBelow
}

// WeatherConditions is the fixed pool of condition strings the service emits.
var WeatherConditions = []string{
	"Sunny", "Cloudy", "Rainy", "Stormy", "Partly Cloudy",
	"Overcast", "Light Rain", "Snow", "Clear", "Drizzle",
}

// EventTypes lists the activity categories recommendations are keyed by.
var EventTypes = []string{"wedding", "outdoor", "concert", "parade", "sports"}
