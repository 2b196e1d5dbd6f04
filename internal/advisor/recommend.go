package advisor

import "raincheck/internal/types"

// conditionAdvisories maps a weather condition string to its advisory text.
var conditionAdvisories = map[string]string{
	"Sunny":      "Perfect weather for outdoor activities. Consider sun protection.",
	"Cloudy":     "Good conditions for most outdoor events. Light jacket recommended.",
	"Rainy":      "Indoor activities recommended. Have backup plans ready.",
	"Stormy":     "High risk - postpone outdoor activities. Seek shelter immediately.",
	"Light Rain": "Light rain expected. Waterproof clothing recommended.",
	"Overcast":   "Overcast skies - good for photography, mild conditions.",
	"Snow":       "Winter weather conditions. Dress warmly and be cautious of travel.",
	"Clear":      "Clear skies - excellent visibility for all activities.",
	"Drizzle":    "Light drizzle expected - minimal impact on activities.",
}

// eventTiming maps an event type to its optimal-timing guidance.
var eventTiming = map[string]string{
	"wedding": "Late morning or early afternoon recommended for best lighting.",
	"outdoor": "Mid-day activities preferred for optimal conditions.",
	"concert": "Evening events suitable, consider temperature drops.",
	"parade":  "Morning parades recommended to avoid afternoon heat/storms.",
	"sports":  "Early morning or late afternoon to avoid extreme temperatures.",
}

// riskBackupPlans maps an overall risk level to its baseline backup guidance.
var riskBackupPlans = map[types.RiskLevel]string{
	types.RiskLow:      "No backup plans needed. Proceed as planned.",
	types.RiskMedium:   "Have indoor alternatives available if conditions worsen.",
	types.RiskHigh:     "Prepare indoor venue options and flexible scheduling.",
	types.RiskCritical: "Comprehensive backup plans essential, consider cancellation.",
}

// eventBackupPlans maps an event type to its elaboration appended to the
// risk-level backup text.
var eventBackupPlans = map[string]string{
	"wedding": "Indoor venue option, tent rental, rain date contingency",
	"outdoor": "Indoor facility access, weather monitoring system",
	"concert": "Indoor stage backup, equipment protection plans",
	"parade":  "Alternative route planning, emergency shelter access",
	"sports":  "Indoor training facility, schedule flexibility",
}

// Fallback texts for unrecognized lookup keys. Unknown inputs never error;
// they degrade to generic guidance.
const (
	genericAdvisory = "Monitor weather conditions."
	genericTiming   = "Check weather updates regularly."
	genericBackup   = "Have contingency plans ready."
)

// Recommend assembles the advisory bundle for a condition, risk level, and
// event type. Pure table lookups; unknown keys yield generic defaults.
func Recommend(condition string, risk types.RiskLevel, eventType string) types.Recommendations {
	advisory, ok := conditionAdvisories[condition]
	if !ok {
		advisory = genericAdvisory
	}

	timing, ok := eventTiming[eventType]
	if !ok {
		timing = genericTiming
	}

	backup, ok := riskBackupPlans[risk]
	if !ok {
		backup = genericBackup
	}
	if elaboration, ok := eventBackupPlans[eventType]; ok {
		backup += " " + elaboration + "."
	}

	return types.Recommendations{
		WeatherAdvisory: advisory,
		OptimalTiming:   timing,
		BackupPlans:     backup,
	}
}
