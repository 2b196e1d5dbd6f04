package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"raincheck/internal/types"
)

func TestRecommendKnownKeys(t *testing.T) {
	rec := Recommend("Stormy", types.RiskCritical, "wedding")

	assert.Equal(t, "High risk - postpone outdoor activities. Seek shelter immediately.", rec.WeatherAdvisory)
	assert.Equal(t, "Late morning or early afternoon recommended for best lighting.", rec.OptimalTiming)
	assert.Equal(t, "Comprehensive backup plans essential, consider cancellation. Indoor venue option, tent rental, rain date contingency.", rec.BackupPlans)
}

func TestRecommendUnknownKeysFallBack(t *testing.T) {
	rec := Recommend("Haboob", types.RiskLevel("Apocalyptic"), "lan-party")

	assert.Equal(t, genericAdvisory, rec.WeatherAdvisory)
	assert.Equal(t, genericTiming, rec.OptimalTiming)
	assert.Equal(t, genericBackup, rec.BackupPlans)
}

func TestRecommendLowRiskSports(t *testing.T) {
	rec := Recommend("Sunny", types.RiskLow, "sports")

	assert.Contains(t, rec.WeatherAdvisory, "sun protection")
	assert.Contains(t, rec.OptimalTiming, "Early morning or late afternoon")
	assert.Contains(t, rec.BackupPlans, "No backup plans needed")
	assert.Contains(t, rec.BackupPlans, "Indoor training facility")
}

func TestRecommendNeverEmpty(t *testing.T) {
	for _, condition := range append(types.WeatherConditions, "???") {
		for _, event := range append(types.EventTypes, "???") {
			rec := Recommend(condition, types.RiskMedium, event)
			assert.NotEmpty(t, rec.WeatherAdvisory)
			assert.NotEmpty(t, rec.OptimalTiming)
			assert.NotEmpty(t, rec.BackupPlans)
		}
	}
}
