package advisor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"raincheck/internal/types"
)

func obs(temp, humidity, wind, precip float64) types.Observation {
	return types.NewObservation(temp, humidity, wind, precip, "")
}

func TestClassifyTemperatureComfort(t *testing.T) {
	tests := []struct {
		name string
		temp float64
		want string
	}{
		{"comfortable lower bound", 18, "Low"},
		{"comfortable upper bound", 25, "Low"},
		{"comfortable middle", 21.5, "Low"},
		{"hot", 31, "High"},
		{"hot boundary stays medium", 30, "Medium"},
		{"cold", 4, "High"},
		{"cold boundary stays medium", 5, "Medium"},
		{"mild below comfort", 17.9, "Medium"},
		{"mild above comfort", 25.1, "Medium"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Classify(obs(tt.temp, 50, 10, 20))
			assert.Equal(t, tt.want, analysis.TemperatureComfort.Level)
		})
	}
}

func TestClassifyPrecipitationRisk(t *testing.T) {
	tests := []struct {
		name   string
		precip float64
		want   string
	}{
		{"dry", 0, "Low"},
		{"boundary 40 stays low", 40, "Low"},
		{"moderate", 41, "Medium"},
		{"boundary 70 stays medium", 70, "Medium"},
		{"heavy", 70.1, "High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Classify(obs(20, 50, 10, tt.precip))
			assert.Equal(t, tt.want, analysis.PrecipitationRisk.Level)
		})
	}
}

func TestClassifyWindImpact(t *testing.T) {
	tests := []struct {
		name string
		wind float64
		want string
	}{
		{"calm", 10, "Low"},
		{"boundary 15 stays low", 15, "Low"},
		{"moderate", 16, "Medium"},
		{"boundary 30 stays medium", 30, "Medium"},
		{"strong", 31, "High"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analysis := Classify(obs(20, 50, tt.wind, 20))
			assert.Equal(t, tt.want, analysis.WindImpact.Level)
		})
	}
}

func TestClassifyOverallRisk(t *testing.T) {
	t.Run("benign conditions score zero", func(t *testing.T) {
		analysis := Classify(obs(20, 50, 10, 20))
		assert.Equal(t, 0, analysis.Score)
		assert.Equal(t, types.RiskLow, analysis.OverallRisk)
	})

	t.Run("severe conditions are critical", func(t *testing.T) {
		// temp 36 -> 3, humidity 85 -> 2, wind 35 -> 3, precip 75 -> 3.
		analysis := Classify(obs(36, 85, 35, 75))
		assert.Equal(t, 11, analysis.Score)
		assert.Equal(t, types.RiskCritical, analysis.OverallRisk)
	})

	t.Run("medium band", func(t *testing.T) {
		// temp 28 -> 1, humidity 75 -> 1, wind 18 -> 1, precip 20 -> 0.
		analysis := Classify(obs(28, 75, 18, 20))
		assert.Equal(t, 3, analysis.Score)
		assert.Equal(t, types.RiskMedium, analysis.OverallRisk)
	})

	t.Run("high band", func(t *testing.T) {
		// temp 32 -> 2, humidity 50 -> 0, wind 22 -> 2, precip 55 -> 2.
		analysis := Classify(obs(32, 50, 22, 55))
		assert.Equal(t, 6, analysis.Score)
		assert.Equal(t, types.RiskHigh, analysis.OverallRisk)
	})
}

func TestClassifyMissingFieldsUseDefaults(t *testing.T) {
	analysis := Classify(types.Observation{})

	// Defaults (20C, 50%, 10 km/h, 20%) all land in the benign bands.
	assert.Equal(t, 0, analysis.Score)
	assert.Equal(t, types.RiskLow, analysis.OverallRisk)
	assert.Equal(t, "Low", analysis.TemperatureComfort.Level)
	assert.Equal(t, "Low", analysis.WindImpact.Level)
	assert.Equal(t, "Low", analysis.PrecipitationRisk.Level)
}

func TestClassifyIsDeterministic(t *testing.T) {
	o := obs(27.3, 66, 19.5, 48)
	assert.Equal(t, Classify(o), Classify(o))
}
