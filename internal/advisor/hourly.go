package advisor

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"

	"raincheck/internal/types"
)

// Time-of-day condition pools for the synthetic intraday forecast. Conditions
// progress from clear nights toward wetter evenings.
var (
	nightConditions     = []string{"Clear", "Cloudy"}
	morningConditions   = []string{"Clear", "Partly Cloudy", "Cloudy"}
	afternoonConditions = []string{"Partly Cloudy", "Cloudy", "Light Rain"}
	eveningConditions   = []string{"Cloudy", "Overcast", "Light Rain"}
)

// Synthesizer generates plausible mock forecast data. The random source is
// injected so tests can seed it deterministically. rand.Rand is not
// goroutine-safe, so draws are serialized under mu; a Synthesizer may be
// shared across request goroutines.
type Synthesizer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSynthesizer creates a Synthesizer backed by the given random source.
func NewSynthesizer(rng *rand.Rand) *Synthesizer {
	return &Synthesizer{rng: rng}
}

// Hourly produces 8 forecast points at three-hour intervals (00:00 through
// 21:00). Temperatures vary around baseTemp: warmer offsets during daytime
// hours (06-18), cooler at night. Precipitation is clamped to [0, 100].
func (s *Synthesizer) Hourly(baseTemp float64) []types.HourlyPoint {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := make([]types.HourlyPoint, 0, 8)

	for hour := 0; hour < 24; hour += 3 {
		var variation float64
		if hour >= 6 && hour <= 18 {
			variation = s.uniform(-2, 5)
		} else {
			variation = s.uniform(-8, -1)
		}

		precipitation := clamp(s.uniform(-20, 30), 0, 100)

		points = append(points, types.HourlyPoint{
			Time:          fmt.Sprintf("%02d:00", hour),
			Temperature:   round1(baseTemp + variation),
			Precipitation: round1(precipitation),
			Conditions:    s.pick(conditionsForHour(hour)),
		})
	}

	return points
}

// Observation synthesizes a bounded random observation for requests that omit
// current conditions: temperature 10-40, humidity 40-100, wind 5-25,
// precipitation 0-100, condition drawn from the fixed pool.
func (s *Synthesizer) Observation() types.Observation {
	s.mu.Lock()
	defer s.mu.Unlock()

	return types.NewObservation(
		round1(s.uniform(10, 40)),
		round1(s.uniform(40, 100)),
		round1(s.uniform(5, 25)),
		round1(s.uniform(0, 100)),
		s.pick(types.WeatherConditions),
	)
}

func conditionsForHour(hour int) []string {
	switch {
	case hour < 6:
		return nightConditions
	case hour < 12:
		return morningConditions
	case hour < 18:
		return afternoonConditions
	default:
		return eveningConditions
	}
}

func (s *Synthesizer) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func (s *Synthesizer) pick(options []string) string {
	return options[s.rng.IntN(len(options))]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
