package solar

import (
	"testing"
	"time"

	"site-autobidder/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testLocation = model.Location{
		Latitude:  52.1051,
		Longitude: -3.6680,
		AltitudeM: 250,
		Timezone:  "Europe/London",
	}
	testArray = model.SolarArray{
		AreaM2:           2500,
		TiltDegrees:      45,
		BaseEfficiency:   0.196,
		TemperatureCoeff: -0.0037,
		MaxOutputW:       469_000,
	}
)

// testWindow builds a 49-slot dense window starting at 23:00 UTC with
// uniform temperature and weather code.
func testWindow(start time.Time, tempC float64, code int) model.ForecastWindow {
	w := make(model.ForecastWindow, 49)
	for i := range w {
		w[i] = model.Observation{
			Time:        start.Add(time.Duration(i) * 30 * time.Minute),
			Temperature: tempC,
			WeatherCode: code,
		}
	}
	return w
}

func TestTemperatureEfficiency(t *testing.T) {
	t.Run("reference temperature", func(t *testing.T) {
		assert.InDelta(t, 0.196, TemperatureEfficiency(0.196, -0.0037, 25), 1e-12)
	})
	t.Run("cold panels run better", func(t *testing.T) {
		assert.InDelta(t, 0.3366, TemperatureEfficiency(0.196, -0.0037, -13), 1e-9)
	})
	t.Run("hot panels run worse", func(t *testing.T) {
		got := TemperatureEfficiency(0.196, -0.0037, 40)
		assert.Less(t, got, 0.196)
		assert.InDelta(t, 0.196-15*0.0037, got, 1e-9)
	})
}

func TestWeatherFactor(t *testing.T) {
	cases := []struct {
		code int
		want float64
	}{
		{0, 1.0},
		{1, 1.0},
		{2, 0.5},
		{3, 0.5},
		{5, 0.5},
		{8, 0.5},
		{6, 0.1},
		{7, 0.1},
		{15, 0.1},
		{30, 0.1},
		{4, 0.0},
		{19, 0.0},
		{27, 0.0},
		{-1, 0.0},
		{99, 0.0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, WeatherFactor(tc.code), "code %d", tc.code)
	}
}

func TestIncidentPower(t *testing.T) {
	t.Run("zero below the horizon", func(t *testing.T) {
		midnight := time.Date(2021, 6, 21, 0, 30, 0, 0, time.UTC)
		assert.Zero(t, IncidentPower(model.Observation{Time: midnight}, testLocation, testArray))
	})

	t.Run("positive at midsummer noon", func(t *testing.T) {
		noon := time.Date(2021, 6, 21, 12, 0, 0, 0, time.UTC)
		got := IncidentPower(model.Observation{Time: noon}, testLocation, testArray)
		assert.Greater(t, got, 0.0)
	})

	t.Run("noon beats early morning", func(t *testing.T) {
		noon := time.Date(2021, 6, 21, 12, 0, 0, 0, time.UTC)
		morning := time.Date(2021, 6, 21, 5, 30, 0, 0, time.UTC)
		atNoon := IncidentPower(model.Observation{Time: noon}, testLocation, testArray)
		atMorning := IncidentPower(model.Observation{Time: morning}, testLocation, testArray)
		assert.Greater(t, atNoon, atMorning)
	})
}

func TestEstimate(t *testing.T) {
	start := time.Date(2021, 6, 20, 23, 0, 0, 0, time.UTC)

	t.Run("clear midsummer day produces energy", func(t *testing.T) {
		out, err := Estimate(testWindow(start, 18, 0), testLocation, testArray)
		require.NoError(t, err)
		require.Len(t, out, 49)

		total := 0.0
		for _, v := range out {
			total += v
		}
		assert.Greater(t, total, 0.0)
	})

	t.Run("output is bounded and non-negative", func(t *testing.T) {
		out, err := Estimate(testWindow(start, 18, 0), testLocation, testArray)
		require.NoError(t, err)
		// Instantaneous power is clamped to the rated max, so a half-hour
		// slot can hold at most maxW * 0.5h, in kWh.
		bound := testArray.MaxOutputW * 0.5 / 1000
		for i, v := range out {
			assert.GreaterOrEqual(t, v, 0.0, "slot %d", i)
			assert.LessOrEqual(t, v, bound, "slot %d", i)
		}
	})

	t.Run("closing slot is zero", func(t *testing.T) {
		out, err := Estimate(testWindow(start, 18, 0), testLocation, testArray)
		require.NoError(t, err)
		assert.Zero(t, out[len(out)-1])
	})

	t.Run("opaque weather kills output", func(t *testing.T) {
		out, err := Estimate(testWindow(start, 18, 25), testLocation, testArray)
		require.NoError(t, err)
		for i, v := range out {
			assert.Zero(t, v, "slot %d", i)
		}
	})

	t.Run("partly cloudy halves clear-sky output", func(t *testing.T) {
		// Uncapped array so the rated-max clamp cannot mask the ratio.
		uncapped := testArray
		uncapped.MaxOutputW = 1e12
		clear, err := Estimate(testWindow(start, 18, 0), testLocation, uncapped)
		require.NoError(t, err)
		partly, err := Estimate(testWindow(start, 18, 2), testLocation, uncapped)
		require.NoError(t, err)
		for i := range clear {
			assert.InDelta(t, clear[i]*0.5, partly[i], 1e-6, "slot %d", i)
		}
	})

	t.Run("rated max caps a bright day", func(t *testing.T) {
		small := testArray
		small.MaxOutputW = 1000
		out, err := Estimate(testWindow(start, 18, 0), testLocation, small)
		require.NoError(t, err)
		for i, v := range out {
			assert.LessOrEqual(t, v, small.MaxOutputW*0.5/1000, "slot %d", i)
		}
	})

	t.Run("invalid array rejected", func(t *testing.T) {
		bad := testArray
		bad.AreaM2 = 0
		_, err := Estimate(testWindow(start, 18, 0), testLocation, bad)
		assert.Error(t, err)
	})

	t.Run("invalid window rejected", func(t *testing.T) {
		w := testWindow(start, 18, 0)[:10]
		_, err := Estimate(w, testLocation, testArray)
		assert.Error(t, err)
	})
}
