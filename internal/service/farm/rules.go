package farm

import (
	"fmt"
	"strings"

	"github.com/smartfarm/assistant/backend/internal/model/farm"
)

// Actions emitted by Recommend.
const (
	ActionWater = "Irrigate within 12 hours"
	ActionLime  = "Apply lime treatment"
	ActionShade = "Provide shade or cooling"
)

const (
	dryMoisture = 20
	acidicPH    = 5.5
	heatStressC = 35
)

// Recommend applies the field rules in order. weather may be nil when no
// forecast is available, in which case rain is assumed not to be expected.
func Recommend(reading farm.SensorReading, weather *farm.WeatherReport) []farm.Recommendation {
	recs := make([]farm.Recommendation, 0, 3)

	rainExpected := weather != nil && strings.Contains(strings.ToLower(weather.Description), "rain")
	if reading.Moisture < dryMoisture && !rainExpected {
		recs = append(recs, farm.Recommendation{
			Action: ActionWater,
			Reason: fmt.Sprintf("Soil moisture is %d%%, and no rain is expected.", reading.Moisture),
		})
	}

	if reading.PH < acidicPH {
		recs = append(recs, farm.Recommendation{
			Action: ActionLime,
			Reason: fmt.Sprintf("Soil pH is %.1f, which is too acidic for most crops.", reading.PH),
		})
	}

	if reading.Temperature > heatStressC {
		recs = append(recs, farm.Recommendation{
			Action: ActionShade,
			Reason: fmt.Sprintf("Temperature is %d°C, which may stress crops.", reading.Temperature),
		})
	}

	return recs
}
