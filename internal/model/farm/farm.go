package farm

import "time"

// SensorReading is one sample of the field sensors.
type SensorReading struct {
	Moisture    int     `json:"moisture"`
	PH          float64 `json:"pH"`
	Temperature int     `json:"temperature"`
	Humidity    int     `json:"humidity"`
}

// WeatherReport is the subset of the weather provider's answer the dashboard shows.
type WeatherReport struct {
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Temperature float64 `json:"temperature"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

// Recommendation is an action produced by the field rules.
type Recommendation struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// Dashboard aggregates everything the dashboard page displays.
type Dashboard struct {
	Timestamp       time.Time        `json:"timestamp"`
	SensorData      SensorReading    `json:"sensorData"`
	Weather         *WeatherReport   `json:"weather,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation,omitempty"`
}
