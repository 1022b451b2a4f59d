package health

import "ecopulse-sim/internal/sensor"

// Level tells whether an action is a warning or a confirmation.
type Level string

const (
	LevelOK      Level = "ok"
	LevelWarning Level = "warning"
)

// Warning thresholds for the recommended actions. A reading strictly below
// its threshold yields a warning.
const (
	AirActionThreshold          = 60
	WaterActionThreshold        = 60
	SoilActionThreshold         = 50
	BiodiversityActionThreshold = 60
)

// Action is a recommendation derived from one primary reading.
// MessageKey indexes the label catalogue in internal/prefs.
type Action struct {
	Sensor     string `json:"sensor"`
	Value      int    `json:"value"`
	Level      Level  `json:"level"`
	MessageKey string `json:"message_key"`
}

// Recommend returns one action per primary reading, in display order.
func Recommend(s sensor.Snapshot) []Action {
	return []Action{
		action("air_quality", s.AirQuality, AirActionThreshold, "actions.airQualityLow", "actions.airQualityGood"),
		action("water_purity", s.WaterPurity, WaterActionThreshold, "actions.waterPurityLow", "actions.waterPurityGood"),
		action("soil_moisture", s.SoilMoisture, SoilActionThreshold, "actions.soilDry", "actions.soilGood"),
		action("biodiversity", s.Biodiversity, BiodiversityActionThreshold, "actions.biodiversityLow", "actions.biodiversityGood"),
	}
}

func action(name string, v, threshold int, lowKey, goodKey string) Action {
	if v < threshold {
		return Action{Sensor: name, Value: v, Level: LevelWarning, MessageKey: lowKey}
	}
	return Action{Sensor: name, Value: v, Level: LevelOK, MessageKey: goodKey}
}
