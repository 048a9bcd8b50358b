// Package agronomy holds the closed vocabularies shared by seeds and plots.
package agronomy

type SoilType string

const (
	SoilLoamy SoilType = "Loamy soil"
	SoilClay  SoilType = "Clay soil"
	SoilSandy SoilType = "Sandy soil"
	SoilSilt  SoilType = "Silt soil"
)

var SoilTypes = []SoilType{SoilLoamy, SoilClay, SoilSandy, SoilSilt}

func (s SoilType) Valid() bool {
	switch s {
	case SoilLoamy, SoilClay, SoilSandy, SoilSilt:
		return true
	}
	return false
}

type MoistureLevel string

const (
	MoistureLow      MoistureLevel = "Low"
	MoistureModerate MoistureLevel = "Moderate"
	MoistureHigh     MoistureLevel = "High"
)

var MoistureLevels = []MoistureLevel{MoistureLow, MoistureModerate, MoistureHigh}

func (m MoistureLevel) Valid() bool {
	switch m {
	case MoistureLow, MoistureModerate, MoistureHigh:
		return true
	}
	return false
}

type WeatherZone string

const (
	ZoneTropical      WeatherZone = "Tropical"
	ZoneTemperate     WeatherZone = "Temperate"
	ZoneArid          WeatherZone = "Arid"
	ZoneMediterranean WeatherZone = "Mediterranean"
)

var WeatherZones = []WeatherZone{ZoneTropical, ZoneTemperate, ZoneArid, ZoneMediterranean}

func (w WeatherZone) Valid() bool {
	switch w {
	case ZoneTropical, ZoneTemperate, ZoneArid, ZoneMediterranean:
		return true
	}
	return false
}
