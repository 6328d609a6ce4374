package main

// This file implements the comfort rating: a deterministic rule table over
// temperature, humidity and wind speed.

// temperatureLabel classifies a temperature into one of six bands.
func temperatureLabel(temp float64) string {
	switch {
	case temp < 0:
		return "严寒"
	case temp < 10:
		return "寒冷"
	case temp < 18:
		return "凉爽"
	case temp < 26:
		return "舒适"
	case temp < 32:
		return "温暖"
	default:
		return "炎热"
	}
}

// humidityLabel classifies relative humidity (percent).
func humidityLabel(humidity float64) string {
	switch {
	case humidity > 85:
		return "潮湿"
	case humidity < 30:
		return "干燥"
	default:
		return "适中"
	}
}

// windLabel classifies wind speed (m/s). The label is reported alongside the
// comfort rating but does not feed into it in the current rule set.
func windLabel(windSpeed float64) string {
	switch {
	case windSpeed > 10:
		return "大风"
	case windSpeed > 5:
		return "有风"
	default:
		return "微风"
	}
}

// ComfortIndex combines the temperature and humidity classifications into a
// single qualitative rating. A comfortable temperature with moderate
// humidity is "非常舒适"; warm or cool temperatures that are not humid are
// "较为舒适"; every other combination concatenates the two labels.
func ComfortIndex(temp, humidity, windSpeed float64) string {
	tempScore := temperatureLabel(temp)
	humidityAdj := humidityLabel(humidity)

	switch {
	case tempScore == "舒适" && humidityAdj == "适中":
		return "非常舒适"
	case (tempScore == "温暖" || tempScore == "凉爽") && humidityAdj != "潮湿":
		return "较为舒适"
	default:
		return tempScore + humidityAdj
	}
}
