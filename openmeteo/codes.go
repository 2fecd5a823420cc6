package openmeteo

import (
	"math"
	"strings"
)

var descriptions = map[string]map[int]string{
	"zh": {
		0: "晴朗", 1: "基本晴朗", 2: "部分多云", 3: "多云",
		45: "有雾", 48: "雾凇",
		51: "小雨", 53: "中雨", 55: "大雨",
		61: "小雨", 63: "中雨", 65: "大雨",
		71: "小雪", 73: "中雪", 75: "大雪", 77: "雪粒",
		80: "阵雨", 81: "中阵雨", 82: "大阵雨",
		85: "小阵雪", 86: "大阵雪",
		95: "雷暴", 96: "雷暴伴小冰雹", 99: "雷暴伴大冰雹",
	},
	"en": {
		0: "clear sky", 1: "mainly clear", 2: "partly cloudy", 3: "overcast",
		45: "fog", 48: "depositing rime fog",
		51: "light drizzle", 53: "moderate drizzle", 55: "dense drizzle",
		61: "light rain", 63: "moderate rain", 65: "heavy rain",
		71: "light snow", 73: "moderate snow", 75: "heavy snow", 77: "snow grains",
		80: "rain showers", 81: "moderate rain showers", 82: "violent rain showers",
		85: "light snow showers", 86: "heavy snow showers",
		95: "thunderstorm", 96: "thunderstorm with slight hail", 99: "thunderstorm with heavy hail",
	},
}

var unknown = map[string]string{"zh": "未知", "en": "unknown"}

// Describe maps a WMO weather code to a Chinese description.
func Describe(code int) string { return DescribeIn("zh", code) }

// DescribeIn maps a WMO weather code to a description in lang ("zh" or
// "en"; anything else falls back to "zh"). Unknown codes map to a fixed
// "unknown" string.
func DescribeIn(lang string, code int) string {
	lang = normalizeLang(lang)
	if d, ok := descriptions[lang][code]; ok {
		return d
	}
	return unknown[lang]
}

// ClothingBand is one of four contiguous temperature ranges.
type ClothingBand int

// BandUnknown is returned for a missing (NaN) temperature.
const BandUnknown ClothingBand = -1

// Bands: <10°C, [10,20), [20,30), >=30°C.
const (
	BandCold ClothingBand = iota
	BandCool
	BandWarm
	BandHot
)

var advice = map[string][4]string{
	"zh": {"厚外套、毛衣", "轻薄外套、长袖", "短袖、薄长裤", "短袖短裤，注意防晒"},
	"en": {"heavy coat and sweater", "light jacket and long sleeves", "short sleeves and light trousers", "shorts and t-shirt, use sun protection"},
}

// AdviseClothing returns the band for a temperature in Celsius.
func AdviseClothing(tempC float64) ClothingBand {
	switch {
	case math.IsNaN(tempC):
		return BandUnknown
	case tempC < 10:
		return BandCold
	case tempC < 20:
		return BandCool
	case tempC < 30:
		return BandWarm
	default:
		return BandHot
	}
}

// Advice returns the band's clothing suggestion in lang.
func (b ClothingBand) Advice(lang string) string {
	if b < BandCold || b > BandHot {
		return ""
	}
	return advice[normalizeLang(lang)][b]
}

// String implements fmt.Stringer.
func (b ClothingBand) String() string {
	switch b {
	case BandCold:
		return "cold"
	case BandCool:
		return "cool"
	case BandWarm:
		return "warm"
	case BandHot:
		return "hot"
	case BandUnknown:
		return "unknown"
	default:
		return "invalid"
	}
}

func normalizeLang(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "en") {
		return "en"
	}
	return "zh"
}
