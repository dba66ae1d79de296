package attendance

import (
	"math"
	"strconv"
	"strings"

	"github.com/Ismaelg12/timeflow/internal/model"
)

// MetersPerDegree 平面近似下每度对应的米数
// 经纬度差直接按欧氏距离换算，不做球面修正。
const MetersPerDegree = 111000.0

// Distance 打卡坐标到工作地点的近似距离（米）
func Distance(est *model.Establishment, lat, lon float64) float64 {
	dLat := est.Latitude - lat
	dLon := est.Longitude - lon
	return math.Sqrt(dLat*dLat+dLon*dLon) * MetersPerDegree
}

// ValidateLocation 坐标是否在允许半径内（含边界）
// 非有限数值一律判定为范围外。
func ValidateLocation(est *model.Establishment, lat, lon float64) bool {
	if !finite(lat) || !finite(lon) || !finite(est.Latitude) || !finite(est.Longitude) {
		return false
	}
	return Distance(est, lat, lon) <= float64(est.AllowedRadius)
}

// ValidateRawLocation 解析文本坐标后校验，无法解析时判定为范围外
func ValidateRawLocation(est *model.Establishment, rawLat, rawLon string) bool {
	lat, err := strconv.ParseFloat(strings.TrimSpace(rawLat), 64)
	if err != nil {
		return false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rawLon), 64)
	if err != nil {
		return false
	}
	return ValidateLocation(est, lat, lon)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
