package attendance

import (
	"math"
	"testing"

	"github.com/Ismaelg12/timeflow/internal/model"
)

func TestValidateLocation(t *testing.T) {
	est := &model.Establishment{Latitude: -5.0892, Longitude: -42.8019, AllowedRadius: 100}

	tests := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"同一坐标", -5.0892, -42.8019, true},
		{"约 55 米", -5.0887, -42.8019, true},
		{"约 1.1 公里", -5.0792, -42.8019, false},
		{"NaN 纬度", math.NaN(), -42.8019, false},
		{"无穷经度", -5.0892, math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateLocation(est, tt.lat, tt.lon); got != tt.want {
				t.Errorf("期望 %v，实际: %v（距离 %.1f 米）", tt.want, got, Distance(est, tt.lat, tt.lon))
			}
		})
	}
}

func TestValidateLocation_BoundaryInclusive(t *testing.T) {
	// 0.5 度 × 111000 = 55500 米，二进制可精确表示
	est := &model.Establishment{Latitude: 0.5, Longitude: 0, AllowedRadius: 55500}
	if !ValidateLocation(est, 0, 0) {
		t.Error("恰好在半径边界上应判定为范围内")
	}
	est.AllowedRadius = 55499
	if ValidateLocation(est, 0, 0) {
		t.Error("超出半径 1 米应判定为范围外")
	}
}

func TestValidateLocation_NoLongitudeScaling(t *testing.T) {
	// 经度差与纬度差按相同系数换算
	est := &model.Establishment{Latitude: 0, Longitude: 0, AllowedRadius: 55500}
	if !ValidateLocation(est, 0, 0.5) {
		t.Error("经度差 0.5 度应等同于 55500 米")
	}
}

func TestValidateRawLocation(t *testing.T) {
	est := &model.Establishment{Latitude: -5.0892, Longitude: -42.8019, AllowedRadius: 100}
	if !ValidateRawLocation(est, " -5.0892 ", "-42.8019") {
		t.Error("合法文本坐标应通过")
	}
	if ValidateRawLocation(est, "abc", "-42.8019") {
		t.Error("无法解析的纬度应判定为范围外")
	}
	if ValidateRawLocation(est, "-5.0892", "") {
		t.Error("空经度应判定为范围外")
	}
}
