// Package cpf 处理巴西个人税号（CPF）
package cpf

import (
	"errors"
	"strings"
)

// ErrInvalidLength 去除标点后不是 11 位数字
var ErrInvalidLength = errors.New("CPF 必须为 11 位数字")

// Normalize 去除标点并校验长度，返回 11 位纯数字
// "123.456.789-09" 与 "12345678909" 得到相同结果
func Normalize(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == ' ' || r == '/':
		default:
			return "", ErrInvalidLength
		}
	}
	digits := b.String()
	if len(digits) != 11 {
		return "", ErrInvalidLength
	}
	return digits, nil
}

// Valid 校验两位校验码，拒绝全部相同数字的号码
func Valid(raw string) bool {
	digits, err := Normalize(raw)
	if err != nil {
		return false
	}
	if strings.Count(digits, digits[:1]) == 11 {
		return false
	}
	return checkDigit(digits[:9], 10) == digits[9] && checkDigit(digits[:10], 11) == digits[10]
}

func checkDigit(prefix string, weight int) byte {
	sum := 0
	for i := 0; i < len(prefix); i++ {
		sum += int(prefix[i]-'0') * (weight - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		rest = 0
	}
	return byte('0' + rest)
}

// Format 输出 000.000.000-00 格式，非法输入原样返回
func Format(raw string) string {
	d, err := Normalize(raw)
	if err != nil {
		return raw
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}
