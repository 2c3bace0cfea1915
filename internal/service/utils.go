package service

import (
	"strconv"
)

func StringToFloat(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

func StringToInt64(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// FormatPrice 将价格格式化为交易所要求的 8 位小数字符串
func FormatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', 8, 64)
}

// FormatQuantity 将数量格式化为最短的十进制字符串（整数手数不带小数点）
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
