package utils

import (
	"fmt"
	"time"
)

// ParseDate 校验并规范化日期参数，只接受 2006-01-02 格式。
func ParseDate(value string) (string, error) {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return "", fmt.Errorf("日期格式错误: %s", value)
	}
	return parsed.Format("2006-01-02"), nil
}

// ParseTimeOfDay 校验并规范化时刻参数，接受 15:04 或 15:04:05，
// 统一返回 15:04:05 格式。
func ParseTimeOfDay(value string) (string, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("时间格式错误: %s", value)
}
