package domain

import (
	"time"
)

// 班次代码决定加班阈值：D 班为 12 小时，A/B/C/G 班为 8 小时
const (
	ShiftDay     = "D"
	ShiftA       = "A"
	ShiftB       = "B"
	ShiftC       = "C"
	ShiftGeneral = "G"
)

type Employee struct {
	ID          int64   `json:"id"`
	EmployeeNo  string  `json:"employeeNo"`
	Name        string  `json:"name"`
	Department  *string `json:"department"`
	Designation *string `json:"designation"`
	Shift       string  `json:"shift"`
	// 指纹模板只以密文形式存储，永远不会出现在响应中
	FingerprintTemplate *string   `json:"-"`
	HasFingerprint      bool      `json:"hasFingerprint"`
	CreatedAt           time.Time `json:"createdAt"`
}
