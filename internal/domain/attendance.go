package domain

import (
	"time"
)

// 打卡动作，设备端和手动补录共用
const (
	ActionTimeIn        = "time_in"
	ActionTimeOut       = "time_out"
	ActionAlreadyMarked = "already_marked"
	ActionCreated       = "created"
	ActionUpdated       = "updated"
)

// 手动补录时写入的设备标识
const ManualDeviceID = "MANUAL_ENTRY"

// 某个员工某一天的考勤状态
const (
	StatusNotMarked  = "not_marked"
	StatusTimeInOnly = "time_in_only"
	StatusComplete   = "complete"
)

// AttendanceRecord 是 (employee_no, date) 维度上的唯一一行。
// 日期格式为 2006-01-02，时间格式为 15:04:05。
type AttendanceRecord struct {
	ID               int64     `json:"id"`
	EmployeeNo       string    `json:"employeeNo"`
	Date             string    `json:"date"`
	TimeIn           *string   `json:"timeIn"`
	TimeOut          *string   `json:"timeOut"`
	TotalWorkMinutes int       `json:"totalWorkMinutes"`
	Overtime         bool      `json:"overtime"`
	OvertimeMinutes  int       `json:"overtimeMinutes"`
	DeviceID         *string   `json:"deviceId"`
	CreatedAt        time.Time `json:"createdAt"`
}

type AttendanceWithEmployee struct {
	AttendanceRecord
	EmployeeName string  `json:"employeeName"`
	Department   *string `json:"department"`
	Designation  *string `json:"designation"`
}

type EmployeeDayStatus struct {
	EmployeeNo   string  `json:"employeeNo"`
	Name         string  `json:"name"`
	Department   *string `json:"department"`
	AttendanceID *int64  `json:"attendanceId"`
	TimeIn       *string `json:"timeIn"`
	TimeOut      *string `json:"timeOut"`
	Status       string  `json:"status"`
}

type DailySummary struct {
	Date           string `json:"date"`
	TotalEmployees int    `json:"totalEmployees"`
	Present        int    `json:"present"`
	Absent         int    `json:"absent"`
	OnTime         int    `json:"onTime"`
	Late           int    `json:"late"`
	OvertimeCount  int    `json:"overtimeCount"`
}
