// Package attendance 实现考勤状态机和工时、加班的计算。
// 每个 (员工, 日期) 的状态只有三种：未打卡 → 已签到 → 已完成。
package attendance

import (
	"fmt"
	"time"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// ShiftThresholdMinutes 返回班次对应的加班阈值。
// D 班 12 小时，A/B/C/G 班和未设置班次都是 8 小时。
func ShiftThresholdMinutes(shift string) int {
	if shift == domain.ShiftDay {
		return 12 * 60
	}
	return 8 * 60
}

// WorkMinutes 计算签到和签退之间的分钟数。
// 签退时刻早于签到时刻按跨越午夜处理，加上 24 小时。
func WorkMinutes(timeIn string, timeOut string) (int, error) {
	in, err := time.Parse(TimeLayout, timeIn)
	if err != nil {
		return 0, fmt.Errorf("签到时间格式错误: %s", timeIn)
	}
	out, err := time.Parse(TimeLayout, timeOut)
	if err != nil {
		return 0, fmt.Errorf("签退时间格式错误: %s", timeOut)
	}

	inMinutes := in.Hour()*60 + in.Minute()
	outMinutes := out.Hour()*60 + out.Minute()

	if outMinutes < inMinutes {
		outMinutes += 24 * 60
	}

	return outMinutes - inMinutes, nil
}

// Overtime 根据加班阈值计算是否加班以及加班分钟数。
func Overtime(totalMinutes int, thresholdMinutes int) (bool, int) {
	if totalMinutes > thresholdMinutes {
		return true, totalMinutes - thresholdMinutes
	}
	return false, 0
}

// Finalize 重新计算记录的工时和加班字段。
// 只有签到和签退都存在时才会计算，否则全部归零。
func Finalize(record *domain.AttendanceRecord, shift string) error {
	if record.TimeIn == nil || record.TimeOut == nil {
		record.TotalWorkMinutes = 0
		record.Overtime = false
		record.OvertimeMinutes = 0
		return nil
	}

	total, err := WorkMinutes(*record.TimeIn, *record.TimeOut)
	if err != nil {
		return err
	}

	record.TotalWorkMinutes = total
	record.Overtime, record.OvertimeMinutes = Overtime(total, ShiftThresholdMinutes(shift))
	return nil
}

// Mark 对一条已有记录（或 nil）应用一次打卡事件，返回新的或被
// 修改的记录以及发生的动作。已完成的记录不会被修改。
func Mark(existing *domain.AttendanceRecord, employeeNo string, date string, now string, deviceID string, shift string) (*domain.AttendanceRecord, string, error) {
	if existing == nil {
		record := &domain.AttendanceRecord{
			EmployeeNo: employeeNo,
			Date:       date,
			TimeIn:     &now,
			DeviceID:   &deviceID,
		}
		return record, domain.ActionTimeIn, nil
	}

	if existing.TimeOut == nil {
		existing.TimeOut = &now
		existing.DeviceID = &deviceID
		if err := Finalize(existing, shift); err != nil {
			return nil, "", err
		}
		return existing, domain.ActionTimeOut, nil
	}

	return existing, domain.ActionAlreadyMarked, nil
}

// RecordedTime 返回某个动作对应应该回显的时间。
func RecordedTime(record *domain.AttendanceRecord, action string) *string {
	if action == domain.ActionTimeIn {
		return record.TimeIn
	}
	return record.TimeOut
}

// DayStatus 返回某条记录对应的考勤状态。
func DayStatus(record *domain.AttendanceRecord) string {
	switch {
	case record == nil:
		return domain.StatusNotMarked
	case record.TimeOut == nil:
		return domain.StatusTimeInOnly
	default:
		return domain.StatusComplete
	}
}

// Summarize 根据某一天的全部考勤记录计算日报。
// 准点的判定标准是签到时间不晚于 cutoff。
func Summarize(date string, records []*domain.AttendanceRecord, totalEmployees int, cutoff string) domain.DailySummary {
	summary := domain.DailySummary{
		Date:           date,
		TotalEmployees: totalEmployees,
		Present:        len(records),
		Absent:         totalEmployees - len(records),
	}

	for _, record := range records {
		if record.Overtime {
			summary.OvertimeCount++
		}
		if record.TimeIn != nil && *record.TimeIn <= cutoff {
			summary.OnTime++
		}
	}
	summary.Late = summary.Present - summary.OnTime

	return summary
}
