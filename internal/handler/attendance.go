package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/attendance"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/fingerprint"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/utils"
)

type markResult struct {
	EmployeeNo   string  `json:"employeeNo"`
	EmployeeName string  `json:"employeeName"`
	Action       string  `json:"action"`
	Time         *string `json:"time"`
}

// acquireMarkLock 用 redis 锁串行化同一个员工同一天的打卡写入，
// 避免两次几乎同时的打卡在"查记录"和"插入"之间竞争。
// 返回 false 表示锁被其他请求持有。
func (h *Handler) acquireMarkLock(employeeNo string, date string) (func(), bool, error) {
	key := fmt.Sprintf("attendance_lock_%s_%s", employeeNo, date)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	ok, err := h.redisClient.SetNX(ctx, key, 1, time.Duration(h.config.Attendance.LockExpiration)*time.Second).Result()
	if err != nil || !ok {
		return nil, false, err
	}

	release := func() {
		delCtx, delCancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer delCancel()
		_ = h.redisClient.Del(delCtx, key).Err()
	}
	return release, true, nil
}

// applyMark 对某个员工执行一次打卡事件并持久化结果。
func (h *Handler) applyMark(w http.ResponseWriter, r *http.Request, employee *domain.Employee, deviceID string) (*domain.AttendanceRecord, string, bool) {
	today := time.Now().Format(attendance.DateLayout)
	now := time.Now().Format(attendance.TimeLayout)

	release, locked, err := h.acquireMarkLock(employee.EmployeeNo, today)
	if err != nil {
		h.internalServerError(w, r, err)
		return nil, "", false
	}
	if !locked {
		h.conflict(w, r, "打卡正在处理中，请稍后重试")
		return nil, "", false
	}
	defer release()

	existing, err := h.repository.GetAttendanceByEmployeeAndDate(employee.EmployeeNo, today)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return nil, "", false
	}
	if errors.Is(err, sql.ErrNoRows) {
		existing = nil
	}

	record, action, err := attendance.Mark(existing, employee.EmployeeNo, today, now, deviceID, employee.Shift)
	if err != nil {
		h.badRequest(w, r, err)
		return nil, "", false
	}

	switch action {
	case domain.ActionTimeIn:
		if err := h.repository.CreateAttendance(record); err != nil {
			var pgErr *pgconn.PgError
			switch {
			// 唯一索引兜底：即使锁失效，输掉竞争的一方也会在这里收到冲突
			case errors.As(err, &pgErr) && pgErr.ConstraintName == "attendance_employee_no_attendance_date_key":
				h.conflict(w, r, "该员工今天已有考勤记录，请重试")
			default:
				h.internalServerError(w, r, err)
			}
			return nil, "", false
		}
	case domain.ActionTimeOut:
		if err := h.repository.UpdateAttendance(record); err != nil {
			h.internalServerError(w, r, err)
			return nil, "", false
		}
	}

	return record, action, true
}

// DeviceMark 指纹设备打卡。第一次扫描签到，第二次签退，
// 之后的扫描不再修改记录。
func (h *Handler) DeviceMark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FingerprintTemplate string `json:"fingerprintTemplate" validate:"required"`
		DeviceID            string `json:"deviceId" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.resolver.Resolve(req.FingerprintTemplate)
	if err != nil {
		switch {
		case errors.Is(err, fingerprint.ErrNoMatch):
			h.notFound(w, r, "指纹未识别，找不到对应员工")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	record, action, ok := h.applyMark(w, r, employee, req.DeviceID)
	if !ok {
		return
	}

	var message string
	switch action {
	case domain.ActionTimeIn:
		message = fmt.Sprintf("%s 签到成功", employee.Name)
	case domain.ActionTimeOut:
		message = fmt.Sprintf("%s 签退成功，本日工作 %d 分钟", employee.Name, record.TotalWorkMinutes)
	default:
		message = fmt.Sprintf("%s 今天已完成打卡", employee.Name)
	}

	h.successResponse(w, r, message, markResult{
		EmployeeNo:   employee.EmployeeNo,
		EmployeeName: employee.Name,
		Action:       action,
		Time:         attendance.RecordedTime(record, action),
	})
}

// ManualTimeIn 手动为员工签到，与设备打卡共用同一套状态机。
func (h *Handler) ManualTimeIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNo string `json:"employeeNo" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployeeByNo(req.EmployeeNo)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	today := time.Now().Format(attendance.DateLayout)
	now := time.Now().Format(attendance.TimeLayout)

	release, locked, err := h.acquireMarkLock(employee.EmployeeNo, today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.conflict(w, r, "打卡正在处理中，请稍后重试")
		return
	}
	defer release()

	existing, err := h.repository.GetAttendanceByEmployeeAndDate(employee.EmployeeNo, today)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		h.internalServerError(w, r, err)
		return
	}

	if err == nil && existing.TimeIn != nil {
		h.successResponse(w, r, fmt.Sprintf("%s 今天已签到", employee.Name), markResult{
			EmployeeNo:   employee.EmployeeNo,
			EmployeeName: employee.Name,
			Action:       domain.ActionAlreadyMarked,
			Time:         existing.TimeIn,
		})
		return
	}

	deviceID := domain.ManualDeviceID
	record := &domain.AttendanceRecord{
		EmployeeNo: employee.EmployeeNo,
		Date:       today,
		TimeIn:     &now,
		DeviceID:   &deviceID,
	}

	if err := h.repository.CreateAttendance(record); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "attendance_employee_no_attendance_date_key":
			h.conflict(w, r, "该员工今天已有考勤记录，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, fmt.Sprintf("%s 签到成功", employee.Name), markResult{
		EmployeeNo:   employee.EmployeeNo,
		EmployeeName: employee.Name,
		Action:       domain.ActionTimeIn,
		Time:         record.TimeIn,
	})
}

// ManualTimeOut 手动为员工签退，需要当天已有签到记录。
func (h *Handler) ManualTimeOut(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNo string `json:"employeeNo" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployeeByNo(req.EmployeeNo)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	today := time.Now().Format(attendance.DateLayout)
	now := time.Now().Format(attendance.TimeLayout)

	release, locked, err := h.acquireMarkLock(employee.EmployeeNo, today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !locked {
		h.conflict(w, r, "打卡正在处理中，请稍后重试")
		return
	}
	defer release()

	existing, err := h.repository.GetAttendanceByEmployeeAndDate(employee.EmployeeNo, today)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, errors.New("该员工今天尚未签到"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if existing.TimeOut != nil {
		h.successResponse(w, r, fmt.Sprintf("%s 今天已完成打卡", employee.Name), markResult{
			EmployeeNo:   employee.EmployeeNo,
			EmployeeName: employee.Name,
			Action:       domain.ActionAlreadyMarked,
			Time:         existing.TimeOut,
		})
		return
	}

	deviceID := domain.ManualDeviceID
	existing.TimeOut = &now
	existing.DeviceID = &deviceID
	if err := attendance.Finalize(existing, employee.Shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateAttendance(existing); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, fmt.Sprintf("%s 签退成功，本日工作 %d 分钟", employee.Name, existing.TotalWorkMinutes), markResult{
		EmployeeNo:   employee.EmployeeNo,
		EmployeeName: employee.Name,
		Action:       domain.ActionTimeOut,
		Time:         existing.TimeOut,
	})
}

// ListAttendance 按日期范围、部门、员工过滤的考勤查询。
func (h *Handler) ListAttendance(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	department := r.URL.Query().Get("department")
	employeeNo := r.URL.Query().Get("employeeNo")
	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", 100)

	for _, date := range []string{startDate, endDate} {
		if date == "" {
			continue
		}
		if _, err := utils.ParseDate(date); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}

	if employeeNo != "" {
		if _, err := h.repository.GetEmployeeByNo(employeeNo); err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
	}

	records, total, err := h.repository.ListAttendance(startDate, endDate, department, employeeNo, skip, limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取考勤记录成功", map[string]any{
		"total":   total,
		"records": records,
	})
}

func (h *Handler) TodayAttendance(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(attendance.DateLayout)
	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", 100)

	records, total, err := h.repository.ListAttendance(today, today, "", "", skip, limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取今日考勤成功", map[string]any{
		"total":   total,
		"records": records,
	})
}

// AttendanceSummary 某一天的考勤日报，默认为今天。
func (h *Handler) AttendanceSummary(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = time.Now().Format(attendance.DateLayout)
	} else if _, err := utils.ParseDate(date); err != nil {
		h.badRequest(w, r, err)
		return
	}

	records, err := h.repository.GetAttendanceByDate(date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	totalEmployees, err := h.repository.CountEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	summary := attendance.Summarize(date, records, totalEmployees, h.config.Attendance.OnTimeCutoff)
	h.successResponse(w, r, "获取考勤日报成功", summary)
}

// EmployeesDayStatus 全部员工的今日考勤状态，供手动补录页面使用。
func (h *Handler) EmployeesDayStatus(w http.ResponseWriter, r *http.Request) {
	today := time.Now().Format(attendance.DateLayout)

	statuses, err := h.repository.ListEmployeesWithDayStatus(today)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工考勤状态成功", statuses)
}

// CreateAttendanceRecord 主管理员为任意日期补建考勤记录。
// 这是修正通道，绕过状态机的当天限制。
func (h *Handler) CreateAttendanceRecord(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNo string  `json:"employeeNo" validate:"required"`
		Date       string  `json:"date" validate:"required"`
		TimeIn     *string `json:"timeIn"`
		TimeOut    *string `json:"timeOut"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee, err := h.repository.GetEmployeeByNo(req.EmployeeNo)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	record := &domain.AttendanceRecord{
		EmployeeNo: employee.EmployeeNo,
		Date:       date,
	}

	if req.TimeIn != nil {
		timeIn, err := utils.ParseTimeOfDay(*req.TimeIn)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		record.TimeIn = &timeIn
	}
	if req.TimeOut != nil {
		timeOut, err := utils.ParseTimeOfDay(*req.TimeOut)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		record.TimeOut = &timeOut
	}

	if err := attendance.Finalize(record, employee.Shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateAttendance(record); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "attendance_employee_no_attendance_date_key":
			h.conflict(w, r, "该员工当天已有考勤记录")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.createdResponse(w, r, "考勤记录创建成功", map[string]any{
		"record": record,
		"action": domain.ActionCreated,
	})
}

// OverrideAttendance 主管理员直接改写签到或签退时间并强制重算，
// 不受状态机的限制。
func (h *Handler) OverrideAttendance(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TimeIn  *string `json:"timeIn"`
		TimeOut *string `json:"timeOut"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	record := r.Context().Value(AttendanceCtx).(*domain.AttendanceRecord)

	if req.TimeIn != nil {
		timeIn, err := utils.ParseTimeOfDay(*req.TimeIn)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		record.TimeIn = &timeIn
	}
	if req.TimeOut != nil {
		timeOut, err := utils.ParseTimeOfDay(*req.TimeOut)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		record.TimeOut = &timeOut
	}

	employee, err := h.repository.GetEmployeeByNo(record.EmployeeNo)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := attendance.Finalize(record, employee.Shift); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateAttendance(record); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "考勤记录更新成功", map[string]any{
		"record": record,
		"action": domain.ActionUpdated,
	})
}

func (h *Handler) DeleteAttendanceRecord(w http.ResponseWriter, r *http.Request) {
	record := r.Context().Value(AttendanceCtx).(*domain.AttendanceRecord)

	if err := h.repository.DeleteAttendance(record.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除考勤记录成功", nil)
}
