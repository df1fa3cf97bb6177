package repository

import (
	"context"
	"time"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func (r *Repository) GetAttendanceByID(id int64) (*domain.AttendanceRecord, error) {
	query := `
		SELECT employee_no, attendance_date::text, time_in::text, time_out::text,
			total_work_minutes, overtime, overtime_minutes, device_id, created_at
		FROM attendance WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.AttendanceRecord{
		ID: id,
	}

	dst := []any{&record.EmployeeNo, &record.Date, &record.TimeIn, &record.TimeOut, &record.TotalWorkMinutes, &record.Overtime, &record.OvertimeMinutes, &record.DeviceID, &record.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) GetAttendanceByEmployeeAndDate(employeeNo string, date string) (*domain.AttendanceRecord, error) {
	query := `
		SELECT id, attendance_date::text, time_in::text, time_out::text,
			total_work_minutes, overtime, overtime_minutes, device_id, created_at
		FROM attendance WHERE employee_no = $1 AND attendance_date = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	record := &domain.AttendanceRecord{
		EmployeeNo: employeeNo,
	}

	dst := []any{&record.ID, &record.Date, &record.TimeIn, &record.TimeOut, &record.TotalWorkMinutes, &record.Overtime, &record.OvertimeMinutes, &record.DeviceID, &record.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeNo, date).Scan(dst...); err != nil {
		return nil, err
	}

	return record, nil
}

func (r *Repository) CreateAttendance(record *domain.AttendanceRecord) error {
	query := `
		INSERT INTO attendance (employee_no, attendance_date, time_in, time_out, total_work_minutes, overtime, overtime_minutes, device_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.EmployeeNo, record.Date, record.TimeIn, record.TimeOut, record.TotalWorkMinutes, record.Overtime, record.OvertimeMinutes, record.DeviceID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&record.ID, &record.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateAttendance(record *domain.AttendanceRecord) error {
	query := `
		UPDATE attendance
		SET
			time_in = $1,
			time_out = $2,
			total_work_minutes = $3,
			overtime = $4,
			overtime_minutes = $5,
			device_id = $6
		WHERE id = $7
		RETURNING employee_no, attendance_date::text, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{record.TimeIn, record.TimeOut, record.TotalWorkMinutes, record.Overtime, record.OvertimeMinutes, record.DeviceID, record.ID}
	dst := []any{&record.EmployeeNo, &record.Date, &record.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteAttendance(id int64) error {
	query := `
		DELETE FROM attendance WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// ListAttendance 带员工信息的考勤查询，所有过滤条件都是可选的。
// 空字符串表示不过滤，按日期倒序、签到时间正序返回。
func (r *Repository) ListAttendance(startDate string, endDate string, department string, employeeNo string, skip int, limit int) ([]*domain.AttendanceWithEmployee, int, error) {
	query := `
		SELECT a.id, a.employee_no, a.attendance_date::text, a.time_in::text, a.time_out::text,
			a.total_work_minutes, a.overtime, a.overtime_minutes, a.device_id, a.created_at,
			e.name, e.department, e.designation,
			COUNT(*) OVER() AS total
		FROM attendance a
		JOIN employees e ON a.employee_no = e.employee_no
		WHERE ($1 = '' OR a.attendance_date >= $1::date)
			AND ($2 = '' OR a.attendance_date <= $2::date)
			AND ($3 = '' OR e.department = $3)
			AND ($4 = '' OR a.employee_no = $4)
		ORDER BY a.attendance_date DESC, a.time_in
		OFFSET $5 LIMIT $6
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, startDate, endDate, department, employeeNo, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	records := make([]*domain.AttendanceWithEmployee, 0)
	for rows.Next() {
		record := &domain.AttendanceWithEmployee{}
		dst := []any{&record.ID, &record.EmployeeNo, &record.Date, &record.TimeIn, &record.TimeOut, &record.TotalWorkMinutes, &record.Overtime, &record.OvertimeMinutes, &record.DeviceID, &record.CreatedAt, &record.EmployeeName, &record.Department, &record.Designation, &total}
		if err := rows.Scan(dst...); err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// GetAttendanceByDate 返回某一天的全部考勤记录，供日报统计使用。
func (r *Repository) GetAttendanceByDate(date string) ([]*domain.AttendanceRecord, error) {
	query := `
		SELECT id, employee_no, attendance_date::text, time_in::text, time_out::text,
			total_work_minutes, overtime, overtime_minutes, device_id, created_at
		FROM attendance WHERE attendance_date = $1
		ORDER BY time_in
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.AttendanceRecord, 0)
	for rows.Next() {
		record := &domain.AttendanceRecord{}
		dst := []any{&record.ID, &record.EmployeeNo, &record.Date, &record.TimeIn, &record.TimeOut, &record.TotalWorkMinutes, &record.Overtime, &record.OvertimeMinutes, &record.DeviceID, &record.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// ListEmployeesWithDayStatus 返回全部员工及其某一天的考勤状态，
// 没有记录的员工也会出现在结果中。
func (r *Repository) ListEmployeesWithDayStatus(date string) ([]*domain.EmployeeDayStatus, error) {
	query := `
		SELECT e.employee_no, e.name, e.department, a.id, a.time_in::text, a.time_out::text
		FROM employees e
		LEFT JOIN attendance a ON a.employee_no = e.employee_no AND a.attendance_date = $1
		ORDER BY e.employee_no
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	statuses := make([]*domain.EmployeeDayStatus, 0)
	for rows.Next() {
		status := &domain.EmployeeDayStatus{}
		dst := []any{&status.EmployeeNo, &status.Name, &status.Department, &status.AttendanceID, &status.TimeIn, &status.TimeOut}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		switch {
		case status.AttendanceID == nil:
			status.Status = domain.StatusNotMarked
		case status.TimeOut == nil:
			status.Status = domain.StatusTimeInOnly
		default:
			status.Status = domain.StatusComplete
		}
		statuses = append(statuses, status)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return statuses, nil
}
