package repository

import (
	"context"
	"time"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	query := `
		INSERT INTO employees (employee_no, name, department, designation, shift)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.EmployeeNo, employee.Name, employee.Department, employee.Designation, employee.Shift}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.ID, &employee.CreatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `
		SELECT employee_no, name, department, designation, shift, fingerprint_template, created_at
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID: id,
	}

	dst := []any{&employee.EmployeeNo, &employee.Name, &employee.Department, &employee.Designation, &employee.Shift, &employee.FingerprintTemplate, &employee.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}
	employee.HasFingerprint = employee.FingerprintTemplate != nil

	return employee, nil
}

func (r *Repository) GetEmployeeByNo(employeeNo string) (*domain.Employee, error) {
	query := `
		SELECT id, name, department, designation, shift, fingerprint_template, created_at
		FROM employees WHERE employee_no = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		EmployeeNo: employeeNo,
	}

	dst := []any{&employee.ID, &employee.Name, &employee.Department, &employee.Designation, &employee.Shift, &employee.FingerprintTemplate, &employee.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, employeeNo).Scan(dst...); err != nil {
		return nil, err
	}
	employee.HasFingerprint = employee.FingerprintTemplate != nil

	return employee, nil
}

// ListEmployees 按部门过滤，search 会同时模糊匹配姓名和工号。
func (r *Repository) ListEmployees(department string, search string, skip int, limit int) ([]*domain.Employee, int, error) {
	query := `
		SELECT id, employee_no, name, department, designation, shift, fingerprint_template, created_at,
			COUNT(*) OVER() AS total
		FROM employees
		WHERE ($1 = '' OR department = $1)
			AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR employee_no ILIKE '%' || $2 || '%')
		ORDER BY id
		OFFSET $3 LIMIT $4
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, department, search, skip, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	total := 0
	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.EmployeeNo, &employee.Name, &employee.Department, &employee.Designation, &employee.Shift, &employee.FingerprintTemplate, &employee.CreatedAt, &total}
		if err := rows.Scan(dst...); err != nil {
			return nil, 0, err
		}
		employee.HasFingerprint = employee.FingerprintTemplate != nil
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			name = $1,
			department = $2,
			designation = $3,
			shift = $4
		WHERE id = $5
		RETURNING employee_no, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.Name, employee.Department, employee.Designation, employee.Shift, employee.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.EmployeeNo, &employee.CreatedAt); err != nil {
		return err
	}

	return nil
}

// DeleteEmployee 删除员工，考勤记录由外键级联删除。
func (r *Repository) DeleteEmployee(id int64) error {
	query := `
		DELETE FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}

// UpdateEmployeeFingerprint 覆盖写入加密后的指纹模板。
func (r *Repository) UpdateEmployeeFingerprint(employeeNo string, encryptedTemplate string) error {
	query := `
		UPDATE employees SET fingerprint_template = $1 WHERE employee_no = $2
		RETURNING id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var id int64
	if err := r.dbpool.QueryRowContext(ctx, query, encryptedTemplate, employeeNo).Scan(&id); err != nil {
		return err
	}

	return nil
}

// GetEnrolledEmployees 返回所有已录入指纹的员工，供指纹解析器线性扫描。
func (r *Repository) GetEnrolledEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, employee_no, name, department, designation, shift, fingerprint_template, created_at
		FROM employees WHERE fingerprint_template IS NOT NULL
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.EmployeeNo, &employee.Name, &employee.Department, &employee.Designation, &employee.Shift, &employee.FingerprintTemplate, &employee.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employee.HasFingerprint = true
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) CountEmployees() (int, error) {
	query := `
		SELECT COUNT(*) FROM employees
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	total := 0
	if err := r.dbpool.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}
