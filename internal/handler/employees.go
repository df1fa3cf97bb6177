package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNo  string  `json:"employeeNo" validate:"required,max=50"`
		Name        string  `json:"name" validate:"required,max=100"`
		Department  *string `json:"department"`
		Designation *string `json:"designation"`
		Shift       string  `json:"shift" validate:"omitempty,oneof=D A B C G"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Shift == "" {
		req.Shift = domain.ShiftGeneral
	}

	employee := &domain.Employee{
		EmployeeNo:  req.EmployeeNo,
		Name:        req.Name,
		Department:  req.Department,
		Designation: req.Designation,
		Shift:       req.Shift,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "employees_employee_no_key":
			h.conflict(w, r, "工号已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.createdResponse(w, r, "员工创建成功", employee)
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	search := r.URL.Query().Get("search")
	skip := parseQueryInt(r, "skip", 0)
	limit := parseQueryInt(r, "limit", 100)

	employees, total, err := h.repository.ListEmployees(department, search, skip, limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取员工列表成功", map[string]any{
		"total":     total,
		"employees": employees,
	})
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)
	h.successResponse(w, r, "获取员工信息成功", employee)
}

// UpdateEmployee 更新员工主数据。工号一旦被考勤记录引用
// 就不可变，所以这里不允许修改工号。
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name"`
		Department  *string `json:"department"`
		Designation *string `json:"designation"`
		Shift       *string `json:"shift" validate:"omitempty,oneof=D A B C G"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if req.Name != nil {
		employee.Name = *req.Name
	}
	if req.Department != nil {
		employee.Department = req.Department
	}
	if req.Designation != nil {
		employee.Designation = req.Designation
	}
	if req.Shift != nil {
		employee.Shift = *req.Shift
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新员工信息成功", employee)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee := r.Context().Value(EmployeeCtx).(*domain.Employee)

	if err := h.repository.DeleteEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}

// EnrollFingerprint 录入或重新录入指纹，加密后覆盖旧模板。
func (h *Handler) EnrollFingerprint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmployeeNo          string `json:"employeeNo" validate:"required"`
		FingerprintTemplate string `json:"fingerprintTemplate" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	encrypted, err := h.box.Encrypt(req.FingerprintTemplate)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.UpdateEmployeeFingerprint(req.EmployeeNo, encrypted); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "员工不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "指纹录入成功", nil)
}

func parseQueryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
