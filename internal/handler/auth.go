package handler

import (
	"errors"

	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/auth"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

// Register 自助注册。新账户是 user 角色且未激活，
// 需要主管理员审批后才能登录。
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string  `json:"username" validate:"required,min=3,max=50"`
		Password string  `json:"password" validate:"required,min=6"`
		Email    *string `json:"email" validate:"omitempty,email"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 主管理员的用户名不允许被注册
	if req.Username == h.config.PrimaryAdmin.Username {
		h.conflict(w, r, "用户名已存在")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	account := &domain.Account{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		Email:        req.Email,
		Role:         domain.RoleUser,
		IsActive:     false,
	}

	if err := h.repository.CreateAccount(account); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "accounts_username_key":
			h.conflict(w, r, "用户名已存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.createdResponse(w, r, "注册成功，等待主管理员审批", account)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	subject, role, err := h.authn.Authenticate(req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.unauthorized(w, r, "用户名不存在或密码错误")
		case errors.Is(err, auth.ErrAccountPending):
			h.unauthorized(w, r, "账户等待主管理员审批")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	token, err := h.tokens.Issue(subject, role)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "登录成功", map[string]any{
		"accessToken": token,
		"tokenType":   "bearer",
		"expiresIn":   int(h.tokens.Expiration().Seconds()),
		"role":        role,
	})
}
