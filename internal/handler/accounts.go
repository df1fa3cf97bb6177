package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

func (h *Handler) GetAllAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.repository.GetAllAccounts()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取账户列表成功", accounts)
}

// CreateAccount 主管理员直接创建账户，无须审批即可登录。
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
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
		IsActive:     true,
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

	if account.Email != nil {
		h.publishAccountMail("account_created", *account.Email, domain.AccountCreatedMailData{
			Username: account.Username,
		})
	}

	h.createdResponse(w, r, "账户创建成功", account)
}

// ApproveAccount 审批自助注册的账户，激活后才能登录。
func (h *Handler) ApproveAccount(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountInfoCtx).(*domain.Account)

	account.IsActive = true
	if err := h.repository.UpdateAccount(account); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "账户信息已变更，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if account.Email != nil {
		h.publishAccountMail("account_approved", *account.Email, domain.AccountApprovedMailData{
			Username: account.Username,
		})
	}

	h.successResponse(w, r, "审批成功", account)
}

func (h *Handler) PromoteAccount(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountInfoCtx).(*domain.Account)

	if account.Role != domain.RoleUser {
		h.conflict(w, r, "只有普通用户可以被提升为次级管理员")
		return
	}

	account.Role = domain.RoleSecondaryAdmin
	if err := h.repository.UpdateAccount(account); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "账户信息已变更，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "提升为次级管理员成功", account)
}

func (h *Handler) DemoteAccount(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountInfoCtx).(*domain.Account)

	if account.Role != domain.RoleSecondaryAdmin {
		h.conflict(w, r, "该账户不是次级管理员")
		return
	}

	account.Role = domain.RoleUser
	if err := h.repository.UpdateAccount(account); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.conflict(w, r, "账户信息已变更，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "降级为普通用户成功", account)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	account := r.Context().Value(AccountInfoCtx).(*domain.Account)

	if err := h.repository.DeleteAccount(account.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除账户成功", nil)
}
