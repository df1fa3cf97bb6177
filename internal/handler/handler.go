package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/auth"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/config"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/fingerprint"
	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client
	tokens      *auth.TokenManager
	authn       *auth.Authenticator
	box         *fingerprint.CryptoBox
	resolver    *fingerprint.Resolver

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	box, err := fingerprint.NewCryptoBox(cfg.Encryption.Secret)
	if err != nil {
		return nil, err
	}

	authn, err := auth.NewAuthenticator(cfg.PrimaryAdmin.Username, cfg.PrimaryAdmin.Password, repo)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,
		tokens:      auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Expiration),
		authn:       authn,
		box:         box,
		resolver:    fingerprint.NewResolver(box, repo),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
	})

	// 设备路由通过 X-API-Key 鉴权，不需要令牌
	h.Mux.Route("/device/attendance", func(r chi.Router) {
		r.Use(h.deviceAuth)
		r.Post("/mark", h.DeviceMark)
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/admin/accounts", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin, domain.RoleSecondaryAdmin})).Get("/", h.GetAllAccounts)
			r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin})).Post("/", h.CreateAccount)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin}))
				r.Use(h.accountInfo)
				r.Use(h.preventOperatePrimaryAdmin)
				r.Post("/approve", h.ApproveAccount)
				r.Post("/promote", h.PromoteAccount)
				r.Post("/demote", h.DemoteAccount)
				r.Delete("/", h.DeleteAccount)
			})
		})

		r.Route("/admin/employees", func(r chi.Router) {
			r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin, domain.RoleSecondaryAdmin})).Post("/", h.CreateEmployee)
			r.Get("/", h.ListEmployees)
			r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin, domain.RoleSecondaryAdmin})).Post("/fingerprint", h.EnrollFingerprint)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.Get("/", h.GetEmployee)
				r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin, domain.RoleSecondaryAdmin})).Patch("/", h.UpdateEmployee)
				// 删除员工会级联删除考勤记录，只有主管理员可以执行
				r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin})).Delete("/", h.DeleteEmployee)
			})
		})

		r.Route("/admin/attendance", func(r chi.Router) {
			r.Get("/", h.ListAttendance)
			r.Get("/today", h.TodayAttendance)
			r.Get("/summary", h.AttendanceSummary)
			r.Get("/status", h.EmployeesDayStatus)
			r.With(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin})).Post("/", h.CreateAttendanceRecord)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.RequiredRole([]domain.Role{domain.RolePrimaryAdmin}))
				r.Use(h.attendanceInfo)
				r.Patch("/", h.OverrideAttendance)
				r.Delete("/", h.DeleteAttendanceRecord)
			})
		})

		r.Route("/manual-attendance", func(r chi.Router) {
			r.Use(h.RequiredRole([]domain.Role{domain.RoleUser, domain.RoleSecondaryAdmin, domain.RolePrimaryAdmin}))
			r.Post("/time-in", h.ManualTimeIn)
			r.Post("/time-out", h.ManualTimeOut)
		})
	})
}
