package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	AccountInfoCtx ContextKey = "accountInfo"
	EmployeeCtx    ContextKey = "employee"
	AttendanceCtx  ContextKey = "attendance"
)
