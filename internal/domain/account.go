package domain

import (
	"time"
)

type Role string

const (
	// 主管理员由环境变量配置，不会作为数据库中的一行存在
	RolePrimaryAdmin   Role = "primary_admin"
	RoleSecondaryAdmin Role = "secondary_admin"
	RoleUser           Role = "user"
)

type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Email        *string   `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	Version      int32     `json:"-"`
}
