package auth

import (
	"database/sql"
	"errors"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("用户名不存在或密码错误")
	ErrAccountPending     = errors.New("账户等待主管理员审批")
)

type AccountSource interface {
	GetAccountByUsername(username string) (*domain.Account, error)
}

// Authenticator 校验用户名和密码。主管理员来自环境配置，
// 其密码哈希在构造时计算一次；其余账户存储在数据库中。
type Authenticator struct {
	adminUsername     string
	adminPasswordHash []byte
	accounts          AccountSource
}

func NewAuthenticator(adminUsername string, adminPassword string, accounts AccountSource) (*Authenticator, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		adminUsername:     adminUsername,
		adminPasswordHash: hash,
		accounts:          accounts,
	}, nil
}

// Authenticate 返回通过校验的主体和角色。
// 主管理员的用户名优先于数据库账户。
func (a *Authenticator) Authenticate(username string, password string) (string, domain.Role, error) {
	if username == a.adminUsername {
		if err := bcrypt.CompareHashAndPassword(a.adminPasswordHash, []byte(password)); err != nil {
			return "", "", ErrInvalidCredentials
		}
		return a.adminUsername, domain.RolePrimaryAdmin, nil
	}

	account, err := a.accounts.GetAccountByUsername(username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return "", "", ErrInvalidCredentials
		default:
			return "", "", err
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	// 自助注册的账户在审批前不允许登录
	if !account.IsActive {
		return "", "", ErrAccountPending
	}

	return account.Username, account.Role, nil
}
