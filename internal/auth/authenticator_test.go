package auth

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

type fakeAccountSource struct {
	accounts map[string]*domain.Account
}

func (s *fakeAccountSource) GetAccountByUsername(username string) (*domain.Account, error) {
	account, ok := s.accounts[username]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return account, nil
}

func newTestAccount(t *testing.T, username string, password string, role domain.Role, isActive bool) *domain.Account {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	return &domain.Account{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     isActive,
	}
}

func TestAuthenticate(t *testing.T) {
	source := &fakeAccountSource{
		accounts: map[string]*domain.Account{
			"lisi2":     newTestAccount(t, "lisi2", "lisi-password", domain.RoleSecondaryAdmin, true),
			"wangwu3":   newTestAccount(t, "wangwu3", "wangwu-password", domain.RoleUser, true),
			"pending99": newTestAccount(t, "pending99", "pending-password", domain.RoleUser, false),
		},
	}

	authn, err := NewAuthenticator("admin", "admin-password", source)
	require.NoError(t, err)

	tests := []struct {
		name         string
		username     string
		password     string
		expectedSub  string
		expectedRole domain.Role
		expectedErr  error
	}{
		{
			name:         "主管理员登录",
			username:     "admin",
			password:     "admin-password",
			expectedSub:  "admin",
			expectedRole: domain.RolePrimaryAdmin,
		},
		{
			name:        "主管理员密码错误",
			username:    "admin",
			password:    "wrong",
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:         "次管理员登录",
			username:     "lisi2",
			password:     "lisi-password",
			expectedSub:  "lisi2",
			expectedRole: domain.RoleSecondaryAdmin,
		},
		{
			name:         "普通用户登录",
			username:     "wangwu3",
			password:     "wangwu-password",
			expectedSub:  "wangwu3",
			expectedRole: domain.RoleUser,
		},
		{
			name:        "用户名不存在",
			username:    "nobody",
			password:    "whatever",
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "数据库账户密码错误",
			username:    "wangwu3",
			password:    "wrong",
			expectedErr: ErrInvalidCredentials,
		},
		{
			name:        "待审批账户不能登录",
			username:    "pending99",
			password:    "pending-password",
			expectedErr: ErrAccountPending,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, role, err := authn.Authenticate(tt.username, tt.password)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedSub, sub)
			assert.Equal(t, tt.expectedRole, role)
		})
	}
}

func TestAuthenticatePendingWrongPassword(t *testing.T) {
	// 密码错误优先于审批状态，避免泄露账户是否存在待审批记录
	source := &fakeAccountSource{
		accounts: map[string]*domain.Account{
			"pending99": newTestAccount(t, "pending99", "pending-password", domain.RoleUser, false),
		},
	}

	authn, err := NewAuthenticator("admin", "admin-password", source)
	require.NoError(t, err)

	_, _, err = authn.Authenticate("pending99", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
