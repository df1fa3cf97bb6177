package fingerprint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

type fakeEmployeeSource struct {
	employees []*domain.Employee
	err       error
}

func (s *fakeEmployeeSource) GetEnrolledEmployees() ([]*domain.Employee, error) {
	return s.employees, s.err
}

func enrolledEmployee(t *testing.T, box *CryptoBox, employeeNo string, template string) *domain.Employee {
	t.Helper()

	encrypted, err := box.Encrypt(template)
	require.NoError(t, err)

	return &domain.Employee{
		EmployeeNo:          employeeNo,
		Name:                "测试员工" + employeeNo,
		FingerprintTemplate: &encrypted,
		HasFingerprint:      true,
	}
}

func TestResolverResolve(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	source := &fakeEmployeeSource{
		employees: []*domain.Employee{
			enrolledEmployee(t, box, "EMP00001", "template-one"),
			enrolledEmployee(t, box, "EMP00002", "template-two"),
		},
	}
	resolver := NewResolver(box, source)

	t.Run("匹配到对应员工", func(t *testing.T) {
		employee, err := resolver.Resolve("template-two")
		require.NoError(t, err)
		assert.Equal(t, "EMP00002", employee.EmployeeNo)
	})

	t.Run("未匹配任何员工", func(t *testing.T) {
		_, err := resolver.Resolve("unknown-template")
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("空模板不匹配", func(t *testing.T) {
		_, err := resolver.Resolve("")
		assert.ErrorIs(t, err, ErrNoMatch)
	})
}

func TestResolverSkipsBadCandidates(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	// 第一个候选的密文是用其他密钥加密的，解密会失败，
	// 但不应影响后面的候选匹配
	otherBox, err := NewCryptoBox("other-secret")
	require.NoError(t, err)
	bad := enrolledEmployee(t, otherBox, "EMP00001", "template-one")

	source := &fakeEmployeeSource{
		employees: []*domain.Employee{
			bad,
			enrolledEmployee(t, box, "EMP00002", "template-one"),
		},
	}
	resolver := NewResolver(box, source)

	employee, err := resolver.Resolve("template-one")
	require.NoError(t, err)
	assert.Equal(t, "EMP00002", employee.EmployeeNo)
}

func TestResolverSourceError(t *testing.T) {
	box, err := NewCryptoBox("test-secret")
	require.NoError(t, err)

	sourceErr := errors.New("数据库连接失败")
	resolver := NewResolver(box, &fakeEmployeeSource{err: sourceErr})

	_, err = resolver.Resolve("template-one")
	assert.ErrorIs(t, err, sourceErr)
}
