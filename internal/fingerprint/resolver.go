package fingerprint

import (
	"errors"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

var ErrNoMatch = errors.New("指纹未匹配到任何员工")

type EmployeeSource interface {
	GetEnrolledEmployees() ([]*domain.Employee, error)
}

// Resolver 把设备上传的原始指纹模板解析成员工。
// 匹配方式是逐个解密已录入的模板后按字节比较，不是真正的
// 生物特征相似度匹配；解密失败的候选按不匹配处理。
// 代价与已录入员工数量成线性关系。
type Resolver struct {
	box       *CryptoBox
	employees EmployeeSource
}

func NewResolver(box *CryptoBox, employees EmployeeSource) *Resolver {
	return &Resolver{
		box:       box,
		employees: employees,
	}
}

func (r *Resolver) Resolve(rawTemplate string) (*domain.Employee, error) {
	if rawTemplate == "" {
		return nil, ErrNoMatch
	}

	employees, err := r.employees.GetEnrolledEmployees()
	if err != nil {
		return nil, err
	}

	for _, employee := range employees {
		if employee.FingerprintTemplate == nil {
			continue
		}

		stored, err := r.box.Decrypt(*employee.FingerprintTemplate)
		if err != nil {
			continue
		}

		if stored == rawTemplate {
			return employee, nil
		}
	}

	return nil, ErrNoMatch
}
