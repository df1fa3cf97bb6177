package utils

import (
	"fmt"
	"math/rand"

	"github.com/mozillazg/go-pinyin"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamza-dev-12/fingerprint-attendance/backend/internal/domain"
)

var commonSurnames = []string{
	"王", "李", "张", "刘", "陈", "杨", "赵", "黄", "周", "吴",
	"徐", "孙", "胡", "朱", "高", "林", "何", "郭", "马", "罗",
}
var commonNameCharacters = []string{
	"伟", "强", "芳", "敏", "静", "丽", "刚", "杰", "娟", "勇",
	"艳", "涛", "明", "军", "磊", "洋", "勇", "霞", "飞", "玲",
	"超", "华", "平", "辉", "梅", "鑫", "龙", "鹏", "玉", "斌",
	"庆", "建", "丹", "彬", "凤", "旭", "宁", "乐", "成", "欣",
}

var departments = []string{"生产部", "质检部", "仓储部", "行政部", "财务部"}
var designations = []string{"操作员", "技术员", "班组长", "主管", "文员"}
var shifts = []string{
	domain.ShiftDay,
	domain.ShiftA,
	domain.ShiftB,
	domain.ShiftC,
	domain.ShiftGeneral,
}

func GenerateRandomChineseName() string {
	surname := commonSurnames[rand.Intn(len(commonSurnames))]
	nameLength := rand.Intn(2) + 1
	name := ""

	for i := 0; i < nameLength; i++ {
		name += commonNameCharacters[rand.Intn(len(commonNameCharacters))]
	}
	return surname + name
}

var digits = "0123456789"

func GenerateUsernameFromChineseName(chineseName string) string {
	pinyinArray := pinyin.LazyConvert(chineseName, nil)
	username := ""

	for _, pinyin := range pinyinArray {
		length := rand.Intn(len(pinyin)) + 1
		username += pinyin[:length]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomEmployeeNo() string {
	return fmt.Sprintf("EMP%05d", rand.Intn(100000))
}

func GenerateRandomEmployee() *domain.Employee {
	department := departments[rand.Intn(len(departments))]
	designation := designations[rand.Intn(len(designations))]

	return &domain.Employee{
		EmployeeNo:  GenerateRandomEmployeeNo(),
		Name:        GenerateRandomChineseName(),
		Department:  &department,
		Designation: &designation,
		Shift:       shifts[rand.Intn(len(shifts))],
	}
}

func GenerateRandomAccount(password string, emailDomainName string) (*domain.Account, error) {
	name := GenerateRandomChineseName()
	username := GenerateUsernameFromChineseName(name)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	email := username + "@" + emailDomainName
	account := &domain.Account{
		Username:     username,
		PasswordHash: string(passwordHash),
		Email:        &email,
		Role:         domain.RoleUser,
		IsActive:     true,
	}

	return account, nil
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}
