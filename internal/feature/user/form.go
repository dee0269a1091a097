package user

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"go-gin-user-crud/internal/domain"
)

const (
	MinAge = 0
	MaxAge = 120
)

// Form 是登记/更新页面提交的表单；Age 保留原始输入，校验失败时原样回显。
// ID 不从表单绑定，只取自路径（更新）或存储（新建后回填）
type Form struct {
	ID     int    `form:"-"`
	Name   string `form:"name"   validate:"required,max=20"`
	Gender string `form:"gender" validate:"required,gender"`
	Age    string `form:"age"    validate:"required,age"`
	Email  string `form:"email"  validate:"required,email,max=50"`
}

func FromUser(u *domain.User) Form {
	return Form{
		ID:     u.ID,
		Name:   u.Name,
		Gender: string(u.Gender),
		Age:    strconv.Itoa(u.Age),
		Email:  u.Email,
	}
}

// Normalize 去掉首尾空白
func (f *Form) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Gender = strings.TrimSpace(f.Gender)
	f.Age = strings.TrimSpace(f.Age)
	f.Email = strings.TrimSpace(f.Email)
}

// ToUser 只应在 Validate 通过后调用
func (f *Form) ToUser() (*domain.User, error) {
	age, err := strconv.Atoi(f.Age)
	if err != nil {
		return nil, fmt.Errorf("age %q: %w", f.Age, err)
	}
	return &domain.User{
		ID:     f.ID,
		Name:   f.Name,
		Gender: domain.Gender(f.Gender),
		Age:    age,
		Email:  f.Email,
	}, nil
}

type FieldError struct {
	Field   string
	Message string
}

// FieldErrors 按表单字段顺序排列
type FieldErrors []FieldError

func (e FieldErrors) Empty() bool { return len(e) == 0 }

func (e FieldErrors) Has(field string) bool { return e.Get(field) != "" }

// Get 返回该字段的第一条错误信息，没有则为空串（模板中使用）
func (e FieldErrors) Get(field string) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 错误中的字段名使用 form 标签，与页面 input name 一致
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("age", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= MinAge && n <= MaxAge
	})
	_ = v.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		return domain.Gender(fl.Field().String()).Valid()
	})
	return v
}

// Validate 返回全部字段错误；为空表示通过
func Validate(f *Form) FieldErrors {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return FieldErrors{{Field: "", Message: err.Error()}}
	}
	out := make(FieldErrors, 0, len(ves))
	for _, fe := range ves {
		out = append(out, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "email":
		return "must be a well-formed email address"
	case "age":
		return fmt.Sprintf("must be a number between %d and %d", MinAge, MaxAge)
	case "gender":
		return "must be one of male, female"
	}
	return "is invalid"
}
