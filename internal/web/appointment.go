package web

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Appointment 为预约表单；只做必填与格式检查，提交后仅记录日志。
type Appointment struct {
	FullName        string `json:"fullName" validate:"required,min=2"`
	Phone           string `json:"phone" validate:"required,phone"`
	Email           string `json:"email" validate:"required,email"`
	AppointmentDate string `json:"appointmentDate" validate:"required"`
	Treatment       string `json:"treatment" validate:"required"`
	Location        string `json:"location" validate:"required"`
	Time            string `json:"time" validate:"required"`
	Message         string `json:"message,omitempty"`
}

var phonePattern = regexp.MustCompile(`^[0-9+\-\s()]+$`)

// appointmentValidate 在 init 中注册自定义的 phone 规则。
var appointmentValidate *validator.Validate

func init() {
	appointmentValidate = validator.New()
	appointmentValidate.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]; name != "" && name != "-" {
			return name
		}
		return f.Name
	})
	_ = appointmentValidate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
}

// Trim 去除各字段首尾空白。
func (a *Appointment) Trim() {
	for _, p := range []*string{&a.FullName, &a.Phone, &a.Email, &a.AppointmentDate, &a.Treatment, &a.Location, &a.Time, &a.Message} {
		*p = strings.TrimSpace(*p)
	}
}

// Validate 返回 字段名→错误说明；全部通过时返回 nil。
func (a *Appointment) Validate() map[string]string {
	err := appointmentValidate.Struct(a)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fieldMessage(fe)
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return "Must be at least " + fe.Param() + " characters"
	case "email":
		return "Please enter a valid email address"
	case "phone":
		return "Please enter a valid phone number"
	}
	return "Invalid value"
}
