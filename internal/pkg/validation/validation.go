package validation

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct using its `validate` tags
func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// FormatErrors turns validator errors into one Thai human-readable message
func FormatErrors(err error) string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	var msg string
	for i, e := range validationErrors {
		if i > 0 {
			msg += "; "
		}
		switch e.Tag() {
		case "required":
			msg += "กรุณากรอก " + e.Field()
		case "email":
			msg += e.Field() + " ต้องเป็นอีเมลที่ถูกต้อง"
		case "min":
			msg += e.Field() + " ต้องมีอย่างน้อย " + e.Param() + " ตัวอักษร"
		case "max":
			msg += e.Field() + " ต้องไม่เกิน " + e.Param() + " ตัวอักษร"
		case "len":
			msg += e.Field() + " ต้องมีความยาว " + e.Param() + " ตัวอักษร"
		case "oneof":
			msg += e.Field() + " ต้องเป็นค่าใดค่าหนึ่ง: " + e.Param()
		case "numeric":
			msg += e.Field() + " ต้องเป็นตัวเลข"
		case "gt", "gte":
			msg += e.Field() + " ต้องมากกว่า " + e.Param()
		default:
			msg += e.Field() + " ไม่ถูกต้อง"
		}
	}
	return msg
}
