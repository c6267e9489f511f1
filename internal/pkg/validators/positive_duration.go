package validators

import (
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
)

// PositiveDurationTag is the struct tag bound to PositiveDurationValidation.
const PositiveDurationTag = "positive_duration"

var durationType = reflect.TypeOf(time.Duration(0))

// PositiveDurationValidation reports whether a time.Duration field is strictly greater than zero.
// Zero and negative durations are rejected, as is any non-duration field.
func PositiveDurationValidation(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Type() != durationType {
		return false
	}
	return field.Int() > 0
}
