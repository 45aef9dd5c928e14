package utils

import (
	"errors"
	"fmt"
	"strings"

	"villastay/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators installs the custom binding rules on gin's validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}
	if err := v.RegisterValidation("bookingtype", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == models.BookingTypeOnline || s == models.BookingTypeCall
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("bookingsource", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == models.BookingSourceWeb || s == models.BookingSourceCall
	}); err != nil {
		return err
	}
	v.RegisterStructValidation(stayValidation, models.BookingRequestInput{})
	return nil
}

// stayValidation requires check-out to fall after check-in. Both are
// already checked for format by the datetime tag; ISO dates compare
// correctly as strings.
func stayValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(models.BookingRequestInput)
	if in.CheckIn == "" || in.CheckOut == "" {
		return
	}
	if in.CheckOut <= in.CheckIn {
		sl.ReportError(in.CheckOut, "CheckOut", "checkOut", "stay", "")
	}
}

// ValidationDetails flattens binding errors into field -> rule pairs.
func ValidationDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"body": err.Error()}
	}
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		field := fe.Field()
		if field != "" {
			field = strings.ToLower(field[:1]) + field[1:]
		}
		rule := fe.Tag()
		if fe.Param() != "" {
			rule = fmt.Sprintf("%s=%s", rule, fe.Param())
		}
		details[field] = rule
	}
	return details
}

// BindingError wraps a gin binding failure as a 400.
func BindingError(err error) *AppError {
	return BadRequest("Invalid request body").WithDetails(ValidationDetails(err))
}
