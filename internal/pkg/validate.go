package pkg

import (
	"errors"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/simp-lee/inkwell/internal/domain"
)

// Validate checks obj against its binding tags with gin's validator, the same
// rules BindAndValidate applies to API bodies. Services call it on input they
// have trimmed or normalized, so form posts and API requests share one rule
// set.
//
// A failure is a CodeValidation AppError naming the first failing field, e.g.
// "password must be at least 8 characters", that wraps the
// validator.ValidationErrors.
func Validate(obj any) error {
	err := binding.Validator.ValidateStruct(obj)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return domain.NewAppError(domain.CodeValidation, err.Error(), err)
	}
	msg := fieldName(ve[0], buildJSONTagMap(obj)) + " " + fieldMessage(ve[0])
	return domain.NewAppError(domain.CodeValidation, msg, ve)
}
