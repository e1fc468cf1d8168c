package validate

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var v = validator.New(validator.WithRequiredStructEnabled())

// FieldErrors maps every failing field to the rule it broke.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	return fmt.Sprintf("%d field(s) failed validation", len(fe))
}

// StructFields validates a struct against its validate tags and reports all
// failing fields at once.
func StructFields(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fieldErrors := make(FieldErrors, len(validationErrors))
	for _, fieldError := range validationErrors {
		fieldErrors[fieldError.Field()] = fmt.Sprintf(
			"failed on the '%s' rule",
			fieldError.Tag(),
		)
	}

	return fieldErrors
}
