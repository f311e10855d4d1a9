// Package validator wires go-playground/validator into echo's binding flow.
package validator

import (
	"net/http"

	playground "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// CustomValidator adapts go-playground/validator to echo.Validator.
type CustomValidator struct {
	validate *playground.Validate
}

// New builds the validator used for all request DTOs.
func New() *CustomValidator {
	return &CustomValidator{
		validate: playground.New(playground.WithRequiredStructEnabled()),
	}
}

// Validate implements echo.Validator. Violations surface as a 400 with the
// validator's field report.
func (v *CustomValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}
