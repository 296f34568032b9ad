package httpserver

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs validator/v10 into echo's Context.Validate.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonOrQueryName)
	return &RequestValidator{v: v}
}

func (r *RequestValidator) Validate(i any) error {
	return r.v.Struct(i)
}

func jsonOrQueryName(f reflect.StructField) string {
	for _, key := range []string{"json", "query"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// bindAndValidate decodes the request into req and validates it. Decode
// failures yield 400, rule violations 422 listing the failing fields.
func bindAndValidate(c echo.Context, req any) *echo.HTTPError {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body").SetInternal(err)
	}
	if err := c.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid input").SetInternal(err)
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, echo.Map{
			"message": "Validation failed.",
			"errors":  fields,
		}).SetInternal(err)
	}
	return nil
}
