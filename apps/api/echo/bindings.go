package echoapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/darasa/core"
)

var dateParam = "date"

// bindCalDate parses the optional "date" query param as a calendar day.
func bindCalDate(ctx echo.Context) (*time.Time, error) {
	val := ctx.QueryParam(dateParam)
	if val == "" {
		return nil, nil
	}
	date, err := core.ParseCalDate(val)
	if err != nil {
		return nil, core.NewValidationError(nil, core.FieldError{
			Field: dateParam,
			Error: "must be a calendar date in YYYY-MM-DD format",
		})
	}
	return &date, nil
}
