package handlers

import (
	"errors"
	"strconv"

	"billingpanel/internal/common"
	"billingpanel/internal/repositories"

	"github.com/labstack/echo/v4"
)

// serviceError translates service-layer failures into the standard response
// envelope: validation errors go back to the form, missing references are
// 404s, everything else is a server error.
func serviceError(c echo.Context, err error, resource string) error {
	if ve, ok := common.AsValidationError(err); ok {
		return common.SendValidationError(c, ve.Field, ve.Message)
	}
	if errors.Is(err, repositories.ErrNotFound) {
		return common.SendNotFoundError(c, resource)
	}
	return common.SendServerError(c, "Failed to process "+resource)
}

func intQueryParam(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
