package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// DataResponse writes data as the unwrapped JSON body.
func DataResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// SuccessResponse writes success response.
func SuccessResponse(c echo.Context, data interface{}) error {
	return DataResponse(c, http.StatusOK, data)
}

// BadRequestResponse writes a 400 with field-level errors.
func BadRequestResponse(c echo.Context, errs []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{Detail: Summary(errs), Errors: errs})
}

// NotFoundResponse writes not found error.
func NotFoundResponse(c echo.Context, detail string) error {
	return c.JSON(http.StatusNotFound, ErrorBody{Detail: detail})
}

// InternalServerErrorResponse writes internal server error.
func InternalServerErrorResponse(c echo.Context) error {
	return c.JSON(http.StatusInternalServerError, ErrorBody{Detail: "Something went wrong"})
}

// AppErrorResponse writes application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		body := ErrorBody{Detail: appErr.Message}
		if appErr.Field != "" || len(appErr.Params) > 0 {
			body.Errors = []ValidationError{{
				Code:    appErr.Code,
				Field:   appErr.Field,
				Message: appErr.Message,
				Params:  appErr.Params,
			}}
		}
		return c.JSON(appErr.Status, body)
	}
	return InternalServerErrorResponse(c)
}

// HTTPErrorHandler renders errors that escape handlers (unknown routes,
// echo.HTTPError, AppError) in the ErrorBody shape.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		detail, ok := he.Message.(string)
		if !ok {
			detail = http.StatusText(he.Code)
		}
		_ = c.JSON(he.Code, ErrorBody{Detail: detail})
		return
	}
	_ = AppErrorResponse(c, err)
}
