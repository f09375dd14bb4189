package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "InsideX/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover returns recovery middleware. The panic value and stack go to the
// log; the client only sees a generic 500.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					l.Error("panic recovered",
						applogger.Error(perr),
						applogger.String("path", c.Path()),
						applogger.String("stack", string(debug.Stack())),
					)
					err = c.JSON(http.StatusInternalServerError, map[string]string{
						"detail": "Internal Server Error",
					})
				}
			}()
			return next(c)
		}
	}
}
