package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs HTTP requests. On 402 responses the payment gate's
// reason code is appended so rejected receipts show up in the access log.
func RequestLogging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()
			start := time.Now()

			err := next(c)

			gate := ""
			if code := res.Header().Get("X-402-Required"); code != "" {
				gate = " gate=" + code
			}
			log.Printf("[%s] %s %s - %d (%s)%s",
				req.Method,
				req.RequestURI,
				req.RemoteAddr,
				res.Status,
				time.Since(start),
				gate,
			)

			return err
		}
	}
}
