package http

import "github.com/labstack/echo/v4"

// Handler mounts a route tree on the Echo instance. The signal API handler
// implements it; the server accepts the interface so tests can swap in a
// stub.
type Handler interface {
	RegisterRoutes(e *echo.Echo)
}
