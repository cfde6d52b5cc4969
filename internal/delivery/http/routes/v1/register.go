package v1

import (
	"github.com/gofiber/fiber/v3"

	"applyforge/internal/delivery/http/handler"
	"applyforge/internal/delivery/http/middleware"
	"applyforge/internal/ws"
)

// Deps carries the constructed handlers into route registration. The
// container owns wiring; this package only lays out the URL space.
type Deps struct {
	Auth        *middleware.AuthMiddleware
	Jobs        *handler.JobsHandler
	Ghost       *handler.GhostHandler
	Tailoring   *handler.TailoringHandler
	ChangeFlags *handler.ChangeFlagHandler
	WS          *ws.Handler
}

func Register(r fiber.Router, d Deps) {
	if r == nil || d.Auth == nil {
		return
	}

	protected := r.Group("", d.Auth.Middleware())

	if d.Jobs != nil {
		d.Jobs.RegisterRoutes(protected)
	}
	if d.Ghost != nil {
		d.Ghost.RegisterRoutes(protected)
	}
	if d.Tailoring != nil {
		d.Tailoring.RegisterRoutes(protected)
	}
	if d.ChangeFlags != nil {
		d.ChangeFlags.RegisterRoutes(protected)
	}
	if d.WS != nil {
		protected.Get("/ws", d.WS.HandleEventsWS)
	}
}
