// Package router maps the gateway's HTTP surface onto handlers and
// middleware.  Routes are grouped by trust level: public browsing,
// session-holders, and admins.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/cineplex/booking-gateway/internal/config"
	"github.com/cineplex/booking-gateway/internal/handler"
	"github.com/cineplex/booking-gateway/internal/middleware"
	"github.com/cineplex/booking-gateway/internal/model"
	"github.com/cineplex/booking-gateway/internal/session"
)

// RegisterRoutes registers the routes that require no session.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.  The
// Redis response cache fronts them; with caching disabled or Redis
// absent the middleware passes every request through.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, cacheCfg config.CacheConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.NewRedisCache(cacheCfg, rdb))
	g.GET("/films", b.Films)
	g.GET("/films/:id", b.FilmDetails)
	g.GET("/showtimes", b.Showtimes)
}

// RegisterAuth registers credential exchange under /v1/auth plus the
// session-backed /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, store session.Store) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.RequireSession(store))
}

// RegisterCustomer registers the booking flow.  Every route needs a
// session; the write endpoints additionally pass the rate limiter so a
// stuck client cannot hammer the store.
func RegisterCustomer(e *echo.Echo, r *handler.ReservationHandler, store session.Store, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group("/v1", middleware.RequireSession(store))
	limited := middleware.NewTokenBucket(rlCfg, rdb)

	g.POST("/showtimes/:id/select", r.Select, limited)
	g.DELETE("/selection", r.ClearSelection)
	g.PUT("/selection/seats", r.SetSeats)
	g.POST("/reservations", r.Create, limited)
	g.GET("/my-reservations", r.MyReservations)
	g.DELETE("/reservations/:id", r.Cancel, limited)
}

// RegisterAdmin registers the management screens behind the admin role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, store session.Store) {
	g := e.Group("/v1/admin", middleware.RequireSession(store), middleware.RequireRole(model.RoleAdmin))

	g.GET("/films", a.Films)
	g.POST("/films", a.CreateFilm)
	g.PUT("/films/:id", a.UpdateFilm)
	g.DELETE("/films/:id", a.DeleteFilm)

	g.GET("/rooms", a.Rooms)
	g.POST("/rooms", a.CreateRoom)
	g.PUT("/rooms/:id", a.UpdateRoom)
	g.DELETE("/rooms/:id", a.DeleteRoom)

	g.GET("/showtimes", a.Showtimes)
	g.POST("/showtimes", a.CreateShowtime)
	g.PUT("/showtimes/:id", a.UpdateShowtime)
	g.DELETE("/showtimes/:id", a.DeleteShowtime)

	g.GET("/reservations", a.Reservations)
	g.POST("/reservations/:id/cancel", a.CancelReservation)
	g.DELETE("/reservations/:id", a.DeleteReservation)

	g.GET("/stats", a.Stats)
}
