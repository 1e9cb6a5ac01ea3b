package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/cineplex/booking-gateway/internal/api"
	"github.com/cineplex/booking-gateway/internal/config"
	"github.com/cineplex/booking-gateway/internal/handler"
	"github.com/cineplex/booking-gateway/internal/model"
	"github.com/cineplex/booking-gateway/internal/queue"
	"github.com/cineplex/booking-gateway/internal/router"
	"github.com/cineplex/booking-gateway/internal/schedule"
	"github.com/cineplex/booking-gateway/internal/session"
)

func main() {
	// .env is optional; a real environment wins over the file.
	_ = godotenv.Load()

	cfg := config.Load()
	rdb := config.NewRedisClient()

	client := api.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	store := session.NewStore(rdb, cfg.SessionTTL)

	refresher := schedule.NewRefresher(cfg.RefreshInterval, func(ctx context.Context) ([]model.Showtime, error) {
		return client.Showtimes(ctx, "")
	})
	refresher.Start(context.Background())
	defer refresher.Stop()

	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true

	reservations := handler.NewReservationHandler(client, store, refresher, true, cfg.SessionTTL)

	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewBrowseHandler(client, refresher), config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, client, store, reservations.ReleaseGuard), store)
	router.RegisterCustomer(e, reservations, store, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, handler.NewAdminHandler(client, refresher, cfg.PageSize), store)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, upstream=%s)", addr, cfg.Env, cfg.UpstreamBaseURL)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
