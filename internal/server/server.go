// Package server boots the whole application: config, database, cache,
// migrations, event listeners, queue workers and the HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"gorm.io/gorm"

	"github.com/campuseats/canteen/app/controllers"
	"github.com/campuseats/canteen/app/jobs"
	"github.com/campuseats/canteen/app/models"
	"github.com/campuseats/canteen/app/repositories"
	"github.com/campuseats/canteen/app/routes"
	"github.com/campuseats/canteen/app/services"
	"github.com/campuseats/canteen/config"
	"github.com/campuseats/canteen/pkg/cache"
	"github.com/campuseats/canteen/pkg/database"
	"github.com/campuseats/canteen/pkg/event"
	"github.com/campuseats/canteen/pkg/logger"
	"github.com/campuseats/canteen/pkg/metrics"
	"github.com/campuseats/canteen/pkg/middleware"
	"github.com/campuseats/canteen/pkg/migration"
	"github.com/campuseats/canteen/pkg/payment"
	"github.com/campuseats/canteen/pkg/queue"
	"github.com/campuseats/canteen/pkg/reqid"
	"github.com/campuseats/canteen/pkg/router"
	"github.com/campuseats/canteen/pkg/ws"
)

// Start boots the application and blocks until SIGINT/SIGTERM, then
// drains in-flight requests before returning.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	db, err := database.Connect()
	if err != nil {
		return fmt.Errorf("server: database: %w", err)
	}
	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, serving without cache", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	if err := migration.New(db).Run(); err != nil {
		return fmt.Errorf("server: migrate: %w", err)
	}

	gateway := buildGateway()
	hub := ws.NewHub()
	go hub.Run()

	r := buildRouter(db, gateway, hub)

	jobs.RegisterAll()
	registerListeners(hub)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	queue.StartWorkers(ctx, 4)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// BuildForInspection constructs the route table without touching the
// database or the network, for route:list.
func BuildForInspection() (*router.Router, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	return buildRouter(nil, payment.Disabled{}, ws.NewHub()), nil
}

// buildRouter wires repositories, services and controllers onto the
// route table with the standard middleware stack.
func buildRouter(db *gorm.DB, gateway payment.Gateway, hub *ws.Hub) *router.Router {
	userRepo := repositories.NewUserRepository(db)
	catalogRepo := repositories.NewCatalogRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	cartSvc := services.NewCartService(catalogRepo)
	orderSvc := services.NewOrderService(orderRepo, cartSvc)

	r := router.New()
	r.Use(
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		metrics.Middleware(),
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(120, time.Minute),
	)
	routes.RegisterAPI(r, routes.Controllers{
		Auth:      controllers.NewAuthController(services.NewAuthService(userRepo)),
		Catalog:   controllers.NewCatalogController(services.NewCatalogService(catalogRepo)),
		Orders:    controllers.NewOrderController(orderSvc),
		Payments:  controllers.NewPaymentController(services.NewPaymentService(gateway, orderRepo, cartSvc, orderSvc)),
		Dashboard: controllers.NewDashboardController(services.NewDashboardService(orderRepo, userRepo)),
		OrderFeed: hub,
	})
	return r
}

// buildGateway constructs the Razorpay client, or a disabled gateway
// when no key pair is configured.
func buildGateway() payment.Gateway {
	gateway, err := payment.New(config.RazorpayKeyID(), config.RazorpayKeySecret())
	if err != nil {
		logger.Warn("razorpay keys not configured, gateway payments disabled")
		return payment.Disabled{}
	}
	return gateway
}

// registerListeners fans order events out to the admin websocket feed
// and the notification queue.
func registerListeners(hub *ws.Hub) {
	event.Listen(services.EventOrderCreated, func(payload interface{}) {
		order, ok := payload.(models.Order)
		if !ok {
			return
		}
		hub.BroadcastJSON(map[string]interface{}{"event": "order.created", "order": order})
		if err := queue.Dispatch(&jobs.ReceiptJob{
			OrderID:    order.ID,
			CustomerID: order.CustomerID,
			Total:      order.TotalPrice.StringFixed(2),
		}); err != nil {
			logger.Error("receipt dispatch failed", "order_id", order.ID, "error", err)
		}
	})

	event.Listen(services.EventOrderStatusChanged, func(payload interface{}) {
		change, ok := payload.(services.StatusChange)
		if !ok {
			return
		}
		hub.BroadcastJSON(map[string]interface{}{
			"event": "order.status_changed",
			"order": change.Order,
			"from":  change.From,
			"to":    change.To,
		})
		if err := queue.Dispatch(&jobs.StatusNotificationJob{
			OrderID:    change.Order.ID,
			CustomerID: change.Order.CustomerID,
			Status:     string(change.To),
		}); err != nil {
			logger.Error("status notification dispatch failed", "order_id", change.Order.ID, "error", err)
		}
	})
}
