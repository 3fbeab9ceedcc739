package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/MohamedInamulHasan/homly-api/internal/auth"
	"github.com/MohamedInamulHasan/homly-api/internal/catalog"
	"github.com/MohamedInamulHasan/homly-api/internal/checkout"
	"github.com/MohamedInamulHasan/homly-api/internal/messaging"
	"github.com/MohamedInamulHasan/homly-api/internal/orders"
	"github.com/MohamedInamulHasan/homly-api/internal/stores"
	"github.com/MohamedInamulHasan/homly-api/internal/telemetry"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	tel, err := telemetry.Setup(ctx, "homly-api", "0.1.0")
	if err != nil {
		logger.Error("failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer func() { _ = tel.Shutdown(ctx) }()

	if err := runtime.Start(); err != nil {
		logger.Error("failed to start runtime instrumentation", "error", err)
		os.Exit(1)
	}

	postgresURL := os.Getenv("POSTGRES_URL")
	if postgresURL == "" {
		logger.Error("POSTGRES_URL environment variable is required")
		os.Exit(1)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	db, err := telemetry.OpenDB("postgres", postgresURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	var producer *messaging.Producer
	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers != "" {
		brokers := strings.Split(kafkaBrokers, ",")
		producer = messaging.NewProducer(brokers, "order.created")
		defer func() { _ = producer.Close() }()
	} else {
		logger.Warn("KAFKA_BROKERS not set, order notifications disabled")
	}

	orderHandler, err := orders.NewHandler(orders.NewRepository(db), producer, logger)
	if err != nil {
		logger.Error("failed to create orders handler", "error", err)
		os.Exit(1)
	}
	productHandler := catalog.NewHandler(catalog.NewRepository(db), logger)
	storeHandler := stores.NewHandler(stores.NewRepository(db), logger)
	slotHandler := checkout.NewHandler(logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("GET /metrics", tel.MetricsHandler)

	mux.HandleFunc("GET /delivery-slots", telemetry.WithHTTPRoute(slotHandler.HandleDeliverySlots))

	mux.HandleFunc("GET /products", telemetry.WithHTTPRoute(productHandler.HandleList))
	mux.HandleFunc("GET /products/{id}", telemetry.WithHTTPRoute(productHandler.HandleGet))
	mux.HandleFunc("POST /products", telemetry.WithHTTPRoute(auth.RequireAdmin(productHandler.HandleCreate)))
	mux.HandleFunc("PUT /products/{id}", telemetry.WithHTTPRoute(auth.RequireAdmin(productHandler.HandleUpdate)))
	mux.HandleFunc("DELETE /products/{id}", telemetry.WithHTTPRoute(auth.RequireAdmin(productHandler.HandleDelete)))

	mux.HandleFunc("GET /stores", telemetry.WithHTTPRoute(storeHandler.HandleList))
	mux.HandleFunc("GET /stores/{id}", telemetry.WithHTTPRoute(storeHandler.HandleGet))
	mux.HandleFunc("POST /stores", telemetry.WithHTTPRoute(auth.RequireAdmin(storeHandler.HandleCreate)))
	mux.HandleFunc("PUT /stores/{id}", telemetry.WithHTTPRoute(auth.RequireAdmin(storeHandler.HandleUpdate)))
	mux.HandleFunc("DELETE /stores/{id}", telemetry.WithHTTPRoute(auth.RequireAdmin(storeHandler.HandleDelete)))
	mux.HandleFunc("POST /stores/{id}/verify", telemetry.WithHTTPRoute(storeHandler.HandleVerify))

	mux.HandleFunc("POST /orders", telemetry.WithHTTPRoute(orderHandler.HandleCreate))
	mux.HandleFunc("GET /orders", telemetry.WithHTTPRoute(orderHandler.HandleList))
	mux.HandleFunc("GET /orders/{id}", telemetry.WithHTTPRoute(orderHandler.HandleGet))
	mux.HandleFunc("PUT /orders/{id}", telemetry.WithHTTPRoute(auth.RequireAdmin(orderHandler.HandleUpdateStatus)))
	mux.HandleFunc("DELETE /orders/{id}", telemetry.WithHTTPRoute(auth.RequireAdmin(orderHandler.HandleDelete)))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: otelhttp.NewHandler(auth.Middleware([]byte(jwtSecret), logger)(mux), "homly-api",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				if r.Pattern != "" {
					return r.Pattern
				}
				return r.Method + " " + r.URL.Path
			}),
		),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting api service", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
