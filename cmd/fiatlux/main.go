package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/Lion-killer/FiatLux/internal/api"
	"github.com/Lion-killer/FiatLux/internal/config"
	"github.com/Lion-killer/FiatLux/internal/events"
	"github.com/Lion-killer/FiatLux/internal/metrics"
	"github.com/Lion-killer/FiatLux/internal/monitor"
	"github.com/Lion-killer/FiatLux/internal/store"
)

func main() {
	// Initialize logger
	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("FIATLUX_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	if cfg.Telegram.BotToken == "" || cfg.Telegram.BotToken == "YOUR_BOT_TOKEN_HERE" {
		logger.Fatal().Msg("set telegram.bot_token in config")
	}

	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Str("timezone", cfg.Timezone).Msg("invalid timezone")
	}

	st := store.New()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Address, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	}

	bus := events.NewBus()

	mon, err := monitor.New(cfg.Telegram.BotToken, cfg.Telegram.Debug, st, monitor.Options{
		ChannelID:       cfg.Telegram.ChannelID,
		ChannelUsername: cfg.Telegram.ChannelUsername,
		PollTimeout:     cfg.Telegram.PollTimeoutSeconds,
		Strict:          true,
		Location:        loc,
		Logger:          &logger,
		Bus:             bus,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("create channel monitor error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	if cfg.Cleanup.Enabled {
		go startCleanupLoop(ctx, st, bus, cfg.CleanupInterval(), &logger)
	}

	server := api.NewServer(st, api.Options{
		Logger:         &logger,
		HistoryLimit:   cfg.API.HistoryLimit,
		RateLimitRPS:   cfg.API.RateLimitRPS,
		RateLimitBurst: cfg.API.RateLimitBurst,
		Redis:          rdb,
		CacheTTL:       cfg.CacheTTL(),
	})
	// A fresh announcement evicts cached responses immediately.
	bus.Subscribe(events.TypeScheduleSaved, func(events.Event) error {
		server.InvalidateCache(ctx)
		return nil
	})

	go startAPIServer(ctx, cfg.API.ListenAddr, server, &logger)

	logger.Info().Str("timezone", cfg.Timezone).Msg("FiatLux monitor started")
	mon.Start(ctx)
}

// startCleanupLoop periodically drops archived records. The store never
// cleans itself up; this loop is the external scheduler that does.
func startCleanupLoop(ctx context.Context, st *store.Store, bus *events.Bus, interval time.Duration, logger *zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			removed := st.CleanupOldSchedules()
			metrics.AddSchedulesCleaned(removed)
			metrics.SetStoreSize(st.GetCount())
			if removed > 0 {
				bus.Publish(events.Event{Type: events.TypeScheduleCleanup, Payload: fmt.Sprintf("%d", removed)})
				logger.Info().Int("removed", removed).Msg("cleaned up archived schedules")
			}
		case <-ctx.Done():
			return
		}
	}
}

func startAPIServer(ctx context.Context, addr string, server *api.Server, logger *zerolog.Logger) {
	srv := &http.Server{Addr: addr, Handler: server.Router()}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("api server error")
	}
}

func startHealthServer(ctx context.Context, port int, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if rdb != nil {
			ctxPing, cancel := context.WithTimeout(ctx, time.Second)
			defer cancel()
			if err := rdb.Ping(ctxPing).Err(); err != nil {
				http.Error(w, "redis not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("health server error")
	}
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
