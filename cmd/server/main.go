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

	"meetroom/internal/api"
	"meetroom/internal/booking"
	"meetroom/internal/cache"
	"meetroom/internal/config"
	"meetroom/internal/metrics"
	"meetroom/internal/notify"
	"meetroom/internal/reminder"
	"meetroom/internal/store"
)

func main() {
	_ = godotenv.Load()

	output := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	logger := zerolog.New(output).With().Timestamp().Logger()

	cfg, err := config.Load(os.Getenv("MEETROOM_CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := store.New(cfg.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("open db error")
	}
	defer db.Close()

	var rdb *redis.Client
	if cfg.Redis.Address != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Address,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	cal := cache.NewCalendar(rdb, cfg.CacheTTL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics.Register()
	notifyMetrics := notify.NewMetrics("meetroom")

	sinks := buildSinks(cfg, db, &logger)
	dispatcher := notify.NewDispatcher(notify.Config{
		QueueSize:     cfg.Notifications.QueueSize,
		RatePerSecond: cfg.Notifications.RatePerSecond,
	}, sinks, notifyMetrics, logger)
	dispatcher.Start(ctx)

	engine := booking.NewEngine(db, dispatcher, logger)

	if cfg.Reminders.Enabled {
		sweeper := reminder.NewSweeper(reminder.Config{
			Schedule: cfg.Reminders.Schedule,
			Window:   cfg.ReminderWindow(),
		}, db, dispatcher, logger)
		go func() {
			if err := sweeper.Start(ctx); err != nil {
				logger.Error().Err(err).Msg("reminder sweeper error")
			}
		}()
	}

	if cfg.Monitoring.HealthCheckPort == 0 {
		cfg.Monitoring.HealthCheckPort = 8090
	}
	go startHealthServer(ctx, cfg.Monitoring.HealthCheckPort, db, rdb, &logger)

	if cfg.Monitoring.PrometheusEnabled {
		if cfg.Monitoring.PrometheusPort == 0 {
			cfg.Monitoring.PrometheusPort = 9090
		}
		go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, &logger)
	}

	router := api.NewRouter(engine, db, cal, logger)
	srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()

	logger.Info().Str("addr", cfg.Server.Addr).Msg("meetroom server started")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server error")
	}
	dispatcher.Wait()
}

func buildSinks(cfg *config.Config, db *store.DB, logger *zerolog.Logger) []notify.Sink {
	sinks := []notify.Sink{notify.NewLogSink(*logger)}

	if token := cfg.Notifications.Telegram.BotToken; token != "" {
		tg, err := notify.NewTelegramSink(token, cfg.Notifications.Telegram.ChatID)
		if err != nil {
			logger.Error().Err(err).Msg("telegram sink disabled")
		} else {
			sinks = append(sinks, tg)
		}
	}

	if wp := cfg.Notifications.WebPush; wp.VAPIDPrivateKey != "" {
		sinks = append(sinks, notify.NewWebPushSink(db, wp.Subscriber, wp.VAPIDPublicKey, wp.VAPIDPrivateKey))
	}

	if sm := cfg.Notifications.SMTP; sm.Host != "" && len(sm.To) > 0 {
		sinks = append(sinks, notify.NewSMTPSink(sm.Host, sm.Port, sm.Username, sm.Password, sm.From, sm.To))
	}

	return sinks
}

func startHealthServer(ctx context.Context, port int, db *store.DB, rdb *redis.Client, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		ctxPing, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := db.PingContext(ctxPing); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		if rdb != nil {
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
