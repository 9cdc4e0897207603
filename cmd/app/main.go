package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	inhttp "github.com/tailortalk/booking-assistant/internal/adapters/in/http"
	"github.com/tailortalk/booking-assistant/internal/adapters/in/rabbitmq"
	"github.com/tailortalk/booking-assistant/internal/adapters/out/agent"
	"github.com/tailortalk/booking-assistant/internal/adapters/out/cache"
	"github.com/tailortalk/booking-assistant/internal/adapters/out/googlecal"
	"github.com/tailortalk/booking-assistant/internal/adapters/out/logger"
	"github.com/tailortalk/booking-assistant/internal/config"
	"github.com/tailortalk/booking-assistant/internal/core/domain"
	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
	"github.com/tailortalk/booking-assistant/internal/core/services"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	zapLogger, err := logger.NewZapLogger(cfg.IsLocal())
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()
	mainLogger := zapLogger.WithModule("Main")

	mainLogger.Info("app.starting", out.LogFields{
		"version":         cfg.App.Version,
		"env":             cfg.App.Env,
		"timezone":        cfg.App.Timezone,
		"calendarId":      cfg.Google.CalendarID,
		"rabbitmqEnabled": cfg.RabbitMQ.Enabled,
		"cacheEnabled":    cfg.Cache.Enabled,
	})

	hours := domain.BusinessHours{
		StartHour:       cfg.Hours.StartHour,
		EndHour:         cfg.Hours.EndHour,
		Granularity:     time.Duration(cfg.Hours.GranularityMinutes) * time.Minute,
		DefaultDuration: time.Duration(cfg.Hours.DefaultDurationMinutes) * time.Minute,
	}
	if err := hours.Validate(); err != nil {
		mainLogger.Error("app.config.invalid_hours", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	if cfg.IsNotLocal() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calendarAdapter, err := googlecal.NewGoogleCalendarAdapter(ctx, cfg.Google.CredentialsPath, zapLogger)
	if err != nil {
		mainLogger.Error("app.calendar.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	var cachePort out.CachePort
	if cfg.Cache.Enabled {
		cacheAdapter, err := cache.NewLRUCacheAdapter(cfg, zapLogger)
		if err != nil {
			mainLogger.Error("app.cache.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		if cacheAdapter != nil {
			cachePort = cacheAdapter
		}
	}

	schedulerService := services.NewSchedulerService(
		calendarAdapter,
		cachePort,
		zapLogger,
		cfg.Google.CalendarID,
		hours,
	)

	agentAdapter := agent.NewOpenAIAgentAdapter(agent.Config{
		BaseURL:     cfg.Agent.BaseURL,
		APIKey:      cfg.Agent.APIKey,
		Model:       cfg.Agent.Model,
		Temperature: cfg.Agent.Temperature,
	}, zapLogger)

	sessionManager, err := services.NewSessionManager(cfg.Session.StoreSize, cfg.Session.WindowSize, zapLogger)
	if err != nil {
		mainLogger.Error("app.sessions.init_failed", out.LogFields{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	chatService := services.NewChatService(
		schedulerService,
		agentAdapter,
		sessionManager,
		zapLogger,
		hours,
		cfg.Location(),
	)

	router := gin.Default()
	router.Use(cors.Default())
	inhttp.NewChatController(chatService, cfg).RegisterRoutes(router)

	if cfg.RabbitMQ.Enabled {
		listener, err := rabbitmq.NewCalendarChangeListener(schedulerService, cfg, zapLogger)
		if err != nil {
			mainLogger.Error("app.rabbitmq.init_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		if err := listener.Start(ctx); err != nil {
			mainLogger.Error("app.rabbitmq.start_failed", out.LogFields{
				"error": err.Error(),
			})
			os.Exit(1)
		}

		defer func() {
			if err := listener.Stop(); err != nil {
				mainLogger.Error("app.rabbitmq.stop_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}()
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		mainLogger.Info("app.http.starting", out.LogFields{
			"host": cfg.HTTP.Host,
			"port": cfg.HTTP.Port,
		})

		if err := router.Run(cfg.HTTP.Host + ":" + cfg.HTTP.Port); err != nil {
			mainLogger.Error("app.http.failed", out.LogFields{
				"error": err.Error(),
			})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	mainLogger.Info("app.shutdown.initiated", out.LogFields{
		"signal": sig.String(),
	})
}
