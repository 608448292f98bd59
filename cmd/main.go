package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	createSessionHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/create_session"
	enterStepHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/enter_step"
	finishSessionHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/finish_session"
	getSessionHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/get_session"
	listServicesHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/list_services"
	selectDateTimeHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/select_date_time"
	submitAppointmentHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/submit_appointment"
	updateSelectionHandler "github.com/m04kA/SMC-BookingFlow/internal/api/handlers/update_selection"
	"github.com/m04kA/SMC-BookingFlow/internal/api/middleware"
	"github.com/m04kA/SMC-BookingFlow/internal/config"
	catalogCache "github.com/m04kA/SMC-BookingFlow/internal/infra/cache/catalog"
	draftRepo "github.com/m04kA/SMC-BookingFlow/internal/infra/storage/draft"
	"github.com/m04kA/SMC-BookingFlow/internal/integrations/bookingapi"
	catalogService "github.com/m04kA/SMC-BookingFlow/internal/service/catalog"
	"github.com/m04kA/SMC-BookingFlow/internal/service/flow"
	sessionsService "github.com/m04kA/SMC-BookingFlow/internal/service/sessions"
	checkAvailabilityUC "github.com/m04kA/SMC-BookingFlow/internal/usecase/check_availability"
	submitAppointmentUC "github.com/m04kA/SMC-BookingFlow/internal/usecase/submit_appointment"
	"github.com/m04kA/SMC-BookingFlow/internal/validation"
	"github.com/m04kA/SMC-BookingFlow/pkg/logger"
	"github.com/m04kA/SMC-BookingFlow/pkg/metrics"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-BookingFlow...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены); методы nil коллектора ничего не делают
	var metricsCollector *metrics.Metrics
	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных черновиков
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Кэш каталога в Redis (необязательный)
	var cache catalogService.Cache
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		cancelPing()
		if err != nil {
			log.Warn("Redis is unreachable at %s, catalog cache disabled: %v", cfg.Redis.Addr, err)
		} else {
			cache = catalogCache.NewCache(redisClient, cfg.Redis.Prefix, time.Duration(cfg.Redis.CacheTTL)*time.Second)
			log.Info("Catalog cache enabled (redis=%s, ttl=%ds)", cfg.Redis.Addr, cfg.Redis.CacheTTL)
		}
	}

	// Инициализируем клиент API бронирований
	apiClient := bookingapi.NewClient(
		cfg.BookingAPI.URL,
		time.Duration(cfg.BookingAPI.Timeout)*time.Second,
		log,
	)
	log.Info("Booking API client initialized (url=%s timeout=%ds)", cfg.BookingAPI.URL, cfg.BookingAPI.Timeout)

	location, err := cfg.Session.Location()
	if err != nil {
		log.Fatal("Failed to load timezone %q: %v", cfg.Session.Timezone, err)
	}

	// Инициализируем репозитории
	draftRepository := draftRepo.NewRepository(db)

	// Инициализируем валидацию и guard
	validator := validation.NewEngine()
	guard := flow.NewGuard(validator)

	// Инициализируем use cases
	checkAvailabilityUseCase := checkAvailabilityUC.NewUseCase(apiClient, log)
	submitAppointmentUseCase := submitAppointmentUC.NewUseCase(
		apiClient,
		guard,
		validator,
		metricsCollector,
		log,
	)

	// Инициализируем сервисы
	catalogSvc := catalogService.NewService(apiClient, cache, metricsCollector, log).
		WithRefreshInterval(time.Duration(cfg.Redis.CacheTTL) * time.Second)
	sessionsSvc := sessionsService.NewService(
		draftRepository,
		catalogSvc,
		checkAvailabilityUseCase,
		submitAppointmentUseCase,
		guard,
		validator,
		metricsCollector,
		log,
		sessionsService.Options{
			DefaultMaxPartySize:    cfg.Session.DefaultMaxPartySize,
			ConfirmationResetDelay: time.Duration(cfg.Session.ConfirmationResetDelay) * time.Second,
			Location:               location,
		},
	)

	// Инициализируем handlers
	createSession := createSessionHandler.NewHandler(sessionsSvc, log)
	getSession := getSessionHandler.NewHandler(sessionsSvc, log)
	enterStep := enterStepHandler.NewHandler(sessionsSvc, log)
	listServices := listServicesHandler.NewHandler(sessionsSvc, log)
	updateSelection := updateSelectionHandler.NewHandler(sessionsSvc, log)
	selectDateTime := selectDateTimeHandler.NewHandler(sessionsSvc, log)
	submitAppointment := submitAppointmentHandler.NewHandler(sessionsSvc, log)
	finishSession := finishSessionHandler.NewHandler(sessionsSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()
	r.Use(middleware.Recovery(log))

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// --- Бизнес ---
	api.HandleFunc("/businesses/{slug}/sessions", createSession.Handle).Methods(http.MethodPost)
	api.HandleFunc("/businesses/{slug}/services", listServices.Handle).Methods(http.MethodGet)

	// --- Сессия ---
	api.HandleFunc("/sessions/{sessionId}", getSession.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/steps/{step}", enterStep.Handle).Methods(http.MethodGet)

	// --- Выбор услуги, гостей и дополнений ---
	api.HandleFunc("/sessions/{sessionId}/service", updateSelection.HandleService).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/party-size", updateSelection.HandlePartySize).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/add-ons", updateSelection.HandleAddOnCandidates).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{sessionId}/add-ons", updateSelection.HandleAddAddOn).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/add-ons/{serviceId}", updateSelection.HandleRemoveAddOn).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{sessionId}/notes", updateSelection.HandleNotes).Methods(http.MethodPut)

	// --- Дата и время ---
	api.HandleFunc("/sessions/{sessionId}/date", selectDateTime.HandleDate).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/availability/retry", selectDateTime.HandleRetry).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/time", selectDateTime.HandleTime).Methods(http.MethodPut)

	// --- Контакты и подтверждение ---
	api.HandleFunc("/sessions/{sessionId}/client", updateSelection.HandleClient).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/consent", updateSelection.HandleConsent).Methods(http.MethodPut)
	api.HandleFunc("/sessions/{sessionId}/submit", submitAppointment.Handle).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/acknowledge", finishSession.HandleAcknowledge).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{sessionId}/reset", finishSession.HandleReset).Methods(http.MethodPost)

	// Очистка заброшенных черновиков
	stopJanitor := make(chan struct{})
	if cfg.Session.DraftTTL > 0 && cfg.Session.PurgeInterval > 0 {
		go runJanitor(
			sessionsSvc,
			time.Duration(cfg.Session.PurgeInterval)*time.Minute,
			time.Duration(cfg.Session.DraftTTL)*time.Hour,
			stopJanitor,
			log,
		)
		log.Info("Draft janitor started (ttl=%dh, interval=%dm)", cfg.Session.DraftTTL, cfg.Session.PurgeInterval)
	}

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	close(stopJanitor)

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

// runJanitor периодически удаляет черновики, не обновлявшиеся дольше ttl
func runJanitor(svc *sessionsService.Service, interval, ttl time.Duration, stop <-chan struct{}, log *logger.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), interval)
			if _, err := svc.PurgeStale(ctx, ttl); err != nil {
				log.Warn("Draft janitor: %v", err)
			}
			cancel()
		}
	}
}
