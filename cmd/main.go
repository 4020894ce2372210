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

	cancelBookingHandler "github.com/Julianb233/appointment-service/internal/api/handlers/cancel_booking"
	createBookingHandler "github.com/Julianb233/appointment-service/internal/api/handlers/create_booking"
	getAvailabilityHandler "github.com/Julianb233/appointment-service/internal/api/handlers/get_availability"
	getBookingHandler "github.com/Julianb233/appointment-service/internal/api/handlers/get_booking"
	getFacilityBookingsHandler "github.com/Julianb233/appointment-service/internal/api/handlers/get_facility_bookings"
	getFacilityConfigHandler "github.com/Julianb233/appointment-service/internal/api/handlers/get_facility_config"
	rescheduleBookingHandler "github.com/Julianb233/appointment-service/internal/api/handlers/reschedule_booking"
	updateBookingStatusHandler "github.com/Julianb233/appointment-service/internal/api/handlers/update_booking_status"
	updateFacilityConfigHandler "github.com/Julianb233/appointment-service/internal/api/handlers/update_facility_config"
	"github.com/Julianb233/appointment-service/internal/api/middleware"
	"github.com/Julianb233/appointment-service/internal/config"
	"github.com/Julianb233/appointment-service/internal/domain"
	"github.com/Julianb233/appointment-service/internal/infra/notify"
	availabilityRepo "github.com/Julianb233/appointment-service/internal/infra/storage/availability"
	bookingRepo "github.com/Julianb233/appointment-service/internal/infra/storage/booking"
	availabilityService "github.com/Julianb233/appointment-service/internal/service/availability"
	bookingsService "github.com/Julianb233/appointment-service/internal/service/bookings"
	createBookingUC "github.com/Julianb233/appointment-service/internal/usecase/create_booking"
	getAvailabilityUC "github.com/Julianb233/appointment-service/internal/usecase/get_availability"
	rescheduleBookingUC "github.com/Julianb233/appointment-service/internal/usecase/reschedule_booking"
	"github.com/Julianb233/appointment-service/pkg/dbmetrics"
	"github.com/Julianb233/appointment-service/pkg/logger"
	"github.com/Julianb233/appointment-service/pkg/metrics"
	"github.com/Julianb233/appointment-service/pkg/simpletxmanager"
	"github.com/Julianb233/appointment-service/pkg/txmanager"
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

	log.Info("Starting appointment-service...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
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

	// Инициализируем нотификатор
	var notifier interface {
		Notify(booking *domain.Booking, template notify.TemplateKind)
	}
	if cfg.Notifier.Enabled {
		// Типизированный nil в интерфейсе обходит проверку observer != nil
		var notifyObserver notify.Observer
		if metricsCollector != nil {
			notifyObserver = metricsCollector
		}
		kafkaNotifier := notify.NewKafkaNotifier(
			cfg.Notifier.Brokers,
			cfg.Notifier.Topic,
			time.Duration(cfg.Notifier.DispatchTimeout)*time.Second,
			log,
			notifyObserver,
		)
		defer kafkaNotifier.Close()
		notifier = kafkaNotifier
		log.Info("Kafka notifier enabled (brokers=%v, topic=%s)", cfg.Notifier.Brokers, cfg.Notifier.Topic)
	} else {
		notifier = notify.NoopNotifier{}
		log.Info("Notifier disabled")
	}

	// Инициализируем репозитории и transaction manager (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		availabilityRepository *availabilityRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		availabilityRepository = availabilityRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		bookingRepository = bookingRepo.NewRepository(db)
		availabilityRepository = availabilityRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		txMgr,
		notifier,
		log,
	)
	availabilitySvc := availabilityService.NewService(
		availabilityRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		txMgr,
		notifier,
		log,
	)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		bookingRepository,
		availabilityRepository,
		txMgr,
		notifier,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	rescheduleBooking := rescheduleBookingHandler.NewHandler(rescheduleBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	cancelBooking := cancelBookingHandler.NewHandler(bookingSvc, log)
	updateBookingStatus := updateBookingStatusHandler.NewHandler(bookingSvc, log)
	getFacilityBookings := getFacilityBookingsHandler.NewHandler(bookingSvc, log)
	getFacilityConfig := getFacilityConfigHandler.NewHandler(availabilitySvc, log)
	updateFacilityConfig := updateFacilityConfigHandler.NewHandler(availabilitySvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector, cfg.Metrics.ServiceName))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()

	// ============================================================
	// PUBLIC ROUTES (без аутентификации)
	// ============================================================

	// Доступные слоты заведения
	api.HandleFunc("/facilities/{facilityId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Конфигурация заведения
	api.HandleFunc("/facilities/{facilityId}/config",
		getFacilityConfig.Handle).Methods(http.MethodGet)

	// --- Бронирования ---
	// Создание бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение бронирования по ID
	api.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Отмена бронирования
	api.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// Перенос бронирования на другой слот
	api.HandleFunc("/bookings/{bookingId}/reschedule", rescheduleBooking.Handle).Methods(http.MethodPatch)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Управление заведением ---
	// Смена статуса бронирования
	protected.HandleFunc("/bookings/{bookingId}/status", updateBookingStatus.Handle).Methods(http.MethodPatch)

	// Календарь заведения
	protected.HandleFunc("/facilities/{facilityId}/bookings", getFacilityBookings.Handle).Methods(http.MethodGet)

	// Обновление конфигурации заведения
	protected.HandleFunc("/facilities/{facilityId}/config", updateFacilityConfig.Handle).Methods(http.MethodPut)

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

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
	}

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
