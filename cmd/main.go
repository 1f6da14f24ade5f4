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

	cancelBookingHandler "github.com/primapp/prim-booking-service/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/primapp/prim-booking-service/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/primapp/prim-booking-service/internal/api/handlers/create_booking"
	getAvailableSlotsHandler "github.com/primapp/prim-booking-service/internal/api/handlers/get_available_slots"
	getBookingHandler "github.com/primapp/prim-booking-service/internal/api/handlers/get_booking"
	getProfessionalBookingsHandler "github.com/primapp/prim-booking-service/internal/api/handlers/get_professional_bookings"
	getProfessionalProfileHandler "github.com/primapp/prim-booking-service/internal/api/handlers/get_professional_profile"
	getUserBookingsHandler "github.com/primapp/prim-booking-service/internal/api/handlers/get_user_bookings"
	updateProfessionalSettingsHandler "github.com/primapp/prim-booking-service/internal/api/handlers/update_professional_settings"
	"github.com/primapp/prim-booking-service/internal/api/middleware"
	"github.com/primapp/prim-booking-service/internal/config"
	bookingRepo "github.com/primapp/prim-booking-service/internal/infra/storage/booking"
	professionalRepo "github.com/primapp/prim-booking-service/internal/infra/storage/professional"
	serviceRepo "github.com/primapp/prim-booking-service/internal/infra/storage/service"
	paymentsClient "github.com/primapp/prim-booking-service/internal/integrations/payments"
	bookingsService "github.com/primapp/prim-booking-service/internal/service/bookings"
	professionalsService "github.com/primapp/prim-booking-service/internal/service/professionals"
	cancelBookingUC "github.com/primapp/prim-booking-service/internal/usecase/cancel_booking"
	createBookingUC "github.com/primapp/prim-booking-service/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/primapp/prim-booking-service/internal/usecase/get_available_slots"
	"github.com/primapp/prim-booking-service/pkg/dbmetrics"
	"github.com/primapp/prim-booking-service/pkg/logger"
	"github.com/primapp/prim-booking-service/pkg/metrics"
	"github.com/primapp/prim-booking-service/pkg/simpletxmanager"
	"github.com/primapp/prim-booking-service/pkg/txmanager"
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

	log.Info("Starting Prim-BookingService...")
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

	// Инициализируем платёжного клиента
	payments := paymentsClient.NewClient(cfg.Payments.StripeKey, log)
	log.Info("Payments client initialized (currency=%s)", cfg.Payments.Currency)

	// Инициализируем репозитории (с метриками или без)
	var (
		bookingRepository      *bookingRepo.Repository
		professionalRepository *professionalRepo.Repository
		serviceRepository      *serviceRepo.Repository
	)

	// Интерфейс для transaction manager (используется в сервисах и usecases)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
		DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		// Инициализируем репозитории с обёрткой метрик
		bookingRepository = bookingRepo.NewRepository(wrappedDB)
		professionalRepository = professionalRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		// Инициализируем репозитории без метрик
		bookingRepository = bookingRepo.NewRepository(db)
		professionalRepository = professionalRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	bookingSvc := bookingsService.NewService(
		bookingRepository,
		professionalRepository,
		payments,
		&bookingsService.RealTimeProvider{},
		log,
	)
	professionalSvc := professionalsService.NewService(
		professionalRepository,
		serviceRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookingRepository,
		professionalRepository,
		serviceRepository,
		payments,
		txMgr,
		cfg.Payments.Currency,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		bookingRepository,
		professionalRepository,
		serviceRepository,
		cfg.Payments.Currency,
		log,
	)

	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookingRepository,
		professionalRepository,
		payments,
		txMgr,
		log,
	)

	// Инициализируем handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getBooking := getBookingHandler.NewHandler(bookingSvc, log)
	confirmBooking := confirmBookingHandler.NewHandler(bookingSvc, log)
	getUserBookings := getUserBookingsHandler.NewHandler(bookingSvc, log)
	getProfessionalBookings := getProfessionalBookingsHandler.NewHandler(bookingSvc, log)
	getProfessionalProfile := getProfessionalProfileHandler.NewHandler(professionalSvc, log)
	updateProfessionalSettings := updateProfessionalSettingsHandler.NewHandler(professionalSvc, log)

	// Фоновый перевод прошедших подтверждённых записей в completed
	stopSweeperCh := make(chan struct{})
	go func() {
		interval := time.Duration(cfg.Bookings.CompletionSweepInterval) * time.Second
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				count, err := bookingSvc.CompleteElapsedBookings(context.Background())
				if err != nil {
					log.Error("Completion sweep failed: %v", err)
					continue
				}
				if count > 0 {
					log.Info("Completion sweep: %d bookings marked completed", count)
				}
			case <-stopSweeperCh:
				return
			}
		}
	}()
	log.Info("Completion sweeper started (interval=%ds)", cfg.Bookings.CompletionSweepInterval)

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

	// Получение доступных слотов для записи
	api.HandleFunc("/professionals/{professionalId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Публичный профиль мастера с часами работы и политиками
	api.HandleFunc("/professionals/{professionalId}/profile",
		getProfessionalProfile.Handle).Methods(http.MethodGet)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// --- Записи ---
	// Создание записи
	protected.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)

	// Получение записи по ID
	protected.HandleFunc("/bookings/{bookingId}", getBooking.Handle).Methods(http.MethodGet)

	// Подтверждение оплаты депозита
	protected.HandleFunc("/bookings/{bookingId}/confirm", confirmBooking.Handle).Methods(http.MethodPost)

	// Отмена записи
	protected.HandleFunc("/bookings/{bookingId}/cancel", cancelBooking.Handle).Methods(http.MethodPatch)

	// История записей пользователя
	protected.HandleFunc("/users/{userId}/bookings", getUserBookings.Handle).Methods(http.MethodGet)

	// --- Управление профилем мастера (для владельцев) ---
	// Список записей мастера
	protected.HandleFunc("/professionals/{professionalId}/bookings",
		getProfessionalBookings.Handle).Methods(http.MethodGet)

	// Обновление настроек мастера
	protected.HandleFunc("/professionals/{professionalId}/settings",
		updateProfessionalSettings.Handle).Methods(http.MethodPut)

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

	// Останавливаем фоновый sweeper
	close(stopSweeperCh)

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
