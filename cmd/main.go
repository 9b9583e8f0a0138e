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

	cancelAppointmentHandler "github.com/FihlaTV/timegrid/internal/api/handlers/cancel_appointment"
	confirmAppointmentHandler "github.com/FihlaTV/timegrid/internal/api/handlers/confirm_appointment"
	getAppointmentHandler "github.com/FihlaTV/timegrid/internal/api/handlers/get_appointment"
	getAvailabilityHandler "github.com/FihlaTV/timegrid/internal/api/handlers/get_availability"
	getBusinessAgendaHandler "github.com/FihlaTV/timegrid/internal/api/handlers/get_business_agenda"
	getTimetableHandler "github.com/FihlaTV/timegrid/internal/api/handlers/get_timetable"
	getUserAgendaHandler "github.com/FihlaTV/timegrid/internal/api/handlers/get_user_agenda"
	takeReservationHandler "github.com/FihlaTV/timegrid/internal/api/handlers/take_reservation"
	updateTimetableHandler "github.com/FihlaTV/timegrid/internal/api/handlers/update_timetable"
	"github.com/FihlaTV/timegrid/internal/api/middleware"
	"github.com/FihlaTV/timegrid/internal/config"
	"github.com/FihlaTV/timegrid/internal/events"
	appointmentRepo "github.com/FihlaTV/timegrid/internal/infra/storage/appointment"
	businessRepo "github.com/FihlaTV/timegrid/internal/infra/storage/business"
	contactRepo "github.com/FihlaTV/timegrid/internal/infra/storage/contact"
	serviceRepo "github.com/FihlaTV/timegrid/internal/infra/storage/service"
	timetableRepo "github.com/FihlaTV/timegrid/internal/infra/storage/timetable"
	mailServiceClient "github.com/FihlaTV/timegrid/internal/integrations/mailservice"
	notifyServiceClient "github.com/FihlaTV/timegrid/internal/integrations/notifyservice"
	appointmentsService "github.com/FihlaTV/timegrid/internal/service/appointments"
	notificationsService "github.com/FihlaTV/timegrid/internal/service/notifications"
	timetablesService "github.com/FihlaTV/timegrid/internal/service/timetables"
	confirmAppointmentUC "github.com/FihlaTV/timegrid/internal/usecase/confirm_appointment"
	getAvailabilityUC "github.com/FihlaTV/timegrid/internal/usecase/get_availability"
	takeReservationUC "github.com/FihlaTV/timegrid/internal/usecase/take_reservation"
	"github.com/FihlaTV/timegrid/pkg/dbmetrics"
	"github.com/FihlaTV/timegrid/pkg/logger"
	"github.com/FihlaTV/timegrid/pkg/metrics"
	"github.com/FihlaTV/timegrid/pkg/simpletxmanager"
	"github.com/FihlaTV/timegrid/pkg/txmanager"
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

	log.Info("Starting timegrid booking service...")
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

	// Инициализируем интеграционных клиентов
	mailClient := mailServiceClient.NewClient(
		cfg.MailService.URL,
		time.Duration(cfg.MailService.Timeout)*time.Second,
		log,
	)
	notifyClient := notifyServiceClient.NewClient(
		cfg.NotifyService.URL,
		time.Duration(cfg.NotifyService.Timeout)*time.Second,
		log,
	)
	log.Info("Integration clients initialized (MailService=%s timeout=%ds, NotifyService=%s timeout=%ds)",
		cfg.MailService.URL, cfg.MailService.Timeout, cfg.NotifyService.URL, cfg.NotifyService.Timeout)

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		timetableRepository   *timetableRepo.Repository
		businessRepository    *businessRepo.Repository
		contactRepository     *contactRepo.Repository
		serviceRepository     *serviceRepo.Repository
	)

	// Интерфейс transaction manager, общий для обеих реализаций
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		timetableRepository = timetableRepo.NewRepository(wrappedDB)
		businessRepository = businessRepo.NewRepository(wrappedDB)
		contactRepository = contactRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		timetableRepository = timetableRepo.NewRepository(db)
		businessRepository = businessRepo.NewRepository(db)
		contactRepository = contactRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Диспетчер доменных событий и подписчик уведомлений
	dispatcher := events.NewDispatcher(log)
	defer dispatcher.Close()

	notificationListener := notificationsService.NewListener(mailClient, notifyClient, businessRepository, log)
	dispatcher.Subscribe(notificationListener.Handle)

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		businessRepository,
		contactRepository,
		log,
	)
	timetableSvc := timetablesService.NewService(
		timetableRepository,
		businessRepository,
		txMgr,
		log,
	)

	// Инициализируем use cases
	takeReservationUseCase := takeReservationUC.NewUseCase(
		appointmentRepository,
		timetableRepository,
		businessRepository,
		contactRepository,
		serviceRepository,
		txMgr,
		dispatcher,
		log,
	)

	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(
		appointmentRepository,
		timetableRepository,
		log,
	)

	confirmAppointmentUseCase := confirmAppointmentUC.NewUseCase(
		appointmentRepository,
		businessRepository,
		dispatcher,
		log,
	)

	// Инициализируем handlers
	takeReservation := takeReservationHandler.NewHandler(takeReservationUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	confirmAppointment := confirmAppointmentHandler.NewHandler(confirmAppointmentUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	getUserAgenda := getUserAgendaHandler.NewHandler(appointmentSvc, log)
	getBusinessAgenda := getBusinessAgendaHandler.NewHandler(appointmentSvc, log)
	getTimetable := getTimetableHandler.NewHandler(timetableSvc, log)
	updateTimetable := updateTimetableHandler.NewHandler(timetableSvc, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// API prefix
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Auth)

	// ============================================================
	// PUBLIC ROUTES (работают без аутентификации)
	// ============================================================

	// Доступные слоты бизнеса
	api.HandleFunc("/businesses/{businessId}/availability",
		getAvailability.Handle).Methods(http.MethodGet)

	// Расписание бизнеса
	api.HandleFunc("/businesses/{businessId}/timetable",
		getTimetable.Handle).Methods(http.MethodGet)

	// Бронирование слота (гостевое без заголовка аутентификации)
	api.HandleFunc("/businesses/{businessId}/reservations",
		takeReservation.Handle).Methods(http.MethodPost)

	// Подтверждение гостевой брони кодом из письма
	api.HandleFunc("/businesses/{businessId}/appointments/confirm",
		confirmAppointment.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют X-User-ID header)
	// ============================================================

	// --- Брони ---
	// Получение брони по ID
	api.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)

	// Отмена брони
	api.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)

	// Актуальные брони пользователя
	api.HandleFunc("/users/me/appointments", getUserAgenda.Handle).Methods(http.MethodGet)

	// --- Управление бизнесом (для владельцев) ---
	// Повестка бизнеса
	api.HandleFunc("/businesses/{businessId}/appointments", getBusinessAgenda.Handle).Methods(http.MethodGet)

	// Обновление расписания бизнеса
	api.HandleFunc("/businesses/{businessId}/timetable", updateTimetable.Handle).Methods(http.MethodPut)

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
