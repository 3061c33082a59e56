package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bharatparcel/config"
	"bharatparcel/db"
	"bharatparcel/db/mongo"
	"bharatparcel/db/postgres"
	"bharatparcel/handlers"
	"bharatparcel/logger"
	"bharatparcel/notify"
	"bharatparcel/repository"
	"bharatparcel/routes"
	"bharatparcel/service"
	"bharatparcel/summary"
	"bharatparcel/utils"
)

const shutdownTimeout = 15 * time.Second

type repositories struct {
	bookings   repository.BookingRepository
	quotations repository.QuotationRepository
	stations   repository.StationRepository
	customers  repository.CustomerRepository
	users      repository.UserRepository
}

func main() {
	cfg := config.LoadConfig()
	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "bharatparcel",
	})

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", "error", err)
	}

	ctx := context.Background()
	store, repos := connect(ctx, cfg, log)
	defer func() {
		if err := store.Disconnect(context.Background()); err != nil {
			log.Error("Failed to close database", "error", err)
		}
	}()

	notifiers := service.Notifiers{}
	if cfg.EmailEnabled() {
		email, err := notify.NewEmailNotifier(cfg)
		if err != nil {
			log.Fatal("Failed to configure email", "error", err)
		}
		notifiers.Email = email
		log.Info("Email notifications enabled", "host", cfg.SMTPHost)
	}
	if cfg.WhatsAppEnabled() {
		notifiers.WhatsApp = notify.NewWhatsAppClient(cfg)
		log.Info("WhatsApp notifications enabled")
	}

	var archive service.InvoiceArchive
	if cfg.R2Enabled() {
		r2, err := utils.NewR2ArchiveFromConfig(ctx, cfg)
		if err != nil {
			log.Fatal("Failed to configure invoice archive", "error", err)
		}
		archive = r2
		log.Info("Invoice archive enabled", "bucket", cfg.R2Bucket)
	}

	v := service.NewValidator()
	company := summary.Company{Name: cfg.CompanyName, Address: cfg.CompanyAddress, GSTIN: cfg.CompanyGSTIN}

	authService := service.NewAuthService(repos.users, v, cfg.JWTSecret, cfg.JWTTTL, log)
	if cfg.AdminEmail != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			log.Fatal("Failed to create bootstrap admin", "error", err)
		}
	}
	bookingService := service.NewBookingService(repos.bookings, repos.stations, repos.customers, notifiers, v, log)
	quotationService := service.NewQuotationService(repos.quotations, repos.stations, repos.customers, notifiers, v, log)
	stationService := service.NewStationService(repos.stations, v, log)
	customerService := service.NewCustomerService(repos.customers, v, log)
	reportService := service.NewReportService(repos.bookings, repos.stations, repos.customers,
		utils.NewInvoiceRenderer(cfg), archive, company, log)

	router := routes.NewRouter(routes.Handlers{
		Auth:       handlers.NewAuthenticator(authService, log),
		Health:     handlers.NewHealthHandler(store, log),
		Users:      handlers.NewUserHandler(authService, log),
		Bookings:   handlers.NewBookingHandler(bookingService, log),
		Quotations: handlers.NewQuotationHandler(quotationService, log),
		Stations:   handlers.NewStationHandler(stationService, log),
		Customers:  handlers.NewCustomerHandler(customerService, log),
		Reports:    handlers.NewReportHandler(reportService, log),
	}, log)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	run(server, log)
}

func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (db.DB, repositories) {
	switch cfg.DBType {
	case config.DBTypePostgres:
		pg := postgres.NewPostgresDB(cfg, log)
		if err := pg.Connect(ctx); err != nil {
			log.Fatal("Failed to connect to postgres", "error", err)
		}
		if err := db.RunMigrations(pg.Conn, log); err != nil {
			log.Fatal("Failed to run migrations", "error", err)
		}
		return pg, repositories{
			bookings:   repository.NewPostgresBookingRepo(pg.Conn, cfg),
			quotations: repository.NewPostgresQuotationRepo(pg.Conn, cfg),
			stations:   repository.NewPostgresStationRepo(pg.Conn, cfg),
			customers:  repository.NewPostgresCustomerRepo(pg.Conn, cfg),
			users:      repository.NewPostgresUserRepo(pg.Conn, cfg),
		}

	default:
		mg := mongo.NewMongoDB(cfg, log)
		if err := mg.Connect(ctx); err != nil {
			log.Fatal("Failed to connect to mongo", "error", err)
		}
		if err := repository.EnsureIndexes(ctx, mg.Client, cfg); err != nil {
			log.Fatal("Failed to create indexes", "error", err)
		}
		return mg, repositories{
			bookings:   repository.NewMongoBookingRepo(mg.Client, cfg),
			quotations: repository.NewMongoQuotationRepo(mg.Client, cfg),
			stations:   repository.NewMongoStationRepo(mg.Client, cfg),
			customers:  repository.NewMongoCustomerRepo(mg.Client, cfg),
			users:      repository.NewMongoUserRepo(mg.Client, cfg),
		}
	}
}

func run(server *http.Server, log *logger.Logger) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "address", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("Server shutdown failed", "error", err)
			_ = server.Close()
		}
		log.Info("Server stopped gracefully")
	}
}
