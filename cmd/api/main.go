package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/infra/cache"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/logging"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/spreadsheet"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ configuração inválida: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Banco
	db, err := database.NewDBConnection(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ falha ao conectar no banco: %v", err)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("❌ falha ao criar schema: %v", err)
	}

	leadRepo := database.NewLeadRepository(db)
	interactionRepo := database.NewInteractionRepository(db)

	// 2. Dependências opcionais: RabbitMQ, Redis, SMTP
	var (
		publisher  usecase.EventPublisher
		rabbitConn *amqp091.Connection
	)
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		defer rabbitMQ.Close()
		rabbitConn = rabbitMQ.Conn

		producer := queue.NewProducer(rabbitMQ.Ch)
		producer.OnError = middleware.RecordPublishError
		publisher = producer

		var mailer queue.SummaryMailer
		if cfg.MailEnabled() {
			mailer = mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
		}

		// Worker consome a fila de eventos de lead
		consumerCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			log.Fatalf("❌ falha ao abrir canal do worker: %v", err)
		}
		eventWorker := queue.NewWorker(consumerCh, mailer, log)
		go func() {
			if err := eventWorker.Start(ctx, queue.QueueName); err != nil {
				log.WithError(err).Error("❌ worker de eventos parou")
			}
		}()
	} else {
		log.Warn("⚠️ RABBITMQ_URL vazio, eventos de lead desligados")
	}

	var (
		reports     usecase.ImportReportStore
		redisHealth handlers.Pinger
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		store := cache.NewImportReportStore(redisClient, cfg.ImportReportTTL)
		reports = store
		redisHealth = store
	} else {
		log.Warn("⚠️ REDIS_ADDR vazio, último relatório de importação não será guardado")
	}

	// 3. UseCases
	queries := usecase.NewLeadQueryUseCase(leadRepo)
	createLeadUC := usecase.NewCreateLeadUseCase(leadRepo, log)
	updateLeadUC := usecase.NewUpdateLeadUseCase(leadRepo, publisher, log)
	importUC := usecase.NewImportLeadsUseCase(
		spreadsheet.NewParser(),
		leadRepo,
		reports,
		publisher,
		middleware.ImportRecorder{},
		log,
	)
	exportUC := usecase.NewExportLeadsUseCase(queries)
	interactionUC := usecase.NewInteractionUseCase(leadRepo, interactionRepo)

	// 4. Handlers
	leadHandler := handlers.NewLeadHandler(createLeadUC, updateLeadUC, queries)
	importHandler := handlers.NewImportHandler(importUC, cfg.ImportMaxUploadBytes)
	exportHandler := handlers.NewExportHandler(exportUC, log)
	interactionHandler := handlers.NewInteractionHandler(interactionUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitConn, redisHealth)

	// 5. Worker do gauge do pipeline
	gaugeWorker := worker.NewPipelineGaugeWorker(leadRepo, middleware.SetLeadsByStatus, cfg.PipelineGaugeInterval, log)
	go gaugeWorker.Start(ctx)

	// 6. Router
	importLimiter := middleware.NewRateLimiter(cfg.ImportRatePerMinute)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(middleware.RequestLogger(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins(cfg.CORSAllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/leads", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))

		r.Get("/", leadHandler.List)
		r.Post("/", leadHandler.Create)

		r.With(importLimiter.Middleware).Post("/import", importHandler.Import)
		r.Get("/import/last", importHandler.Last)
		r.Get("/export.csv", exportHandler.CSV)
		r.Get("/export.xlsx", exportHandler.XLSX)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", leadHandler.Get)
			r.Put("/", leadHandler.Update)
			r.Delete("/", leadHandler.Delete)
			r.Get("/interactions", interactionHandler.List)
			r.Post("/interactions", interactionHandler.Create)
		})
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("🔥 Server Ligue CRM rodando em %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ servidor HTTP caiu: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("⚠️ desligando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("❌ shutdown forçado")
	}
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"http://localhost:3000"}
	}
	return origins
}
