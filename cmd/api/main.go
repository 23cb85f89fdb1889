package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MarceloRDPJ/funila-app/internal/infra/database"
	"github.com/MarceloRDPJ/funila-app/internal/infra/enrichment"
	"github.com/MarceloRDPJ/funila-app/internal/infra/http/handlers"
	"github.com/MarceloRDPJ/funila-app/internal/infra/http/middleware"
	"github.com/MarceloRDPJ/funila-app/internal/infra/integration/brasilapi"
	"github.com/MarceloRDPJ/funila-app/internal/infra/integration/serasa"
	"github.com/MarceloRDPJ/funila-app/internal/infra/integration/zapi"
	"github.com/MarceloRDPJ/funila-app/internal/infra/mail"
	"github.com/MarceloRDPJ/funila-app/internal/infra/notify"
	"github.com/MarceloRDPJ/funila-app/internal/infra/queue"
	"github.com/MarceloRDPJ/funila-app/internal/infra/security"
	"github.com/MarceloRDPJ/funila-app/internal/infra/tasks"
	"github.com/MarceloRDPJ/funila-app/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		getEnv("RABBITMQ_USER", "user"),
		getEnv("RABBITMQ_PASS", "password"),
		getEnv("RABBITMQ_HOST", "localhost"),
		getEnv("RABBITMQ_PORT", "5672"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	cipher, err := security.NewCipherFromEnv()
	if err != nil {
		log.Fatalf("❌ ENCRYPTION_KEY inválida: %v", err)
	}

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	tenantRepo := database.NewTenantRepository(db)
	webhookRepo := database.NewWebhookRepository(db)
	responseRepo := database.NewResponseRepository(db)
	eventRepo := database.NewEventRepository(db)
	funnelRepo := database.NewFunnelMetricRepository(db)

	// 2. Gateways e Adapters
	// URL vazia deixa cada cliente usar o próprio DefaultBaseURL, que já
	// carrega o caminho da API.
	registry := brasilapi.NewClient(os.Getenv("BRASILAPI_URL"))
	credit := serasa.NewClient(os.Getenv("SOAWS_TOKEN"), os.Getenv("SOAWS_URL"))
	defaultZAPICreds := zapi.Credentials{
		InstanceID: os.Getenv("ZAPI_INSTANCE_ID"),
		Token:      os.Getenv("ZAPI_TOKEN"),
	}
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), 587, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)
	notifier := notify.NewWebhookNotifier(webhookRepo)
	runner := tasks.NewGoRunner()

	// 3. Enriquecimento (cascata) + Worker da última camada
	enricher := enrichment.NewEnricher(leadRepo, tenantRepo, registry, credit, producer)

	zapiBaseURL := os.Getenv("ZAPI_BASE_URL")
	worker := queue.NewWorker(rabbitMQ.Ch, leadRepo, tenantRepo, defaultZAPICreds,
		func(creds zapi.Credentials) queue.PhoneValidator {
			return zapi.NewClient(zapiBaseURL, creds)
		},
	)
	go worker.Start(queue.QueueName)

	// 4. UseCases
	savePartialUC := usecase.NewSavePartialLeadUseCase(
		leadRepo, cipher, enricher, funnelRepo, runner,
	)
	submitUC := usecase.NewSubmitLeadUseCase(
		leadRepo, tenantRepo, responseRepo, eventRepo, funnelRepo,
		cipher, registry, credit, enricher, notifier, mailSender, runner,
	)
	statusUC := usecase.NewUpdateLeadStatusUseCase(
		leadRepo, funnelRepo, notifier, runner,
	)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(savePartialUC, submitUC, statusUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
	}))
	r.Use(middleware.Metrics)

	r.Post("/leads/partial", leadHandler.HandleSavePartial)
	r.Post("/leads", leadHandler.HandleSubmit)
	r.Patch("/leads/{leadId}/status", leadHandler.HandleUpdateStatus)
	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🚀 Server Funila rodando na porta %s", port)
	http.ListenAndServe(port, r)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
