package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	historyRepo := database.NewScoreHistoryRepository(db)

	// 2. Gateways e Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if mailPort == 0 {
		mailPort = 587
	}
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
	)

	// 3. UseCases
	captureUC := usecase.NewCaptureLeadUseCase(leadRepo, producer)
	scoreUC := usecase.NewScoreLeadUseCase(leadRepo)
	trendUC := usecase.NewScoreTrendUseCase(leadRepo, historyRepo)
	rescoreUC := usecase.NewBulkRescoreUseCase(leadRepo)
	findDuplicatesUC := usecase.NewFindDuplicatesUseCase(leadRepo, mailSender)
	mergeUC := usecase.NewMergeLeadsUseCase(leadRepo)

	// 4. Worker (consome eventos de lead e repontua)
	worker := queue.NewWorker(rabbitMQ.Ch, scoreUC)
	go worker.Start(queue.QueueName)

	// 5. Handlers
	leadHandler := handlers.NewLeadHandler(captureUC, leadRepo)
	scoreHandler := handlers.NewScoreHandler(scoreUC, trendUC, rescoreUC)
	duplicateHandler := handlers.NewDuplicateHandler(findDuplicatesUC)
	mergeHandler := handlers.NewMergeHandler(mergeUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 6. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/orgs/{orgId}", func(r chi.Router) {
		r.Post("/leads", leadHandler.CaptureLead)
		r.Get("/leads/{leadId}", leadHandler.GetLead)
		r.Post("/leads/{leadId}/score", scoreHandler.HandleScoreLead)
		r.Get("/leads/{leadId}/score/trend", scoreHandler.HandleGetTrend)
		r.Post("/leads/merge", mergeHandler.HandleMerge)
		r.Get("/duplicates", duplicateHandler.HandleFindDuplicates)
		r.Post("/rescore", scoreHandler.HandleBulkRescore)
	})

	port := ":8080"
	log.Printf("🔥 Server Ligue CRM rodando na porta %s", port)
	http.ListenAndServe(port, r)
}
