package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/xavierca1/ligue-pipeline/internal/config"
	"github.com/xavierca1/ligue-pipeline/internal/infra/database"
	"github.com/xavierca1/ligue-pipeline/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-pipeline/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-pipeline/internal/infra/mail"
	"github.com/xavierca1/ligue-pipeline/internal/infra/pdf"
	"github.com/xavierca1/ligue-pipeline/internal/infra/queue"
	"github.com/xavierca1/ligue-pipeline/internal/infra/worker"
	"github.com/xavierca1/ligue-pipeline/internal/pipeline"
	"github.com/xavierca1/ligue-pipeline/internal/usecase"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatalf("❌ Config inválida: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewDBConnection(cfg.Database.URL, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Fatalf("❌ Falha ao conectar no Postgres: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("❌ Falha ao aplicar schema: %v", err)
		}
	}

	rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQ.DSN())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	defer rabbitMQ.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	followUpRepo := database.NewFollowUpRepository(db)
	proposalRepo := database.NewProposalRepository(db)
	clientRepo := database.NewClientRepository(db)
	employeeRepo := database.NewEmployeeRepository(db)

	// 2. Adapters
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)
	machine := pipeline.NewStateMachine(cfg.Pipeline.StrictTransitions)
	if machine.Strict() {
		log.Println("🔒 Pipeline em modo de transições estritas")
	}

	// 3. UseCases
	getLeadUC := usecase.NewGetLeadUseCase(leadRepo)
	dispatchUC := usecase.NewDispatchDueFollowUpsUseCase(followUpRepo, leadRepo, producer)

	// 4. Workers
	if cfg.Mail.Enabled() {
		mailSender := mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Password, cfg.Mail.From)
		notifyUC := usecase.NewNotifyOwnerUseCase(employeeRepo, mailSender)
		// canal próprio: o canal do producer não deve ser compartilhado com o consumo
		consumeCh, err := rabbitMQ.Conn.Channel()
		if err != nil {
			log.Fatalf("❌ Falha ao abrir canal de consumo: %v", err)
		}
		defer consumeCh.Close()

		notifier := queue.NewWorker(consumeCh, notifyUC)
		go func() {
			if err := notifier.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ [WORKER] %v", err)
			}
		}()
	} else {
		log.Println("⚠️ MAIL_HOST não configurado: notificações por e-mail desligadas")
	}

	reminders := worker.NewFollowUpReminderWorker(dispatchUC, cfg.Reminder.Schedule, cfg.Reminder.Lookahead)
	reminders.OnDispatched = middleware.RecordRemindersDispatched
	go func() {
		if err := reminders.Start(ctx); err != nil {
			log.Printf("❌ [REMINDER] %v", err)
		}
	}()

	rateLimiter := handlers.NewRateLimiter(cfg.Server.LeadRateLimit, time.Minute)
	go rateLimiter.Cleanup(ctx)

	// 5. Handlers
	router := handlers.Router{
		Leads: &handlers.LeadHandler{
			CreateUC:     usecase.NewCreateLeadUseCase(leadRepo, producer),
			GetUC:        getLeadUC,
			ListUC:       usecase.NewListLeadsUseCase(leadRepo),
			UpdateUC:     usecase.NewUpdateLeadUseCase(leadRepo),
			DeleteUC:     usecase.NewDeleteLeadUseCase(leadRepo, producer),
			TransitionUC: usecase.NewTransitionLeadUseCase(leadRepo, machine, producer),
			ConvertUC:    usecase.NewConvertLeadUseCase(leadRepo, clientRepo, machine, producer),
			ActivityUC:   usecase.NewLeadActivityUseCase(leadRepo),
			RateLimiter:  rateLimiter,
		},
		FollowUps: handlers.NewFollowUpHandler(
			usecase.NewAppendFollowUpUseCase(leadRepo, followUpRepo, producer),
			usecase.NewRemoveFollowUpUseCase(followUpRepo),
			usecase.NewGetLeadLedgerUseCase(leadRepo, followUpRepo),
		),
		Proposals: &handlers.ProposalHandler{
			CreateUC: usecase.NewCreateProposalUseCase(leadRepo, proposalRepo),
			GetUC:    usecase.NewGetProposalUseCase(proposalRepo),
			ListUC:   usecase.NewListProposalsUseCase(leadRepo, proposalRepo),
			EditUC:   usecase.NewEditProposalUseCase(proposalRepo),
			SendUC:   usecase.NewSendProposalUseCase(leadRepo, proposalRepo, producer),
			DecideUC: usecase.NewDecideProposalUseCase(proposalRepo),
			LeadUC:   getLeadUC,
			Renderer: pdf.NewProposalRenderer(cfg.Pipeline.CompanyName),
		},
		Pipeline: handlers.NewPipelineHandler(
			usecase.NewPipelineOverviewUseCase(leadRepo),
			usecase.NewPipelineReportUseCase(leadRepo, employeeRepo),
		),
		Health:         handlers.NewHealthHandler(db, rabbitMQ.Conn, version),
		AllowedOrigins: cfg.Server.AllowedOrigins,
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 Server Pipeline rodando na porta %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ HTTP server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⚠️ Encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Erro no shutdown: %v", err)
	}
}
