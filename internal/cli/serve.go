package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Shivanand-hulikatti/festival-events/internal/auth"
	"github.com/Shivanand-hulikatti/festival-events/internal/config"
	"github.com/Shivanand-hulikatti/festival-events/internal/database"
	"github.com/Shivanand-hulikatti/festival-events/internal/handler"
	"github.com/Shivanand-hulikatti/festival-events/internal/i18n"
	"github.com/Shivanand-hulikatti/festival-events/internal/notify"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository"
	"github.com/Shivanand-hulikatti/festival-events/internal/repository/memory"
	"github.com/Shivanand-hulikatti/festival-events/internal/service"
	"github.com/Shivanand-hulikatti/festival-events/internal/stream"
	"github.com/Shivanand-hulikatti/festival-events/internal/ticket"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the command that runs the HTTP API.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}
}

// stores is the persistence the services run on.
type stores struct {
	events        service.EventStore
	registrations service.RegistrationStore
	messages      service.MessageStore
	feedback      service.FeedbackStore
}

func openStores(ctx context.Context, cfg *config.Config) (stores, func(), error) {
	if cfg.Store == config.StoreMemory {
		log.Println("store: using in-memory store, data is lost on exit")
		m := memory.New()
		return stores{m.Events, m.Registrations, m.Messages, m.Feedback}, func() {}, nil
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, database.PoolOptions{})
	if err != nil {
		return stores{}, nil, err
	}
	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL, database.Up); err != nil {
			pool.Close()
			return stores{}, nil, err
		}
		log.Println("store: migrations applied")
	}
	pg := repository.NewPostgres(pool)
	return stores{pg.Events, pg.Registrations, pg.Messages, pg.Feedback}, pool.Close, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	st, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	tr := i18n.NewTranslator(cfg.DefaultLocale)

	var publisher notify.Publisher
	if cfg.PublishWebhookURL != "" {
		publisher = notify.NewWebhook(cfg.PublishWebhookURL)
	}
	dispatcher := notify.NewDispatcher(notify.Options{
		QueueSize:  cfg.NotifyQueueSize,
		Mailer:     notify.LogMailer{},
		Publisher:  publisher,
		Translator: tr,
		From:       cfg.MailFrom,
		Locale:     cfg.DefaultLocale,
	})
	hub := stream.NewHub(cfg.SubscriberBuffer)

	h := handler.New(handler.Options{
		Events:        service.NewEventService(st.events, dispatcher, nil),
		Registrations: service.NewRegistrationService(st.events, st.registrations, ticket.NewQREncoder(), dispatcher, nil),
		Forum:         service.NewForumService(st.events, st.registrations, st.messages, hub, nil),
		Feedback:      service.NewFeedbackService(st.events, st.registrations, st.feedback, nil),
		Hub:           hub,
		Heartbeat:     cfg.HeartbeatInterval,
		Translator:    tr,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler.NewRouter(h, auth.NewVerifier(cfg.JWTSecret)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		log.Printf("server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Println("server stopped")
	return nil
}
