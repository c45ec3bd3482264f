package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/stackit-dev/stackit/backend/internal/ai"
	"github.com/stackit-dev/stackit/backend/internal/auth"
	"github.com/stackit-dev/stackit/backend/internal/config"
	"github.com/stackit-dev/stackit/backend/internal/database"
	"github.com/stackit-dev/stackit/backend/internal/handlers"
	"github.com/stackit-dev/stackit/backend/internal/server"
	"github.com/stackit-dev/stackit/backend/internal/services"
	"github.com/stackit-dev/stackit/backend/internal/vectorstore"
)

const shutdownTimeout = 10 * time.Second

var skipMigrate bool

// serveCmd runs the HTTP API until SIGINT or SIGTERM.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "Do not migrate the schema on startup")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	if !skipMigrate {
		if err := database.Migrate(db.GetDB()); err != nil {
			return err
		}
	}

	gin.SetMode(gin.ReleaseMode)

	gen, embedder := newAI(ctx, cfg.AI, log)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	gormDB := db.GetDB()

	handler := handlers.NewHandler(handlers.Deps{
		Users:         services.NewUserService(gormDB),
		Questions:     services.NewQuestionService(gormDB, newIndexer(cfg.Vector, embedder, log), cfg.IndexTimeout(), log),
		Answers:       services.NewAnswerService(gormDB),
		Notifications: services.NewNotificationService(gormDB),
		Admin:         services.NewAdminService(gormDB),
		Assistant:     ai.NewAssistant(gen, cfg.AI.Timeout),
		Tokens:        tokens,
		Auth:          cfg.Auth,
		Log:           log,
	})

	srv := server.New(cfg.Server, log, handler, tokens, db).HTTPServer()

	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", srv.Addr).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newAI returns nil interfaces when no API key is configured.
func newAI(ctx context.Context, cfg config.AIConfig, log logrus.FieldLogger) (ai.Generator, ai.Embedder) {
	if !cfg.Enabled() {
		log.Warn("GEMINI_API_KEY not set; AI endpoints will return 503")
		return nil, nil
	}

	client, err := ai.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.WithError(err).Warn("gemini client unavailable; AI endpoints will return 503")
		return nil, nil
	}
	return client, client
}

func newIndexer(cfg config.VectorConfig, embedder ai.Embedder, log logrus.FieldLogger) services.Indexer {
	if !cfg.Enabled() || embedder == nil {
		log.Info("vector indexing disabled")
		return nil
	}
	store, err := vectorstore.NewChroma(cfg.URL, cfg.Collection, cfg.Timeout, embedder)
	if err != nil {
		log.WithError(err).Warn("chroma client unavailable; vector indexing disabled")
		return nil
	}
	log.WithField("collection", cfg.Collection).Info("vector indexing enabled")
	return store
}
