package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/taskhub-ai/taskhub/internal/agent"
	"github.com/taskhub-ai/taskhub/internal/config"
	"github.com/taskhub-ai/taskhub/internal/logging"
	"github.com/taskhub-ai/taskhub/internal/provider"
	"github.com/taskhub-ai/taskhub/internal/server"
	"github.com/taskhub-ai/taskhub/internal/task"
	"github.com/taskhub-ai/taskhub/internal/tool"
)

var (
	servePort int
	serveDir  string
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the TaskHub HTTP server",
	Long: `Start the TaskHub HTTP server.

The server exposes task CRUD endpoints under /api/tasks and a chat endpoint
under /api/agents/semantic-kernel/chat. When no chat model is configured the
server still starts; the chat endpoint then answers with a fixed message.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to listen on (overrides config)")
	serveCmd.Flags().StringVar(&serveDir, "directory", "", "Directory to load project config from")
	serveCmd.Flags().StringVar(&serveDB, "database", "", "Path to the task database (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	workDir := serveDir
	if workDir == "" {
		workDir, _ = os.Getwd()
	}

	cfg, err := config.Load(workDir)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	if serveDB != "" {
		cfg.Database = serveDB
	}

	level := cfg.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	logging.Init(logging.Config{
		Level:  logging.ParseLevel(level),
		Pretty: logPretty,
	})

	logging.Info().Str("version", Version).Msg("starting taskhub server")

	paths := config.GetPaths()
	if err := paths.EnsurePaths(); err != nil {
		return err
	}

	dbPath := cfg.Database
	if dbPath == "" {
		dbPath = paths.DatabasePath()
	}

	store, err := task.NewSQLiteStore(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	taskSvc := task.NewService(store)
	toolReg := tool.DefaultRegistry(taskSvc)

	// A provider failure disables the agent feature but never prevents
	// startup; sessions constructed without a provider answer with a
	// fixed sentinel.
	ctx := context.Background()
	prov, err := provider.Initialize(ctx, cfg)
	if err != nil {
		logging.Warn().Err(err).Msg("chat model provider unavailable, agent disabled")
		prov = nil
	}

	sessions := agent.NewManager(prov, toolReg, agent.ManagerConfig{
		MaxSessions: cfg.Session.MaxSessions,
		IdleTTL:     cfg.Session.IdleTTLDuration(),
	})
	defer sessions.Close()

	serverConfig := server.DefaultConfig()
	serverConfig.Port = cfg.Port

	srv := server.New(serverConfig, taskSvc, sessions)

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logging.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("server shutdown error")
		return err
	}

	logging.Info().Msg("server stopped")
	return nil
}
