package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/openvault/notechat-mcp/internal/config"
	"github.com/openvault/notechat-mcp/internal/contextcache"
	"github.com/openvault/notechat-mcp/internal/domain/activity"
	"github.com/openvault/notechat-mcp/internal/domain/chat"
	"github.com/openvault/notechat-mcp/internal/domain/lifecycle"
	"github.com/openvault/notechat-mcp/internal/domain/project"
	"github.com/openvault/notechat-mcp/internal/fetch"
	"github.com/openvault/notechat-mcp/internal/mcp"
	"github.com/openvault/notechat-mcp/internal/notify"
	"github.com/openvault/notechat-mcp/internal/orchestrator"
	"github.com/openvault/notechat-mcp/internal/ratelimit"
	"github.com/openvault/notechat-mcp/internal/registry"
	"github.com/openvault/notechat-mcp/internal/sqlite"
	"github.com/openvault/notechat-mcp/internal/transport"
	"github.com/openvault/notechat-mcp/internal/vectorindex"
	"github.com/openvault/notechat-mcp/internal/watch"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	logWriter := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		logWriter = os.Stderr
	}
	if cfg.Log.Path != "" {
		fileWriter, file, err := newLogFileWriter(cfg.Log.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			defer file.Close()
			logWriter = fileWriter
		}
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	projectRepo := sqlite.NewProjectRepository(db)
	cacheRepo := sqlite.NewCacheRepository(db)
	chatRepo := sqlite.NewChatRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	// The vector index is optional: with no embedding provider available the
	// server still serves everything except search_context.
	var index *vectorindex.Index
	embed, err := vectorindex.NewEmbeddingFunc(vectorindex.EmbeddingConfig{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
	})
	if err != nil {
		logger.Warn("vector index disabled", "error", err)
	} else {
		index, err = vectorindex.New(vectorindex.Config{
			Path:     cfg.Cache.VectorPath,
			Compress: cfg.Cache.VectorCompress,
		}, embed, logger)
		if err != nil {
			logger.Warn("vector index disabled", "error", err)
			index = nil
		}
	}

	var vectorDropper contextcache.VectorDropper
	var indexer orchestrator.Indexer
	var searcher mcp.Searcher
	if index != nil {
		vectorDropper = index
		indexer = index
		searcher = index
	}

	store := contextcache.NewStore(cacheRepo, vectorDropper, logger)

	notes := fetch.NewMarkdownFetcher(cfg.Vault.Path)
	web := fetch.NewWebFetcher(cfg.Fetch.Timeout)

	// Without an endpoint video links are skipped rather than failed.
	var transcripts orchestrator.ContentFetcher
	if cfg.Fetch.TranscriptEndpoint != "" {
		transcripts = fetch.NewTranscriptFetcher(cfg.Fetch.TranscriptEndpoint, cfg.Fetch.Timeout)
	}

	projectSvc := project.NewService(projectRepo, logger)
	chatSvc := chat.NewService(chatRepo, projectRepo, cfg.Vault.Path, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	register := registry.New()
	panel := notify.NewPanelSink(0)
	sinks := notify.Fanout{notify.NewSlogSink(logger), panel}

	orch := orchestrator.NewService(projectSvc, store, notes, web, transcripts, indexer, logger)
	lifecycleSvc := lifecycle.NewService(
		register,
		store,
		orch,
		sinks,
		ratelimit.NewNoticeTimer(0),
		ratelimit.IsRateLimit,
		logger,
	)

	handler := mcp.NewHandler(projectSvc, chatSvc, lifecycleSvc, activitySvc, register, searcher, panel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Vault.Watch {
		watcher := watch.New(cfg.Vault.Path, store, &projectLister{svc: projectSvc}, logger)
		go func() {
			if err := watcher.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Error("vault watcher stopped", "error", err)
			}
		}()
	}

	switch cfg.Transport.Mode {
	case "jsonrpc":
		runJSONRPCMode(logger, handler, cfg)
	case "stdio":
		mcpServer := newSDKServer(handler, cfg, logger)
		runStdioMode(ctx, logger, mcpServer)
	default:
		mcpServer := newSDKServer(handler, cfg, logger)
		runHTTPMode(logger, mcpServer, cfg.Server.Host, cfg.Server.Port)
	}
}

func newSDKServer(handler *mcp.Handler, cfg config.Config, logger *slog.Logger) *sdkmcp.Server {
	return mcp.NewServer(mcp.Config{
		Handler:       handler,
		Verifier:      mcp.StaticToken(cfg.Auth.Token),
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})
}

func runStdioMode(ctx context.Context, logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, mcpServer *sdkmcp.Server, host string, port int) {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", mcpHandler)
	router.Handle("/mcp/", mcpHandler)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// runJSONRPCMode serves the plain JSON-RPC transport for clients that do not
// speak the streamable MCP protocol.
func runJSONRPCMode(logger *slog.Logger, handler *mcp.Handler, cfg config.Config) {
	var authMiddleware func(http.Handler) http.Handler
	if cfg.Auth.Enabled {
		authMiddleware = transport.AuthMiddleware(mcp.StaticToken(cfg.Auth.Token))
	}

	router := transport.NewServer(handler, authMiddleware)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		logger.Info("server listening", "addr", addr, "transport", "jsonrpc")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

// projectLister adapts the project service for the vault watcher, which only
// needs folder attribution fields.
type projectLister struct {
	svc *project.Service
}

func (l *projectLister) List(ctx context.Context) ([]project.Project, error) {
	summaries, err := l.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	projects := make([]project.Project, 0, len(summaries))
	for _, s := range summaries {
		projects = append(projects, project.Project{
			ID:          s.ID,
			Name:        s.Name,
			VaultFolder: s.VaultFolder,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
			LastBuiltAt: s.LastBuiltAt,
		})
	}
	return projects, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

const (
	maxLogSizeBytes  = 6 * 1024 * 1024
	keepLogSizeBytes = 5 * 1024 * 1024
)

// logFileWriter appends to a file and keeps it from growing without bound by
// truncating to the most recent keepLogSizeBytes once it passes the max.
type logFileWriter struct {
	path string
	file *os.File
	mu   sync.Mutex
}

func newLogFileWriter(path string) (*logFileWriter, *os.File, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	writer := &logFileWriter{path: path, file: file}
	if err := writer.truncateIfNeeded(); err != nil {
		return nil, nil, err
	}
	return writer, file, nil
}

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func (w *logFileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}
	if err := w.truncateIfNeeded(); err != nil {
		return n, err
	}
	return n, nil
}

func (w *logFileWriter) truncateIfNeeded() error {
	info, err := w.file.Stat()
	if err != nil {
		return err
	}
	size := info.Size()
	if size <= maxLogSizeBytes {
		return nil
	}

	buf := make([]byte, keepLogSizeBytes)
	if _, err := w.file.Seek(size-keepLogSizeBytes, io.SeekStart); err != nil {
		return err
	}
	n, err := w.file.Read(buf)
	if err != nil && err != io.EOF {
		return err
	}
	buf = buf[:n]

	if err := w.file.Truncate(0); err != nil {
		return err
	}
	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := w.file.Write(buf); err != nil {
		return err
	}
	_, err = w.file.Seek(0, io.SeekEnd)
	return err
}
