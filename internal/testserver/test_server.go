// Package testserver assembles the full notechat stack against an in-memory
// database and a temp vault, exposed over the plain JSON-RPC transport, for
// functional tests.
package testserver

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	chromem "github.com/philippgille/chromem-go"
	"github.com/stretchr/testify/require"

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
)

type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Vault    string
	Token    string
	Register *registry.Register
	Panel    *notify.PanelSink
}

func New(t *testing.T, token string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	vault := t.TempDir()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	projectRepo := sqlite.NewProjectRepository(db)
	cacheRepo := sqlite.NewCacheRepository(db)
	chatRepo := sqlite.NewChatRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	index, err := vectorindex.New(vectorindex.Config{}, chromem.EmbeddingFunc(stubEmbedding), logger)
	require.NoError(t, err)

	store := contextcache.NewStore(cacheRepo, index, logger)
	notes := fetch.NewMarkdownFetcher(vault)
	web := fetch.NewWebFetcher(0)

	projectSvc := project.NewService(projectRepo, logger)
	chatSvc := chat.NewService(chatRepo, projectRepo, vault, logger)
	activitySvc := activity.NewService(activityRepo, logger)

	register := registry.New()
	panel := notify.NewPanelSink(0)

	orch := orchestrator.NewService(projectSvc, store, notes, web, nil, index, logger)
	lifecycleSvc := lifecycle.NewService(
		register,
		store,
		orch,
		panel,
		ratelimit.NewNoticeTimer(0),
		ratelimit.IsRateLimit,
		logger,
	)

	handler := mcp.NewHandler(projectSvc, chatSvc, lifecycleSvc, activitySvc, register, index, panel)
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(mcp.StaticToken(token))))

	ts := &TestServer{
		Server:   server,
		DB:       db,
		Vault:    vault,
		Token:    token,
		Register: register,
		Panel:    panel,
	}

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// WriteNote puts a markdown note into the test vault.
func (ts *TestServer) WriteNote(t *testing.T, relPath, content string) {
	t.Helper()
	abs := filepath.Join(ts.Vault, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
}

// stubEmbedding embeds text as a deterministic unit vector so the vector
// index works without an embedding provider.
func stubEmbedding(_ context.Context, text string) ([]float32, error) {
	var a, b, c float64
	for i, r := range text {
		switch i % 3 {
		case 0:
			a += float64(r)
		case 1:
			b += float64(r)
		default:
			c += float64(r)
		}
	}
	norm := math.Sqrt(a*a + b*b + c*c)
	if norm == 0 {
		norm = 1
	}
	return []float32{float32(a / norm), float32(b / norm), float32(c / norm)}, nil
}
