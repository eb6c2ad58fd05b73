package testserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/recontrack/internal/app"
	"github.com/rpggio/recontrack/internal/mcp"
	"github.com/rpggio/recontrack/internal/sqlite"
	"github.com/rpggio/recontrack/internal/transport"
)

// DefaultNow is the fixed clock every test server starts with.
var DefaultNow = time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

// TestServer is the full stack over an in-memory database.
type TestServer struct {
	Server   *httptest.Server
	DB       *sqlite.DB
	Services *app.Services
	MCP      *sdkmcp.Server
	Token    string

	now time.Time
}

// Option customizes a TestServer.
type Option func(*TestServer)

// WithToken requires a bearer token on write requests.
func WithToken(token string) Option {
	return func(ts *TestServer) { ts.Token = token }
}

// New starts a test server. The clock stays at DefaultNow until Advance is called.
func New(t *testing.T, opts ...Option) *TestServer {
	t.Helper()

	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)

	ts := &TestServer{DB: db, now: DefaultNow}
	for _, opt := range opts {
		opt(ts)
	}

	ts.Services = app.New(db, app.Options{Clock: ts.Now})
	ts.MCP = mcp.NewServer(mcp.Config{
		Services:      ts.Services.MCP(),
		APIToken:      ts.Token,
		TransportMode: "http",
		Version:       "test",
	})

	deps := ts.Services.HTTP()
	deps.APIToken = ts.Token
	deps.MCP = sdkmcp.NewStreamableHTTPHandler(func(*http.Request) *sdkmcp.Server { return ts.MCP }, nil)
	ts.Server = httptest.NewServer(transport.NewServer(deps))

	t.Cleanup(func() {
		ts.Server.Close()
		_ = db.Close()
	})

	return ts
}

// Now is the server clock.
func (ts *TestServer) Now() time.Time {
	return ts.now
}

// Advance moves the server clock forward.
func (ts *TestServer) Advance(d time.Duration) {
	ts.now = ts.now.Add(d)
}

// ConnectMCP opens an in-memory MCP client session over the same services.
// In-memory sessions carry no headers, so the session runs as stdio does,
// without the token check.
func (ts *TestServer) ConnectMCP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	ctx := context.Background()
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	server := mcp.NewServer(mcp.Config{
		Services:      ts.Services.MCP(),
		TransportMode: "stdio",
		Version:       "test",
	})
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "test"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = clientSession.Close()
		_ = serverSession.Wait()
	})
	return clientSession
}
