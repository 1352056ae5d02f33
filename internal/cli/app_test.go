package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/actionkit/internal/config"
	"github.com/aretw0/actionkit/internal/logging"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const echoYAML = `
controller: echo
path: /api
actions:
  - name: show
    service: echo
    permit: [q]
    on_success:
      json: {render: json}
  - name: index
    view: home
`

func newTestApp(t *testing.T, files map[string]string) *App {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, body := range files {
		require.NoError(t, afero.WriteFile(fsys, name, []byte(body), 0o644))
	}
	cfg := config.Default()
	cfg.Templates = "templates"
	cfg.Definitions = []string{"controllers/echo.yaml"}
	return NewApp(fsys, cfg, logging.NewNop())
}

func defaultFiles() map[string]string {
	return map[string]string{
		"controllers/echo.yaml":              echoYAML,
		"templates/home.html":                `<h1>home</h1>`,
		"templates/layouts/application.html": `<main>{{.content}}</main>`,
	}
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestApp_Build(t *testing.T) {
	app := newTestApp(t, defaultFiles())
	asm, err := app.Build()
	require.NoError(t, err)
	t.Cleanup(func() { asm.Close() })

	resp, body := get(t, asm.Handler, "/api/7.json?q=go&drop=1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"q":"go","id":"7"}`, body)

	_, body = get(t, asm.Handler, "/api")
	assert.Equal(t, "<main><h1>home</h1></main>", body)

	_, body = get(t, asm.Handler, "/metrics")
	assert.Contains(t, body, `actionkit_dispatch_total{action="show"`)
}

func TestApp_BuildReportsDefinitionErrors(t *testing.T) {
	files := defaultFiles()
	files["controllers/echo.yaml"] = "controller: echo\nactions: [{name: show, service: nope}]"
	_, err := newTestApp(t, files).Build()
	assert.ErrorContains(t, err, "service not found")
}

func TestApp_Routes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestApp(t, defaultFiles()).Routes(&buf))
	assert.Contains(t, buf.String(), "GET     /api/{id}  echo#show")
	assert.Contains(t, buf.String(), "GET     /api       echo#index")
}

func TestApp_DescribeAndGraph(t *testing.T) {
	app := newTestApp(t, defaultFiles())

	var buf bytes.Buffer
	require.NoError(t, app.DescribeTo(&buf, 80))
	assert.Contains(t, buf.String(), "# echo")
	assert.Contains(t, buf.String(), "- Service: `echo#call`")

	buf.Reset()
	require.NoError(t, app.Graph(&buf))
	assert.Contains(t, buf.String(), `echo_show[["show <br/> echo#call"]]`)
}

func TestApp_Validate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newTestApp(t, defaultFiles()).Validate(&buf))
	assert.Equal(t, "✓ 1 controller(s), 2 action(s) valid\n", buf.String())
}

func TestSchema(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Schema(&buf))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "actionkit controller definition", doc["title"])
	assert.Contains(t, buf.String(), `"on_success"`)
	assert.Contains(t, buf.String(), `"form_errors"`)
}

func TestReloader(t *testing.T) {
	app := newTestApp(t, defaultFiles())
	r, err := NewReloader(app, time.Hour)
	require.NoError(t, err)
	first := r.Current()

	assert.False(t, r.Check(), "nothing changed")

	require.NoError(t, afero.WriteFile(app.Fs, "templates/home.html", []byte(`<h1>v2</h1>`), 0o644))
	require.NoError(t, app.Fs.Chtimes("templates/home.html", time.Now(), time.Now().Add(time.Minute)))
	assert.True(t, r.Check())
	assert.NotSame(t, first, r.Current())

	_, body := get(t, r, "/api")
	assert.Equal(t, "<main><h1>v2</h1></main>", body)

	require.NoError(t, afero.WriteFile(app.Fs, "controllers/echo.yaml", []byte("controller: [broken"), 0o644))
	require.NoError(t, app.Fs.Chtimes("controllers/echo.yaml", time.Now(), time.Now().Add(2*time.Minute)))
	assert.False(t, r.Check(), "broken definitions keep the previous generation")
	_, body = get(t, r, "/api")
	assert.Equal(t, "<main><h1>v2</h1></main>", body)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, r.Run(ctx))
}

func TestServe_GracefulShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	ready := make(chan string, 1)
	done := make(chan error, 1)

	go func() {
		done <- Serve(ctx, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "pong")
		}), ServeOptions{
			Addr:  "127.0.0.1:0",
			Out:   &out,
			Ready: func(addr string) { ready <- addr },
		})
	}()

	addr := <-ready
	resp, err := http.Get("http://" + addr)
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "pong", string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.True(t, strings.Contains(out.String(), "Server stopped gracefully"))
}

func TestServe_ListenError(t *testing.T) {
	err := Serve(context.Background(), http.NotFoundHandler(), ServeOptions{Addr: "127.0.0.1:-1"})
	assert.ErrorContains(t, err, "failed to listen")
}

func TestNewLogger(t *testing.T) {
	_, err := NewLogger(config.Default(), "")
	assert.NoError(t, err)
	_, err = NewLogger(config.Default(), "loud")
	assert.Error(t, err)
}

func TestRegisterBuiltins(t *testing.T) {
	app := NewApp(afero.NewMemMapFs(), config.Default(), logging.NewNop())
	assert.Equal(t, []string{"echo#call", "ok#call"}, app.Registry.Names())

	ok, err := app.Registry.Resolve(ServiceOK, "")
	require.NoError(t, err)
	out, err := ok(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, true, out.(map[string]any)["ok"])
}

func TestApp_FlashMiddleware(t *testing.T) {
	app := newTestApp(t, defaultFiles())
	app.Config.Flash.EncryptionKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte("k"), 32))
	app.Config.Flash.RedactPatterns = []string{`\d{4}`}
	asm, err := app.Build()
	require.NoError(t, err)
	require.NoError(t, asm.Close())

	app.Config.Flash.EncryptionKey = base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = app.Build()
	assert.ErrorContains(t, err, "32 bytes")

	app.Config.Flash.EncryptionKey = ""
	app.Config.Flash.RedactPatterns = []string{"("}
	_, err = app.Build()
	assert.ErrorContains(t, err, "invalid pii pattern")
}
