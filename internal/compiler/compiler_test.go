package compiler_test

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/aretw0/actionkit/internal/compiler"
	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/registry"
	"github.com/aretw0/actionkit/pkg/render"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postsYAML = `
controller: posts
actions:
  - name: index
    view: posts/index
    turbo_frame: {id: posts_list}
  - name: show
    service: posts.find
    on_success:
      json: {render: json}
      html: {render: partial, partial: posts/show}
    on_error:
      not_found:
        json: {render: json}
        xml: {render: xml}
  - name: create
    service: posts.create
    params_key: post
    permit: [title]
    on_success:
      html:
        render: redirect
        location: /posts
        flash: {type: notice, message: Created}
      turbo_stream:
        render: stream
        streams:
          - {action: prepend, target: posts, partial: posts/show}
          - {action: flash, type: notice, message: Created}
    on_error:
      invalid:
        turbo_stream: {render: stream, streams: [{action: form_errors}]}
        any: {render: head}
  - name: publish
    service: posts.find
    route: {method: patch, path: "{id}/publish"}
    on_success:
      html: {render: redirect, location: "/posts/{id}"}
`

type post struct {
	ID    string `json:"id" xml:"id"`
	Title string `json:"title" xml:"title" validate:"required"`
}

func newRegistry() *registry.Registry {
	reg := registry.NewRegistry()
	reg.Register("posts.find", func(_ context.Context, p domain.Params) (any, error) {
		if p.String("id") == "1" {
			return post{ID: "1", Title: "Hello"}, nil
		}
		return nil, fmt.Errorf("post %s: %w", p.String("id"), domain.ErrNotFound)
	})
	reg.Register("posts.create", func(_ context.Context, p domain.Params) (any, error) {
		var in post
		if err := p.Decode(&in); err != nil {
			return nil, err
		}
		if err := validator.New().Struct(in); err != nil {
			return nil, domain.WithCategory(domain.CategoryInvalid, err)
		}
		in.ID = "2"
		return in, nil
	})
	return reg
}

func newEngine(t *testing.T) *render.Engine {
	t.Helper()
	engine, err := render.New(fstest.MapFS{
		"posts/index.html": {Data: []byte(`<ul id="posts"></ul>`)},
		"posts/show.html":  {Data: []byte(`<article>{{.result.Title}}</article>`)},
	})
	require.NoError(t, err)
	return engine
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := compiler.Parse([]byte("controller: posts\nactions:\n  - name: index\n    servce: x\n"))
	assert.ErrorContains(t, err, "servce")
}

func TestParse_Validation(t *testing.T) {
	tests := map[string]string{
		"no actions":          "controller: posts\nactions: []",
		"no controller":       "actions: [{name: index}]",
		"missing render":      "controller: p\nactions: [{name: a, on_success: {json: {status: 200}}}]",
		"partial needs name":  "controller: p\nactions: [{name: a, on_success: {html: {render: partial}}}]",
		"unknown render":      "controller: p\nactions: [{name: a, on_success: {html: {render: page}}}]",
		"bad status":          "controller: p\nactions: [{name: a, on_success: {json: {render: json, status: 42}}}]",
		"stream needs ops":    "controller: p\nactions: [{name: a, on_error: {any: {turbo_stream: {render: stream}}}}]",
		"unknown stream verb": "controller: p\nactions: [{name: a, on_success: {turbo_stream: {render: stream, streams: [{action: morph}]}}}]",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := compiler.Parse([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestCompiler_CheckReportsEveryProblem(t *testing.T) {
	def, err := compiler.Parse([]byte(`
controller: posts
actions:
  - name: show
    service: posts.missing
    on_success:
      any: {render: head}
      html: {render: partial, partial: posts/nope}
    on_error:
      teapot: {json: {render: json}}
  - name: edit
    turbo_frame: {id: post_form}
    on_success:
      turbo_stream: {render: stream, streams: [{action: append, partial: posts/show}]}
`))
	require.NoError(t, err)

	c := compiler.New(newRegistry(), compiler.WithViews(newEngine(t)))
	_, err = c.Compile(def)
	require.Error(t, err)
	msg := err.Error()
	assert.Contains(t, msg, "posts#show: service not found")
	assert.Contains(t, msg, "on_success cannot use the any format")
	assert.Contains(t, msg, `"posts/nope" not found`)
	assert.Contains(t, msg, `unknown error category "teapot"`)
	assert.Contains(t, msg, `turbo_frame "post_form" has neither a partial nor a view`)
	assert.Contains(t, msg, "stream append needs a target")
	assert.Contains(t, msg, "posts#edit: needs a service or a view")
}

func TestCompiler_ViewsRequireTemplates(t *testing.T) {
	def, err := compiler.Parse([]byte("controller: p\nactions: [{name: index, view: p/index}]"))
	require.NoError(t, err)
	_, err = compiler.New(registry.NewRegistry()).Compile(def)
	assert.ErrorContains(t, err, "needs a template directory")
}

func TestLoadAll(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "a.yaml", []byte(postsYAML), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "b.yaml", []byte(postsYAML), 0o644))

	defs, err := compiler.LoadAll(fsys, []string{"a.yaml"})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Len(t, defs[0].Actions, 4)

	_, err = compiler.LoadAll(fsys, []string{"a.yaml", "b.yaml"})
	assert.ErrorContains(t, err, `controller "posts" defined in both a.yaml and b.yaml`)

	_, err = compiler.LoadAll(fsys, []string{"missing.yaml"})
	assert.ErrorContains(t, err, "failed to read definition missing.yaml")
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	def, err := compiler.Parse([]byte(postsYAML))
	require.NoError(t, err)

	engine := newEngine(t)
	ctrl, err := compiler.New(newRegistry(), compiler.WithViews(engine)).Build(def)
	require.NoError(t, err)

	ts := httptest.NewServer(httpadapter.NewServer(engine).Mount("/posts", ctrl).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func send(t *testing.T, ts *httptest.Server, method, path, body string, headers map[string]string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	client := ts.Client()
	client.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestBuild_Show(t *testing.T) {
	ts := newServer(t)

	resp, body := send(t, ts, http.MethodGet, "/posts/1.json", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":"1","title":"Hello"}`, body)

	_, body = send(t, ts, http.MethodGet, "/posts/1", "", nil)
	assert.Equal(t, "<article>Hello</article>", body)

	resp, body = send(t, ts, http.MethodGet, "/posts/9.json", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"post 9: not found","category":"not_found"}`, body)

	resp, body = send(t, ts, http.MethodGet, "/posts/9.xml", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, `<error category="not_found">post 9: not found</error>`)
}

func TestBuild_ViewAndFrame(t *testing.T) {
	ts := newServer(t)

	_, body := send(t, ts, http.MethodGet, "/posts", "", nil)
	assert.Equal(t, `<ul id="posts"></ul>`, body)

	_, body = send(t, ts, http.MethodGet, "/posts", "", map[string]string{"Turbo-Frame": "posts_list"})
	assert.Equal(t, `<turbo-frame id="posts_list"><ul id="posts"></ul></turbo-frame>`, body)
}

func TestBuild_Create(t *testing.T) {
	ts := newServer(t)
	form := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	stream := map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
		"Accept":       "text/vnd.turbo-stream.html",
	}

	resp, _ := send(t, ts, http.MethodPost, "/posts", "post[title]=New", form)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts", resp.Header.Get("Location"))

	resp, body := send(t, ts, http.MethodPost, "/posts", "post[title]=New", stream)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `<turbo-stream action="prepend" target="posts"><template><article>New</article></template></turbo-stream>`)
	assert.Contains(t, body, `flash-notice`)

	resp, body = send(t, ts, http.MethodPost, "/posts", "post[title]=", stream)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, `<li>title is required</li>`)

	resp, _ = send(t, ts, http.MethodPost, "/posts.json", "post[title]=", form)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestBuild_CustomRoute(t *testing.T) {
	ts := newServer(t)

	resp, _ := send(t, ts, http.MethodPatch, "/posts/1/publish", "", nil)
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/posts/1", resp.Header.Get("Location"))
}

const lookupYAML = `
controller: lookup
actions:
  - name: show
    service: lookup
    on_success:
      xml: {render: xml}
  - name: search
    service: lookup
    route: {method: post, path: search}
    on_success:
      html: {render: redirect, location: "/search/{q}"}
`

func newLookupServer(t *testing.T) *httptest.Server {
	t.Helper()
	reg := registry.NewRegistry()
	reg.Register("lookup", func(_ context.Context, p domain.Params) (any, error) {
		return map[string]any{
			"name": p.String("name"),
			"tags": []string{"a", "b"},
			"meta": domain.Params{"n": 1, "2nd": true},
		}, nil
	})
	def, err := compiler.Parse([]byte(lookupYAML))
	require.NoError(t, err)
	ctrl, err := compiler.New(reg).Build(def)
	require.NoError(t, err)

	engine, err := render.New(nil)
	require.NoError(t, err)
	ts := httptest.NewServer(httpadapter.NewServer(engine).Mount("/lookup", ctrl).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestBuild_XMLMapResult(t *testing.T) {
	ts := newLookupServer(t)

	resp, body := send(t, ts, http.MethodGet, "/lookup/1.xml?name=bob", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, xml.Header+`<result><meta><_2nd>true</_2nd><n>1</n></meta><name>bob</name><tags>a</tags><tags>b</tags></result>`, body)
}

func TestBuild_RedirectEscapesParams(t *testing.T) {
	ts := newLookupServer(t)

	resp, _ := send(t, ts, http.MethodPost, "/lookup/search", "q=../../admin?x=1#f", map[string]string{
		"Content-Type": "application/x-www-form-urlencoded",
	})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/search/..%2F..%2Fadmin%3Fx=1%23f", resp.Header.Get("Location"))
}
