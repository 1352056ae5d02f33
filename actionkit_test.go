package actionkit_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/aretw0/actionkit"
	"github.com/aretw0/actionkit/internal/testutils"
	"github.com/aretw0/actionkit/pkg/adapters/memory"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestController_DeclareKeepsOrderAndLastWins(t *testing.T) {
	ctrl := actionkit.New("posts")
	ctrl.Declare(
		dsl.NewAction("index").Build(),
		dsl.NewAction("show").ParamsKey("v1").Build(),
	)
	ctrl.Action("show", func(a *dsl.ActionBuilder) { a.ParamsKey("v2") })

	var names []string
	for _, a := range ctrl.Actions() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"index", "show"}, names)

	show, ok := ctrl.Lookup("show")
	require.True(t, ok)
	assert.Equal(t, "v2", show.ParamsKey)

	_, ok = ctrl.Lookup("missing")
	assert.False(t, ok)
}

func TestController_DeclaredConfigIsCopied(t *testing.T) {
	cfg := dsl.NewAction("index").Permit("q").Build()
	ctrl := actionkit.New("posts").Declare(cfg)

	cfg.Permit[0] = "changed"
	got, _ := ctrl.Lookup("index")
	assert.Equal(t, []string{"q"}, got.Permit)
}

func TestController_Dispatch(t *testing.T) {
	ctrl := actionkit.New("posts")
	ctrl.Registry().Register("posts.find", func(_ context.Context, p domain.Params) (any, error) {
		return map[string]any{"id": p.String("id")}, nil
	})
	ctrl.Action("show", func(a *dsl.ActionBuilder) {
		a.Service("posts.find").OnSuccess(func(r *dsl.ResponseBuilder) {
			r.JSON(func(c *domain.Context) error { return c.JSON(c.Result) })
		})
	})

	req, rec := testutils.NewRequest(domain.FormatJSON, domain.Params{"id": "3"})
	require.NoError(t, ctrl.Dispatch(context.Background(), "show", req))
	assert.Equal(t, testutils.Call{Kind: "json", Status: http.StatusOK, Value: map[string]any{"id": "3"}}, rec.Last())

	err := ctrl.Dispatch(context.Background(), "destroy", req)
	assert.True(t, errors.Is(err, domain.ErrActionNotFound))
	assert.EqualError(t, err, "action not found: posts#destroy")
}

func TestController_BindFlash(t *testing.T) {
	store := memory.NewStore()
	ctrl := actionkit.New("posts", actionkit.WithFlashStore(store))
	ctrl.Action("create", func(a *dsl.ActionBuilder) {
		a.OnSuccess(func(r *dsl.ResponseBuilder) {
			r.HTML(func(c *domain.Context) error {
				if err := c.Flash("notice", "Created"); err != nil {
					return err
				}
				return c.Redirect("/posts")
			})
		})
	})

	req, rec := testutils.NewRequest(domain.FormatHTML, nil)
	ctrl.BindFlash(req, "session-1")
	require.NoError(t, ctrl.Dispatch(context.Background(), "create", req))
	assert.Equal(t, testutils.Call{Kind: "redirect", Status: http.StatusSeeOther, Value: "/posts"}, rec.Last())

	flashes, err := store.Drain(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, []domain.Flash{{Kind: "notice", Message: "Created"}}, flashes)

	unbound, _ := testutils.NewRequest(domain.FormatHTML, nil)
	actionkit.New("x").BindFlash(unbound, "session-1")
	assert.Nil(t, unbound.Flash, "no store, no binding")
	ctrl.BindFlash(unbound, "")
	assert.Nil(t, unbound.Flash, "no key, no binding")
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, actionkit.Version)
}
