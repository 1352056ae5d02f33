package actionkit_test

import (
	"context"
	"fmt"
	"io"
	"net/http/httptest"

	"github.com/aretw0/actionkit"
	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/aretw0/actionkit/pkg/domain"
	"github.com/aretw0/actionkit/pkg/dsl"
	"github.com/aretw0/actionkit/pkg/render"
)

func Example() {
	ctrl := actionkit.New("greetings")
	ctrl.Registry().Register("greetings.find", func(_ context.Context, p domain.Params) (any, error) {
		return map[string]string{"hello": p.String("id")}, nil
	})
	ctrl.Action("show", func(a *dsl.ActionBuilder) {
		a.Service("greetings.find").OnSuccess(func(r *dsl.ResponseBuilder) {
			r.JSON(func(c *domain.Context) error { return c.JSON(c.Result) })
		})
	})

	engine, err := render.New(nil)
	if err != nil {
		panic(err)
	}
	ts := httptest.NewServer(httpadapter.NewServer(engine).Mount("/greetings", ctrl).Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/greetings/world.json")
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	fmt.Println(resp.StatusCode)
	fmt.Print(string(body))
	// Output:
	// 200
	// {"hello":"world"}
}
