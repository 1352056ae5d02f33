/*
Package actionkit is a declarative controller-action library for Go HTTP servers.

Instead of writing an imperative handler per endpoint, each action is declared
with a fluent builder: the service to invoke, which parameters it may see,
what to render per response format on success, what to render per error
category on failure, Turbo Frame and Turbo Stream responses, callbacks and
authentication flags. The declaration is frozen once and shared read-only by
every request.

# Concept

A Controller holds frozen action configurations (pkg/domain.ActionConfig).
At request time a transport adapter (pkg/adapters/http) negotiates the
response format, builds a domain.Request and calls Controller.Dispatch. The
dispatcher runs the guards, the before callbacks, the service, the response
callback matching the format and the after callbacks.

Failures are sorted into categories (not_found, invalid, unauthenticated,
forbidden, internal). The action's error tables are searched by exact
category first, then by the "any" category, and within a table by exact
format, then by the "any" format.

# Usage

	ctrl := actionkit.New("posts")
	ctrl.Registry().Register("posts.find", findPost)

	ctrl.Action("show", func(a *dsl.ActionBuilder) {
		a.Service("posts.find").
			Permit("id").
			OnSuccess(func(r *dsl.ResponseBuilder) {
				r.HTML(func(c *domain.Context) error { return c.Partial("posts/show", nil) })
				r.JSON(func(c *domain.Context) error { return c.JSON(c.Result) })
			}).
			OnError(domain.CategoryNotFound, func(r *dsl.ResponseBuilder) {
				r.Any(func(c *domain.Context) error { return c.Head() })
			})
	})

	engine, _ := render.New(os.DirFS("templates"))
	srv := httpadapter.NewServer(engine).Mount("/posts", ctrl)
	http.ListenAndServe(":8080", srv.Handler())

Controllers can also be declared in YAML and served by cmd/actionkit
without Go code; see internal/compiler for the file format.

# Extensibility

Services may be plain functions (domain.ServiceFunc), values implementing
domain.Service or domain.MethodSet, or names resolved through the registry.
Flash messages persist through a ports.FlashStore; memory and redis adapters
are provided. Observability is exposed through domain.LifecycleHooks, with a
prometheus implementation in pkg/observability.
*/
package actionkit
