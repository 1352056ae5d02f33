/*
Package dsl provides the fluent builders used to declare controller actions.

Instead of writing imperative handler bodies, an action states which service
it calls, which parameters it accepts and how each response format is
rendered. Builders accumulate configuration and never validate it; an
incomplete action is reported when it is dispatched.

Example usage:

	package main

	import (
		"github.com/aretw0/actionkit/pkg/domain"
		"github.com/aretw0/actionkit/pkg/dsl"
	)

	func main() {
		show := dsl.NewAction("show").
			Service("posts.find").
			OnSuccess(func(r *dsl.ResponseBuilder) {
				r.JSON(func(c *domain.Context) error { return c.JSON(c.Result) })
				r.Streams(func(s *dsl.StreamBuilder) {
					s.Replace("post", dsl.Content{Partial: "posts/post"})
					s.Flash("notice", "Loaded")
				})
			}).
			OnError(domain.CategoryNotFound, func(r *dsl.ResponseBuilder) {
				r.JSON(func(c *domain.Context) error { return c.SetStatus(404).JSON(map[string]string{"error": "not found"}) })
			}).
			Build()

		_ = show // register with actionkit.Controller.Declare
	}

Repeated declarations follow last-write-wins: a second JSON callback, a
second OnError for the same category or a second Permit replace the
earlier one. Before and After callbacks accumulate in declaration order.
*/
package dsl
