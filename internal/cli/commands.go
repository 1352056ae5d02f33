package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/actionkit/internal/compiler"
	"github.com/aretw0/actionkit/internal/presentation/graph"
	"github.com/aretw0/actionkit/internal/presentation/tui"
	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/invopop/jsonschema"
)

// Routes prints the route table of every definition.
func (a *App) Routes(w io.Writer) error {
	srv, _, err := a.Describe()
	if err != nil {
		return err
	}
	tui.PrintRoutes(w, Profile(w), srv.Routes())
	return nil
}

// DescribeTo renders the markdown description of every controller.
// Terminals get glamour styling; other writers get the raw markdown.
func (a *App) DescribeTo(w io.Writer, width int) error {
	srv, ctrls, err := a.Describe()
	if err != nil {
		return err
	}

	render := func(md string) (string, error) { return md, nil }
	if IsTerminal(w) {
		if render, err = tui.NewRenderer(tui.StyleAuto, width); err != nil {
			return err
		}
	}

	routes := srv.Routes()
	for _, ctrl := range ctrls {
		var own []httpadapter.Route
		for _, r := range routes {
			if r.Controller == ctrl.Name() {
				own = append(own, r)
			}
		}
		out, err := render(tui.DescribeMarkdown(ctrl.Name(), own, ctrl.Actions()))
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	}
	return nil
}

// Graph prints a Mermaid flowchart per controller.
func (a *App) Graph(w io.Writer) error {
	_, ctrls, err := a.Describe()
	if err != nil {
		return err
	}
	for _, ctrl := range ctrls {
		fmt.Fprint(w, graph.GenerateMermaid(ctrl.Name(), ctrl.Actions()))
	}
	return nil
}

// Validate checks every definition and prints a summary.
func (a *App) Validate(w io.Writer) error {
	engine, err := a.Templates()
	if err != nil {
		return err
	}
	defs, err := a.Definitions(engine)
	if err != nil {
		return err
	}
	actions := 0
	for _, d := range defs {
		actions += len(d.Actions)
	}
	fmt.Fprintf(w, "✓ %d controller(s), %d action(s) valid\n", len(defs), actions)
	return nil
}

// Schema writes the JSON Schema of the definition file format.
func Schema(w io.Writer) error {
	r := &jsonschema.Reflector{ExpandedStruct: true}
	s := r.Reflect(&compiler.Definition{})
	s.Title = "actionkit controller definition"

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
