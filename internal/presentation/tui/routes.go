package tui

import (
	"fmt"
	"io"
	"net/http"

	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/muesli/termenv"
)

var methodColors = map[string]string{
	http.MethodGet:    "#34d399",
	http.MethodPost:   "#60a5fa",
	http.MethodPut:    "#fbbf24",
	http.MethodPatch:  "#fbbf24",
	http.MethodDelete: "#f87171",
}

// PrintRoutes writes an aligned METHOD PATTERN controller#action table.
func PrintRoutes(w io.Writer, profile termenv.Profile, routes []httpadapter.Route) {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))

	methodWidth, patternWidth := len("METHOD"), len("PATTERN")
	for _, r := range routes {
		methodWidth = max(methodWidth, len(r.Method))
		patternWidth = max(patternWidth, len(r.Pattern))
	}

	header := fmt.Sprintf("%-*s  %-*s  %s", methodWidth, "METHOD", patternWidth, "PATTERN", "ACTION")
	fmt.Fprintln(w, out.String(header).Bold())
	for _, r := range routes {
		method := out.String(fmt.Sprintf("%-*s", methodWidth, r.Method)).Foreground(out.Color(methodColors[r.Method]))
		fmt.Fprintf(w, "%s  %-*s  %s#%s\n", method, patternWidth, r.Pattern, r.Controller, r.Action)
	}
	if len(routes) == 0 {
		fmt.Fprintln(w, out.String("(no routes)").Faint())
	}
}
