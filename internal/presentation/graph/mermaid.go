package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/actionkit/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart of how a controller answers.
// Shapes:
// - Action with a service: [[Subroutine]]
// - Action without a service: [Rectangle]
// - Format handler: ([Stadium])
// Success edges are solid; error tables use dotted edges labelled with the category.
// Views reached by html fallback are drawn as a "view" node.
func GenerateMermaid(controller string, actions []*domain.ActionConfig) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, a := range actions {
		id := sanitizeMermaidID(controller + "_" + a.Name)

		opener, closer := "[", "]"
		label := a.Name
		if name := a.Service.Name(); name != "" {
			opener, closer = "[[", "]]"
			label = fmt.Sprintf("%s <br/> %s", a.Name, name)
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, label, closer)

		for _, f := range a.OnSuccess.Formats() {
			fmt.Fprintf(&sb, "    %s --> %s([\"%s\"])\n", id, formatNode(id, "ok", f), f)
		}
		if v := a.View(); v != domain.ViewNone {
			if _, ok := a.OnSuccess.Lookup(domain.FormatHTML); !ok {
				fmt.Fprintf(&sb, "    %s -- html --> %s_view[/\"%s\"/]\n", id, id, v)
			}
		}

		categories := make([]string, 0, len(a.OnError))
		for c := range a.OnError {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		for _, c := range categories {
			for _, f := range a.OnError[domain.ErrorCategory(c)].Formats() {
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s([\"%s\"])\n", id, c, formatNode(id, c, f), f)
			}
		}
	}
	return sb.String()
}

func formatNode(actionID, outcome string, f domain.Format) string {
	return sanitizeMermaidID(fmt.Sprintf("%s_%s_%s", actionID, outcome, f))
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
