package tui

import (
	"fmt"
	"sort"
	"strings"

	httpadapter "github.com/aretw0/actionkit/pkg/adapters/http"
	"github.com/aretw0/actionkit/pkg/domain"
)

// DescribeMarkdown documents a controller: routes, services, params and
// the formats each outcome answers.
func DescribeMarkdown(controller string, routes []httpadapter.Route, actions []*domain.ActionConfig) string {
	byAction := make(map[string][]string)
	for _, r := range routes {
		byAction[r.Action] = append(byAction[r.Action], fmt.Sprintf("`%s %s`", r.Method, r.Pattern))
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", controller)
	for _, a := range actions {
		fmt.Fprintf(&sb, "## %s\n\n", a.Name)
		if rs := byAction[a.Name]; len(rs) > 0 {
			fmt.Fprintf(&sb, "%s\n\n", strings.Join(rs, ", "))
		}

		if name := a.Service.Name(); name != "" {
			fmt.Fprintf(&sb, "- Service: `%s`\n", name)
		}
		if p := describeParams(a); p != "" {
			fmt.Fprintf(&sb, "- Params: %s\n", p)
		}
		if v := a.View(); v != domain.ViewNone {
			fmt.Fprintf(&sb, "- View: %s\n", v)
		}
		if a.TurboFrame != "" {
			fmt.Fprintf(&sb, "- Turbo Frame: `%s`\n", a.TurboFrame)
		}
		if a.SkipAuthentication {
			sb.WriteString("- Skips authentication\n")
		}
		if a.SkipAuthorization {
			sb.WriteString("- Skips authorization\n")
		}

		sb.WriteString("\n| Outcome | Status | Formats |\n|---|---|---|\n")
		fmt.Fprintf(&sb, "| success | 200 | %s |\n", formatList(a.OnSuccess.Formats()))

		categories := make([]string, 0, len(a.OnError))
		for c := range a.OnError {
			categories = append(categories, string(c))
		}
		sort.Strings(categories)
		for _, c := range categories {
			cat := domain.ErrorCategory(c)
			status := fmt.Sprint(domain.StatusFor(cat))
			if cat == domain.CategoryAny {
				status = "category"
			}
			fmt.Fprintf(&sb, "| %s | %s | %s |\n", c, status, formatList(a.OnError[cat].Formats()))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func describeParams(a *domain.ActionConfig) string {
	var parts []string
	if a.ParamsKey != "" {
		parts = append(parts, fmt.Sprintf("scoped to `%s`", a.ParamsKey))
	}
	switch {
	case a.Permit == nil:
	case len(a.Permit) == 0:
		parts = append(parts, "nothing permitted")
	default:
		parts = append(parts, "permits `"+strings.Join(a.Permit, "`, `")+"`")
	}
	return strings.Join(parts, ", ")
}

func formatList(formats []domain.Format) string {
	if len(formats) == 0 {
		return "-"
	}
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
