package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{`            _   _             _    _ _   `, "#818cf8"},
	{`  __ _  ___| |_(_) ___  _ __ | | _(_) |_ `, "#a78bfa"},
	{` / _' |/ __| __| |/ _ \| '_ \| |/ / | __|`, "#c084fc"},
	{`| (_| | (__| |_| | (_) | | | |   <| | |_ `, "#e879f9"},
	{` \__,_|\___|\__|_|\___/|_| |_|_|\_\_|\__|`, "#f472b6"},
}

// PrintBanner writes the startup banner followed by the version.
// termenv.Ascii disables colors.
func PrintBanner(w io.Writer, profile termenv.Profile, version string) {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	fmt.Fprintf(w, "%s\n\n", out.String("  v"+strings.TrimSpace(version)).Faint())
}
