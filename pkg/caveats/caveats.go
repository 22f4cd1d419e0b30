// Package caveats renders the post-install checklist of manual steps.
package caveats

import (
	"bytes"
	_ "embed"
	"text/template"

	"github.com/scawful/barista/pkg/paths"
)

// Profiles are the built-in profile names a user can select in state.json
var Profiles = []string{"minimal", "personal", "work"}

//go:embed templates/caveats.md.tmpl
var caveatsTemplate string

var caveats = template.Must(template.New("caveats").Parse(caveatsTemplate))

// Render returns the checklist as markdown. Paths under the home directory
// are shown with a leading ~. It has no side effects.
func Render(p paths.Paths, docDir string) string {
	data := struct {
		Root     string
		Helpers  string
		Bin      string
		State    string
		DocDir   string
		Profiles []string
	}{
		Root:     p.Display(p.ConfigRoot()),
		Helpers:  p.Display(p.HelpersDir()),
		Bin:      p.Display(p.BinDir()),
		State:    p.Display(p.StatePath()),
		DocDir:   docDir,
		Profiles: Profiles,
	}

	var buf bytes.Buffer
	// The template is static and its data is plain strings.
	_ = caveats.Execute(&buf, data)
	return buf.String()
}
