// Package snippet renders Go skeletons for steps that matched no
// registered definition. Diagnostic convenience only; the output just has
// to be a syntactically plausible starting point to paste into a glue
// file.
package snippet

import (
	"strings"
	"text/template"
)

// Data feeds the skeleton template. Pattern must already be in registrable
// form (quoted/escaped as needed); Keyword is the Gherkin keyword of the
// unmatched step.
type Data struct {
	Keyword string
	Pattern string
}

var skeleton = template.Must(template.New("step").Parse(
	"// {{.Keyword}}\n" +
		"glue.Step(`{{.Pattern}}`, func(w world.World, args ...any) (world.World, error) {\n" +
		"\treturn w, errors.ErrPending\n" +
		"})\n"))

// Render produces the skeleton for one unmatched step.
func Render(d Data) (string, error) {
	var sb strings.Builder
	if err := skeleton.Execute(&sb, d); err != nil {
		return "", err
	}
	return sb.String(), nil
}
