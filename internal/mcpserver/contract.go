package mcpserver

import (
	"fmt"
	"strings"

	"github.com/starford/kith/internal/command"
)

// inputFormats describes the values accepted by the field validators.
const inputFormats = `## Input formats

- **Arguments** are one shell-quoted string: ` + "`" + `"John Doe" 1234567890` + "`" + `.
  Quote any value containing spaces.
- **Phone**: exactly 10 digits, e.g. ` + "`" + `0501234567` + "`" + `.
- **Email**: ` + "`" + `local@domain.tld` + "`" + `.
- **Birthday**: ` + "`" + `DD.MM.YYYY` + "`" + `, e.g. ` + "`" + `06.06.1990` + "`" + `.
- **Note id**: the positive number printed by ` + "`" + `add_note` + "`" + `.
- In ` + "`" + `edit_note` + "`" + `, pass ` + "`" + `""` + "`" + ` to keep the title or text. Tags, when given, replace the whole set.
- Contact names match exactly; searches are case-insensitive substring matches.
`

// CommandReference renders the command table as Markdown.
func CommandReference() string {
	var b strings.Builder
	b.WriteString("# Kith Command Reference\n\n")
	b.WriteString("| Command | Arguments | Description |\n|---|---|---|\n")
	for _, spec := range exposed() {
		fmt.Fprintf(&b, "| `%s` | %s | %s |\n", spec.Name, strings.Join(spec.Hints, " "), spec.Summary)
	}
	b.WriteString("\n")
	b.WriteString(inputFormats)
	return b.String()
}

func toolDescription(spec command.Spec) string {
	d := spec.Summary + "."
	if spec.Mutates {
		d += " Changes the " + spec.Target.String() + " book."
	}
	return d
}

func argsDescription(spec command.Spec) string {
	if len(spec.Hints) == 0 {
		return "No arguments."
	}
	return "Shell-quoted arguments: " + strings.Join(spec.Hints, " ")
}
