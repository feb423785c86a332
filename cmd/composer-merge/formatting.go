package composermerge

import (
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// isTerminal reports whether w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// formatBold returns the string formatted as bold using pterm
func formatBold(s string) string {
	if !isTerminal(os.Stdout) {
		return s
	}
	return pterm.Bold.Sprint(s)
}

// formatUpper returns the string in uppercase
func formatUpper(s string) string {
	return strings.ToUpper(s)
}

// formatBoldUpper returns the string in uppercase and bold
func formatBoldUpper(s string) string {
	return formatBold(strings.ToUpper(s))
}

// FormatError renders an error line for w, in red on a terminal
func FormatError(w io.Writer, err error) string {
	msg := "composer-merge: " + err.Error()
	if !isTerminal(w) {
		return msg
	}
	return pterm.FgRed.Sprint(msg)
}

// initTemplateFormatting adds custom formatting functions to Cobra templates
func initTemplateFormatting() {
	cobra.AddTemplateFuncs(template.FuncMap{
		"bold":      formatBold,
		"upper":     formatUpper,
		"boldUpper": formatBoldUpper,
	})
}
