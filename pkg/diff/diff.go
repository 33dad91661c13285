// Package diff renders readable differences between structured values in
// test failures.
package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

// Values pretty-prints both values (exported fields only) and returns a
// line diff that turns got into want, or "" when they print the same.
func Values[T any](want T, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)

	lines := diff.Diff(printer.Sprint(got), printer.Sprint(want))
	if lines == "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\n\nto turn GOT into WANT (+ add, - remove):\n\n")
	sb.WriteString(lines)
	return sb.String()
}
