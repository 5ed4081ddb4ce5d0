// sanitize.go maps characters outside gpg's safe input encoding to ASCII
// equivalents. Word processors and LLM output both produce typographic
// punctuation that survives markdown fine but breaks the tool's latin-1
// input path.

package gpg

import "strings"

// replacer maps typographic punctuation to plain ASCII. The table is the
// full set observed to corrupt round-trips; anything not listed passes
// through unchanged, so valid UTF-8 prose is preserved.
var replacer = strings.NewReplacer(
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // single low quote
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // double low quote
	"–", "-", // en dash
	"—", "--", // em dash
	"…", "...", // ellipsis
	" ", " ", // no-break space
	"•", "*", // bullet
	"−", "-", // minus sign
)

// Sanitize replaces typographic punctuation with ASCII equivalents.
// Idempotent: Sanitize(Sanitize(s)) == Sanitize(s), so it is safe to apply
// on every encryption path without tracking whether a value was cleaned.
func Sanitize(s string) string {
	return replacer.Replace(s)
}
