// enhance.go rewrites note bodies with LLM assistance. The model gets the
// body and an instruction and must return only the revised markdown, which
// the caller shows as a diff before saving.

package llm

import (
	"context"
	"strings"
)

// DefaultInstructions is used when the user gives none.
const DefaultInstructions = "Fix grammar and improve clarity"

const enhanceSystem = `You improve personal markdown notes. Apply the user's
instructions to the note and reply with only the revised note body in
markdown. Preserve meaning, links and code blocks. No commentary.`

// Enhance returns a revised body for the note.
func Enhance(ctx context.Context, c *Client, title, body, instructions string) (string, error) {
	if instructions == "" {
		instructions = DefaultInstructions
	}
	prompt := "Instructions: " + instructions + "\n\nTitle: " + title + "\n\n" + body
	out, err := c.Complete(ctx, enhanceSystem, prompt)
	if err != nil {
		return "", err
	}
	return stripFence(out), nil
}

// stripFence unwraps a reply the model wrapped in a markdown code fence.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	lines := strings.Split(t, "\n")
	if len(lines) < 2 || !strings.HasPrefix(lines[len(lines)-1], "```") {
		return t
	}
	return strings.TrimSpace(strings.Join(lines[1:len(lines)-1], "\n"))
}
