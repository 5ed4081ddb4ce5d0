// Package tagger suggests tags for a note using the configured LLM.
// Suggestions are advisory: the caller decides whether they are applied
// automatically (auto_tag) or offered interactively.
package tagger

import (
	"context"
	"regexp"
	"strings"

	"github.com/jpl-au/notevault/internal/llm"
)

const maxTags = 5

const systemPrompt = `You suggest tags for personal notes. Reply with only a
comma-separated list of at most five short lowercase tags. Use hyphens
instead of spaces. No explanations.`

// Tagger wraps an LLM client for tag suggestion.
type Tagger struct {
	client *llm.Client
}

// New returns a tagger backed by client.
func New(client *llm.Client) *Tagger {
	return &Tagger{client: client}
}

// Suggest returns up to five tags for the note. The body is truncated
// before sending; the opening of a note carries its topic.
func (t *Tagger) Suggest(ctx context.Context, title, body string) ([]string, error) {
	const bodyLimit = 2000
	if len(body) > bodyLimit {
		body = body[:bodyLimit]
	}

	reply, err := t.client.Complete(ctx, systemPrompt, "Title: "+title+"\n\n"+body)
	if err != nil {
		return nil, err
	}
	return parseTags(reply), nil
}

var tagClean = regexp.MustCompile(`[^a-z0-9-]+`)

// parseTags normalises a comma-separated reply into valid tags. Models
// sometimes ignore instructions and add prose; anything that does not
// reduce to a plausible tag is dropped.
func parseTags(reply string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(reply, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		tag = strings.ReplaceAll(tag, " ", "-")
		tag = tagClean.ReplaceAllString(tag, "")
		tag = strings.Trim(tag, "-")
		if tag == "" || len(tag) > 40 || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
