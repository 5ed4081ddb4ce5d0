package cmd

import (
	"strings"
	"testing"
)

func TestSearch(t *testing.T) {
	env := newTestEnv(t)
	env.newPlain("Kubernetes Upgrade", "drain each node before the control plane", "infra")
	env.newPlain("Sourdough Starter", "feed twice daily with rye flour", "baking")

	t.Run("body text", func(t *testing.T) {
		out := env.run("search", "control", "plane")
		env.contains(out, "Kubernetes Upgrade")
		if strings.Contains(out, "Sourdough") {
			t.Errorf("search matched unrelated note: %s", out)
		}
	})

	t.Run("prefix match", func(t *testing.T) {
		out := env.run("search", "kuber*")
		env.contains(out, "Kubernetes Upgrade")
	})

	t.Run("no results", func(t *testing.T) {
		out := env.run("search", "quantum")
		if strings.TrimSpace(out) != "" {
			t.Errorf("search with no matches = %q, want no output", out)
		}
	})

	t.Run("tag restriction", func(t *testing.T) {
		env.newPlain("Bread Infra", "drain the dough hook", "baking")

		out := env.run("search", "drain", "-t", "infra")
		env.contains(out, "Kubernetes Upgrade")
		if strings.Contains(out, "Bread Infra") {
			t.Errorf("search -t infra matched a baking note: %s", out)
		}
	})

	t.Run("operator input is literal", func(t *testing.T) {
		// FTS operators in user input must not be interpreted.
		out := env.run("search", "drain", "AND", "nonexistentterm")
		if strings.TrimSpace(out) != "" {
			t.Errorf("search treated AND as an operator: %q", out)
		}
	})
}
