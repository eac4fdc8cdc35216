package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystem(t *testing.T) {
	t.Run("base prompt", func(t *testing.T) {
		p := System(false, false)
		require.Contains(t, p, "expert frontend React engineer")
		require.Contains(t, p, "RTL typography with IRANYekan font")
		require.Contains(t, p, "NO OTHER LIBRARIES ARE INSTALLED")
		require.NotContains(t, p, "top-tier software architect")
		require.NotContains(t, p, "<component>")
	})

	t.Run("high quality prepends the architect preamble", func(t *testing.T) {
		p := System(true, false)
		require.Contains(t, p, "top-tier software architect")
		require.Contains(t, p, "expert frontend React engineer")
		// The preamble comes first so later instructions can refine it.
		require.Less(t,
			strings.Index(p, "top-tier software architect"),
			strings.Index(p, "expert frontend React engineer"),
		)
	})

	t.Run("component catalog is embedded when enabled", func(t *testing.T) {
		p := System(false, true)
		require.Contains(t, p, "pre-styled UI components available")
		require.Equal(t, len(Components), strings.Count(p, "<component>"))
		require.Equal(t, len(Components), strings.Count(p, "</component>"))
		for _, component := range Components {
			require.Contains(t, p, component.Name)
			require.Contains(t, p, strings.TrimSpace(component.ImportDocs))
		}
		// Output format instructions still close the prompt.
		require.True(t, strings.HasSuffix(p, "key design and code decisions."))
	})
}

func TestComponents(t *testing.T) {
	seen := map[string]bool{}
	for _, component := range Components {
		require.NotEmpty(t, component.Name)
		require.Contains(t, component.ImportDocs, "/components/ui/")
		require.NotEmpty(t, strings.TrimSpace(component.UsageDocs))
		require.False(t, seen[component.Name], "duplicate component %s", component.Name)
		seen[component.Name] = true
	}
}
