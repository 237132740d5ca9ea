package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/repowiki/repowiki-mcp/pkg/types"
)

// Generator produces one documentation page from a page title, the backing
// file content (empty for synthetic leaves like the overview) and the full
// site map for cross-referencing. Implementations must be safe for
// concurrent use; errors are caught per page by the pool.
type Generator interface {
	Generate(ctx context.Context, title, content string, tree *types.SiteMap) (string, error)
}

// Static is a deterministic offline Generator. It emits a minimal page
// from the inputs alone, with no model call, which makes it the default
// for local use and the fixture for pipeline tests.
type Static struct{}

// Generate renders the page.
func (Static) Generate(_ context.Context, title, content string, tree *types.SiteMap) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)

	if title == types.OverviewLeaf && tree != nil {
		b.WriteString("Documented files:\n\n")
		for _, leaf := range tree.Leaves() {
			if leaf.Name == types.OverviewLeaf {
				continue
			}
			path := leaf.Name
			if leaf.Dir != "" {
				path = leaf.Dir + "/" + leaf.Name
			}
			fmt.Fprintf(&b, "- %s\n", path)
		}
		return b.String(), nil
	}

	if strings.TrimSpace(content) == "" {
		fmt.Fprintf(&b, "No source content available for **%s**.\n", title)
		return b.String(), nil
	}

	b.WriteString("## Source\n\n```\n")
	b.WriteString(content)
	if !strings.HasSuffix(content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```\n")
	return b.String(), nil
}
