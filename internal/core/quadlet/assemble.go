package quadlet

import (
	"fmt"
	"strings"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
)

// =============================================================================
// Conversion Pipeline
// =============================================================================

// Convert transforms a parsed compose document into a quadlet-nix module
// fragment. The stages run in a fixed order: resolve named volumes, discover
// placeholders, extract dependencies, then render each service. Conversion
// itself cannot fail; malformed documents are rejected by compose.Parse
// before they get here.
func Convert(doc *compose.Document, opts Options) *Result {
	project := opts.ProjectName
	resolved := ResolveVolumes(doc.Volumes)
	table := DiscoverVariables(doc, opts.Suggestions)
	deps := ExtractDependencies(doc.Services)

	var warnings []string
	for _, svc := range doc.Services {
		for i, m := range svc.Mounts {
			if m.LongForm {
				warnings = append(warnings, fmt.Sprintf("services.%s.volumes[%d]: long-form mount passed through verbatim", svc.Name, i))
			}
		}
	}

	lines := []string{
		"  virtualisation.quadlet =",
		"    let",
	}

	for _, name := range table.Names() {
		if name == stackPathVar {
			// The stack path binding below covers it; a second binding
			// would collide.
			continue
		}
		value, _ := table.Value(name)
		lines = append(lines, "      "+name+" = "+value+";")
	}
	lines = append(lines,
		"      "+stackPathVar+` = "`+StackPath(project)+`";`,
		"      inherit (config.virtualisation.quadlet) networks;",
		"    in",
		"    {",
		"      networks."+project+`.networkConfig.driver = "bridge";`,
		"      containers = {",
	)

	for _, svc := range doc.Services {
		lines = append(lines, RenderContainer(svc, deps[svc.Name], project, table, resolved, opts.Relabel))
	}

	lines = append(lines, "      };", "    };")

	return &Result{
		Output:    strings.Join(lines, "\n"),
		Variables: table,
		Warnings:  warnings,
	}
}
