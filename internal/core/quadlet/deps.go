package quadlet

import "github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"

// =============================================================================
// Dependency Functions
// =============================================================================

// ExtractDependencies builds the service dependency table. Every service has
// an entry, empty when it declares none, so rendering can range over the
// table without existence checks. Dependency order inside an entry follows
// the declaration.
func ExtractDependencies(services []compose.Service) map[string][]string {
	deps := make(map[string][]string, len(services))
	for _, svc := range services {
		if svc.DependsOn == nil {
			deps[svc.Name] = []string{}
			continue
		}
		deps[svc.Name] = svc.DependsOn
	}
	return deps
}

// DependencyUnits maps service names to their systemd unit names, the form
// quadlet wants in After and Requires lists.
func DependencyUnits(deps []string) []string {
	units := make([]string, 0, len(deps))
	for _, dep := range deps {
		units = append(units, dep+".service")
	}
	return units
}
