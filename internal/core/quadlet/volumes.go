package quadlet

import (
	"strings"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
)

// =============================================================================
// Volume Resolution Functions
// =============================================================================

// ResolveVolumes builds the volume resolution table from the top-level
// declarations. External volumes resolve to their own name and are assumed
// to exist already; every other declared volume becomes a bind mount under
// the stack path.
func ResolveVolumes(volumes []compose.Volume) map[string]string {
	resolved := make(map[string]string, len(volumes))
	for _, vol := range volumes {
		if vol.External {
			resolved[vol.Name] = vol.Name
		} else {
			resolved[vol.Name] = "${" + stackPathVar + "}/" + vol.Name
		}
	}
	return resolved
}

// ConvertMount rewrites a single service mount for the generated config:
// a named-volume source is swapped for its resolved path, placeholders are
// rewritten, and shared two-part mounts gain the ":z" relabel suffix when
// relabel is on. Long-form mounts pass through verbatim.
func ConvertMount(m compose.Mount, resolved map[string]string, table *VariableTable, relabel bool) string {
	if m.LongForm {
		return m.Raw
	}

	mount := m.Raw
	if idx := strings.Index(mount, ":"); idx > 0 {
		if path, ok := resolved[mount[:idx]]; ok {
			mount = path + mount[idx:]
		}
	}

	mount = RewritePlaceholders(mount, table)

	if relabel && needsRelabel(mount) {
		mount += ":z"
	}
	return mount
}

// needsRelabel implements the relabel default: exactly two colon-delimited
// parts (source and target, no explicit access mode), and a source that is
// neither a device path nor host configuration under /etc. Matching runs on
// the rewritten mount, so a ${STACK_PATH}-prefixed source still qualifies.
func needsRelabel(mount string) bool {
	if strings.HasSuffix(mount, ":ro") || strings.HasSuffix(mount, ":z") {
		return false
	}
	parts := strings.Split(mount, ":")
	if len(parts) != 2 {
		return false
	}
	return !strings.HasPrefix(parts[0], "/dev") && !strings.HasPrefix(parts[0], "/etc")
}
