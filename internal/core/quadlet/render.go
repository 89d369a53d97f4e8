package quadlet

import (
	"strings"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
)

// =============================================================================
// Container Rendering Functions
// =============================================================================

// RenderContainer renders one service as a quadlet container attribute.
// Fields follow a fixed order regardless of the input: image, publishPorts,
// volumes, environmentFiles, environments, healthCmd, networks, labels, then
// serviceConfig and unitConfig. The returned block ends with a blank line so
// joined blocks stay visually separated.
func RenderContainer(svc compose.Service, deps []string, project string, table *VariableTable, resolved map[string]string, relabel bool) string {
	lines := []string{
		"        " + svc.Name + " = {",
		"          containerConfig = {",
	}

	if svc.Image != "" {
		lines = append(lines, `            image = "`+RewritePlaceholders(svc.Image, table)+`";`)
	}

	if len(svc.Ports) > 0 {
		lines = append(lines, "            publishPorts = [")
		for _, port := range svc.Ports {
			lines = append(lines, `              "`+CoercePublishedPort(port)+`"`)
		}
		lines = append(lines, "            ];")
	}

	if len(svc.Mounts) > 0 {
		lines = append(lines, "            volumes = [")
		for _, m := range svc.Mounts {
			lines = append(lines, `              "`+ConvertMount(m, resolved, table, relabel)+`"`)
		}
		lines = append(lines, "            ];")
	}

	if len(svc.EnvFiles) > 0 {
		// The compose file's env_file paths are dropped in favor of the
		// stack's sops-managed secret.
		lines = append(lines, "            environmentFiles = [ "+envFileSecretExpr+" ];")
	}

	if len(svc.Environment) > 0 {
		lines = append(lines, "            environments = {")
		for _, env := range svc.Environment {
			lines = append(lines, "              "+env.Key+` = "`+RewritePlaceholders(env.Value, table)+`";`)
		}
		lines = append(lines, "            };")
	}

	if cmd, ok := healthCommand(svc.HealthCheck); ok {
		lines = append(lines, `            healthCmd = "`+cmd+`";`)
	}

	lines = append(lines, "            networks = [ networks."+project+".ref ];")

	lines = append(lines,
		"            labels = [",
		`              "`+updateLabel+`"`,
		"            ];",
		"          };",
	)

	if svc.Restart != "" {
		lines = append(lines,
			"          serviceConfig = {",
			`            Restart = "`+svc.Restart+`";`,
			"          };",
		)
	}

	if len(deps) > 0 {
		units := DependencyUnits(deps)
		lines = append(lines, "          unitConfig = {", "            After = [")
		for _, unit := range units {
			lines = append(lines, `              "`+unit+`"`)
		}
		lines = append(lines, "            ];", "            Requires = [")
		for _, unit := range units {
			lines = append(lines, `              "`+unit+`"`)
		}
		lines = append(lines, "            ];", "          };")
	}

	lines = append(lines, "        };", "")
	return strings.Join(lines, "\n")
}

// healthCommand extracts the rendered health command. Exec-form tests drop
// the leading mechanism token (CMD or CMD-SHELL); shell-form tests pass
// through whole. Disabled or absent checks render nothing.
func healthCommand(hc *compose.HealthCheck) (string, bool) {
	if hc == nil || hc.Disable {
		return "", false
	}
	if len(hc.Argv) > 0 {
		return strings.Join(hc.Argv[1:], " "), true
	}
	if hc.Shell != "" {
		return hc.Shell, true
	}
	return "", false
}
