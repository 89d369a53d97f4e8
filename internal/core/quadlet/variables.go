package quadlet

import (
	"regexp"
	"strings"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
)

// =============================================================================
// Placeholder Patterns
// =============================================================================

// varPlaceholderRegex matches ${VAR} and ${VAR:-default} patterns.
// Groups:
//   - Group 1: Variable name (required)
//   - Group 2: Default value (optional, after :-)
var varPlaceholderRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// varWithDefaultRegex matches only ${VAR:-default}. Rewriting resolves these
// before the bare form so a default clause is never misread as part of a
// variable name.
var varWithDefaultRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*):-([^}]*)\}`)

// varBareRegex matches only ${VAR}.
var varBareRegex = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// =============================================================================
// Variable Table
// =============================================================================

// VariableTable maps discovered placeholder names to suggested Nix
// expressions. Order of first appearance is preserved so the generated let
// block is stable across runs.
type VariableTable struct {
	names  []string
	values map[string]string
}

// NewVariableTable creates an empty table.
func NewVariableTable() *VariableTable {
	return &VariableTable{values: make(map[string]string)}
}

// Add records a suggestion for name. The first suggestion wins; later calls
// for the same name are ignored.
func (t *VariableTable) Add(name, value string) {
	if _, ok := t.values[name]; ok {
		return
	}
	t.names = append(t.names, name)
	t.values[name] = value
}

// Has reports whether name was discovered.
func (t *VariableTable) Has(name string) bool {
	if t == nil {
		return false
	}
	_, ok := t.values[name]
	return ok
}

// Value returns the suggested expression for name.
func (t *VariableTable) Value(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[name]
	return v, ok
}

// Names returns the discovered names in first-appearance order.
func (t *VariableTable) Names() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.names...)
}

// Len returns the number of discovered names.
func (t *VariableTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// =============================================================================
// Variable Discovery
// =============================================================================

// DiscoverVariables scans every service's image reference, short-form volume
// mounts, and environment values for ${VAR} and ${VAR:-default} references
// and builds the suggestion table for the generated let block. Scan order
// follows the document, so reruns produce identical bindings.
func DiscoverVariables(doc *compose.Document, overrides map[string]string) *VariableTable {
	table := NewVariableTable()
	for _, svc := range doc.Services {
		discoverInto(table, svc.Image, overrides)
		for _, m := range svc.Mounts {
			if m.LongForm {
				continue
			}
			discoverInto(table, m.Raw, overrides)
		}
		for _, env := range svc.Environment {
			discoverInto(table, env.Value, overrides)
		}
	}
	return table
}

// discoverInto records every placeholder in value with its suggestion.
func discoverInto(table *VariableTable, value string, overrides map[string]string) {
	matches := varPlaceholderRegex.FindAllStringSubmatch(value, -1)
	for _, match := range matches {
		if len(match) >= 2 {
			table.Add(match[1], SuggestValue(match[1], overrides))
		}
	}
}

// =============================================================================
// Value Suggestions
// =============================================================================

// defaultSuggestions maps well-known variable names to Nix expressions. The
// entries mirror the reference immich deployment these fragments are written
// against; anything else falls back to a quoted lower-cased name the operator
// is expected to replace.
var defaultSuggestions = map[string]string{
	"IMMICH_VERSION":   `"v1.125.7"`,
	"UPLOAD_LOCATION":  `"/main/immich"`,
	"DB_DATA_LOCATION": `"${STACK_PATH}/pgdata"`,
	"STACK_PATH":       `"/etc/stacks/immich"`,
	"DB_PASSWORD":      "config.sops.secrets.dbPassword.path",
	"DB_USERNAME":      `"postgres"`,
	"DB_DATABASE_NAME": `"immich"`,
}

// SuggestValue returns the Nix expression suggested as the let binding for a
// variable name. Overrides win over the built-in table. Override keys are
// matched exactly, then lower-cased, because viper lower-cases configuration
// map keys.
func SuggestValue(name string, overrides map[string]string) string {
	if v, ok := overrides[name]; ok {
		return v
	}
	if v, ok := overrides[strings.ToLower(name)]; ok {
		return v
	}
	if v, ok := defaultSuggestions[name]; ok {
		return v
	}
	return `"` + strings.ToLower(name) + `"`
}

// NixString quotes a literal value as a Nix string, escaping the characters
// Nix treats specially inside double quotes. Used for suggestions sourced
// from dotenv files, which are literals rather than expressions.
func NixString(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, `"`, `\"`)
	value = strings.ReplaceAll(value, "${", `\${`)
	value = strings.ReplaceAll(value, "\n", `\n`)
	return `"` + value + `"`
}

// =============================================================================
// Placeholder Rewriting
// =============================================================================

// RewritePlaceholders rewrites shell-style placeholder references in value as
// Nix interpolations of the generated let bindings.
//
// Behavior:
//   - ${VAR:-default} with VAR in the table - becomes ${VAR}, default dropped
//   - ${VAR:-default} with VAR unknown - collapses to the default literal
//   - ${VAR} - kept as ${VAR}, bound or not
//
// Rewriting is idempotent: output fed back in comes out unchanged.
func RewritePlaceholders(value string, table *VariableTable) string {
	value = varWithDefaultRegex.ReplaceAllStringFunc(value, func(match string) string {
		submatch := varWithDefaultRegex.FindStringSubmatch(match)
		if len(submatch) >= 3 {
			if table.Has(submatch[1]) {
				return "${" + submatch[1] + "}"
			}
			return submatch[2]
		}
		return match
	})

	return varBareRegex.ReplaceAllStringFunc(value, func(match string) string {
		submatch := varBareRegex.FindStringSubmatch(match)
		if len(submatch) >= 2 {
			return "${" + submatch[1] + "}"
		}
		return match
	})
}
