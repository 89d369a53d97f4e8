package compose

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// Parser Functions
// =============================================================================

// Parse parses Docker Compose YAML into a Document.
// This is a pure function - no I/O, no side effects.
//
// Unlike the strict loader in validate.go, Parse works on the yaml.Node tree
// directly: it keeps ${VAR} placeholders and declaration order intact, both
// of which the conversion depends on. Anchors, aliases, and merge keys (<<)
// resolve during the walk. Unknown service keys are ignored.
func Parse(content []byte) (*Document, error) {
	// Input validation
	if strings.TrimSpace(string(content)) == "" {
		return nil, ErrEmptyDocument
	}

	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return nil, NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	top := resolveAlias(root.Content[0])
	if isNull(top) {
		return nil, ErrEmptyDocument
	}
	if top.Kind != yaml.MappingNode {
		return nil, ErrNotMapping
	}
	if len(top.Content) == 0 {
		return nil, ErrEmptyDocument
	}

	doc := &Document{}
	pairs := mappingPairs(top)
	for i := 0; i < len(pairs)-1; i += 2 {
		key := pairs[i].Value
		val := resolveAlias(pairs[i+1])
		switch key {
		case "name":
			if isScalar(val) {
				doc.Name = val.Value
			}
		case "services":
			services, err := parseServices(val)
			if err != nil {
				return nil, err
			}
			doc.Services = services
		case "volumes":
			volumes, err := parseVolumes(val)
			if err != nil {
				return nil, err
			}
			doc.Volumes = volumes
		}
	}

	return doc, nil
}

// =============================================================================
// Service Parsing
// =============================================================================

// parseServices parses the top-level services mapping in declaration order.
func parseServices(node *yaml.Node) ([]Service, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, NewParseError("services", "services must be a mapping", ErrInvalidService)
	}

	pairs := mappingPairs(node)
	services := make([]Service, 0, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		name := pairs[i].Value
		svc, err := parseService(name, resolveAlias(pairs[i+1]))
		if err != nil {
			return nil, err
		}
		services = append(services, svc)
	}
	return services, nil
}

// parseService parses a single service entry. Keys the converter does not
// translate (command, networks, deploy, ...) are skipped without error.
func parseService(name string, node *yaml.Node) (Service, error) {
	if node == nil || node.Kind != yaml.MappingNode {
		return Service{}, NewParseError("services."+name, "service must be a mapping", ErrInvalidService)
	}

	svc := Service{
		Name:      name,
		DependsOn: []string{},
	}

	pairs := mappingPairs(node)
	for i := 0; i < len(pairs)-1; i += 2 {
		key := pairs[i].Value
		val := resolveAlias(pairs[i+1])
		field := "services." + name + "." + key

		var err error
		switch key {
		case "image":
			if isNull(val) {
				continue
			}
			if !isScalar(val) {
				return Service{}, NewParseError(field, "image must be a string", ErrInvalidService)
			}
			svc.Image = val.Value
		case "ports":
			svc.Ports, err = parsePorts(field, val)
		case "volumes":
			svc.Mounts, err = parseMounts(field, val)
		case "env_file":
			svc.EnvFiles = parseEnvFiles(val)
		case "environment":
			svc.Environment = parseEnvironment(val)
		case "healthcheck":
			svc.HealthCheck, err = parseHealthCheck(field, val)
		case "restart":
			if isNull(val) {
				continue
			}
			if !isScalar(val) {
				return Service{}, NewParseError(field, "restart must be a string", ErrInvalidService)
			}
			svc.Restart = val.Value
		case "depends_on":
			svc.DependsOn, err = parseDependsOn(field, val)
		}
		if err != nil {
			return Service{}, err
		}
	}

	return svc, nil
}

// =============================================================================
// Field Parsing
// =============================================================================

// parsePorts parses a ports list. Scalars only: quadlet publishes ports as
// plain "host:container" strings, so long-form port mappings are rejected.
func parsePorts(field string, node *yaml.Node) ([]string, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, NewParseError(field, "ports must be a list", ErrInvalidPort)
	}

	ports := make([]string, 0, len(node.Content))
	for i, item := range node.Content {
		item = resolveAlias(item)
		if !isScalar(item) {
			return nil, NewParseError(fmt.Sprintf("%s[%d]", field, i), "port must be a string or number", ErrInvalidPort)
		}
		ports = append(ports, item.Value)
	}
	return ports, nil
}

// parseMounts parses a service volumes list. Short-form strings are kept
// verbatim; long-form mappings are flattened to a flow-style string and
// flagged for pass-through.
func parseMounts(field string, node *yaml.Node) ([]Mount, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, NewParseError(field, "volumes must be a list", ErrInvalidMount)
	}

	mounts := make([]Mount, 0, len(node.Content))
	for i, item := range node.Content {
		item = resolveAlias(item)
		switch {
		case isScalar(item):
			mounts = append(mounts, Mount{Raw: item.Value})
		case item.Kind == yaml.MappingNode:
			mounts = append(mounts, Mount{Raw: flowString(item), LongForm: true})
		default:
			return nil, NewParseError(fmt.Sprintf("%s[%d]", field, i), "mount must be a string or mapping", ErrInvalidMount)
		}
	}
	return mounts, nil
}

// parseEnvFiles parses env_file in any of its compose shapes: a single path,
// a list of paths, or the long form with a path key. Only the paths are kept;
// the generated config swaps them for a sops-managed file anyway.
func parseEnvFiles(node *yaml.Node) []string {
	switch {
	case isNull(node):
		return nil
	case isScalar(node):
		return []string{node.Value}
	case node.Kind == yaml.SequenceNode:
		files := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			switch {
			case isScalar(item):
				files = append(files, item.Value)
			case item.Kind == yaml.MappingNode:
				if path := mappingValue(item, "path"); path != "" {
					files = append(files, path)
				}
			}
		}
		return files
	case node.Kind == yaml.MappingNode:
		if path := mappingValue(node, "path"); path != "" {
			return []string{path}
		}
	}
	return nil
}

// parseEnvironment parses environment as a mapping or a KEY=VALUE list.
// Entries without a value (null in the mapping form, no "=" in the list
// form) are dropped: they reference the host environment, which a config
// generator has no business reading. Other shapes yield no entries.
func parseEnvironment(node *yaml.Node) []EnvVar {
	switch {
	case isNull(node):
		return nil
	case node.Kind == yaml.MappingNode:
		pairs := mappingPairs(node)
		env := make([]EnvVar, 0, len(pairs)/2)
		for i := 0; i < len(pairs)-1; i += 2 {
			val := resolveAlias(pairs[i+1])
			if !isScalar(val) {
				continue
			}
			env = append(env, EnvVar{Key: pairs[i].Value, Value: val.Value})
		}
		return env
	case node.Kind == yaml.SequenceNode:
		env := make([]EnvVar, 0, len(node.Content))
		for _, item := range node.Content {
			item = resolveAlias(item)
			if !isScalar(item) {
				continue
			}
			key, value, ok := strings.Cut(item.Value, "=")
			if !ok {
				continue
			}
			env = append(env, EnvVar{Key: key, Value: value})
		}
		return env
	}
	return nil
}

// parseHealthCheck parses a healthcheck block. Only the test command and the
// disable flag matter to the converter; intervals and retries are quadlet
// defaults. disable accepts any truthy value, not just booleans.
func parseHealthCheck(field string, node *yaml.Node) (*HealthCheck, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, NewParseError(field, "healthcheck must be a mapping", ErrInvalidHealthCheck)
	}

	hc := &HealthCheck{}
	pairs := mappingPairs(node)
	for i := 0; i < len(pairs)-1; i += 2 {
		key := pairs[i].Value
		val := resolveAlias(pairs[i+1])

		switch key {
		case "test":
			switch {
			case isNull(val):
			case isScalar(val):
				hc.Shell = val.Value
			case val.Kind == yaml.SequenceNode:
				argv := make([]string, 0, len(val.Content))
				for j, item := range val.Content {
					item = resolveAlias(item)
					if !isScalar(item) {
						return nil, NewParseError(fmt.Sprintf("%s.test[%d]", field, j), "test entry must be a string", ErrInvalidHealthCheck)
					}
					argv = append(argv, item.Value)
				}
				hc.Argv = argv
			default:
				return nil, NewParseError(field+".test", "test must be a string or list", ErrInvalidHealthCheck)
			}
		case "disable":
			hc.Disable = truthy(val)
		}
	}
	return hc, nil
}

// parseDependsOn parses depends_on. The mapping form contributes its keys in
// declaration order (conditions are dropped), the list form is taken
// verbatim, anything else means no dependencies. Always returns a non-nil
// slice so callers can range without existence checks.
func parseDependsOn(field string, node *yaml.Node) ([]string, error) {
	deps := []string{}
	switch {
	case isNull(node):
	case node.Kind == yaml.MappingNode:
		pairs := mappingPairs(node)
		for i := 0; i < len(pairs)-1; i += 2 {
			deps = append(deps, pairs[i].Value)
		}
	case node.Kind == yaml.SequenceNode:
		for i, item := range node.Content {
			item = resolveAlias(item)
			if !isScalar(item) {
				return nil, NewParseError(fmt.Sprintf("%s[%d]", field, i), "dependency must be a service name", ErrInvalidDependsOn)
			}
			deps = append(deps, item.Value)
		}
	}
	return deps, nil
}

// =============================================================================
// Volume Parsing
// =============================================================================

// parseVolumes parses the top-level volumes mapping. A volume is external
// when its declaration carries a truthy external field; every other
// declaration, including the common bare "name:" form, is a managed volume.
func parseVolumes(node *yaml.Node) ([]Volume, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, NewParseError("volumes", "volumes must be a mapping", ErrInvalidVolumes)
	}

	pairs := mappingPairs(node)
	volumes := make([]Volume, 0, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		name := pairs[i].Value
		decl := resolveAlias(pairs[i+1])

		vol := Volume{Name: name}
		if decl != nil && decl.Kind == yaml.MappingNode {
			declPairs := mappingPairs(decl)
			for j := 0; j < len(declPairs)-1; j += 2 {
				if declPairs[j].Value == "external" {
					vol.External = truthy(resolveAlias(declPairs[j+1]))
				}
			}
		}
		volumes = append(volumes, vol)
	}
	return volumes, nil
}

// =============================================================================
// Node Helpers
// =============================================================================

// resolveAlias follows *ref aliases to their anchored node.
func resolveAlias(node *yaml.Node) *yaml.Node {
	if node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		return node.Alias
	}
	return node
}

// isMergeKey reports whether key is a YAML merge key (<<). A quoted "<<" is
// an ordinary string key, not a merge.
func isMergeKey(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Value == "<<" && node.Tag != "!!str"
}

// maxMergeDepth caps merge-source recursion: an alias can make a mapping
// merge itself.
const maxMergeDepth = 50

// mappingPairs returns a mapping's effective key/value pairs in node.Content
// layout, with YAML merge keys (<<) spliced in. Precedence follows the YAML
// 1.1 merge spec: keys written in the mapping itself win over merged ones,
// and earlier entries of a merge sequence win over later ones. Merge sources
// may themselves contain merges.
func mappingPairs(node *yaml.Node) []*yaml.Node {
	return flattenMerges(node, 0)
}

func flattenMerges(node *yaml.Node, depth int) []*yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode || depth > maxMergeDepth {
		return nil
	}

	hasMerge := false
	for i := 0; i < len(node.Content)-1; i += 2 {
		if isMergeKey(node.Content[i]) {
			hasMerge = true
			break
		}
	}
	if !hasMerge {
		return node.Content
	}

	// Lowest precedence first: merge sources (sequences reversed), then the
	// mapping's own pairs. The dedupe keeps the first position and the last
	// value seen per key.
	var pairs []*yaml.Node
	for i := 0; i < len(node.Content)-1; i += 2 {
		if !isMergeKey(node.Content[i]) {
			continue
		}
		src := resolveAlias(node.Content[i+1])
		switch {
		case src == nil:
		case src.Kind == yaml.MappingNode:
			pairs = append(pairs, flattenMerges(src, depth+1)...)
		case src.Kind == yaml.SequenceNode:
			for j := len(src.Content) - 1; j >= 0; j-- {
				item := resolveAlias(src.Content[j])
				if item != nil && item.Kind == yaml.MappingNode {
					pairs = append(pairs, flattenMerges(item, depth+1)...)
				}
			}
		}
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		if !isMergeKey(node.Content[i]) {
			pairs = append(pairs, node.Content[i], node.Content[i+1])
		}
	}

	seen := make(map[string]int, len(pairs)/2)
	out := make([]*yaml.Node, 0, len(pairs))
	for i := 0; i < len(pairs)-1; i += 2 {
		key, val := pairs[i], pairs[i+1]
		if at, ok := seen[key.Value]; ok {
			out[at+1] = val
			continue
		}
		seen[key.Value] = len(out)
		out = append(out, key, val)
	}
	return out
}

// isScalar reports whether node is a non-null scalar.
func isScalar(node *yaml.Node) bool {
	return node != nil && node.Kind == yaml.ScalarNode && node.Tag != "!!null"
}

// isNull reports whether node is absent or an explicit YAML null.
func isNull(node *yaml.Node) bool {
	return node == nil || node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}

// truthy interprets a node the way boolean-ish compose fields are written in
// the wild: bools, non-zero numbers, non-empty strings and non-empty
// collections all count as set.
func truthy(node *yaml.Node) bool {
	node = resolveAlias(node)
	if node == nil {
		return false
	}
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return false
		}
		var b bool
		if err := node.Decode(&b); err == nil {
			return b
		}
		var i int64
		if err := node.Decode(&i); err == nil {
			return i != 0
		}
		var f float64
		if err := node.Decode(&f); err == nil {
			return f != 0
		}
		return node.Value != ""
	case yaml.MappingNode:
		return len(mappingPairs(node)) > 0
	case yaml.SequenceNode:
		return len(node.Content) > 0
	}
	return false
}

// mappingValue returns the scalar value for key in a mapping node, or "".
func mappingValue(node *yaml.Node, key string) string {
	pairs := mappingPairs(node)
	for i := 0; i < len(pairs)-1; i += 2 {
		if pairs[i].Value == key {
			if val := resolveAlias(pairs[i+1]); isScalar(val) {
				return val.Value
			}
			return ""
		}
	}
	return ""
}

// flowString renders a node as a single-line flow-style string, used to keep
// long-form mounts visible in the output instead of silently dropping them.
func flowString(node *yaml.Node) string {
	node = resolveAlias(node)
	if node == nil {
		return ""
	}
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value
	case yaml.SequenceNode:
		parts := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			parts = append(parts, flowString(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case yaml.MappingNode:
		pairs := mappingPairs(node)
		parts := make([]string, 0, len(pairs)/2)
		for i := 0; i < len(pairs)-1; i += 2 {
			parts = append(parts, flowString(pairs[i])+": "+flowString(pairs[i+1]))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return ""
}
