package compose

import (
	"context"
	"fmt"

	"github.com/compose-spec/compose-go/v2/loader"
	"github.com/compose-spec/compose-go/v2/types"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Strict Validation (opt-in)
// =============================================================================

// ValidateStrict runs the raw document through the compose-go loader with
// schema validation enabled. Interpolation, normalization, and extends
// resolution stay off so the loader sees the same text Parse does. A nil
// error means the document is a structurally valid compose file with no
// features the converter cannot translate.
func ValidateStrict(ctx context.Context, content []byte, projectName string) error {
	// Parse YAML into a map first
	var dict map[string]interface{}
	if err := yaml.Unmarshal(content, &dict); err != nil {
		return NewParseError("", "invalid YAML syntax", ErrInvalidYAML)
	}
	if dict == nil {
		return ErrEmptyDocument
	}

	project, err := loader.LoadWithContext(ctx, types.ConfigDetails{
		ConfigFiles: []types.ConfigFile{
			{
				Content: content,
				Config:  dict,
			},
		},
	}, func(opts *loader.Options) {
		opts.SetProjectName(projectName, false)
		opts.SkipValidation = false
		opts.SkipInterpolation = true // placeholders are translated, never resolved
		opts.SkipNormalization = true
		opts.SkipExtends = true // don't try to load external files
	})
	if err != nil {
		return NewParseError("", err.Error(), ErrValidationFailed)
	}

	return checkUnsupportedFeatures(project)
}

// checkUnsupportedFeatures checks for compose features the converter cannot
// express as quadlet units.
func checkUnsupportedFeatures(project *types.Project) error {
	// Check for secrets
	if len(project.Secrets) > 0 {
		return NewParseError("secrets", "secrets are not supported", ErrUnsupportedFeature)
	}

	// Check for configs
	if len(project.Configs) > 0 {
		return NewParseError("configs", "configs are not supported", ErrUnsupportedFeature)
	}

	for _, svc := range project.Services {
		// Services must reference an image; there is nothing to build against
		if svc.Build != nil {
			return NewParseError("services."+svc.Name+".build", "build is not supported", ErrUnsupportedFeature)
		}
		if svc.Extends != nil && svc.Extends.File != "" {
			return NewParseError("services."+svc.Name+".extends", "extends is not supported", ErrUnsupportedFeature)
		}
	}

	return nil
}

// CheckConvertible rejects documents with mounts the converter would only
// pass through verbatim. The default pipeline downgrades this to a warning.
func CheckConvertible(doc *Document) error {
	for _, svc := range doc.Services {
		for i, m := range svc.Mounts {
			if m.LongForm {
				return NewParseError(
					fmt.Sprintf("services.%s.volumes[%d]", svc.Name, i),
					"long-form volume mounts are not supported",
					ErrUnsupportedFeature,
				)
			}
		}
	}
	return nil
}
