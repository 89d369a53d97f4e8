package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/compose"
	"github.com/Keyruu/compose-to-quadlet-nix/internal/core/quadlet"
)

var (
	flagOutput   string
	flagName     string
	flagEnvFile  string
	flagValidate bool
	flagConfig   string
)

var rootCmd = &cobra.Command{
	Use:   "compose-to-quadlet-nix <compose-file>",
	Short: "Convert a Docker Compose file to quadlet-nix configuration",
	Long: `compose-to-quadlet-nix converts a Docker Compose file into a NixOS
module fragment for the quadlet-nix flake:

1. Parse - Read the compose document, keeping declaration order
2. Resolve - Map named volumes to paths under the stack directory
3. Discover - Collect ${VAR} placeholders and suggest Nix let bindings
4. Render - Emit one quadlet container per service

Published ports are bound to 127.0.0.1 and shared bind mounts get the
":z" relabel suffix. The suggested let bindings are starting points;
review them before committing the output.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd.Context(), args[0])
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "write the fragment to a file instead of stdout")
	rootCmd.Flags().StringVarP(&flagName, "name", "n", "", "project name (default: compose name field or directory name)")
	rootCmd.Flags().StringVar(&flagEnvFile, "env-file", "", "dotenv file whose values seed the suggested let bindings")
	rootCmd.Flags().BoolVar(&flagValidate, "validate", false, "reject documents with features the converter cannot translate")
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.Version = fmt.Sprintf("%s (built %s)", Version, BuildTime)
}

// runConvert is the whole pipeline: read, parse, optionally validate,
// convert, write. Everything between read and write is pure.
func runConvert(ctx context.Context, inputPath string) error {
	cfg, err := LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	logger := SetupLogger(cfg)

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("%s not found", inputPath)
	}

	content, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", inputPath, err)
	}

	doc, err := compose.Parse(content)
	if err != nil {
		return err
	}

	absPath, err := filepath.Abs(inputPath)
	if err != nil {
		absPath = inputPath
	}
	project := quadlet.ProjectName(flagName, doc.Name, absPath)

	if flagValidate {
		if err := compose.ValidateStrict(ctx, content, project); err != nil {
			return err
		}
		if err := compose.CheckConvertible(doc); err != nil {
			return err
		}
	}

	suggestions, err := buildSuggestions(cfg, flagEnvFile)
	if err != nil {
		return err
	}

	result := quadlet.Convert(doc, quadlet.Options{
		ProjectName: project,
		Suggestions: suggestions,
		Relabel:     cfg.Converter.Relabel,
	})

	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	logger.Debug("conversion complete",
		"project", project,
		"services", len(doc.Services),
		"volumes", len(doc.Volumes),
		"variables", result.Variables.Len(),
	)

	if flagOutput == "" {
		fmt.Println(result.Output)
		return nil
	}

	if err := os.WriteFile(flagOutput, []byte(result.Output), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", flagOutput, err)
	}
	fmt.Printf("Converted %s to %s\n", inputPath, flagOutput)
	return nil
}

// buildSuggestions merges dotenv values over config-file suggestions. Config
// entries are Nix expressions taken verbatim; dotenv values are literals and
// get quoted and escaped.
func buildSuggestions(cfg *Config, envFile string) (map[string]string, error) {
	suggestions := make(map[string]string, len(cfg.Converter.Suggestions))
	for name, expr := range cfg.Converter.Suggestions {
		suggestions[name] = expr
	}

	if envFile != "" {
		values, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
		for name, value := range values {
			suggestions[name] = quadlet.NixString(value)
		}
	}

	return suggestions, nil
}
