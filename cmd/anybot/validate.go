package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/keepmind9/anybot/internal/core"
	"github.com/spf13/cobra"
)

var (
	validateConfig string
	validateJSON   bool
)

// ValidationResult represents the validation result
type ValidationResult struct {
	Valid     bool     `json:"valid"`
	Config    string   `json:"config"`
	Platforms []string `json:"platforms,omitempty"`
	Errors    []string `json:"errors,omitempty"`
	Warnings  []string `json:"warnings,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate anybot configuration file",
	Long: `Validate the anybot configuration file and load its adapter modules.

This command checks:
  - YAML syntax and environment variable references
  - Platform names and placeholder keys
  - Fetch durations and limits
  - That every enabled adapter module registers cleanly

Exit codes:
  0 - Configuration is valid
  1 - Configuration has errors`,
	Run: func(cmd *cobra.Command, args []string) {
		configFile := findConfig(validateConfig)
		if configFile == "" {
			fmt.Println("❌ No configuration file found")
			fmt.Println("\nSpecify a config file with --config or ensure one exists at:")
			for _, loc := range configLocations() {
				fmt.Printf("  - %s\n", loc)
			}
			os.Exit(1)
		}

		result := validate(configFile)
		outputValidationResult(result, validateJSON)
		if !result.Valid {
			os.Exit(1)
		}
	},
}

func validate(configFile string) ValidationResult {
	result := ValidationResult{Config: configFile}

	cfg, err := core.LoadConfig(configFile)
	if err != nil {
		result.Errors = []string{err.Error()}
		return result
	}
	rt, err := core.New(cfg)
	if err != nil {
		result.Errors = []string{err.Error()}
		return result
	}

	for _, p := range rt.Platforms().Platforms() {
		result.Platforms = append(result.Platforms, p.String())
	}
	result.Warnings = validateConfigDetails(cfg)
	result.Valid = true
	return result
}

func outputValidationResult(result ValidationResult, jsonFormat bool) {
	if jsonFormat {
		output, err := json.Marshal(result)
		if err != nil {
			fmt.Printf("{\"error\": \"failed to marshal json: %v\"}\n", err)
			return
		}
		fmt.Println(string(output))
		return
	}

	if result.Valid {
		fmt.Println("✓ Configuration is valid")
		fmt.Printf("  - Config: %s\n", result.Config)
		fmt.Printf("  - Platforms: %d\n", len(result.Platforms))
		for _, p := range result.Platforms {
			fmt.Printf("      %s\n", p)
		}
		if len(result.Warnings) > 0 {
			fmt.Println("\n⚠️  Warnings:")
			for _, warning := range result.Warnings {
				fmt.Printf("  - %s\n", warning)
			}
		}
		return
	}

	fmt.Println("❌ Configuration validation failed:")
	fmt.Println("\nErrors:")
	for _, errMsg := range result.Errors {
		fmt.Printf("  - %s\n", errMsg)
	}
}

func validateConfigDetails(cfg *core.Config) []string {
	var warnings []string

	if len(cfg.Platforms) == 0 {
		warnings = append(warnings, "No platforms listed - every adapter module is loaded")
	}
	if cfg.Fetch.Proxy == "" && cfg.Fetch.Timeout == "" {
		warnings = append(warnings, "Media fetch uses default timeouts and no proxy")
	}
	if cfg.Tracing.Enabled && cfg.Tracing.Exporter == "noop" {
		warnings = append(warnings, "Tracing is enabled with the noop exporter - no spans are recorded")
	}
	return warnings
}

func init() {
	validateCmd.Flags().StringVarP(&validateConfig, "config", "c", "", "Configuration file path")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
}
