package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/keepmind9/anybot/internal/core"
	"github.com/keepmind9/anybot/internal/logger"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "anybot",
	Short: "anybot is a cross-platform chat bot adapter layer",
	Long: `anybot presents events and outbound messages of several chat platforms
(OneBot v11, QQ, QQ guilds, KOOK, Discord, Telegram, Feishu and DingTalk)
through one unified event and message model.

The commands here inspect a configuration and the adapter modules it loads.`,
	SilenceUsage: true,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configLocations are tried in order when --config is not given
func configLocations() []string {
	return []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/anybot/config.yaml"),
		"/etc/anybot/config.yaml",
	}
}

// findConfig returns path, or the first existing default location. An empty
// result means no file was found.
func findConfig(path string) string {
	if path != "" {
		return path
	}
	for _, loc := range configLocations() {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

// loadRuntime loads the configuration at path, or the defaults when allowDefault
// is set and no file exists, then initializes logging and builds the runtime.
func loadRuntime(path string, allowDefault bool) (*core.Config, *core.Runtime, error) {
	configFile := findConfig(path)

	var (
		cfg *core.Config
		err error
	)
	switch {
	case configFile != "":
		cfg, err = core.LoadConfig(configFile)
	case allowDefault:
		cfg, err = core.ParseConfig([]byte("{}"))
	default:
		return nil, nil, fmt.Errorf("no configuration file found")
	}
	if err != nil {
		return nil, nil, err
	}

	if err := logger.InitLogger(cfg.LoggerConfig()); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt, err := core.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rt, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(platformsCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}
