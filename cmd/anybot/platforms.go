package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/keepmind9/anybot/internal/core"
	"github.com/keepmind9/anybot/internal/event"
	"github.com/spf13/cobra"
)

var (
	platformsConfig string
	platformsJSON   bool
)

// PlatformInfo describes one registered platform
type PlatformInfo struct {
	Name    string `json:"name"`
	Bot     string `json:"bot"`
	Adapter string `json:"adapter"`
}

// PlatformsOutput is the platforms command output
type PlatformsOutput struct {
	Platforms []PlatformInfo     `json:"platforms"`
	Orders    []event.ClassOrder `json:"orders"`
}

var platformsCmd = &cobra.Command{
	Use:   "platforms",
	Short: "List registered platforms and event resolution order",
	Long: `Load the configured adapter modules and print every registered platform
with its bot and adapter types, followed by the order in which native event
types are tried for each unified event class.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rt, err := loadRuntime(platformsConfig, true)
		if err != nil {
			return err
		}
		return printPlatforms(cmd.OutOrStdout(), rt, platformsJSON)
	},
}

func describePlatforms(rt *core.Runtime) PlatformsOutput {
	out := PlatformsOutput{Orders: rt.Events().Orders()}
	for _, p := range rt.Platforms().Platforms() {
		info := PlatformInfo{Name: p.String()}
		if t, err := rt.Platforms().BotTypeOf(p); err == nil {
			info.Bot = t.String()
		}
		if t, err := rt.Platforms().AdapterTypeOf(p); err == nil {
			info.Adapter = t.String()
		}
		out.Platforms = append(out.Platforms, info)
	}
	return out
}

func printPlatforms(w io.Writer, rt *core.Runtime, jsonFormat bool) error {
	desc := describePlatforms(rt)
	if jsonFormat {
		output, err := json.MarshalIndent(desc, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal json: %w", err)
		}
		fmt.Fprintln(w, string(output))
		return nil
	}

	fmt.Fprintf(w, "Platforms (%d):\n", len(desc.Platforms))
	for _, p := range desc.Platforms {
		fmt.Fprintf(w, "  - %s: bot %s, adapter %s\n", p.Name, p.Bot, p.Adapter)
	}
	for _, o := range desc.Orders {
		fmt.Fprintf(w, "\n%s:\n", o.Class)
		for i, native := range o.Natives {
			fmt.Fprintf(w, "  %d. %s -> %s\n", i+1, native, o.Variant[i])
		}
	}
	return nil
}

func init() {
	platformsCmd.Flags().StringVarP(&platformsConfig, "config", "c", "", "Configuration file path")
	platformsCmd.Flags().BoolVar(&platformsJSON, "json", false, "Output in JSON format")
}
