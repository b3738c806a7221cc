package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/keepmind9/anybot/internal/core"
	"github.com/keepmind9/anybot/internal/message"
	"github.com/keepmind9/anybot/internal/platform"
	"github.com/keepmind9/anybot/internal/tracer"
	"github.com/spf13/cobra"
)

var (
	buildConfig   string
	buildPlatform string
	buildText     []string
	buildImages   []string
	buildVoices   []string
	buildAt       []string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Print the native messages a platform builds for a message",
	Long: `Build a message from flags and print the native messages the platform
handler produces. Segments are appended in this order: mentions, text, images
and voices.

Platforms that upload media through their API (KOOK, Feishu) need a live bot
and fail here when the message carries media.`,
	Example: `  anybot build --platform discord --at 42 --text "hello" --image https://example.com/a.png
  anybot build --platform qq --voice /tmp/v.silk`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := platform.Parse(buildPlatform)
		if err != nil {
			return err
		}
		cfg, rt, err := loadRuntime(buildConfig, true)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		shutdown, err := tracer.Setup(ctx, cfg.TracerConfig())
		if err != nil {
			return err
		}
		defer shutdown(context.Background())

		return runBuild(ctx, cmd.OutOrStdout(), rt, p, composeMessage())
	},
}

func composeMessage() *message.Msg {
	m := &message.Msg{}
	for _, id := range buildAt {
		m.At(id)
	}
	for _, t := range buildText {
		m.Text(t)
	}
	for _, src := range buildImages {
		m.Image(src)
	}
	for _, src := range buildVoices {
		m.Voice(src)
	}
	return m
}

func runBuild(ctx context.Context, w io.Writer, rt *core.Runtime, p platform.Platform, m *message.Msg) error {
	natives, err := rt.Dispatcher().Build(ctx, p, nil, m)
	if err != nil {
		return fmt.Errorf("failed to build %s message: %w", p, err)
	}
	output, err := json.MarshalIndent(natives, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func init() {
	buildCmd.Flags().StringVarP(&buildConfig, "config", "c", "", "Configuration file path")
	buildCmd.Flags().StringVarP(&buildPlatform, "platform", "p", "", "Target platform, e.g. onebot, discord, telegram")
	buildCmd.Flags().StringArrayVar(&buildText, "text", nil, "Text segment (repeatable)")
	buildCmd.Flags().StringArrayVar(&buildImages, "image", nil, "Image URL or file path (repeatable)")
	buildCmd.Flags().StringArrayVar(&buildVoices, "voice", nil, "Voice URL or file path (repeatable)")
	buildCmd.Flags().StringArrayVar(&buildAt, "at", nil, "User id to mention (repeatable)")
	_ = buildCmd.MarkFlagRequired("platform")
}
