package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newSoundsCommand(ctx *commandContext) *cobra.Command {
	soundsCmd := &cobra.Command{
		Use:   "sounds",
		Short: "Turn notification sounds on or off",
	}

	set := func(use, short string, enabled bool) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			RunE: func(cmd *cobra.Command, args []string) error {
				svc, err := ctx.service(cmd)
				if err != nil {
					return err
				}
				if err := svc.SetSoundsEnabled(enabled); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sounds %s\n", onOff(enabled))
				return nil
			},
		}
	}

	soundsCmd.AddCommand(set("on", "Enable notification sounds", true))
	soundsCmd.AddCommand(set("off", "Disable notification sounds", false))
	soundsCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether sounds are enabled",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sounds %s\n", onOff(svc.SoundsEnabled()))
			if svc.Uninstalled() {
				fmt.Fprintln(cmd.OutOrStdout(), "Audio notifier is uninstalled")
			}
			return nil
		},
	})

	return soundsCmd
}

func onOff(enabled bool) string {
	if enabled {
		return "on"
	}
	return "off"
}

func newCustomSoundsCommand(ctx *commandContext) *cobra.Command {
	customCmd := &cobra.Command{
		Use:   "custom-sounds",
		Short: "Manage the custom sound library",
	}

	customCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List custom sounds",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			list, err := svc.ListSounds()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No custom sounds")
				return nil
			}
			rows := make([][]string, 0, len(list))
			for _, path := range list {
				rows = append(rows, []string{filepath.Base(path), path})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Name", "Path"}, rows, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	})

	customCmd.AddCommand(&cobra.Command{
		Use:   "upload <file>",
		Short: "Copy an audio file into the custom sound library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			dst, err := svc.UploadSound(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", dst)
			return nil
		},
	})

	return customCmd
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	previewCmd := &cobra.Command{
		Use:   "preview",
		Short: "Play a sound or spoken notification",
	}

	previewCmd.AddCommand(&cobra.Command{
		Use:   "sound <file>",
		Short: "Play a sound file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			return svc.PreviewSound(args[0])
		},
	})

	var apiKey string
	voiceCmd := &cobra.Command{
		Use:   "voice <text>",
		Short: "Speak text, generating and caching the audio when needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			path, err := svc.PreviewVoice(cmd.Context(), args[0], apiKey)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	voiceCmd.Flags().StringVar(&apiKey, "api-key", "", "Fish Audio API key (system voice when empty)")
	previewCmd.AddCommand(voiceCmd)

	return previewCmd
}

func newVoicesCommand(ctx *commandContext) *cobra.Command {
	var apiKey string

	voicesCmd := &cobra.Command{
		Use:   "voices",
		Short: "Generate spoken notifications",
	}
	voicesCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Fish Audio API key (default: config, then $FISH_AUDIO_API_KEY)")

	voicesCmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Render the voice file of every voice-enabled event",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			count, err := svc.GenerateVoices(cmd.Context(), apiKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d voice notification(s)\n", count)
			return nil
		},
	})

	voicesCmd.AddCommand(&cobra.Command{
		Use:   "pregenerate",
		Short: "Cache the default event voices for previews",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.PregenerateVoices(cmd.Context(), apiKey)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d, already cached %d\n", result.Generated, result.Skipped)
			return nil
		},
	})

	return voicesCmd
}
