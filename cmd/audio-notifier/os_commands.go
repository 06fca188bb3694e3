package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOpenCommand(ctx *commandContext) *cobra.Command {
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open related files and settings",
	}

	openCmd.AddCommand(&cobra.Command{
		Use:   "log",
		Short: "Open the hook script's debug log",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			return svc.OpenLog()
		},
	})

	openCmd.AddCommand(&cobra.Command{
		Use:   "focus",
		Short: "Open the Focus (Do Not Disturb) settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			return svc.OpenFocusSettings()
		},
	})

	return openCmd
}

func newTestNotifyCommand(ctx *commandContext) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "test-notify",
		Short: "Send a test notification",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.TestNotification(message); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Test notification sent")
			return nil
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Notification text")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "audio-notifier %s\n", version)
		},
	}
}
