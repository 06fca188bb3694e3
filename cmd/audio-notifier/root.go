package main

import (
	"github.com/spf13/cobra"

	"github.com/cwveysey/coding-agent-notifications/internal/app"
)

func newRootCommand(configure ...func(*app.Deps)) *cobra.Command {
	ctx := newCommandContext(configure...)

	rootCmd := &cobra.Command{
		Use:   "audio-notifier",
		Short: "Audio notifications for coding assistant sessions",
		Long: `audio-notifier installs the hook scripts that play sounds and spoken
notifications for coding assistant events, and manages their configuration,
voices and custom sounds.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&ctx.home, "home", "", "Home directory holding .claude (default: current user's home)")
	flags.StringVar(&ctx.resources, "resources", "", "Bundled resources directory (default: $"+resourcesEnvName()+" or <executable dir>/resources)")
	flags.StringVar(&ctx.logLevel, "log-level", "", "Log level: debug, info, warn, error (default: info, or debug when the config sets debug)")
	flags.StringVar(&ctx.logFormat, "log-format", "console", "Log format: console or json")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newSoundsCommand(ctx))
	rootCmd.AddCommand(newCustomSoundsCommand(ctx))
	rootCmd.AddCommand(newPreviewCommand(ctx))
	rootCmd.AddCommand(newVoicesCommand(ctx))
	rootCmd.AddCommand(newInstallCommand(ctx))
	rootCmd.AddCommand(newUninstallCommand(ctx))
	rootCmd.AddCommand(newDevResetCommand(ctx))
	rootCmd.AddCommand(newInfoCommand(ctx))
	rootCmd.AddCommand(newBackupPathCommand(ctx))
	rootCmd.AddCommand(newExportLogCommand(ctx))
	rootCmd.AddCommand(newHooksCommand(ctx))
	rootCmd.AddCommand(newDiagnosticsCommand(ctx))
	rootCmd.AddCommand(newActivityCommand(ctx))
	rootCmd.AddCommand(newProjectsCommand(ctx))
	rootCmd.AddCommand(newOpenCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
