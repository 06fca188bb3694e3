package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Install the hook scripts and register the hooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.Install()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			if result.BackupPath != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Settings backup: %s\n", result.BackupPath)
			}
			return nil
		},
	}
}

func newUninstallCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Remove the hooks and installed files, keeping the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.Uninstall()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Message)
			return nil
		},
	}
}

func newDevResetCommand(ctx *commandContext) *cobra.Command {
	var confirm bool

	cmd := &cobra.Command{
		Use:    "dev-reset",
		Short:  "Remove installed files and the configuration to test first-run setup",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirm {
				return fmt.Errorf("dev-reset deletes the configuration; pass --yes to continue")
			}
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			if err := svc.DevReset(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reset complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirm, "yes", false, "Confirm the reset")
	return cmd
}

func newInfoCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the current installation",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			m, err := svc.InstallationInfo()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, m)
			}

			installed := m.InstalledAt
			if t, err := time.Parse(time.RFC3339, m.InstalledAt); err == nil {
				installed = fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04:05"), humanize.Time(t))
			}
			backup := m.BackupPath
			if backup == "" {
				backup = "none (no settings file existed)"
			}
			preserved := "none"
			if len(m.Changes.ExistingHooksPreserved) > 0 {
				preserved = strings.Join(m.Changes.ExistingHooksPreserved, ", ")
			}

			rows := [][]string{
				{"Version", m.AppVersion},
				{"Installed", installed},
				{"Backup", backup},
				{"Hooks added", strings.Join(m.Changes.HooksAdded, ", ")},
				{"Hooks preserved", preserved},
				{"Files created", fmt.Sprintf("%d", len(m.Changes.FilesCreated))},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, shouldColorize(cmd.OutOrStdout())))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func newBackupPathCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup-path",
		Short: "Print the settings backup taken by the current installation",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			path, err := svc.BackupPath()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newExportLogCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "export-log",
		Short: "Print the installation manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			raw, err := svc.InstallationLog()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
}

func newHooksCommand(ctx *commandContext) *cobra.Command {
	hooksCmd := &cobra.Command{
		Use:   "hooks",
		Short: "Inspect the registered hooks",
	}

	hooksCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Report which managed hooks are registered",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			result, err := svc.CheckHooks()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(result.ConfiguredEvents)+len(result.MissingEvents))
			for _, event := range result.ConfiguredEvents {
				rows = append(rows, []string{event, "configured"})
			}
			for _, event := range result.MissingEvents {
				rows = append(rows, []string{event, "missing"})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Event", "Status"}, rows, shouldColorize(out)))
			fmt.Fprintf(out, "Script: %s (exists: %s, executable: %s)\n",
				result.ScriptPath, yesNo(result.ScriptExists), yesNo(result.ScriptExecutable))

			problems := result.Problems()
			if len(problems) == 0 {
				fmt.Fprintln(out, "All hooks are in place")
				return nil
			}
			for _, p := range problems {
				fmt.Fprintf(out, "- %v\n", p)
			}
			return fmt.Errorf("%d problem(s) found", len(problems))
		},
	})

	return hooksCmd
}
