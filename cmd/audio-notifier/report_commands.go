package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newDiagnosticsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "Print a diagnostics report for bug reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			report, err := svc.Diagnostics(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func newActivityCommand(ctx *commandContext) *cobra.Command {
	var (
		asJSON bool
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Show recent notification activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			events, err := svc.ActivityLog()
			if err != nil {
				return err
			}
			if limit > 0 && len(events) > limit {
				events = events[:limit]
			}
			if asJSON {
				return writeJSON(cmd, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No activity recorded")
				return nil
			}

			rows := make([][]string, 0, len(events))
			for _, e := range events {
				when := e.Timestamp
				if t, err := time.Parse(time.RFC3339, e.Timestamp); err == nil {
					when = humanize.Time(t)
				}
				project, message := "", ""
				if e.Project != nil {
					project = *e.Project
				}
				if e.Message != nil {
					message = *e.Message
				}
				rows = append(rows, []string{when, e.Event, yesNo(e.Audio), yesNo(e.Visual), project, message})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"When", "Event", "Audio", "Visual", "Project", "Message"}, rows, shouldColorize(out)))
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of events (0 for all)")
	return cmd
}

func newProjectsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List recently used project directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := ctx.service(cmd)
			if err != nil {
				return err
			}
			projects, err := svc.RecentProjects()
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recent projects")
				return nil
			}
			for _, p := range projects {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}
