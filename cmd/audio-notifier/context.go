package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cwveysey/coding-agent-notifications/internal/app"
	"github.com/cwveysey/coding-agent-notifications/internal/config"
	"github.com/cwveysey/coding-agent-notifications/internal/logging"
)

type commandContext struct {
	home      string
	resources string
	logLevel  string
	logFormat string

	configure []func(*app.Deps)

	once   sync.Once
	svc    *app.Service
	logger *slog.Logger
	err    error
}

func newCommandContext(configure ...func(*app.Deps)) *commandContext {
	return &commandContext{configure: configure}
}

func resourcesEnvName() string {
	return config.ResourcesEnv
}

// service builds the application service on first use
func (c *commandContext) service(cmd *cobra.Command) (*app.Service, error) {
	c.once.Do(func() {
		paths, err := config.DefaultPaths(c.home, c.resources)
		if err != nil {
			c.err = err
			return
		}

		level := c.logLevel
		if level == "" && configDebug(paths.ConfigFile()) {
			level = "debug"
		}
		logger, err := logging.New(logging.Options{
			Level:  level,
			Format: c.logFormat,
			Writer: cmd.ErrOrStderr(),
		})
		if err != nil {
			c.err = err
			return
		}
		c.logger = logger

		deps := app.Deps{Paths: paths, Logger: logger, Version: version}
		for _, fn := range c.configure {
			fn(&deps)
		}
		c.svc = app.New(deps)
	})
	return c.svc, c.err
}

// configDebug peeks at the debug flag without the migration side effects of
// a full load
func configDebug(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var probe struct {
		Debug bool `yaml:"debug"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return false
	}
	return probe.Debug
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func renderTable(headers []string, rows [][]string, colorize bool) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if colorize {
		tw.Style().Color.Header = text.Colors{text.FgCyan, text.Bold}
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
