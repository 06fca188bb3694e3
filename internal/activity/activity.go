// Package activity reads the logs the hook script leaves behind.
package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/parser"
)

// MaxRecentProjects caps RecentProjects
const MaxRecentProjects = 10

const workingDirPrefix = "Working directory:"

// Event is one entry of activity-log.json
type Event struct {
	Timestamp   string  `json:"timestamp"`
	Event       string  `json:"event"`
	Audio       bool    `json:"audio"`
	Visual      bool    `json:"visual"`
	Message     *string `json:"message,omitempty"`
	FullMessage *string `json:"full_message,omitempty"`
	Project     *string `json:"project,omitempty"`
}

// ReadLog returns the activity log most recent first. A missing log is
// empty.
func ReadLog(path string) ([]Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Event{}, nil
		}
		return nil, apperr.Wrap(apperr.ErrIO, "read activity log", path, err)
	}

	var events []Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, apperr.Wrap(apperr.ErrParse, "read activity log", "failed to parse activity log", err)
	}
	if events == nil {
		events = []Event{}
	}
	slices.Reverse(events)
	return events, nil
}

// RecentProjects lists the working directories of recent sessions, most
// recent first and without duplicates. Stop hook payloads come before the
// directories announced in the output log.
func RecentProjects(stopInputLog, outputLog string) ([]string, error) {
	entries, err := parser.ReadFile(stopInputLog)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "recent projects", stopInputLog, err)
	}
	var fromHooks []string
	for _, e := range entries {
		if cwd := strings.TrimSpace(e.CWD); cwd != "" {
			fromHooks = append(fromHooks, cwd)
		}
	}
	slices.Reverse(fromHooks)

	fromLog, err := workingDirectories(outputLog)
	if err != nil {
		return nil, err
	}
	slices.Reverse(fromLog)

	projects := []string{}
	seen := make(map[string]bool)
	for _, p := range append(fromHooks, fromLog...) {
		if seen[p] {
			continue
		}
		seen[p] = true
		projects = append(projects, p)
		if len(projects) == MaxRecentProjects {
			break
		}
	}
	return projects, nil
}

func workingDirectories(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.ErrIO, "recent projects", path, err)
	}
	defer f.Close()

	var dirs []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		_, after, ok := strings.Cut(scanner.Text(), workingDirPrefix)
		if !ok {
			continue
		}
		if dir := strings.TrimSpace(after); dir != "" {
			dirs = append(dirs, dir)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, apperr.Wrap(apperr.ErrIO, "recent projects", path, err)
	}
	return dirs, nil
}

// TailLines returns the last n lines of path in file order. A missing file
// has no lines.
func TailLines(path string, n int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, apperr.Wrap(apperr.ErrIO, "tail log", path, err)
	}

	text := strings.TrimRight(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	if text == "" {
		return []string{}, nil
	}
	lines := strings.Split(text, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines, nil
}
