package parser

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
)

// StopInput is one raw hook payload appended to stop-input.jsonl by the
// Stop hook
type StopInput struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
	CWD            string `json:"cwd"`
	HookEventName  string `json:"hook_event_name"`
	StopHookActive bool   `json:"stop_hook_active"`
}

// ParseEntry parses a single JSONL line
func ParseEntry(line string) (*StopInput, error) {
	var entry StopInput
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Parse reads every well-formed entry from r in file order. Lines that are
// not JSON objects are skipped; the hook writes raw input when jq is
// unavailable.
func Parse(r io.Reader) ([]StopInput, error) {
	scanner := bufio.NewScanner(r)
	// Use a larger buffer for potentially long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	var entries []StopInput
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		entry, err := ParseEntry(line)
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// ReadFile parses the log at path. A missing file has no entries.
func ReadFile(path string) ([]StopInput, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}
