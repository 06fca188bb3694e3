// Package sounds manages the user's custom notification sounds.
package sounds

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-audio/aiff"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
	"github.com/gopxl/beep/wav"

	"github.com/cwveysey/coding-agent-notifications/internal/apperr"
	"github.com/cwveysey/coding-agent-notifications/internal/fileutil"
)

// Extensions accepted by the library
var Extensions = []string{".aiff", ".aif", ".wav", ".mp3"}

// Info describes a decoded sound file
type Info struct {
	Format     string        `json:"format"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// Library is the custom sound directory
type Library struct {
	dir    string
	logger *slog.Logger
}

// NewLibrary creates a library rooted at dir
func NewLibrary(dir string, logger *slog.Logger) *Library {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Library{dir: dir, logger: logger}
}

// Dir returns the library directory
func (l *Library) Dir() string {
	return l.dir
}

// Supported reports whether path has an accepted extension
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Probe decodes the header of path to make sure it is playable audio
func Probe(path string) (*Info, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.Wrap(apperr.ErrNotFound, "probe sound", path, err)
		}
		return nil, apperr.Wrap(apperr.ErrIO, "probe sound", path, err)
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp3":
		streamer, format, err := mp3.Decode(f)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrParse, "probe sound", "invalid MP3 file "+path, err)
		}
		defer streamer.Close()
		return streamInfo("mp3", streamer, format), nil
	case ".wav":
		streamer, format, err := wav.Decode(f)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrParse, "probe sound", "invalid WAV file "+path, err)
		}
		defer streamer.Close()
		return streamInfo("wav", streamer, format), nil
	case ".aiff", ".aif":
		decoder := aiff.NewDecoder(f)
		if !decoder.IsValidFile() {
			return nil, apperr.Wrap(apperr.ErrParse, "probe sound", "invalid AIFF file "+path, nil)
		}
		decoder.ReadInfo()
		if err := decoder.Err(); err != nil {
			return nil, apperr.Wrap(apperr.ErrParse, "probe sound", "invalid AIFF file "+path, err)
		}
		info := &Info{
			Format:     "aiff",
			SampleRate: decoder.SampleRate,
			Channels:   int(decoder.NumChans),
		}
		if d, err := decoder.Duration(); err == nil {
			info.Duration = d
		}
		return info, nil
	default:
		return nil, apperr.Wrap(apperr.ErrParse, "probe sound", fmt.Sprintf("unsupported audio format %q", ext), nil)
	}
}

func streamInfo(name string, streamer beep.StreamSeekCloser, format beep.Format) *Info {
	return &Info{
		Format:     name,
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
		Duration:   format.SampleRate.D(streamer.Len()),
	}
}

// Upload copies src into the library after checking it decodes and returns
// the destination path. A file with the same name is replaced; a file that
// already lives in the library is left as is.
func (l *Library) Upload(src string) (string, error) {
	info, err := Probe(src)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return "", apperr.Wrap(apperr.ErrIO, "upload sound", "create "+l.dir, err)
	}
	dst := filepath.Join(l.dir, filepath.Base(src))
	if fileutil.SameFile(src, dst) {
		l.logger.Debug("custom sound already in library", slog.String("path", dst))
		return dst, nil
	}
	if err := fileutil.CopyFile(src, dst); err != nil {
		return "", apperr.Wrap(apperr.ErrIO, "upload sound", "copy to "+dst, err)
	}

	l.logger.Info("custom sound uploaded",
		slog.String("path", dst),
		slog.String("format", info.Format),
		slog.Duration("duration", info.Duration),
	)
	return dst, nil
}

// List returns the paths of supported files in the library, sorted. A
// missing directory is an empty library.
func (l *Library) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, apperr.Wrap(apperr.ErrIO, "list sounds", l.dir, err)
	}

	out := []string{}
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(l.dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
