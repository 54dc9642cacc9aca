// Package fs reads and writes the page files of a local Logseq graph
// directory and watches outline files for changes.
package fs

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/nt/pkg/core"
)

const (
	PagesDir    = "pages"
	JournalsDir = "journals"
)

// Repository is a Logseq graph directory.
type Repository struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
	writes        int
}

// Config holds the configuration for the graph directory.
type Config struct {
	Path string
	// ReadOnly refuses page writes with core.ErrReadOnly.
	ReadOnly bool
	Logger   *slog.Logger
	// ErrorHandler receives watcher errors; they are logged when nil.
	ErrorHandler func(error)
}

// NewRepository creates a repository rooted at config.Path.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &Repository{Path: config.Path, config: config}
}

// EncodeName turns a page name into its file name: URI component encoding
// that keeps spaces and commas readable and escapes dots.
func EncodeName(name string) string {
	const keep = "-_!~*'() ,"
	var sb strings.Builder
	for _, b := range []byte(strings.TrimSpace(name)) {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', strings.IndexByte(keep, b) >= 0:
			sb.WriteByte(b)
		default:
			fmt.Fprintf(&sb, "%%%02X", b)
		}
	}
	return sb.String()
}

// DecodeName reverses EncodeName. Namespace separators written as "___"
// become "/".
func DecodeName(file string) string {
	name := strings.TrimSuffix(file, filepath.Ext(file))
	name = strings.ReplaceAll(name, "___", "/")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// PagePath returns the file backing a page. A non-zero journalDay selects
// the journals folder.
func (r *Repository) PagePath(name string, journalDay int) string {
	if journalDay != 0 {
		return filepath.Join(r.Path, JournalsDir, core.FormatJournalDay(journalDay, "_")+".md")
	}
	return filepath.Join(r.Path, PagesDir, EncodeName(name)+".md")
}

// ReadPage returns the page file content with trailing whitespace removed.
func (r *Repository) ReadPage(name string, journalDay int) (string, error) {
	path := r.PagePath(name, journalDay)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("page file %s: %w", path, core.ErrNotFound)
		}
		return "", err
	}
	return strings.TrimRight(string(data), " \t\r\n"), nil
}

// Exists reports whether the page file is present.
func (r *Repository) Exists(name string, journalDay int) bool {
	_, err := os.Stat(r.PagePath(name, journalDay))
	return err == nil
}

// WritePage writes content to the page file and returns its path. An
// existing file is only replaced with overwrite set.
func (r *Repository) WritePage(name string, journalDay int, content io.Reader, overwrite bool) (string, error) {
	if r.config.ReadOnly {
		return "", core.ErrReadOnly
	}
	if strings.TrimSpace(name) == "" && journalDay == 0 {
		return "", core.ErrNameRequired
	}

	path := r.PagePath(name, journalDay)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return "", core.Guide("Page '%s' already exists.", path)
	}

	n, err := copyAtomic(path, content, 0644)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.writes++
	r.mu.Unlock()
	r.config.Logger.Debug("page written", "path", path, "bytes", n)
	return path, nil
}

// LocalPage is a page file found in the graph directory.
type LocalPage struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Journal bool   `json:"journal"`
}

// Pages lists the page files whose names match pattern (doublestar syntax,
// case-insensitive); an empty pattern matches every page.
func (r *Repository) Pages(pattern string) ([]LocalPage, error) {
	if pattern != "" && !doublestar.ValidatePattern(pattern) {
		return nil, core.Guide("Invalid page pattern %q.", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(r.Path), "{"+PagesDir+","+JournalsDir+"}/**/*.md")
	if err != nil {
		return nil, err
	}

	var out []LocalPage
	for _, rel := range matches {
		base := filepath.Base(rel)
		if strings.HasPrefix(base, ".") {
			continue
		}

		page := LocalPage{Path: filepath.Join(r.Path, filepath.FromSlash(rel))}
		if strings.HasPrefix(rel, JournalsDir+"/") {
			page.Journal = true
			page.Name = strings.ReplaceAll(strings.TrimSuffix(base, ".md"), "_", "-")
		} else {
			page.Name = DecodeName(base)
		}

		if pattern != "" {
			ok, err := doublestar.Match(strings.ToLower(pattern), strings.ToLower(page.Name))
			if err != nil || !ok {
				continue
			}
		}
		out = append(out, page)
	}
	return out, nil
}
