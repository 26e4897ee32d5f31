// Package codestore keeps detail code snippets as plain files under
// <base>/code/<lang>/code_<unix>.<ext>.
package codestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/peterbourgon/diskv/v3"
	"github.com/rs/zerolog"

	"tableflip.dev/notebox/pkg/note"
)

const (
	// MaxSize is the snippet size in bytes above which Validate warns.
	MaxSize = 50_000
	// MaxLines is the snippet line count above which Validate warns.
	MaxLines = 1000

	truncatedMarker = "\n... (truncated)"
	formatTimeout   = 5 * time.Second
)

// Formatter rewrites snippet content. Failures are never fatal to Save.
type Formatter interface {
	Format(ctx context.Context, lang note.Language, content string) (string, error)
}

// CommandFormatter pipes Rust snippets through an external command such as
// rustfmt. Other languages are returned unchanged.
type CommandFormatter struct {
	Command string
}

func (f CommandFormatter) Format(ctx context.Context, lang note.Language, content string) (string, error) {
	if lang != note.Rust || f.Command == "" {
		return content, nil
	}
	ctx, cancel := context.WithTimeout(ctx, formatTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, f.Command)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return content, fmt.Errorf("codestore: %s: %w: %s", f.Command, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Available reports whether the formatter command is on $PATH.
func (f CommandFormatter) Available() bool {
	if f.Command == "" {
		return false
	}
	_, err := exec.LookPath(f.Command)
	return err == nil
}

// Options configures a Store.
type Options struct {
	// BasePath is the notebox data directory; snippets live in BasePath/code.
	BasePath  string
	Formatter Formatter
	Now       func() time.Time
	Logger    zerolog.Logger
}

// Store saves, reads, moves and deletes snippet files.
type Store struct {
	root      string
	d         *diskv.Diskv
	formatter Formatter
	now       func() time.Time
	log       zerolog.Logger
}

// New returns a Store rooted at opts.BasePath/code.
func New(opts Options) (*Store, error) {
	if opts.BasePath == "" {
		return nil, errors.New("codestore: base path required")
	}
	root, err := filepath.Abs(filepath.Join(opts.BasePath, "code"))
	if err != nil {
		return nil, fmt.Errorf("codestore: resolve base: %w", err)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Formatter == nil {
		opts.Formatter = CommandFormatter{}
	}
	d := diskv.New(diskv.Options{
		BasePath:          root,
		AdvancedTransform: advancedTransform,
		InverseTransform:  inverseTransform,
		CacheSizeMax:      1 << 20,
		PathPerm:          0o755,
		FilePerm:          0o644,
	})
	return &Store{
		root:      root,
		d:         d,
		formatter: opts.Formatter,
		now:       opts.Now,
		log:       opts.Logger,
	}, nil
}

// Root returns the directory holding the per-language snippet dirs.
func (s *Store) Root() string {
	return s.root
}

// advancedTransform maps "rust/code_1.rs" to dir ["rust"], file "code_1.rs".
func advancedTransform(key string) *diskv.PathKey {
	dir, file := filepath.Split(filepath.FromSlash(key))
	var path []string
	if dir = strings.Trim(dir, string(os.PathSeparator)); dir != "" {
		path = strings.Split(dir, string(os.PathSeparator))
	}
	return &diskv.PathKey{Path: path, FileName: file}
}

func inverseTransform(pk *diskv.PathKey) string {
	return strings.Join(append(append([]string{}, pk.Path...), pk.FileName), "/")
}

func keyFor(lang note.Language, stamp int64) string {
	return lang.Dir() + "/code_" + strconv.FormatInt(stamp, 10) + "." + lang.Extension()
}

// Save writes content as a new snippet and returns its absolute path. Rust
// content is formatted first; a formatter failure falls back to the raw
// content.
func (s *Store) Save(ctx context.Context, content string, lang note.Language) (string, error) {
	formatted, err := s.formatter.Format(ctx, lang, content)
	if err != nil {
		s.log.Warn().Err(err).Str("language", lang.String()).Msg("formatter failed, saving raw snippet")
		formatted = content
	}

	stamp := s.now().Unix()
	key := keyFor(lang, stamp)
	for s.d.Has(key) {
		stamp++
		key = keyFor(lang, stamp)
	}
	if err := s.d.Write(key, []byte(formatted)); err != nil {
		return "", fmt.Errorf("codestore: write %s: %w", key, err)
	}
	path := s.pathFor(key)
	s.log.Debug().Str("path", path).Msg("saved snippet")
	return path, nil
}

// Read returns the content of the snippet at path.
func (s *Store) Read(path string) (string, error) {
	key, ok := s.keyForPath(path)
	if !ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("codestore: read %s: %w", path, err)
		}
		return string(b), nil
	}
	b, err := s.d.Read(key)
	if err != nil {
		return "", fmt.Errorf("codestore: read %s: %w", path, err)
	}
	return string(b), nil
}

// Delete removes the snippet at path. Paths outside the store and missing
// files are ignored.
func (s *Store) Delete(path string) error {
	if path == "" {
		return nil
	}
	key, ok := s.keyForPath(path)
	if !ok {
		s.log.Debug().Str("path", path).Msg("ignoring delete outside code store")
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("codestore: delete %s: %w", path, err)
	}
	return nil
}

// ChangeLanguage moves the snippet at path into lang's directory under a
// fresh name and returns the new path.
func (s *Store) ChangeLanguage(ctx context.Context, path string, lang note.Language) (string, error) {
	content, err := s.Read(path)
	if err != nil {
		return "", err
	}
	newPath, err := s.Save(ctx, content, lang)
	if err != nil {
		return "", err
	}
	if err := s.Delete(path); err != nil {
		s.log.Warn().Err(err).Str("path", path).Msg("old snippet left behind")
	}
	return newPath, nil
}

// Contains reports whether path lives inside the store.
func (s *Store) Contains(path string) bool {
	_, ok := s.keyForPath(path)
	return ok
}

func (s *Store) pathFor(key string) string {
	pk := advancedTransform(key)
	return filepath.Join(append(append([]string{s.root}, pk.Path...), pk.FileName)...)
}

func (s *Store) keyForPath(path string) (string, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(s.root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Validate returns human readable warnings for oversized snippets.
func Validate(content string) []string {
	var warnings []string
	if len(content) > MaxSize {
		warnings = append(warnings, fmt.Sprintf("⚠️ code exceeds the %dKB limit", MaxSize/1000))
	}
	if lineCount(content) > MaxLines {
		warnings = append(warnings, fmt.Sprintf("⚠️ code exceeds the %d line limit", MaxLines))
	}
	return warnings
}

// Truncate cuts content to MaxSize bytes on a rune boundary and appends a
// marker when anything was removed.
func Truncate(content string) string {
	if len(content) <= MaxSize {
		return content
	}
	cut := MaxSize
	for cut > 0 && !isRuneStart(content[cut]) {
		cut--
	}
	return content[:cut] + truncatedMarker
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
