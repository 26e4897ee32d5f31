package codestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/notebox/pkg/note"
)

type fakeFormatter struct {
	out   string
	err   error
	calls int
}

func (f *fakeFormatter) Format(_ context.Context, lang note.Language, content string) (string, error) {
	f.calls++
	if lang != note.Rust {
		return content, nil
	}
	if f.err != nil {
		return content, f.err
	}
	return f.out, nil
}

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

func newTestStore(t *testing.T, f Formatter) (*Store, string) {
	t.Helper()
	base := t.TempDir()
	s, err := New(Options{BasePath: base, Formatter: f, Now: fixedClock(1700000000)})
	require.NoError(t, err)
	return s, base
}

func TestSaveWritesPerLanguagePath(t *testing.T) {
	s, base := newTestStore(t, &fakeFormatter{})
	ctx := context.Background()

	path, err := s.Save(ctx, "print('hi')\n", note.Python)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "code", "python", "code_1700000000.py"), path)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(b))

	path, err = s.Save(ctx, "notes", note.None)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "code", "text", "code_1700000000.txt"), path)
}

func TestSaveBumpsTimestampOnCollision(t *testing.T) {
	s, base := newTestStore(t, &fakeFormatter{out: "fn main() {}\n"})
	ctx := context.Background()

	first, err := s.Save(ctx, "fn main(){}", note.Rust)
	require.NoError(t, err)
	second, err := s.Save(ctx, "fn main(){}", note.Rust)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "code", "rust", "code_1700000000.rs"), first)
	assert.Equal(t, filepath.Join(base, "code", "rust", "code_1700000001.rs"), second)
}

func TestSaveFormatsRustAndFallsBack(t *testing.T) {
	f := &fakeFormatter{out: "fn main() {}\n"}
	s, _ := newTestStore(t, f)
	ctx := context.Background()

	path, err := s.Save(ctx, "fn main(){}", note.Rust)
	require.NoError(t, err)
	got, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "fn main() {}\n", got)

	f.err = errors.New("rustfmt exploded")
	path, err = s.Save(ctx, "fn broken(", note.Rust)
	require.NoError(t, err)
	got, err = s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "fn broken(", got)
}

func TestDeleteIsBestEffort(t *testing.T) {
	s, _ := newTestStore(t, &fakeFormatter{})
	ctx := context.Background()

	path, err := s.Save(ctx, "x", note.None)
	require.NoError(t, err)
	require.NoError(t, s.Delete(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(path), "missing file is not an error")
	assert.NoError(t, s.Delete(""))

	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("keep"), 0o644))
	assert.NoError(t, s.Delete(outside))
	_, err = os.Stat(outside)
	assert.NoError(t, err, "files outside the store are never removed")
}

func TestChangeLanguageMovesSnippet(t *testing.T) {
	s, base := newTestStore(t, &fakeFormatter{})
	ctx := context.Background()

	old, err := s.Save(ctx, "x = 1", note.Python)
	require.NoError(t, err)

	moved, err := s.ChangeLanguage(ctx, old, note.None)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "code", "text", "code_1700000000.txt"), moved)
	assert.False(t, fileExists(old), "old snippet removed")

	got, err := s.Read(moved)
	require.NoError(t, err)
	assert.Equal(t, "x = 1", got)
}

func TestContains(t *testing.T) {
	s, base := newTestStore(t, &fakeFormatter{})
	assert.True(t, s.Contains(filepath.Join(base, "code", "rust", "code_1.rs")))
	assert.False(t, s.Contains(filepath.Join(base, "notebox.db")))
	assert.False(t, s.Contains(filepath.Join(base, "code", "..", "notebox.db")))
}

func TestValidateAndTruncate(t *testing.T) {
	assert.Empty(t, Validate("fn main() {}\n"))

	big := strings.Repeat("a", MaxSize+1)
	warnings := Validate(big)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "50KB")

	long := strings.Repeat("x\n", MaxLines+1)
	warnings = Validate(long)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "1000 line")

	assert.Equal(t, "short", Truncate("short"))
	cut := Truncate(big)
	assert.True(t, strings.HasSuffix(cut, truncatedMarker))
	assert.Len(t, cut, MaxSize+len(truncatedMarker))

	wide := strings.Repeat("é", MaxSize)
	assert.True(t, strings.HasSuffix(Truncate(wide), truncatedMarker))
	assert.True(t, strings.HasPrefix(Truncate(wide), "éé"))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
