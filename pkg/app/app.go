package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/notebox/pkg/codestore"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/store"
)

// CodeStore is the snippet storage the service writes through.
type CodeStore interface {
	Save(ctx context.Context, content string, lang note.Language) (string, error)
	Read(path string) (string, error)
	Delete(path string) error
}

// Service provides the high-level section and detail operations shared by
// the TUI and the CLI. Memory held by callers is only replaced with what a
// successful store call returns.
type Service struct {
	Persistence store.Persistence
	Code        CodeStore
	Log         zerolog.Logger
	Now         func() time.Time
}

var (
	ErrEmptyTitle = errors.New("app: title is required")

	errNoPersistence = errors.New("app: no persistence configured")
	errNoCodeStore   = errors.New("app: no code store configured")
)

// DetailDraft is the user-entered content of a detail being added or edited.
type DetailDraft struct {
	Title       string
	Description string
	Code        string
	Language    note.Language
}

// SaveResult is the outcome of SaveDetail. Warnings carry non-fatal snippet
// validation messages.
type SaveResult struct {
	Section  note.Section
	Index    int
	Warnings []string
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Sections loads every section with its details.
func (s *Service) Sections(ctx context.Context) ([]note.Section, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.LoadAll(ctx)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}

// SaveSectionTitle creates a section (sec.ID == 0) or renames an existing
// one, returning the persisted copy.
func (s *Service) SaveSectionTitle(ctx context.Context, sec note.Section, title string) (note.Section, error) {
	if s.Persistence == nil {
		return note.Section{}, errNoPersistence
	}
	if strings.TrimSpace(title) == "" {
		return note.Section{}, ErrEmptyTitle
	}
	out := sec.Clone()
	out.Title = note.NormalizeSectionTitle(title)
	if err := s.Persistence.SaveSection(ctx, &out); err != nil {
		return note.Section{}, err
	}
	return out, nil
}

// DeleteSection removes the section and its details, then their snippet
// files on a best-effort basis.
func (s *Service) DeleteSection(ctx context.Context, sec note.Section) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := s.Persistence.DeleteSection(ctx, sec.ID); err != nil {
		return err
	}
	for _, d := range sec.Details {
		s.deleteCode(d.CodePath)
	}
	return nil
}

// DeleteDetail removes one detail row and then its snippet file.
func (s *Service) DeleteDetail(ctx context.Context, sec note.Section, d note.Detail) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := s.Persistence.DeleteDetail(ctx, sec.ID, d.ID); err != nil {
		return err
	}
	s.deleteCode(d.CodePath)
	return nil
}

// SaveDetail adds (index < 0) or replaces (index into sec.Details) a detail.
// A non-empty Code is written to the code store unless it matches the
// existing snippet in content and language. The section is saved as a
// whole; on failure a freshly written snippet is removed again and the
// caller's section is untouched. On success the replaced snippet, if any,
// is removed.
func (s *Service) SaveDetail(ctx context.Context, sec note.Section, index int, draft DetailDraft) (SaveResult, error) {
	if s.Persistence == nil {
		return SaveResult{}, errNoPersistence
	}
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return SaveResult{}, ErrEmptyTitle
	}
	if index >= len(sec.Details) {
		return SaveResult{}, fmt.Errorf("app: detail index %d out of range", index)
	}

	var previous note.Detail
	if index >= 0 {
		previous = sec.Details[index]
	}

	var (
		warnings []string
		codePath string
		written  string
	)
	if draft.Code != "" {
		reuse, err := s.sameSnippet(previous, draft)
		if err != nil {
			return SaveResult{}, err
		}
		if reuse {
			codePath = previous.CodePath
		} else {
			if s.Code == nil {
				return SaveResult{}, errNoCodeStore
			}
			warnings = codestore.Validate(draft.Code)
			path, err := s.Code.Save(ctx, codestore.Truncate(draft.Code), draft.Language)
			if err != nil {
				return SaveResult{}, err
			}
			codePath, written = path, path
		}
	}

	d := note.NewDetail(title, draft.Description, draft.Language, s.now())
	d.ID = previous.ID
	d.CodePath = codePath

	out := sec.Clone()
	if index >= 0 {
		out.Details[index] = d
	} else {
		out.Details = append(out.Details, d)
		index = len(out.Details) - 1
	}
	if err := s.Persistence.SaveSection(ctx, &out); err != nil {
		s.deleteCode(written)
		return SaveResult{}, err
	}
	if previous.CodePath != "" && previous.CodePath != codePath {
		s.deleteCode(previous.CodePath)
	}
	return SaveResult{Section: out, Index: index, Warnings: warnings}, nil
}

func (s *Service) sameSnippet(previous note.Detail, draft DetailDraft) (bool, error) {
	if !previous.HasCode() || previous.Language != draft.Language {
		return false, nil
	}
	if s.Code == nil {
		return false, errNoCodeStore
	}
	existing, err := s.Code.Read(previous.CodePath)
	if err != nil {
		s.Log.Warn().Err(err).Str("path", previous.CodePath).Msg("existing snippet unreadable, writing a new one")
		return false, nil
	}
	return existing == draft.Code, nil
}

// ReadCode returns the snippet for d, or "" when it has none.
func (s *Service) ReadCode(d note.Detail) (string, error) {
	if !d.HasCode() {
		return "", nil
	}
	if s.Code == nil {
		return "", errNoCodeStore
	}
	return s.Code.Read(d.CodePath)
}

// SearchLocal runs the store's local search.
func (s *Service) SearchLocal(ctx context.Context, query string) ([]store.Match, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.SearchLocal(ctx, query)
}

func (s *Service) deleteCode(path string) {
	if path == "" || s.Code == nil {
		return
	}
	if err := s.Code.Delete(path); err != nil {
		s.Log.Warn().Err(err).Str("path", path).Msg("could not delete snippet")
	}
}
