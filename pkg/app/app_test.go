package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/store"
)

type memoryPersistence struct {
	mu       sync.Mutex
	nextID   int64
	sections map[int64]note.Section
	order    []int64
	failSave error
}

func newMemoryPersistence(sections ...note.Section) *memoryPersistence {
	mp := &memoryPersistence{sections: make(map[int64]note.Section)}
	for i := range sections {
		_ = mp.SaveSection(context.Background(), &sections[i])
	}
	return mp
}

func (m *memoryPersistence) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryPersistence) LoadAll(context.Context) ([]note.Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]note.Section, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.sections[id].Clone())
	}
	return out, nil
}

func (m *memoryPersistence) SaveSection(_ context.Context, s *note.Section) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSave != nil {
		return m.failSave
	}
	if s.ID == 0 {
		s.ID = m.id()
	}
	if _, ok := m.sections[s.ID]; !ok {
		m.order = append(m.order, s.ID)
	}
	for i := range s.Details {
		s.Details[i].ID = m.id()
	}
	m.sections[s.ID] = s.Clone()
	return nil
}

func (m *memoryPersistence) DeleteSection(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sections[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.sections, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *memoryPersistence) DeleteDetail(_ context.Context, sectionID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sections[sectionID]
	if !ok {
		return store.ErrNotFound
	}
	i := s.DetailIndex(id)
	if i < 0 {
		return store.ErrNotFound
	}
	s.Details = append(s.Details[:i:i], s.Details[i+1:]...)
	m.sections[sectionID] = s
	return nil
}

func (m *memoryPersistence) SearchLocal(_ context.Context, query string) ([]store.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(query)
	var out []store.Match
	for _, id := range m.order {
		s := m.sections[id]
		for i := range s.Details {
			if strings.Contains(strings.ToLower(s.Details[i].Title), q) {
				d := s.Details[i]
				out = append(out, store.Match{Section: s, Detail: &d})
			}
		}
	}
	return out, nil
}

func (m *memoryPersistence) Stats(context.Context) (store.Stats, error) {
	return store.Stats{}, nil
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return make(chan store.Event), nil
}

func (m *memoryPersistence) Close() error { return nil }

type memoryCode struct {
	files   map[string]string
	deleted []string
	n       int
}

func newMemoryCode() *memoryCode {
	return &memoryCode{files: make(map[string]string)}
}

func (c *memoryCode) Save(_ context.Context, content string, lang note.Language) (string, error) {
	c.n++
	path := fmt.Sprintf("/code/%s/code_%d.%s", lang.Dir(), c.n, lang.Extension())
	c.files[path] = content
	return path, nil
}

func (c *memoryCode) Read(path string) (string, error) {
	content, ok := c.files[path]
	if !ok {
		return "", errors.New("missing")
	}
	return content, nil
}

func (c *memoryCode) Delete(path string) error {
	delete(c.files, path)
	c.deleted = append(c.deleted, path)
	return nil
}

func newTestService(sections ...note.Section) (*Service, *memoryPersistence, *memoryCode) {
	mp := newMemoryPersistence(sections...)
	code := newMemoryCode()
	return &Service{
		Persistence: mp,
		Code:        code,
		Now:         func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local) },
	}, mp, code
}

func TestSaveSectionTitleNormalizes(t *testing.T) {
	svc, _, _ := newTestService()
	sec, err := svc.SaveSectionTitle(context.Background(), note.Section{}, "  Rust  ")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if sec.Title != "📁 Rust" || sec.ID == 0 {
		t.Fatalf("unexpected section %+v", sec)
	}
	if _, err := svc.SaveSectionTitle(context.Background(), note.Section{}, "   "); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestSaveDetailWritesCodeAndStamps(t *testing.T) {
	svc, mp, code := newTestService(note.Section{Title: "📁 Notes"})
	secs, _ := mp.LoadAll(context.Background())

	res, err := svc.SaveDetail(context.Background(), secs[0], -1, DetailDraft{
		Title: "Hello", Description: "desc", Code: "fn main() {}", Language: note.Rust,
	})
	if err != nil {
		t.Fatalf("save detail: %v", err)
	}
	if res.Index != 0 || len(res.Section.Details) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	d := res.Section.Details[0]
	if d.CodePath != "/code/rust/code_1.rs" || code.files[d.CodePath] != "fn main() {}" {
		t.Fatalf("expected snippet written, got %q", d.CodePath)
	}
	if d.CreatedAt != "2024-01-02 03:04:05" {
		t.Fatalf("unexpected timestamp %q", d.CreatedAt)
	}
	if d.ID == 0 {
		t.Fatalf("expected store-assigned detail id")
	}
	if len(secs[0].Details) != 0 {
		t.Fatalf("caller's section must not be mutated")
	}
}

func TestSaveDetailReusesUnchangedSnippet(t *testing.T) {
	svc, mp, code := newTestService(note.Section{Title: "📁 Notes"})
	secs, _ := mp.LoadAll(context.Background())
	ctx := context.Background()

	res, err := svc.SaveDetail(ctx, secs[0], -1, DetailDraft{Title: "a", Code: "print(1)", Language: note.Python})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	path := res.Section.Details[0].CodePath

	res, err = svc.SaveDetail(ctx, res.Section, 0, DetailDraft{Title: "a2", Code: "print(1)", Language: note.Python})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if res.Section.Details[0].CodePath != path || code.n != 1 {
		t.Fatalf("expected snippet reuse, got %q after %d saves", res.Section.Details[0].CodePath, code.n)
	}

	res, err = svc.SaveDetail(ctx, res.Section, 0, DetailDraft{Title: "a3", Code: "print(1)", Language: note.None})
	if err != nil {
		t.Fatalf("language change: %v", err)
	}
	if res.Section.Details[0].CodePath == path {
		t.Fatalf("language change must write a new snippet")
	}
	if len(code.deleted) != 1 || code.deleted[0] != path {
		t.Fatalf("expected superseded snippet deleted, got %v", code.deleted)
	}
}

func TestSaveDetailFailureRollsBackSnippet(t *testing.T) {
	svc, mp, code := newTestService(note.Section{Title: "📁 Notes"})
	secs, _ := mp.LoadAll(context.Background())
	mp.failSave = errors.New("disk full")

	_, err := svc.SaveDetail(context.Background(), secs[0], -1, DetailDraft{Title: "a", Code: "x", Language: note.None})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(code.files) != 0 || len(code.deleted) != 1 {
		t.Fatalf("expected fresh snippet removed, files=%v deleted=%v", code.files, code.deleted)
	}
}

func TestSaveDetailRemovingCodeDeletesFile(t *testing.T) {
	svc, mp, code := newTestService(note.Section{Title: "📁 Notes"})
	secs, _ := mp.LoadAll(context.Background())
	ctx := context.Background()

	res, _ := svc.SaveDetail(ctx, secs[0], -1, DetailDraft{Title: "a", Code: "x", Language: note.None})
	res, err := svc.SaveDetail(ctx, res.Section, 0, DetailDraft{Title: "a"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if res.Section.Details[0].HasCode() || len(code.files) != 0 {
		t.Fatalf("expected code removed, got %+v", res.Section.Details[0])
	}
}

func TestSaveDetailValidationWarnings(t *testing.T) {
	svc, mp, _ := newTestService(note.Section{Title: "📁 Notes"})
	secs, _ := mp.LoadAll(context.Background())
	res, err := svc.SaveDetail(context.Background(), secs[0], -1, DetailDraft{
		Title: "big", Code: strings.Repeat("x\n", 1001), Language: note.None,
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
}

func TestDeleteSectionRemovesSnippets(t *testing.T) {
	svc, mp, code := newTestService(note.Section{Title: "📁 Notes"})
	ctx := context.Background()
	secs, _ := mp.LoadAll(ctx)
	res, _ := svc.SaveDetail(ctx, secs[0], -1, DetailDraft{Title: "a", Code: "x", Language: note.None})

	if err := svc.DeleteSection(ctx, res.Section); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(code.files) != 0 {
		t.Fatalf("expected snippet deleted, got %v", code.files)
	}
	if err := svc.DeleteSection(ctx, res.Section); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(code.deleted) != 1 {
		t.Fatalf("a failed delete must not touch snippets, got %v", code.deleted)
	}
}

func TestDeleteDetail(t *testing.T) {
	svc, mp, code := newTestService(note.Section{Title: "📁 Notes"})
	ctx := context.Background()
	secs, _ := mp.LoadAll(ctx)
	res, _ := svc.SaveDetail(ctx, secs[0], -1, DetailDraft{Title: "a", Code: "x", Language: note.None})
	res, _ = svc.SaveDetail(ctx, res.Section, -1, DetailDraft{Title: "b"})

	if err := svc.DeleteDetail(ctx, res.Section, res.Section.Details[0]); err != nil {
		t.Fatalf("delete detail: %v", err)
	}
	secs, _ = mp.LoadAll(ctx)
	if len(secs[0].Details) != 1 || secs[0].Details[0].Title != "b" {
		t.Fatalf("unexpected details %+v", secs[0].Details)
	}
	if len(code.files) != 0 {
		t.Fatalf("expected snippet deleted")
	}
}

func TestServiceWithoutPersistence(t *testing.T) {
	svc := &Service{}
	if _, err := svc.Sections(context.Background()); err == nil {
		t.Fatalf("expected error without persistence")
	}
}

func TestSummarize(t *testing.T) {
	r := Summarize([]note.Section{
		{Title: "a", Details: []note.Detail{{CodePath: "x", Language: note.Rust}, {}}},
		{Title: "b", Details: []note.Detail{{CodePath: "y", Language: note.Rust}}},
	})
	if r.Details != 3 || r.WithCode != 2 || r.Sections[0].ByLanguage[note.Rust] != 1 {
		t.Fatalf("unexpected report %+v", r)
	}
}
