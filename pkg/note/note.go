// Package note holds the section/detail records managed by notebox and the
// enums that describe the interactive session.
package note

import (
	"strings"
	"time"

	"tableflip.dev/notebox/pkg/glyph"
)

// TimestampLayout is the format used for Detail.CreatedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// DefaultSectionTitle is seeded into an empty store.
const DefaultSectionTitle = glyph.Folder + " Notes"

// Section is a top-level grouping of details. An ID of 0 means the section
// has not been persisted yet.
type Section struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Details []Detail `json:"details"`
}

// Detail is a single note inside a section, optionally pointing at a code
// snippet stored on disk.
type Detail struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	CodePath    string   `json:"code_path,omitempty"`
	Language    Language `json:"language"`
	CreatedAt   string   `json:"created_at"`
}

// NewDetail returns a detail stamped with the given time.
func NewDetail(title, description string, lang Language, now time.Time) Detail {
	return Detail{
		Title:       title,
		Description: description,
		Language:    lang,
		CreatedAt:   Timestamp(now),
	}
}

// HasCode reports whether the detail references a snippet file.
func (d Detail) HasCode() bool {
	return d.CodePath != ""
}

// Timestamp formats t with TimestampLayout in local time.
func Timestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// Clone returns a deep copy so callers can mutate details without touching
// the original slice.
func (s Section) Clone() Section {
	out := s
	if s.Details != nil {
		out.Details = make([]Detail, len(s.Details))
		copy(out.Details, s.Details)
	}
	return out
}

// DetailIndex returns the index of the detail with id, or -1.
func (s Section) DetailIndex(id int64) int {
	for i := range s.Details {
		if s.Details[i].ID == id {
			return i
		}
	}
	return -1
}

// NormalizeSectionTitle trims title and makes sure it carries the folder
// glyph prefix.
func NormalizeSectionTitle(title string) string {
	title = strings.TrimSpace(title)
	if strings.HasPrefix(title, glyph.Folder) {
		return title
	}
	return glyph.Folder + " " + title
}

// StripSectionGlyph removes the folder glyph prefix added by
// NormalizeSectionTitle.
func StripSectionGlyph(title string) string {
	if rest, ok := strings.CutPrefix(title, glyph.Folder); ok {
		return strings.TrimLeft(rest, " ")
	}
	return title
}
