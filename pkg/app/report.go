package app

import (
	"context"

	"tableflip.dev/notebox/pkg/note"
)

// ReportSection summarizes one section.
type ReportSection struct {
	Title      string
	Details    int
	WithCode   int
	ByLanguage map[note.Language]int
}

// ReportResult summarizes the whole store.
type ReportResult struct {
	Sections []ReportSection
	Details  int
	WithCode int
}

// Report counts details and snippets per section and language.
func (s *Service) Report(ctx context.Context) (ReportResult, error) {
	sections, err := s.Sections(ctx)
	if err != nil {
		return ReportResult{}, err
	}
	return Summarize(sections), nil
}

// Summarize builds a report from sections already in memory.
func Summarize(sections []note.Section) ReportResult {
	var out ReportResult
	for _, sec := range sections {
		rs := ReportSection{
			Title:      sec.Title,
			Details:    len(sec.Details),
			ByLanguage: make(map[note.Language]int),
		}
		for _, d := range sec.Details {
			if d.HasCode() {
				rs.WithCode++
				rs.ByLanguage[d.Language]++
			}
		}
		out.Details += rs.Details
		out.WithCode += rs.WithCode
		out.Sections = append(out.Sections, rs)
	}
	return out
}
