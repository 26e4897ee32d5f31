package search

import (
	"context"

	"tableflip.dev/notebox/pkg/store"
)

// LocalSearcher is the part of the store the local provider needs.
type LocalSearcher interface {
	SearchLocal(ctx context.Context, query string) ([]store.Match, error)
}

// Local searches section titles and detail titles/descriptions.
type Local struct {
	Store LocalSearcher
}

var _ Provider = Local{}

func (l Local) Search(ctx context.Context, query string) ([]Result, error) {
	matches, err := l.Store.SearchLocal(ctx, query)
	if err != nil {
		return nil, err
	}
	out := make([]Result, 0, len(matches))
	for _, m := range matches {
		if m.Detail == nil {
			out = append(out, Result{
				Title:       m.Section.Title,
				Description: "section",
				Source:      SourceLocal,
				SectionID:   m.Section.ID,
			})
			continue
		}
		out = append(out, Result{
			Title:       m.Detail.Title,
			Description: m.Detail.Description,
			Source:      SourceLocal,
			SectionID:   m.Section.ID,
			DetailID:    m.Detail.ID,
		})
	}
	return out, nil
}
