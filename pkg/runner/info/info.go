// Package info reports where notebox keeps its data and what is in it.
package info

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/notebox/pkg/app"
	"tableflip.dev/notebox/pkg/note"
	"tableflip.dev/notebox/pkg/store"
)

type Info struct {
	Settings   *store.Settings
	ConfigFile string
	Service    *app.Service
	// Out defaults to color.Output.
	Out io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv(store.ConfigPathEnv); override != "" {
		_, _ = fmt.Fprintln(out, store.ConfigPathEnv, "found on env, using", override)
	} else {
		_, _ = fmt.Fprintln(out, store.ConfigPathEnv, "env var not set")
	}
	if n.Settings == nil {
		return errors.New("info: no settings")
	}
	if n.Service == nil || n.Service.Persistence == nil {
		return errors.New("info: no persistence")
	}

	configFile := n.ConfigFile
	if configFile == "" {
		configFile = "(defaults)"
	}
	bold := color.New(color.Bold)
	paths := uitable.New()
	paths.Separator = "  "
	paths.AddRow(bold.Sprint("config"), configFile)
	paths.AddRow(bold.Sprint("path"), n.Settings.BasePath())
	paths.AddRow(bold.Sprint("database"), n.Settings.DatabasePath())
	paths.AddRow(bold.Sprint("log"), n.Settings.LogPath())
	paths.AddRow(bold.Sprint("export"), n.Settings.Export.Dir)
	paths.RightAlign(0)
	_, _ = fmt.Fprintln(out, paths)
	_, _ = fmt.Fprintln(out, "")

	stats, err := n.Service.Persistence.Stats(ctx)
	if err != nil {
		return err
	}
	report, err := n.Service.Report(ctx)
	if err != nil {
		return err
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Section"), bold.Sprint("Details"), bold.Sprint("Code"), bold.Sprint("Languages"))
	for _, s := range report.Sections {
		tbl.AddRow(s.Title, s.Details, s.WithCode, languages(s.ByLanguage))
	}
	tbl.AddRow(bold.Sprintf("%d sections", stats.Sections), stats.Details, report.WithCode, "")
	_, _ = fmt.Fprintln(out, tbl)
	return nil
}

func languages(by map[note.Language]int) string {
	langs := make([]note.Language, 0, len(by))
	for l := range by {
		langs = append(langs, l)
	}
	sort.Slice(langs, func(i, j int) bool { return langs[i] < langs[j] })
	out := ""
	for _, l := range langs {
		if out != "" {
			out += " "
		}
		out += fmt.Sprintf("%s %d", l.Icon(), by[l])
	}
	return out
}
