// Package report renders a reconciliation result for people (text) and for
// other programs (JSON, YAML). Rendering never reorders the result.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bianoble/pie-audit/internal/binary"
	"github.com/bianoble/pie-audit/internal/config"
	"github.com/bianoble/pie-audit/internal/engine"
	"gopkg.in/yaml.v3"
)

const (
	emojiPie     = "🥧"
	emojiWarning = "⚠️"
	emojiCheck   = "✅"
)

// Options controls what the text reporter prints.
type Options struct {
	Format        string
	ShowAll       bool
	Verbose       bool
	Quiet         bool
	Color         bool
	InstalledJSON string
}

// Render writes result to w in the requested format.
func Render(w io.Writer, result *engine.Result, opts Options) error {
	switch opts.Format {
	case "", config.FormatText:
		return renderText(w, result, opts)
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewDocument(result))
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(result)); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format '%s'", opts.Format)
	}
}

func renderText(w io.Writer, result *engine.Result, opts Options) error {
	st := NewStyles(opts.Color)
	p := &printer{w: w}

	// PIE omits this header at verbose level.
	if !opts.Quiet && !opts.Verbose && opts.InstalledJSON != "" {
		p.line("%s %s", st.Info.Render("Using installed.json:"), opts.InstalledJSON)
	}
	if !opts.ShowAll && !opts.Quiet {
		p.line("Tip: to include extensions in this list that PIE does not manage, use the --all flag.")
	}

	title := "Loaded PIE extensions"
	if opts.ShowAll {
		title = "All loaded extensions"
	}
	p.line("\n%s", st.Title.Render(title+":"))

	for _, m := range result.Matched {
		line := fmt.Sprintf("  %s (from %s %s)%s",
			st.Info.Render(m.Runtime.ModuleName+":"+m.Runtime.ReportedVersion),
			emojiPie,
			st.Info.Render(m.Installed.DisplayNameAndVersion()),
			integritySuffix(m, st),
		)
		if opts.Verbose {
			line += " " + st.Comment.Render("["+m.Status.String()+"]")
		}
		p.line("%s", line)
	}

	if opts.ShowAll {
		for _, rm := range result.UnmanagedLoaded {
			p.line("  %s", st.Comment.Render(rm.ModuleName+":"+rm.ReportedVersion))
		}
	} else if len(result.Matched) == 0 {
		p.line("(none)")
	}

	if len(result.InstalledNotLoaded) > 0 {
		p.line("\n %s %s", emojiWarning, st.Title.Render("PIE packages not loaded:"))
		p.line("These extensions were installed with PIE but are not currently enabled.\n")
		for _, e := range result.InstalledNotLoaded {
			p.line(" - %s", e.DisplayNameAndVersion())
		}
	}

	return p.err
}

func integritySuffix(m engine.Match, st Styles) string {
	switch m.Status {
	case engine.Verified:
		return " " + emojiCheck
	case engine.ChecksumMismatch:
		return " " + st.Warning.Render(fmt.Sprintf("%s was %s..., expected %s...",
			emojiWarning, binary.Short(m.Mismatch.Actual), binary.Short(m.Mismatch.Expected)))
	default:
		return ""
	}
}

type printer struct {
	w   io.Writer
	err error
}

func (p *printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format+"\n", args...)
}
