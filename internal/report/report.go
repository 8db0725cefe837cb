// Package report writes a finished verification to a .docx file.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/gingfrederik/docx"

	"newsverifier/internal/present"
	"newsverifier/internal/score"
	"newsverifier/internal/verify"
)

const separator = "--------------------------------------------------"

// Entry is one verified text together with its outcome.
type Entry struct {
	Text      string
	Result    *verify.Result
	Simulated bool
	At        time.Time
}

var tierColors = map[score.Tier]string{
	score.Low:    "DC2626",
	score.Medium: "CA8A04",
	score.High:   "16A34A",
}

// Write saves a report covering every entry to path.
func Write(path string, entries []Entry) error {
	if len(entries) == 0 {
		return fmt.Errorf("nothing to report")
	}

	f := docx.NewFile()

	p := f.AddParagraph()
	run := p.AddText("News Verification Report")
	run.Size(20)
	f.AddParagraph() // Spacer

	for _, e := range entries {
		if e.Result == nil {
			return fmt.Errorf("entry %q has no result", preview(e.Text))
		}
		writeEntry(f, e)
		f.AddParagraph().AddText(separator)
	}

	return f.Save(path)
}

func writeEntry(f *docx.File, e Entry) {
	v := present.Build(e.Result)

	mode := "live"
	if e.Simulated {
		mode = "simulated"
	}
	p := f.AddParagraph()
	run := p.AddText(fmt.Sprintf("Verified: %s | Mode: %s", e.At.Format(time.RFC1123), mode))
	run.Size(10)
	run.Color("808080")

	// Analyzed text
	p = f.AddParagraph()
	run = p.AddText(fmt.Sprintf("Analyzed Text (%d characters)", present.NewPreview(e.Text).Chars()))
	run.Size(14)
	for _, para := range strings.Split(e.Text, "\n\n") {
		if para = strings.TrimSpace(para); para != "" {
			f.AddParagraph().AddText(para)
		}
	}
	f.AddParagraph()

	gauge(f, v.Headline, 16)
	p = f.AddParagraph()
	run = p.AddText("Verdict: " + v.Verdict.Label)
	if v.Verdict.Positive {
		run.Color(tierColors[score.High])
	} else {
		run.Color(tierColors[score.Low])
	}
	f.AddParagraph()

	p = f.AddParagraph()
	p.AddText("Detailed Analysis").Size(14)
	for _, g := range v.Breakdown.All() {
		gauge(f, g, 11)
	}
	f.AddParagraph()

	p = f.AddParagraph()
	p.AddText("Related Sources").Size(14)
	if len(v.Sources) == 0 {
		f.AddParagraph().AddText("None")
	}
	for _, s := range v.Sources {
		f.AddParagraph().AddText(fmt.Sprintf("%s (%s)", s.Title, s.Match))
		run = f.AddParagraph().AddText(s.Reference)
		run.Size(10)
		run.Color("0000FF")
	}
	f.AddParagraph()

	p = f.AddParagraph()
	p.AddText("Verification Process").Size(14)
	if v.Timeline.Empty {
		f.AddParagraph().AddText(present.NoTimelineMessage)
		return
	}
	for i, st := range v.Timeline.Steps {
		f.AddParagraph().AddText(fmt.Sprintf("%d. %s [%s]: %s", i+1, st.Title, st.Status, st.Result))
	}
}

func gauge(f *docx.File, g present.Gauge, size int) {
	run := f.AddParagraph().AddText(fmt.Sprintf("%s: %s (%s)", g.Label, g.Text(), g.Tier))
	run.Size(size)
	run.Color(tierColors[g.Tier])
}

func preview(s string) string {
	p := present.NewPreview(s)
	return p.Text()
}
