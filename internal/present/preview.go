package present

import "unicode/utf8"

const (
	PreviewLength = 150
	Ellipsis      = "..."
)

// Preview is the analyzed-text summary with a local show more/less toggle.
// Toggling never touches the lifecycle state.
type Preview struct {
	full     string
	expanded bool
}

func NewPreview(text string) *Preview {
	return &Preview{full: text}
}

// Chars is the character count shown next to the text.
func (p *Preview) Chars() int {
	return utf8.RuneCountInString(p.full)
}

// Expandable reports whether a show more/less control is offered.
func (p *Preview) Expandable() bool {
	return p.Chars() > PreviewLength
}

func (p *Preview) Expanded() bool {
	return p.expanded
}

// Toggle flips between preview and full text. It does nothing for short text.
func (p *Preview) Toggle() {
	if p.Expandable() {
		p.expanded = !p.expanded
	}
}

// Text is what should be displayed right now.
func (p *Preview) Text() string {
	if p.expanded || !p.Expandable() {
		return p.full
	}
	r := []rune(p.full)
	return string(r[:PreviewLength]) + Ellipsis
}

// ToggleLabel is the caption of the expansion control.
func (p *Preview) ToggleLabel() string {
	if p.expanded {
		return "Show Less"
	}
	return "Show More"
}

// Full returns the complete text regardless of expansion.
func (p *Preview) Full() string {
	return p.full
}
