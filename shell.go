package wikiquiz

import "time"

// Tab names a top level view.
type Tab string

const (
	TabGenerate Tab = "generate"
	TabHistory  Tab = "history"
)

// ParseTab accepts "generate" and "history".
func ParseTab(s string) (Tab, bool) {
	switch Tab(s) {
	case TabGenerate, TabHistory:
		return Tab(s), true
	}
	return "", false
}

// Shell is everything one visitor sees. Only the active tab's view exists;
// switching tabs discards it and mounts a fresh instance of the other one.
type Shell struct {
	Tab       Tab              `json:"tab"`
	Generate  *GenerateView    `json:"generate,omitempty"`
	History   *PastQuizzesView `json:"history,omitempty"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// NewShell opens on the generate tab.
func NewShell() *Shell {
	return &Shell{
		Tab:      TabGenerate,
		Generate: NewGenerateView(),
	}
}

// SelectTab switches tabs. When the history view gets mounted it returns the
// token of its list fetch and true.
func (s *Shell) SelectTab(t Tab) (Token, bool) {
	if t == s.Tab {
		return Token{}, false
	}
	s.Tab = t
	switch t {
	case TabHistory:
		s.Generate = nil
		v, tok := NewPastQuizzesView()
		s.History = v
		return tok, true
	default:
		s.History = nil
		s.Generate = NewGenerateView()
		return Token{}, false
	}
}
