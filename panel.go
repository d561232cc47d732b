package wikiquiz

// ViewMode selects how a quiz is shown.
type ViewMode string

const (
	ModeStudy ViewMode = "study"
	ModeTake  ViewMode = "take"
)

// ParseViewMode accepts "study" and "take".
func ParseViewMode(s string) (ViewMode, bool) {
	switch ViewMode(s) {
	case ModeStudy, ModeTake:
		return ViewMode(s), true
	}
	return "", false
}

// QuizPanel is a fetched quiz together with its study/take toggle. Entering
// take mode starts a fresh TakeSession; leaving it drops the session.
type QuizPanel struct {
	Quiz *QuizDetail  `json:"quiz,omitempty"`
	Mode ViewMode     `json:"mode"`
	Take *TakeSession `json:"take,omitempty"`
}

// Show replaces the quiz. The current mode is kept and any answers are cleared.
func (p *QuizPanel) Show(quiz *QuizDetail) {
	p.Quiz = quiz
	p.Take = nil
	if p.Mode == "" {
		p.Mode = ModeStudy
	}
	if quiz != nil && p.Mode == ModeTake {
		p.Take = NewTakeSession()
	}
}

// Clear drops the quiz, keeping the mode.
func (p *QuizPanel) Clear() {
	p.Quiz = nil
	p.Take = nil
}

// SetMode switches between study and take. Choosing the active mode does nothing.
func (p *QuizPanel) SetMode(m ViewMode) {
	if m == p.Mode {
		return
	}
	p.Mode = m
	p.Take = nil
	if m == ModeTake && p.Quiz != nil {
		p.Take = NewTakeSession()
	}
}

// Select records an answer in take mode.
func (p *QuizPanel) Select(i int, option string) bool {
	if p.Quiz == nil || p.Take == nil || p.Mode != ModeTake {
		return false
	}
	return p.Take.Select(p.Quiz.Quiz, i, option)
}

// Submit locks the take-mode answers.
func (p *QuizPanel) Submit() bool {
	if p.Quiz == nil || p.Take == nil || p.Mode != ModeTake {
		return false
	}
	return p.Take.Submit()
}
