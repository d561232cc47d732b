package wikiquiz

import "math"

// OptionMark is how one option of a take-mode question is shown.
type OptionMark string

const (
	MarkNone     OptionMark = ""
	MarkSelected OptionMark = "selected"
	MarkCorrect  OptionMark = "correct"
	MarkWrong    OptionMark = "wrong"
)

// TakeSession is the local state of one take-the-quiz instance. Answers maps
// a question index to the option the user picked.
type TakeSession struct {
	Answers   map[int]string `json:"answers"`
	Submitted bool           `json:"submitted"`
}

// Score is the tally shown after submission.
type Score struct {
	Correct int
	Total   int
	Percent int
}

// NewTakeSession starts a take-mode instance with no answers.
func NewTakeSession() *TakeSession {
	return &TakeSession{Answers: make(map[int]string)}
}

// Select records option as the answer to question i. It reports whether the
// answer map changed. Answers are locked once submitted.
func (t *TakeSession) Select(questions []Question, i int, option string) bool {
	if t.Submitted || i < 0 || i >= len(questions) {
		return false
	}
	if !hasOption(questions[i], option) {
		return false
	}
	if t.Answers == nil {
		t.Answers = make(map[int]string)
	}
	if prev, ok := t.Answers[i]; ok && prev == option {
		return false
	}
	t.Answers[i] = option
	return true
}

// CanSubmit reports whether the submit control is enabled.
func (t *TakeSession) CanSubmit() bool {
	return !t.Submitted && len(t.Answers) > 0
}

// Submit locks the answers. It is a no-op while nothing is answered.
func (t *TakeSession) Submit() bool {
	if !t.CanSubmit() {
		return false
	}
	t.Submitted = true
	return true
}

// Score counts the answers equal to each question's answer.
func (t *TakeSession) Score(questions []Question) Score {
	s := Score{Total: len(questions)}
	for i, q := range questions {
		if a, ok := t.Answers[i]; ok && a == q.Answer {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Percent = int(math.Round(float64(s.Correct) / float64(s.Total) * 100))
	}
	return s
}

// Mark returns how option of question i is shown.
func (t *TakeSession) Mark(q Question, i int, option string) OptionMark {
	selected := false
	if a, ok := t.Answers[i]; ok && a == option {
		selected = true
	}
	if !t.Submitted {
		if selected {
			return MarkSelected
		}
		return MarkNone
	}
	if option == q.Answer {
		return MarkCorrect
	}
	if selected {
		return MarkWrong
	}
	return MarkNone
}

func hasOption(q Question, option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}
