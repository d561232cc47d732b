package wikiquiz

// TakeView is the rendering of a take-mode instance.
type TakeView struct {
	Title     string
	Questions []TakeQuestion
	Submitted bool
	CanSubmit bool
	Score     Score
}

type TakeQuestion struct {
	Index      int
	Number     int
	Text       string
	Difficulty string
	// Explanation is only filled in after submission.
	Explanation string
	Options     []TakeOption
}

type TakeOption struct {
	Label string
	Text  string
	Mark  OptionMark
}

// Class is the CSS class list of the option.
func (o TakeOption) Class() string {
	if o.Mark == MarkNone {
		return "take-option"
	}
	return "take-option " + string(o.Mark)
}

// NewTakeView renders d with the state of t. A nil session renders as fresh.
func NewTakeView(d *QuizDetail, t *TakeSession) *TakeView {
	if d == nil {
		return nil
	}
	if t == nil {
		t = NewTakeSession()
	}
	v := &TakeView{
		Title:     d.Title,
		Submitted: t.Submitted,
		CanSubmit: t.CanSubmit(),
		Score:     t.Score(d.Quiz),
	}
	for i, q := range d.Quiz {
		tq := TakeQuestion{
			Index:      i,
			Number:     i + 1,
			Text:       q.Question,
			Difficulty: q.Difficulty,
		}
		if t.Submitted {
			tq.Explanation = q.Explanation
		}
		for j, opt := range q.Options {
			tq.Options = append(tq.Options, TakeOption{
				Label: OptionLabel(j),
				Text:  opt,
				Mark:  t.Mark(q, i, opt),
			})
		}
		v.Questions = append(v.Questions, tq)
	}
	return v
}
