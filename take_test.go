package wikiquiz

import "testing"

func sampleQuestions() []Question {
	return []Question{
		{Question: "Capital of France?", Options: []string{"Paris", "London", "Berlin"}, Answer: "Paris", Difficulty: "easy"},
		{Question: "2+2?", Options: []string{"3", "4"}, Answer: "4", Difficulty: "easy"},
		{Question: "Largest planet?", Options: []string{"Mars", "Jupiter", "Venus"}, Answer: "Jupiter", Difficulty: "medium"},
	}
}

func TestScore(t *testing.T) {
	qs := sampleQuestions()
	tests := []struct {
		name    string
		answers map[int]string
		qs      []Question
		want    Score
	}{
		{"none", map[int]string{}, qs, Score{Correct: 0, Total: 3, Percent: 0}},
		{"one of three", map[int]string{0: "Paris", 1: "3"}, qs, Score{Correct: 1, Total: 3, Percent: 33}},
		{"two of three", map[int]string{0: "Paris", 1: "4"}, qs, Score{Correct: 2, Total: 3, Percent: 67}},
		{"all", map[int]string{0: "Paris", 1: "4", 2: "Jupiter"}, qs, Score{Correct: 3, Total: 3, Percent: 100}},
		{"half rounds up", map[int]string{0: "Paris"}, qs[:2], Score{Correct: 1, Total: 2, Percent: 50}},
		{"empty quiz", map[int]string{}, nil, Score{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &TakeSession{Answers: tt.answers}
			if got := s.Score(tt.qs); got != tt.want {
				t.Fatalf("Score() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSubmitRequiresAnAnswer(t *testing.T) {
	qs := sampleQuestions()
	s := NewTakeSession()
	if s.CanSubmit() {
		t.Fatal("submit must be unavailable with no answers")
	}
	if s.Submit() || s.Submitted {
		t.Fatal("submit with no answers must be a no-op")
	}
	if !s.Select(qs, 1, "3") {
		t.Fatal("first selection should be recorded")
	}
	if !s.CanSubmit() {
		t.Fatal("submit must be available after one answer")
	}
	if !s.Submit() || !s.Submitted {
		t.Fatal("submit should lock the session")
	}
	if s.CanSubmit() || s.Submit() {
		t.Fatal("submit is irreversible and cannot be repeated")
	}
}

func TestSelectLockedAfterSubmit(t *testing.T) {
	qs := sampleQuestions()
	s := NewTakeSession()
	s.Select(qs, 0, "London")
	s.Select(qs, 0, "Paris")
	if s.Answers[0] != "Paris" {
		t.Fatalf("selection should overwrite, got %q", s.Answers[0])
	}
	s.Submit()

	if s.Select(qs, 0, "Berlin") || s.Select(qs, 2, "Mars") {
		t.Fatal("selection after submit must be a no-op")
	}
	if len(s.Answers) != 1 || s.Answers[0] != "Paris" {
		t.Fatalf("answers changed after submit: %v", s.Answers)
	}
}

func TestSelectIgnoresUnknownInput(t *testing.T) {
	qs := sampleQuestions()
	s := NewTakeSession()
	if s.Select(qs, 5, "Paris") || s.Select(qs, -1, "Paris") || s.Select(qs, 0, "Rome") {
		t.Fatal("out of range or unknown options must be ignored")
	}
	if len(s.Answers) != 0 {
		t.Fatalf("answers = %v", s.Answers)
	}
}

func TestMark(t *testing.T) {
	qs := sampleQuestions()
	s := NewTakeSession()
	s.Select(qs, 0, "London")

	if got := s.Mark(qs[0], 0, "London"); got != MarkSelected {
		t.Fatalf("before submit selected = %q", got)
	}
	if got := s.Mark(qs[0], 0, "Paris"); got != MarkNone {
		t.Fatalf("before submit the answer must stay hidden, got %q", got)
	}

	s.Submit()
	want := map[string]OptionMark{"Paris": MarkCorrect, "London": MarkWrong, "Berlin": MarkNone}
	for opt, m := range want {
		if got := s.Mark(qs[0], 0, opt); got != m {
			t.Fatalf("after submit %s = %q, want %q", opt, got, m)
		}
	}
	if got := s.Mark(qs[1], 1, "4"); got != MarkCorrect {
		t.Fatalf("unanswered question still reveals the correct option, got %q", got)
	}
}

func TestTakeView(t *testing.T) {
	d := &QuizDetail{Title: "Geo", Quiz: sampleQuestions()}
	d.Quiz[0].Explanation = "Paris is the capital."

	v := NewTakeView(d, nil)
	if v.Submitted || v.CanSubmit || v.Questions[0].Explanation != "" {
		t.Fatalf("fresh take view = %+v", v)
	}

	s := NewTakeSession()
	s.Select(d.Quiz, 0, "Paris")
	s.Submit()
	v = NewTakeView(d, s)
	if v.Score != (Score{Correct: 1, Total: 3, Percent: 33}) {
		t.Fatalf("score = %+v", v.Score)
	}
	if v.Questions[0].Explanation != "Paris is the capital." {
		t.Fatal("explanation must show after submit")
	}
	if got := v.Questions[0].Options[0].Class(); got != "take-option correct" {
		t.Fatalf("class = %q", got)
	}
	if got := v.Questions[0].Options[1].Class(); got != "take-option" {
		t.Fatalf("class = %q", got)
	}
}
