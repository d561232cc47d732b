package wikiquiz

import (
	"errors"
	"testing"
)

func sampleQuiz(title string) *QuizDetail {
	return &QuizDetail{ID: 1, Title: title, URL: "https://en.wikipedia.org/wiki/" + title, Quiz: sampleQuestions()}
}

func TestPreviewBlankIsNoop(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		v := NewGenerateView()
		v.Error = "previous"
		v.SetURL(in)
		if v.CanPreview() {
			t.Fatalf("preview enabled for %q", in)
		}
		if _, ok := v.BeginPreview(); ok {
			t.Fatalf("preview started for %q", in)
		}
		if v.PreviewLoading || v.Error != "previous" {
			t.Fatalf("blank preview changed state: %+v", v)
		}
	}
}

func TestPreviewRoundTrip(t *testing.T) {
	v := NewGenerateView()
	v.SetURL("https://en.wikipedia.org/wiki/Alan_Turing")
	v.Error = "old"

	tok, ok := v.BeginPreview()
	if !ok || !v.PreviewLoading || v.Error != "" {
		t.Fatalf("BeginPreview: ok=%v state=%+v", ok, v)
	}
	if v.CanPreview() {
		t.Fatal("preview must be disabled while loading")
	}
	if !v.FinishPreview(tok, &PreviewResult{Valid: true, Title: "Alan Turing"}, nil) {
		t.Fatal("current token must apply")
	}
	if v.PreviewLoading || v.PreviewTitle != "Alan Turing" {
		t.Fatalf("after preview: %+v", v)
	}

	v.SetURL("https://en.wikipedia.org/wiki/Alan_Turing")
	if v.PreviewTitle != "Alan Turing" {
		t.Fatal("unchanged input must keep the confirmation")
	}
	v.SetURL("https://en.wikipedia.org/wiki/Enigma")
	if v.PreviewTitle != "" {
		t.Fatal("editing the input must clear the confirmation")
	}
}

func TestPreviewFailure(t *testing.T) {
	v := NewGenerateView()
	v.SetURL("https://example.com/nope")
	tok, _ := v.BeginPreview()
	v.FinishPreview(tok, nil, &APIError{Status: 400, Message: "Invalid Wikipedia URL"})
	if v.PreviewLoading || v.Error != "Invalid Wikipedia URL" || v.PreviewTitle != "" {
		t.Fatalf("after failed preview: %+v", v)
	}
}

func TestGenerateEmptyURL(t *testing.T) {
	v := NewGenerateView()
	v.Panel.Show(sampleQuiz("Old"))
	v.PreviewTitle = "Old"
	v.SetURL("  ")

	if _, ok := v.BeginGenerate(); ok {
		t.Fatal("blank generate must not reach the backend")
	}
	if v.Error != MsgEmptyURL || v.Loading || v.Panel.Quiz != nil || v.PreviewTitle != "" {
		t.Fatalf("after blank generate: %+v", v)
	}
}

func TestGenerateRoundTrip(t *testing.T) {
	v := NewGenerateView()
	v.SetURL(" https://en.wikipedia.org/wiki/Alan_Turing ")
	if v.TrimmedURL() != "https://en.wikipedia.org/wiki/Alan_Turing" {
		t.Fatalf("TrimmedURL() = %q", v.TrimmedURL())
	}
	pt, _ := v.BeginPreview()
	v.FinishPreview(pt, &PreviewResult{Title: "Alan Turing"}, nil)

	tok, ok := v.BeginGenerate()
	if !ok || !v.Loading || v.PreviewTitle != "" {
		t.Fatalf("BeginGenerate: ok=%v state=%+v", ok, v)
	}
	if _, again := v.BeginGenerate(); again {
		t.Fatal("generate must be disabled while loading")
	}
	if _, ok := v.BeginPreview(); ok {
		t.Fatal("preview must be disabled while generating")
	}

	quiz := sampleQuiz("Alan_Turing")
	v.FinishGenerate(tok, quiz, nil)
	if v.Loading || v.Panel.Quiz != quiz || v.Error != "" {
		t.Fatalf("after generate: %+v", v)
	}

	tok, _ = v.BeginGenerate()
	if v.Panel.Quiz != nil {
		t.Fatal("a new generate clears the previous quiz")
	}
	v.FinishGenerate(tok, nil, errors.New("Failed to generate quiz"))
	if v.Loading || v.Error != "Failed to generate quiz" || v.Panel.Quiz != nil {
		t.Fatalf("after failed generate: %+v", v)
	}
}

func TestGenerateKeepsMode(t *testing.T) {
	v := NewGenerateView()
	v.SetURL("https://en.wikipedia.org/wiki/A")
	v.Panel.SetMode(ModeTake)

	tok, _ := v.BeginGenerate()
	v.FinishGenerate(tok, sampleQuiz("A"), nil)
	if v.Panel.Mode != ModeTake || v.Panel.Take == nil || len(v.Panel.Take.Answers) != 0 {
		t.Fatalf("a quiz generated in take mode starts a fresh take: %+v", v.Panel)
	}
}

func TestStaleResponsesAreDiscarded(t *testing.T) {
	v := NewGenerateView()
	v.SetURL("https://en.wikipedia.org/wiki/A")

	first, _ := v.BeginPreview()
	v.FinishPreview(first, &PreviewResult{Title: "A"}, nil)
	second, _ := v.BeginPreview()

	if v.FinishPreview(first, &PreviewResult{Title: "stale"}, nil) {
		t.Fatal("an old token must not apply")
	}
	if !v.PreviewLoading {
		t.Fatal("stale response must not clear the loading flag")
	}
	v.FinishPreview(second, &PreviewResult{Title: "A"}, nil)
	if v.PreviewTitle != "A" {
		t.Fatalf("PreviewTitle = %q", v.PreviewTitle)
	}

	other := NewGenerateView()
	other.SetURL("https://en.wikipedia.org/wiki/A")
	tok, _ := v.BeginGenerate()
	other.BeginGenerate()
	if other.FinishGenerate(tok, sampleQuiz("A"), nil) {
		t.Fatal("a token of another view instance must not apply")
	}
}

func TestPanelModeToggle(t *testing.T) {
	p := QuizPanel{Mode: ModeStudy}
	quiz := sampleQuiz("A")
	p.Show(quiz)

	p.SetMode(ModeTake)
	if p.Take == nil || p.Quiz != quiz {
		t.Fatalf("entering take mode: %+v", p)
	}
	p.Select(0, "Paris")

	p.SetMode(ModeTake)
	if len(p.Take.Answers) != 1 {
		t.Fatal("choosing the active mode must change nothing")
	}

	p.SetMode(ModeStudy)
	if p.Quiz != quiz || p.Take != nil {
		t.Fatalf("leaving take mode keeps the quiz: %+v", p)
	}
	if p.Select(0, "Paris") || p.Submit() {
		t.Fatal("study mode ignores answers")
	}

	p.SetMode(ModeTake)
	if len(p.Take.Answers) != 0 {
		t.Fatal("re-entering take mode starts with no answers")
	}
}

func TestParseViewMode(t *testing.T) {
	if m, ok := ParseViewMode("take"); !ok || m != ModeTake {
		t.Fatalf("ParseViewMode(take) = %q, %v", m, ok)
	}
	if _, ok := ParseViewMode("quiz"); ok {
		t.Fatal("unknown mode accepted")
	}
}
