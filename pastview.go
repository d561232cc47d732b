package wikiquiz

import (
	"time"

	"github.com/google/uuid"
)

const maxURLDisplay = 50

// PastQuizzesView is the state of the past quizzes tab and its detail modal.
// The list and the detail fetch keep separate error slots.
type PastQuizzesView struct {
	ID      string        `json:"id"`
	Quizzes []QuizSummary `json:"quizzes,omitempty"`
	Loading bool          `json:"loading"`
	Error   string        `json:"error,omitempty"`
	ListSeq uint64        `json:"list_seq"`

	DetailLoading bool      `json:"detail_loading"`
	DetailError   string    `json:"detail_error,omitempty"`
	Detail        QuizPanel `json:"detail"`
	DetailSeq     uint64    `json:"detail_seq"`
}

// NewPastQuizzesView mounts the view. The returned token belongs to the one
// list fetch the mount performs.
func NewPastQuizzesView() (*PastQuizzesView, Token) {
	v := &PastQuizzesView{
		ID:      uuid.NewString(),
		Loading: true,
		ListSeq: 1,
		Detail:  QuizPanel{Mode: ModeStudy},
	}
	return v, Token{View: v.ID, Seq: v.ListSeq}
}

// FinishList applies the list response.
func (v *PastQuizzesView) FinishList(tok Token, quizzes []QuizSummary, err error) bool {
	if tok.View != v.ID || tok.Seq != v.ListSeq || !v.Loading {
		return false
	}
	v.Loading = false
	if err != nil {
		v.Error = err.Error()
		return true
	}
	v.Error = ""
	v.Quizzes = quizzes
	return true
}

// OpenDetails shows the modal in its loading state. The previous quiz is
// cleared and the modal is reset to study mode before the fetch starts.
func (v *PastQuizzesView) OpenDetails() Token {
	v.DetailLoading = true
	v.DetailError = ""
	v.Detail.Clear()
	v.Detail.Mode = ModeStudy
	v.DetailSeq++
	return Token{View: v.ID, Seq: v.DetailSeq}
}

// FinishDetails applies a detail response. Stale tokens, including those of a
// load the modal was closed during, are discarded.
func (v *PastQuizzesView) FinishDetails(tok Token, quiz *QuizDetail, err error) bool {
	if tok.View != v.ID || tok.Seq != v.DetailSeq || !v.DetailLoading {
		return false
	}
	v.DetailLoading = false
	if err != nil {
		v.DetailError = err.Error()
		return true
	}
	v.Detail.Show(quiz)
	return true
}

// CloseModal hides the modal and abandons a pending load.
func (v *PastQuizzesView) CloseModal() {
	v.Detail.Clear()
	if v.DetailLoading {
		v.DetailLoading = false
		v.DetailSeq++
	}
}

// ModalOpen reports whether the detail modal is shown.
func (v *PastQuizzesView) ModalOpen() bool {
	return v.DetailLoading || v.Detail.Quiz != nil
}

// Empty reports whether the list loaded cleanly with no rows.
func (v *PastQuizzesView) Empty() bool {
	return !v.Loading && v.Error == "" && len(v.Quizzes) == 0
}

// SummaryRow is one rendered row of the quizzes table.
type SummaryRow struct {
	ID            int
	Title         string
	URL           string
	ShortURL      string
	QuestionCount int
	Date          string
}

// Rows renders the list for the table.
func (v *PastQuizzesView) Rows() []SummaryRow {
	rows := make([]SummaryRow, 0, len(v.Quizzes))
	for _, q := range v.Quizzes {
		rows = append(rows, SummaryRow{
			ID:            q.ID,
			Title:         q.Title,
			URL:           q.URL,
			ShortURL:      ShortenURL(q.URL),
			QuestionCount: q.QuestionCount,
			Date:          FormatDate(q.CreatedAt),
		})
	}
	return rows
}

// ShortenURL cuts u to 50 characters followed by an ellipsis.
func ShortenURL(u string) string {
	r := []rune(u)
	if len(r) <= maxURLDisplay {
		return u
	}
	return string(r[:maxURLDisplay]) + "…"
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// FormatDate renders a backend timestamp as "Jan 2, 2006". Unparseable
// values are returned unchanged.
func FormatDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return s
}
