package wikiquiz

import (
	"strings"

	"github.com/google/uuid"
)

// MsgEmptyURL is shown when generate is pressed with a blank input.
const MsgEmptyURL = "Please enter a Wikipedia URL"

// Token identifies one in-flight backend call of a view instance. A response
// is applied only while its token is still the latest for that action.
type Token struct {
	View string
	Seq  uint64
}

// GenerateView is the state of the quiz generation tab.
type GenerateView struct {
	ID             string    `json:"id"`
	URL            string    `json:"url"`
	PreviewLoading bool      `json:"preview_loading"`
	Loading        bool      `json:"loading"`
	PreviewTitle   string    `json:"preview_title,omitempty"`
	Error          string    `json:"error,omitempty"`
	Panel          QuizPanel `json:"panel"`
	PreviewSeq     uint64    `json:"preview_seq"`
	GenerateSeq    uint64    `json:"generate_seq"`
}

// NewGenerateView mounts an empty generation view in study mode.
func NewGenerateView() *GenerateView {
	return &GenerateView{
		ID:    uuid.NewString(),
		Panel: QuizPanel{Mode: ModeStudy},
	}
}

// SetURL stores the input. Editing it clears the preview confirmation.
func (v *GenerateView) SetURL(u string) {
	if u != v.URL {
		v.PreviewTitle = ""
	}
	v.URL = u
}

// CanPreview reports whether the preview control is enabled.
func (v *GenerateView) CanPreview() bool {
	return !v.Loading && !v.PreviewLoading && strings.TrimSpace(v.URL) != ""
}

// BeginPreview starts a preview round trip. It returns false when the
// control is disabled, in which case nothing changes.
func (v *GenerateView) BeginPreview() (Token, bool) {
	if !v.CanPreview() {
		return Token{}, false
	}
	v.Error = ""
	v.PreviewTitle = ""
	v.PreviewLoading = true
	v.PreviewSeq++
	return Token{View: v.ID, Seq: v.PreviewSeq}, true
}

// FinishPreview applies a preview response. Stale tokens are discarded.
func (v *GenerateView) FinishPreview(tok Token, res *PreviewResult, err error) bool {
	if tok.View != v.ID || tok.Seq != v.PreviewSeq || !v.PreviewLoading {
		return false
	}
	v.PreviewLoading = false
	if err != nil {
		v.Error = err.Error()
		return true
	}
	if res != nil {
		v.PreviewTitle = res.Title
	}
	return true
}

// BeginGenerate starts a generate round trip. A blank input records a
// validation error and returns false without a backend call.
func (v *GenerateView) BeginGenerate() (Token, bool) {
	if v.Loading {
		return Token{}, false
	}
	v.Error = ""
	v.PreviewTitle = ""
	v.Panel.Clear()
	if strings.TrimSpace(v.URL) == "" {
		v.Error = MsgEmptyURL
		return Token{}, false
	}
	v.Loading = true
	v.GenerateSeq++
	return Token{View: v.ID, Seq: v.GenerateSeq}, true
}

// FinishGenerate applies a generate response. Stale tokens are discarded.
func (v *GenerateView) FinishGenerate(tok Token, quiz *QuizDetail, err error) bool {
	if tok.View != v.ID || tok.Seq != v.GenerateSeq || !v.Loading {
		return false
	}
	v.Loading = false
	if err != nil {
		v.Error = err.Error()
		return true
	}
	v.Panel.Show(quiz)
	v.PreviewTitle = ""
	return true
}

// TrimmedURL is the input as it is sent to the backend.
func (v *GenerateView) TrimmedURL() string {
	return strings.TrimSpace(v.URL)
}
