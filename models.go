package wikiquiz

// QuizSummary is one row of the past quizzes list.
type QuizSummary struct {
	ID            int    `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	QuestionCount int    `json:"question_count"`
	CreatedAt     string `json:"created_at"`
}

// KeyEntities groups the names the backend extracted from an article.
type KeyEntities struct {
	People        []string `json:"people,omitempty"`
	Organizations []string `json:"organizations,omitempty"`
	Locations     []string `json:"locations,omitempty"`
}

// Question is a single multiple choice question. Answer equals one of Options.
type Question struct {
	ID          *int     `json:"id,omitempty"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Difficulty  string   `json:"difficulty"`
	Explanation string   `json:"explanation,omitempty"`
	Section     string   `json:"section,omitempty"`
	SortOrder   int      `json:"sort_order,omitempty"`
}

// QuizDetail is the full generated content for one article.
type QuizDetail struct {
	ID            int          `json:"id,omitempty"`
	Title         string       `json:"title"`
	URL           string       `json:"url"`
	Summary       string       `json:"summary,omitempty"`
	Sections      []string     `json:"sections,omitempty"`
	Quiz          []Question   `json:"quiz"`
	RelatedTopics []string     `json:"related_topics,omitempty"`
	KeyEntities   *KeyEntities `json:"key_entities,omitempty"`
	CreatedAt     string       `json:"created_at,omitempty"`
}

// PreviewResult is the answer of the preview endpoint.
type PreviewResult struct {
	Valid bool   `json:"valid"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GenerateRequest is the body of POST /generate.
type GenerateRequest struct {
	URL string `json:"url"`
}
