package wikiquiz

import (
	"net/url"
	"strings"
)

const (
	maxSections   = 10
	wikipediaWiki = "https://en.wikipedia.org/wiki/"
)

// StudyView is the read-only rendering of a quiz with the answers revealed.
type StudyView struct {
	Title         string
	URL           string
	Summary       string
	Sections      []string
	MoreSections  bool
	Entities      []EntityGroup
	Questions     []StudyQuestion
	RelatedTopics []TopicLink
}

// SectionsLine joins the shown section names the way they are displayed.
func (v StudyView) SectionsLine() string {
	line := strings.Join(v.Sections, " • ")
	if v.MoreSections {
		line += " …"
	}
	return line
}

type EntityGroup struct {
	Label string
	Names []string
}

// Joined returns the names separated by commas.
func (g EntityGroup) Joined() string {
	return strings.Join(g.Names, ", ")
}

type StudyQuestion struct {
	Number      int
	Text        string
	Difficulty  string
	Section     string
	Explanation string
	Options     []StudyOption
}

type StudyOption struct {
	Label   string
	Text    string
	Correct bool
}

type TopicLink struct {
	Name string
	Href string
}

// NewStudyView builds the study rendering. Missing optional fields are left out.
func NewStudyView(d *QuizDetail) *StudyView {
	if d == nil {
		return nil
	}
	v := &StudyView{
		Title:   d.Title,
		URL:     d.URL,
		Summary: d.Summary,
	}

	if n := len(d.Sections); n > 0 {
		shown := d.Sections
		if n > maxSections {
			shown = d.Sections[:maxSections]
			v.MoreSections = true
		}
		v.Sections = append([]string(nil), shown...)
	}

	if e := d.KeyEntities; e != nil {
		for _, g := range []EntityGroup{
			{Label: "People", Names: e.People},
			{Label: "Organizations", Names: e.Organizations},
			{Label: "Locations", Names: e.Locations},
		} {
			if len(g.Names) > 0 {
				v.Entities = append(v.Entities, g)
			}
		}
	}

	for i, q := range d.Quiz {
		sq := StudyQuestion{
			Number:      i + 1,
			Text:        q.Question,
			Difficulty:  q.Difficulty,
			Section:     q.Section,
			Explanation: q.Explanation,
		}
		for j, opt := range q.Options {
			sq.Options = append(sq.Options, StudyOption{
				Label:   OptionLabel(j),
				Text:    opt,
				Correct: opt == q.Answer,
			})
		}
		v.Questions = append(v.Questions, sq)
	}

	for _, topic := range d.RelatedTopics {
		v.RelatedTopics = append(v.RelatedTopics, TopicLink{Name: topic, Href: WikipediaURL(topic)})
	}
	return v
}

// OptionLabel is the letter shown in front of the option at position i.
func OptionLabel(i int) string {
	return string(rune('A' + i))
}

// WikipediaURL links to the English Wikipedia article named topic.
func WikipediaURL(topic string) string {
	return wikipediaWiki + url.QueryEscape(strings.ReplaceAll(topic, " ", "_"))
}
