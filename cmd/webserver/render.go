package main

import "wikiquiz"

type pageData struct {
	Tab      wikiquiz.Tab
	Generate *generateData
	History  *historyData
}

type generateData struct {
	View *wikiquiz.GenerateView
	// PreviewDisabled mirrors the loading flags only; a blank input is
	// caught when the preview is posted.
	PreviewDisabled bool
	Panel           *panelData
}

type historyData struct {
	View  *wikiquiz.PastQuizzesView
	Rows  []wikiquiz.SummaryRow
	Modal bool
	Panel *panelData
}

// panelData renders a quiz in study or take mode. Prefix is prepended to the
// form actions so the same templates serve the generate tab and the modal.
type panelData struct {
	Prefix string
	Mode   wikiquiz.ViewMode
	Study  *wikiquiz.StudyView
	Take   *wikiquiz.TakeView
}

func newPanelData(prefix string, p *wikiquiz.QuizPanel) *panelData {
	if p.Quiz == nil {
		return nil
	}
	pd := &panelData{Prefix: prefix, Mode: p.Mode}
	if p.Mode == wikiquiz.ModeTake {
		pd.Take = wikiquiz.NewTakeView(p.Quiz, p.Take)
	} else {
		pd.Mode = wikiquiz.ModeStudy
		pd.Study = wikiquiz.NewStudyView(p.Quiz)
	}
	return pd
}

func newPageData(shell *wikiquiz.Shell) pageData {
	switch {
	case shell.Tab == wikiquiz.TabHistory && shell.History != nil:
		v := shell.History
		return pageData{
			Tab: wikiquiz.TabHistory,
			History: &historyData{
				View:  v,
				Rows:  v.Rows(),
				Modal: v.ModalOpen(),
				Panel: newPanelData("/history", &v.Detail),
			},
		}
	case shell.Tab == wikiquiz.TabGenerate && shell.Generate != nil:
		v := shell.Generate
		return pageData{
			Tab: wikiquiz.TabGenerate,
			Generate: &generateData{
				View:            v,
				PreviewDisabled: v.Loading || v.PreviewLoading,
				Panel:           newPanelData("", &v.Panel),
			},
		}
	default:
		return newPageData(wikiquiz.NewShell())
	}
}
