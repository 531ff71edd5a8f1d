package dashboard

import (
	"resumeiq/internal/present"
	"resumeiq/internal/shared/auth"
	"resumeiq/internal/upload"
	"resumeiq/internal/workflow"
)

type page struct {
	Title        string
	Refresh      bool
	Tab          workflow.Tab
	User         auth.Identity
	Accept       string
	MaxSizeLabel string
	Analyze      analyzePanel
	Compare      comparePanel
}

type analyzePanel struct {
	State    workflow.AnalyzeState
	FileSize string
	Loading  bool
	View     *present.AnalysisView
}

type comparePanel struct {
	State   workflow.CompareState
	Loading bool
	View    *present.ComparisonView
}

func buildPage(ws *workflow.Workspace, tab workflow.Tab, user auth.Identity) page {
	gate := ws.Analyze.Gate()
	p := page{
		Title:        "ResumeIQ",
		Tab:          tab,
		User:         user,
		Accept:       gate.Accept(),
		MaxSizeLabel: gate.LimitLabel(),
		Analyze:      newAnalyzePanel(ws.Analyze.State()),
		Compare:      newComparePanel(ws.Compare.State()),
	}
	switch tab {
	case workflow.TabCompare:
		p.Refresh = p.Compare.Loading
	default:
		p.Refresh = p.Analyze.Loading
	}
	return p
}

func newAnalyzePanel(st workflow.AnalyzeState) analyzePanel {
	panel := analyzePanel{State: st, Loading: st.Phase == workflow.PhaseLoading}
	if st.File != nil {
		panel.FileSize = present.SizeKB(st.File.Size)
	}
	if st.Result != nil {
		view := present.Analysis(*st.Result)
		panel.View = &view
	}
	return panel
}

func newComparePanel(st workflow.CompareState) comparePanel {
	panel := comparePanel{State: st, Loading: st.Phase == workflow.PhaseLoading}
	if st.Result != nil {
		view := present.SelectComparison(st.Result.ComparisonText)
		panel.View = &view
	}
	return panel
}

type fileResponse struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SizeLabel   string `json:"sizeLabel"`
	ContentType string `json:"contentType"`
	Pages       int    `json:"pages,omitempty"`
}

type analyzeResponse struct {
	Phase       workflow.Phase        `json:"phase"`
	Error       string                `json:"error,omitempty"`
	GateMessage string                `json:"gateMessage,omitempty"`
	File        *fileResponse         `json:"file,omitempty"`
	Result      *present.AnalysisView `json:"result,omitempty"`
}

type compareResponse struct {
	Phase            workflow.Phase          `json:"phase"`
	Error            string                  `json:"error,omitempty"`
	ResumeText       string                  `json:"resumeText"`
	JobDescription   string                  `json:"jobDescription"`
	HandoffAvailable bool                    `json:"handoffAvailable"`
	Result           *present.ComparisonView `json:"result,omitempty"`
}

type workspaceResponse struct {
	Tab     workflow.Tab    `json:"tab"`
	Analyze analyzeResponse `json:"analyze"`
	Compare compareResponse `json:"compare"`
}

func toWorkspaceResponse(ws *workflow.Workspace) workspaceResponse {
	a := newAnalyzePanel(ws.Analyze.State())
	cp := newComparePanel(ws.Compare.State())
	resp := workspaceResponse{
		Tab: ws.Active(),
		Analyze: analyzeResponse{
			Phase:       a.State.Phase,
			Error:       a.State.Error,
			GateMessage: a.State.GateMessage,
			File:        toFileResponse(a.State.File),
			Result:      a.View,
		},
		Compare: compareResponse{
			Phase:            cp.State.Phase,
			Error:            cp.State.Error,
			ResumeText:       cp.State.ResumeText,
			JobDescription:   cp.State.JobDescription,
			HandoffAvailable: cp.State.HandoffAvailable,
			Result:           cp.View,
		},
	}
	return resp
}

func toFileResponse(f *upload.File) *fileResponse {
	if f == nil {
		return nil
	}
	return &fileResponse{
		Name:        f.Name,
		Size:        f.Size,
		SizeLabel:   present.SizeKB(f.Size),
		ContentType: f.ContentType,
		Pages:       f.Pages,
	}
}
