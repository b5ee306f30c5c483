package loans

import (
	"time"

	"branchdesk/internal/shared/i18n"
)

type LanguageOption struct {
	Code       i18n.Language `json:"code"`
	NativeName string        `json:"native_name"`
}

type LoanTypeView struct {
	ID          LoanType `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
}

type ApplicationView struct {
	Type          LoanType                   `json:"type,omitempty"`
	Status        Status                     `json:"status"`
	Documents     map[DocumentType]*FileInfo `json:"documents"`
	VideoResponse *FileInfo                  `json:"video_response,omitempty"`
}

type IntroView struct {
	Welcome        string `json:"welcome"`
	PresenterImage string `json:"presenter_image"`
	Blurb          string `json:"blurb"`
	Progress       int    `json:"progress"`
	Playing        bool   `json:"playing"`
}

type DocumentItem struct {
	Type        DocumentType `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"description"`
	Required    bool         `json:"required"`
	Uploaded    *FileInfo    `json:"uploaded,omitempty"`
}

type DocumentsView struct {
	Title    string         `json:"title"`
	Subtitle string         `json:"subtitle"`
	Items    []DocumentItem `json:"items"`
	Error    string         `json:"error,omitempty"`
}

type RecordingView struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Questions   []string      `json:"questions"`
	State       RecorderState `json:"state"`
	Countdown   int           `json:"countdown,omitempty"`
	Chunks      int           `json:"chunks"`
	Error       string        `json:"error,omitempty"`
}

// StatusView is the final page: message, progress bar and next steps
type StatusView struct {
	Status    Status   `json:"status"`
	Message   string   `json:"message"`
	Progress  int      `json:"progress"`
	NextSteps []string `json:"next_steps,omitempty"`
}

type SessionView struct {
	ID           string           `json:"id"`
	Language     i18n.Language    `json:"language"`
	Languages    []LanguageOption `json:"languages"`
	Step         Step             `json:"step"`
	StepName     string           `json:"step_name"`
	CanGoBack    bool             `json:"can_go_back"`
	CanGoForward bool             `json:"can_go_forward"`
	Application  ApplicationView  `json:"application"`
	UpdatedAt    time.Time        `json:"updated_at"`

	LoanTypes []LoanTypeView `json:"loan_types,omitempty"`
	Intro     *IntroView     `json:"intro,omitempty"`
	Documents *DocumentsView `json:"documents,omitempty"`
	Recording *RecordingView `json:"recording,omitempty"`
	Result    *StatusView    `json:"result,omitempty"`
}

// LoanTypeViews lists the products in lang
func LoanTypeViews(lang i18n.Language) []LoanTypeView {
	out := make([]LoanTypeView, 0, len(LoanTypes))
	for _, t := range LoanTypes {
		c := loanTypeContents[t]
		out = append(out, LoanTypeView{
			ID:          t,
			Title:       c.title.In(lang),
			Description: c.description.In(lang),
		})
	}
	return out
}

// NewStatusView builds the status page for s in lang
func NewStatusView(s Status, lang i18n.Language) *StatusView {
	c, ok := statusContents[s]
	if !ok {
		s = StatusPending
		c = statusContents[s]
	}
	view := &StatusView{
		Status:   s,
		Message:  c.message.In(lang),
		Progress: c.progress,
	}
	if s == StatusApproved {
		view.NextSteps = approvedNextSteps.In(lang)
	}
	return view
}

func newApplicationView(app Application) ApplicationView {
	docs := make(map[DocumentType]*FileInfo, len(DocumentTypes))
	for _, dt := range DocumentTypes {
		docs[dt] = app.Documents[dt].Info()
	}
	return ApplicationView{
		Type:          app.Type,
		Status:        app.Status,
		Documents:     docs,
		VideoResponse: app.VideoResponse.Info(),
	}
}

func newIntroView(p *IntroPlayer, lang i18n.Language) *IntroView {
	return &IntroView{
		Welcome:        welcomeText.In(lang),
		PresenterImage: presenterImage.In(lang),
		Blurb:          introBlurb.In(lang),
		Progress:       p.Progress(),
		Playing:        p.Playing(),
	}
}

func newDocumentsView(d *DocumentCollector, app Application, lang i18n.Language) *DocumentsView {
	items := make([]DocumentItem, 0, len(DocumentTypes))
	for _, dt := range DocumentTypes {
		c := documentContents[dt]
		items = append(items, DocumentItem{
			Type:        dt,
			Label:       c.label.In(lang),
			Description: c.description.In(lang),
			Required:    true,
			Uploaded:    app.Documents[dt].Info(),
		})
	}
	return &DocumentsView{
		Title:    documentsTitle.In(lang),
		Subtitle: documentsSubtitle.In(lang),
		Items:    items,
		Error:    d.Error(),
	}
}

func newRecordingView(r *Recorder, lang i18n.Language) *RecordingView {
	view := &RecordingView{
		Title:       recorderTitle.In(lang),
		Description: recorderDescription.In(lang),
		Questions:   recorderQuestions.In(lang),
		State:       r.State(),
		Countdown:   r.Countdown(),
		Chunks:      r.ChunkCount(),
	}
	if err := r.Err(); err != nil {
		view.Error = err.Error()
	}
	return view
}

func languageOptions() []LanguageOption {
	out := make([]LanguageOption, 0, len(i18n.Supported))
	for _, lang := range i18n.Supported {
		out = append(out, LanguageOption{Code: lang, NativeName: lang.NativeName()})
	}
	return out
}
