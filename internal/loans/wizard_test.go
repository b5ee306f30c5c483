package loans

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedPolicy Status

func (p fixedPolicy) Decide(context.Context, Application) Status {
	return Status(p)
}

func image(name string) File {
	return File{Name: name, ContentType: "image/png", Size: 3, Data: []byte{1, 2, 3}}
}

// wizardAt walks a new wizard forward to step
func wizardAt(t *testing.T, step Step) *Wizard {
	t.Helper()

	w := NewWizard(nil)
	if step >= StepIntro {
		require.NoError(t, w.SelectLoanType(LoanTypeHome))
	}
	if step >= StepDocuments {
		require.NoError(t, w.CompleteIntro())
	}
	if step >= StepRecording {
		require.NoError(t, w.GoForward())
	}
	if step >= StepStatus {
		_, err := w.CompleteRecording(context.Background(), File{Name: "response.webm"})
		require.NoError(t, err)
	}
	require.Equal(t, step, w.Step())
	return w
}

func TestNewWizardStartsAtLoanType(t *testing.T) {
	w := NewWizard(nil)

	assert.Equal(t, StepLoanType, w.Step())
	app := w.Application()
	assert.Equal(t, StatusPending, app.Status)
	assert.Len(t, app.Documents, len(DocumentTypes))
	assert.Zero(t, app.UploadedCount())
}

func TestSelectLoanTypeAdvancesToIntro(t *testing.T) {
	w := NewWizard(nil)

	require.NoError(t, w.SelectLoanType(LoanTypeHome))

	assert.Equal(t, StepIntro, w.Step())
	assert.Equal(t, LoanTypeHome, w.Application().Type)
}

func TestSelectLoanTypeRejectsUnknown(t *testing.T) {
	w := NewWizard(nil)

	err := w.SelectLoanType("car")

	assert.ErrorIs(t, err, ErrUnknownLoanType)
	assert.Equal(t, StepLoanType, w.Step())
	assert.Empty(t, w.Application().Type)
}

func TestCompleteRecordingApprovesUnconditionally(t *testing.T) {
	w := wizardAt(t, StepRecording)

	status, err := w.CompleteRecording(context.Background(), File{Name: "response.webm", ContentType: "video/webm"})
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, status)
	assert.Equal(t, StepStatus, w.Step())
	app := w.Application()
	assert.Equal(t, StatusApproved, app.Status)
	require.NotNil(t, app.VideoResponse)
	assert.Equal(t, "response.webm", app.VideoResponse.Name)
}

func TestCompleteRecordingUsesPolicy(t *testing.T) {
	w := NewWizard(fixedPolicy(StatusMoreInfo))
	require.NoError(t, w.SelectLoanType(LoanTypeBusiness))
	require.NoError(t, w.CompleteIntro())
	require.NoError(t, w.GoForward())

	status, err := w.CompleteRecording(context.Background(), File{})
	require.NoError(t, err)
	assert.Equal(t, StatusMoreInfo, status)
}

func TestCompleteRecordingWithInvalidPolicyOutcomeStaysPending(t *testing.T) {
	w := NewWizard(fixedPolicy("maybe"))
	require.NoError(t, w.SelectLoanType(LoanTypeBusiness))
	require.NoError(t, w.CompleteIntro())
	require.NoError(t, w.GoForward())

	status, err := w.CompleteRecording(context.Background(), File{})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, status)
}

func TestRecordDocumentOverwritesWithoutAdvancing(t *testing.T) {
	w := wizardAt(t, StepDocuments)

	require.NoError(t, w.RecordDocument(DocumentPAN, image("first.png")))
	require.NoError(t, w.RecordDocument(DocumentPAN, image("second.png")))

	assert.Equal(t, StepDocuments, w.Step())
	app := w.Application()
	assert.Equal(t, "second.png", app.Documents[DocumentPAN].Name)
	assert.Equal(t, 1, app.UploadedCount())
}

func TestRecordDocumentRejectsUnknownType(t *testing.T) {
	w := wizardAt(t, StepDocuments)

	err := w.RecordDocument("passport", image("p.png"))

	assert.ErrorIs(t, err, ErrUnknownDocumentType)
	assert.Len(t, w.Application().Documents, len(DocumentTypes))
}

func TestApplicationCopyDoesNotAliasWizardState(t *testing.T) {
	w := wizardAt(t, StepDocuments)

	app := w.Application()
	app.Documents[DocumentAadhaar] = &File{Name: "sneaky.png"}

	assert.Nil(t, w.Application().Documents[DocumentAadhaar])
}

func TestBackKeepsData(t *testing.T) {
	w := wizardAt(t, StepDocuments)
	require.NoError(t, w.RecordDocument(DocumentAadhaar, image("aadhaar.png")))

	require.NoError(t, w.GoBack())
	require.NoError(t, w.GoBack())
	assert.Equal(t, StepLoanType, w.Step())

	app := w.Application()
	assert.Equal(t, LoanTypeHome, app.Type)
	assert.Equal(t, "aadhaar.png", app.Documents[DocumentAadhaar].Name)
}

func TestTransitionsOutsideTheirStepAreRejected(t *testing.T) {
	tests := []struct {
		name string
		step Step
		act  func(w *Wizard) error
	}{
		{"back at first step", StepLoanType, (*Wizard).GoBack},
		{"forward at first step", StepLoanType, (*Wizard).GoForward},
		{"forward at recording", StepRecording, (*Wizard).GoForward},
		{"back at status", StepStatus, (*Wizard).GoBack},
		{"forward at status", StepStatus, (*Wizard).GoForward},
		{"intro twice", StepDocuments, (*Wizard).CompleteIntro},
		{"select type again", StepIntro, func(w *Wizard) error { return w.SelectLoanType(LoanTypeHome) }},
		{"document before documents", StepIntro, func(w *Wizard) error { return w.RecordDocument(DocumentPAN, image("x.png")) }},
		{"recording early", StepDocuments, func(w *Wizard) error {
			_, err := w.CompleteRecording(context.Background(), File{})
			return err
		}},
		{"recording after status", StepStatus, func(w *Wizard) error {
			_, err := w.CompleteRecording(context.Background(), File{})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := wizardAt(t, tt.step)
			before := w.Application()

			err := tt.act(w)

			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.step, w.Step())
			assert.Equal(t, before, w.Application())
		})
	}
}

func TestNavigationAvailability(t *testing.T) {
	tests := []struct {
		step      Step
		back, fwd bool
	}{
		{StepLoanType, false, false},
		{StepIntro, true, true},
		{StepDocuments, true, true},
		{StepRecording, true, false},
		{StepStatus, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.step.String(), func(t *testing.T) {
			w := wizardAt(t, tt.step)
			assert.Equal(t, tt.back, w.CanGoBack())
			assert.Equal(t, tt.fwd, w.CanGoForward())
		})
	}
}

func TestRestoreWizard(t *testing.T) {
	app := NewApplication()
	app.Type = LoanTypeEducation
	app.Documents["unknown"] = &File{Name: "x"}
	delete(app.Documents, DocumentPAN)

	w, err := RestoreWizard(StepDocuments, app, nil)
	require.NoError(t, err)

	assert.Equal(t, StepDocuments, w.Step())
	restored := w.Application()
	assert.Equal(t, LoanTypeEducation, restored.Type)
	assert.Len(t, restored.Documents, len(DocumentTypes))
	assert.Contains(t, restored.Documents, DocumentPAN)
	assert.NotContains(t, restored.Documents, DocumentType("unknown"))

	_, err = RestoreWizard(Step(9), app, nil)
	assert.Error(t, err)
}
