package loans

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition   = errors.New("action is not available at the current step")
	ErrUnknownLoanType     = errors.New("unknown loan type")
	ErrUnknownDocumentType = errors.New("unknown document type")
)

// DecisionPolicy produces the outcome once the video response is in
type DecisionPolicy interface {
	Decide(ctx context.Context, app Application) Status
}

// AlwaysApprove approves every application
type AlwaysApprove struct{}

func (AlwaysApprove) Decide(context.Context, Application) Status {
	return StatusApproved
}

// Wizard owns the current step and the application. It has no timers or
// I/O; every method either applies a transition or returns an error and
// leaves state untouched.
type Wizard struct {
	step   Step
	app    Application
	policy DecisionPolicy
}

func NewWizard(policy DecisionPolicy) *Wizard {
	if policy == nil {
		policy = AlwaysApprove{}
	}
	return &Wizard{
		step:   StepLoanType,
		app:    NewApplication(),
		policy: policy,
	}
}

// RestoreWizard rebuilds a wizard from a saved step and application
func RestoreWizard(step Step, app Application, policy DecisionPolicy) (*Wizard, error) {
	if !step.IsValid() {
		return nil, fmt.Errorf("restore wizard: invalid step %d", step)
	}
	w := NewWizard(policy)
	app.normalize()
	w.step = step
	w.app = app
	return w, nil
}

func (w *Wizard) Step() Step {
	return w.step
}

func (w *Wizard) Application() Application {
	return w.app.clone()
}

func (w *Wizard) CanGoBack() bool {
	return w.step > StepLoanType && w.step < StepStatus
}

// CanGoForward is limited to the steps that offer "Continue"; the
// recording step is only left forward by submitting.
func (w *Wizard) CanGoForward() bool {
	return w.step > StepLoanType && w.step < StepRecording
}

func (w *Wizard) SelectLoanType(t LoanType) error {
	if w.step != StepLoanType {
		return fmt.Errorf("select loan type at %s: %w", w.step, ErrInvalidTransition)
	}
	if !t.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownLoanType, t)
	}
	w.app.Type = t
	w.step = StepIntro
	return nil
}

func (w *Wizard) CompleteIntro() error {
	if w.step != StepIntro {
		return fmt.Errorf("complete intro at %s: %w", w.step, ErrInvalidTransition)
	}
	w.step = StepDocuments
	return nil
}

// RecordDocument stores f under dt, replacing any earlier upload. It does
// not move the wizard.
func (w *Wizard) RecordDocument(dt DocumentType, f File) error {
	if w.step != StepDocuments {
		return fmt.Errorf("record document at %s: %w", w.step, ErrInvalidTransition)
	}
	if !dt.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownDocumentType, dt)
	}
	w.app.Documents[dt] = &f
	return nil
}

// CompleteRecording attaches the video response, asks the policy for the
// outcome and moves to the status step.
func (w *Wizard) CompleteRecording(ctx context.Context, f File) (Status, error) {
	if w.step != StepRecording {
		return "", fmt.Errorf("complete recording at %s: %w", w.step, ErrInvalidTransition)
	}
	w.app.VideoResponse = &f

	status := w.policy.Decide(ctx, w.app.clone())
	if !status.IsValid() {
		status = StatusPending
	}
	w.app.Status = status
	w.step = StepStatus
	return status, nil
}

func (w *Wizard) GoBack() error {
	if !w.CanGoBack() {
		return fmt.Errorf("go back at %s: %w", w.step, ErrInvalidTransition)
	}
	w.step--
	return nil
}

func (w *Wizard) GoForward() error {
	if !w.CanGoForward() {
		return fmt.Errorf("go forward at %s: %w", w.step, ErrInvalidTransition)
	}
	w.step++
	return nil
}
