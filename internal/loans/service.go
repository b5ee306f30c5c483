package loans

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"branchdesk/internal/notifications"
	"branchdesk/internal/shared/config"
	"branchdesk/internal/shared/i18n"
	"branchdesk/pkg/logger"
	"branchdesk/pkg/metrics"
	"branchdesk/pkg/schedule"

	"github.com/google/uuid"
)

type Service interface {
	Create(ctx context.Context, language string) (*SessionView, error)
	Get(ctx context.Context, id string) (*SessionView, error)
	Close(ctx context.Context, id string) error
	SetLanguage(ctx context.Context, id, language string) (*SessionView, error)

	SelectLoanType(ctx context.Context, id string, t LoanType) (*SessionView, error)
	Back(ctx context.Context, id string) (*SessionView, error)
	Forward(ctx context.Context, id string) (*SessionView, error)

	ToggleIntro(ctx context.Context, id string) (*SessionView, error)

	UploadDocument(ctx context.Context, id string, dt DocumentType, f File) (*SessionView, error)
	DismissDocumentError(ctx context.Context, id string) (*SessionView, error)

	StartRecording(ctx context.Context, id string) (*SessionView, error)
	PushChunk(ctx context.Context, id string, data []byte) (*SessionView, error)
	ReportCaptureFailure(ctx context.Context, id, reason string) (*SessionView, error)
	StopRecording(ctx context.Context, id string) (*SessionView, error)
	RetakeRecording(ctx context.Context, id string) (*SessionView, error)
	SubmitRecording(ctx context.Context, id string) (*SessionView, error)

	// ReapIdle closes sessions untouched for longer than the session TTL
	ReapIdle(ctx context.Context) int
	ActiveSessions() int
	Shutdown()
}

// session is the live state of one wizard. mu serializes every event,
// whether it comes from a request or a stage timer.
type session struct {
	mu        sync.Mutex
	id        string
	lang      i18n.Language
	wizard    *Wizard
	updatedAt time.Time
	closed    bool

	ctx    context.Context
	cancel context.CancelFunc

	intro    *IntroPlayer
	docs     *DocumentCollector
	recorder *Recorder
	capture  *UploadCapture
}

type service struct {
	store    Store
	sched    schedule.Scheduler
	notifier notifications.Publisher
	policy   DecisionPolicy
	cfg      config.WizardConfig
	log      *logger.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
	// closed holds ids of closed sessions so a snapshot read before the
	// delete cannot bring them back
	closed map[string]time.Time
}

func NewService(store Store, sched schedule.Scheduler, notifier notifications.Publisher, policy DecisionPolicy, cfg config.WizardConfig, log *logger.Logger) Service {
	if policy == nil {
		policy = AlwaysApprove{}
	}
	return &service{
		store:    store,
		sched:    sched,
		notifier: notifier,
		policy:   policy,
		cfg:      cfg,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*session),
		closed:   make(map[string]time.Time),
	}
}

func (s *service) Create(ctx context.Context, language string) (*SessionView, error) {
	sess := s.newSession(uuid.NewString(), i18n.ParseLanguage(language), NewWizard(s.policy))

	sess.mu.Lock()
	defer sess.mu.Unlock()

	s.mu.Lock()
	s.sessions[sess.id] = sess
	metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	s.syncStages(sess)
	s.persist(ctx, sess)

	s.log.InfoWithContext(ctx, "Loan session created", map[string]interface{}{
		"session_id": sess.id,
		"language":   sess.lang.String(),
	})
	return s.view(sess), nil
}

func (s *service) Get(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return nil, ErrSessionNotFound
	}
	sess.updatedAt = s.now()
	s.touch(ctx, sess)
	return s.view(sess), nil
}

func (s *service) Close(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, done := s.closed[id]; done {
		s.mu.Unlock()
		return ErrSessionNotFound
	}
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.closed[id] = s.now()
	metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	if ok {
		s.teardown(sess)
	} else if _, err := s.store.Load(ctx, id); err != nil {
		s.mu.Lock()
		delete(s.closed, id)
		s.mu.Unlock()
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoWithContext(ctx, "Loan session closed", map[string]interface{}{"session_id": id})
	return nil
}

func (s *service) SetLanguage(ctx context.Context, id, language string) (*SessionView, error) {
	return s.update(ctx, id, true, func(sess *session) error {
		sess.lang = i18n.ParseLanguage(language)
		return nil
	})
}

func (s *service) SelectLoanType(ctx context.Context, id string, t LoanType) (*SessionView, error) {
	return s.update(ctx, id, true, func(sess *session) error {
		return s.transition(ctx, sess, "select-loan-type", func() error {
			return sess.wizard.SelectLoanType(t)
		})
	})
}

func (s *service) Back(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, true, func(sess *session) error {
		return s.transition(ctx, sess, "back", sess.wizard.GoBack)
	})
}

func (s *service) Forward(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, true, func(sess *session) error {
		return s.transition(ctx, sess, "forward", sess.wizard.GoForward)
	})
}

func (s *service) ToggleIntro(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, false, func(sess *session) error {
		if sess.intro == nil {
			return fmt.Errorf("toggle intro at %s: %w", sess.wizard.Step(), ErrInvalidTransition)
		}
		sess.intro.Toggle()
		return nil
	})
}

func (s *service) UploadDocument(ctx context.Context, id string, dt DocumentType, f File) (*SessionView, error) {
	return s.update(ctx, id, true, func(sess *session) error {
		if sess.docs == nil {
			return fmt.Errorf("upload document at %s: %w", sess.wizard.Step(), ErrInvalidTransition)
		}
		if !dt.IsValid() {
			return fmt.Errorf("%w: %q", ErrUnknownDocumentType, dt)
		}

		if err := sess.docs.Accept(dt, f); err != nil {
			metrics.DocumentUploads.WithLabelValues(dt.String(), "rejected").Inc()
			return err
		}
		metrics.DocumentUploads.WithLabelValues(dt.String(), "accepted").Inc()
		return nil
	})
}

func (s *service) DismissDocumentError(ctx context.Context, id string) (*SessionView, error) {
	return s.update(ctx, id, false, func(sess *session) error {
		if sess.docs == nil {
			return fmt.Errorf("dismiss error at %s: %w", sess.wizard.Step(), ErrInvalidTransition)
		}
		sess.docs.Dismiss()
		return nil
	})
}

func (s *service) StartRecording(ctx context.Context, id string) (*SessionView, error) {
	return s.withRecorder(ctx, id, func(sess *session) error {
		if err := sess.recorder.Start(); err != nil {
			return err
		}
		metrics.RecordingEvents.WithLabelValues("started").Inc()
		return nil
	})
}

func (s *service) PushChunk(ctx context.Context, id string, data []byte) (*SessionView, error) {
	return s.withRecorder(ctx, id, func(sess *session) error {
		if sess.recorder.State() != RecorderRecording {
			return ErrNotRecording
		}
		return sess.capture.Push(data)
	})
}

func (s *service) ReportCaptureFailure(ctx context.Context, id, reason string) (*SessionView, error) {
	return s.withRecorder(ctx, id, func(sess *session) error {
		return sess.recorder.Fail(fmt.Errorf("%w: %s", ErrCaptureDevice, reason))
	})
}

func (s *service) StopRecording(ctx context.Context, id string) (*SessionView, error) {
	return s.withRecorder(ctx, id, func(sess *session) error {
		return sess.recorder.Stop()
	})
}

func (s *service) RetakeRecording(ctx context.Context, id string) (*SessionView, error) {
	return s.withRecorder(ctx, id, func(sess *session) error {
		if err := sess.recorder.Retake(); err != nil {
			return err
		}
		metrics.RecordingEvents.WithLabelValues("retaken").Inc()
		return nil
	})
}

func (s *service) SubmitRecording(ctx context.Context, id string) (*SessionView, error) {
	view, err := s.update(ctx, id, true, func(sess *session) error {
		if sess.recorder == nil {
			return fmt.Errorf("submit recording at %s: %w", sess.wizard.Step(), ErrInvalidTransition)
		}
		_, err := sess.recorder.Submit(ctx)
		return err
	})
	if err == nil {
		metrics.RecordingEvents.WithLabelValues("submitted").Inc()
	}
	return view, err
}

func (s *service) ReapIdle(ctx context.Context) int {
	cutoff := s.now().Add(-s.sessionTTL())

	s.mu.Lock()
	for id, at := range s.closed {
		if at.Before(cutoff) {
			delete(s.closed, id)
		}
	}
	candidates := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		candidates = append(candidates, sess)
	}
	s.mu.Unlock()

	reaped := 0
	for _, sess := range candidates {
		sess.mu.Lock()
		idle := !sess.closed && sess.updatedAt.Before(cutoff)
		sess.mu.Unlock()
		if !idle {
			continue
		}

		s.mu.Lock()
		if s.sessions[sess.id] == sess {
			delete(s.sessions, sess.id)
		}
		s.closed[sess.id] = s.now()
		metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
		s.mu.Unlock()

		s.teardown(sess)
		if err := s.store.Delete(ctx, sess.id); err != nil {
			s.log.ErrorWithContext(ctx, "Failed to delete expired loan session", err, map[string]interface{}{
				"session_id": sess.id,
			})
		}
		reaped++
	}
	return reaped
}

func (s *service) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Shutdown tears down every live session. Snapshots stay in the store.
func (s *service) Shutdown() {
	s.mu.Lock()
	live := s.sessions
	s.sessions = make(map[string]*session)
	metrics.WizardSessionsActive.Set(0)
	s.mu.Unlock()

	for _, sess := range live {
		s.teardown(sess)
	}
}

func (s *service) newSession(id string, lang i18n.Language, w *Wizard) *session {
	ctx, cancel := context.WithCancel(context.Background())
	return &session{
		id:        id,
		lang:      lang,
		wizard:    w,
		updatedAt: s.now(),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// lookup finds a live session or rebuilds one from its snapshot
func (s *service) lookup(ctx context.Context, id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	_, done := s.closed[id]
	s.mu.Unlock()
	if ok {
		return sess, nil
	}
	if done {
		return nil, ErrSessionNotFound
	}

	snap, err := s.store.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	w, err := RestoreWizard(snap.Step, snap.Application, s.policy)
	if err != nil {
		return nil, err
	}
	restored := s.newSession(snap.ID, i18n.ParseLanguage(snap.Language.String()), w)

	s.mu.Lock()
	if existing, ok := s.sessions[id]; ok {
		s.mu.Unlock()
		restored.cancel()
		return existing, nil
	}
	if _, done := s.closed[id]; done {
		s.mu.Unlock()
		restored.cancel()
		return nil, ErrSessionNotFound
	}
	s.sessions[id] = restored
	metrics.WizardSessionsActive.Set(float64(len(s.sessions)))
	s.mu.Unlock()

	restored.mu.Lock()
	s.syncStages(restored)
	restored.mu.Unlock()

	s.log.WithSessionID(id).Info("Loan session restored", "step", snap.Step.String())
	return restored, nil
}

// update runs fn under the session lock and returns the resulting view.
// save controls whether the snapshot is rewritten or only has its expiry
// extended.
func (s *service) update(ctx context.Context, id string, save bool, fn func(sess *session) error) (*SessionView, error) {
	sess, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return nil, ErrSessionNotFound
	}
	if err := fn(sess); err != nil {
		return nil, err
	}

	sess.updatedAt = s.now()
	if save {
		s.persist(ctx, sess)
	} else {
		s.touch(ctx, sess)
	}
	return s.view(sess), nil
}

func (s *service) withRecorder(ctx context.Context, id string, fn func(sess *session) error) (*SessionView, error) {
	return s.update(ctx, id, false, func(sess *session) error {
		if sess.recorder == nil {
			return fmt.Errorf("recording at %s: %w", sess.wizard.Step(), ErrInvalidTransition)
		}
		return fn(sess)
	})
}

// transition applies a wizard move, then swaps the stage objects to match
// the new step. Caller holds sess.mu.
func (s *service) transition(ctx context.Context, sess *session, action string, move func() error) error {
	from := sess.wizard.Step()
	if err := move(); err != nil {
		return err
	}
	to := sess.wizard.Step()

	metrics.WizardTransitions.WithLabelValues(action).Inc()
	s.log.LogWizardTransition(ctx, sess.id, action, int(from), int(to))
	s.syncStages(sess)
	return nil
}

// syncStages closes stage objects that do not belong to the current step
// and creates the one that does. Caller holds sess.mu.
func (s *service) syncStages(sess *session) {
	step := sess.wizard.Step()

	if step != StepIntro && sess.intro != nil {
		sess.intro.Close()
		sess.intro = nil
	}
	if step != StepDocuments {
		sess.docs = nil
	}
	if step != StepRecording && sess.recorder != nil {
		sess.recorder.Close()
		sess.recorder = nil
		sess.capture = nil
	}

	switch step {
	case StepIntro:
		if sess.intro == nil {
			var player *IntroPlayer
			player = NewIntroPlayer(s.sched, s.cfg.IntroTick, func() {
				s.introFinished(sess, player)
			})
			sess.intro = player
		}
	case StepDocuments:
		if sess.docs == nil {
			sess.docs = NewDocumentCollector(sess.wizard.RecordDocument)
		}
	case StepRecording:
		if sess.recorder == nil {
			sess.capture = NewUploadCapture()
			sess.recorder = NewRecorder(sess.ctx, s.sched, s.cfg.CountdownTick, sess.capture, RecorderHooks{
				OnSubmit: func(ctx context.Context, f File) error {
					return s.recordingSubmitted(ctx, sess, f)
				},
				OnFailure: func(err error) {
					metrics.RecordingEvents.WithLabelValues("failed").Inc()
					s.log.LogCaptureFailure(sess.ctx, sess.id, err)
				},
			})
		}
	}
}

// introFinished runs on the scheduler goroutine when the intro reaches 100
func (s *service) introFinished(sess *session, player *IntroPlayer) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed || sess.intro != player {
		return
	}

	ctx := sess.ctx
	if err := s.transition(ctx, sess, "intro-complete", sess.wizard.CompleteIntro); err != nil {
		return
	}
	sess.updatedAt = s.now()
	s.persist(ctx, sess)
}

// recordingSubmitted is the recorder's completion callback. It runs inside
// SubmitRecording, so sess.mu is already held.
func (s *service) recordingSubmitted(ctx context.Context, sess *session, f File) error {
	var status Status
	err := s.transition(ctx, sess, "submit-recording", func() error {
		var err error
		status, err = sess.wizard.CompleteRecording(ctx, f)
		return err
	})
	if err != nil {
		return err
	}

	app := sess.wizard.Application()
	metrics.LoanDecisions.WithLabelValues(app.Type.String(), status.String()).Inc()
	s.log.LogLoanDecision(ctx, sess.id, app.Type.String(), status.String())

	decision := notifications.LoanDecision{
		SessionID: sess.id,
		Language:  sess.lang.String(),
		LoanType:  app.Type.String(),
		Status:    status.String(),
		Message:   NewStatusView(status, sess.lang).Message,
	}
	// the decision stands even when the message cannot be queued
	_ = s.notifier.LoanDecided(ctx, decision)
	return nil
}

func (s *service) teardown(sess *session) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.closed {
		return
	}
	sess.closed = true
	if sess.intro != nil {
		sess.intro.Close()
		sess.intro = nil
	}
	if sess.recorder != nil {
		sess.recorder.Close()
		sess.recorder = nil
		sess.capture = nil
	}
	sess.docs = nil
	sess.cancel()
}

func (s *service) persist(ctx context.Context, sess *session) {
	snap := Snapshot{
		ID:          sess.id,
		Language:    sess.lang,
		Step:        sess.wizard.Step(),
		Application: sess.wizard.Application(),
		UpdatedAt:   sess.updatedAt,
	}
	if err := s.store.Save(ctx, snap); err != nil {
		s.log.ErrorWithContext(ctx, "Failed to save loan session", err, map[string]interface{}{
			"session_id": sess.id,
		})
	}
}

// touch extends the snapshot expiry, writing it again if it has already
// expired. Caller holds sess.mu.
func (s *service) touch(ctx context.Context, sess *session) {
	err := s.store.Touch(ctx, sess.id)
	switch {
	case err == nil:
	case errors.Is(err, ErrSessionNotFound):
		s.persist(ctx, sess)
	default:
		s.log.WithSessionID(sess.id).Warn("Failed to refresh loan session expiry", "error", err)
	}
}

func (s *service) sessionTTL() time.Duration {
	if s.cfg.SessionTTL > 0 {
		return s.cfg.SessionTTL
	}
	return 30 * time.Minute
}

// view renders the session for the client. Caller holds sess.mu.
func (s *service) view(sess *session) *SessionView {
	app := sess.wizard.Application()
	view := &SessionView{
		ID:           sess.id,
		Language:     sess.lang,
		Languages:    languageOptions(),
		Step:         sess.wizard.Step(),
		StepName:     sess.wizard.Step().String(),
		CanGoBack:    sess.wizard.CanGoBack(),
		CanGoForward: sess.wizard.CanGoForward(),
		Application:  newApplicationView(app),
		UpdatedAt:    sess.updatedAt,
	}

	switch view.Step {
	case StepLoanType:
		view.LoanTypes = LoanTypeViews(sess.lang)
	case StepIntro:
		if sess.intro != nil {
			view.Intro = newIntroView(sess.intro, sess.lang)
		}
	case StepDocuments:
		if sess.docs != nil {
			view.Documents = newDocumentsView(sess.docs, app, sess.lang)
		}
	case StepRecording:
		if sess.recorder != nil {
			view.Recording = newRecordingView(sess.recorder, sess.lang)
		}
	case StepStatus:
		view.Result = NewStatusView(app.Status, sess.lang)
	}
	return view
}
