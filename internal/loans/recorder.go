package loans

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"branchdesk/pkg/schedule"
)

type RecorderState string

const (
	RecorderIdle      RecorderState = "idle"
	RecorderCountdown RecorderState = "countdown"
	RecorderRecording RecorderState = "recording"
	RecorderStopping  RecorderState = "stopping"
	RecorderPreview   RecorderState = "preview"
	RecorderDone      RecorderState = "done"
	RecorderFailed    RecorderState = "failed"
)

const (
	countdownFrom     = 3
	recordingName     = "response.webm"
	recordingMimeType = "video/webm"
)

var (
	ErrNoRecording    = errors.New("nothing has been recorded")
	ErrRecorderState  = errors.New("recorder cannot do that right now")
	ErrRecorderClosed = errors.New("recorder is closed")
)

// RecorderHooks are optional callbacks. OnSubmit runs synchronously inside
// Submit; an error puts the recorder back in preview. OnFailure runs on the
// capture goroutine and must not block on anything that calls the
// recorder.
type RecorderHooks struct {
	OnSubmit  func(ctx context.Context, f File) error
	OnFailure func(error)
}

// Recorder runs the countdown, capture, preview and submit cycle
type Recorder struct {
	mu     sync.Mutex
	ctx    context.Context
	sched  schedule.Scheduler
	tick   time.Duration
	source CaptureSource
	hooks  RecorderHooks

	state     RecorderState
	countdown int
	chunks    [][]byte
	err       error
	closed    bool

	task       schedule.Task
	stream     CaptureStream
	readerDone chan struct{}
}

func NewRecorder(ctx context.Context, sched schedule.Scheduler, tick time.Duration, source CaptureSource, hooks RecorderHooks) *Recorder {
	return &Recorder{
		ctx:    ctx,
		sched:  sched,
		tick:   tick,
		source: source,
		hooks:  hooks,
		state:  RecorderIdle,
	}
}

// Start begins the countdown. Allowed from idle and, to retry after a
// capture error, from failed.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRecorderClosed
	}
	if r.state != RecorderIdle && r.state != RecorderFailed {
		return fmt.Errorf("start from %s: %w", r.state, ErrRecorderState)
	}

	r.chunks = nil
	r.err = nil
	r.state = RecorderCountdown
	r.countdown = countdownFrom
	r.task = r.sched.Every(r.tick, r.countdownTick)
	return nil
}

func (r *Recorder) countdownTick() bool {
	r.mu.Lock()
	if r.state != RecorderCountdown || r.closed {
		r.mu.Unlock()
		return false
	}

	r.countdown--
	if r.countdown > 0 {
		r.mu.Unlock()
		return true
	}
	r.task = nil

	stream, err := r.source.Open(r.ctx)
	if err != nil {
		r.state = RecorderFailed
		r.err = fmt.Errorf("open capture: %w", err)
		failure := r.err
		r.mu.Unlock()
		r.notifyFailure(failure)
		return false
	}

	r.state = RecorderRecording
	r.stream = stream
	r.readerDone = make(chan struct{})
	go r.read(stream, r.readerDone)
	r.mu.Unlock()
	return false
}

// read collects chunks until the stream closes
func (r *Recorder) read(stream CaptureStream, done chan struct{}) {
	defer close(done)

	for chunk := range stream.Chunks() {
		if len(chunk) == 0 {
			continue
		}
		r.mu.Lock()
		if r.state == RecorderRecording || r.state == RecorderStopping {
			r.chunks = append(r.chunks, chunk)
		}
		r.mu.Unlock()
	}

	r.mu.Lock()
	if r.state != RecorderRecording {
		r.mu.Unlock()
		return
	}
	err := stream.Err()
	if err == nil {
		err = ErrCaptureEnded
	}
	r.state = RecorderFailed
	r.err = err
	r.chunks = nil
	r.stream = nil
	r.mu.Unlock()

	r.notifyFailure(err)
}

func (r *Recorder) notifyFailure(err error) {
	if r.hooks.OnFailure != nil {
		r.hooks.OnFailure(err)
	}
}

// Stop ends capture, waits for buffered chunks and enters preview
func (r *Recorder) Stop() error {
	r.mu.Lock()
	if r.state != RecorderRecording {
		state := r.state
		r.mu.Unlock()
		return fmt.Errorf("stop from %s: %w", state, ErrRecorderState)
	}
	r.state = RecorderStopping
	stream, done := r.stream, r.readerDone
	r.mu.Unlock()

	stream.Stop()
	<-done

	r.mu.Lock()
	defer r.mu.Unlock()
	r.stream = nil
	r.readerDone = nil
	if r.state == RecorderStopping {
		r.state = RecorderPreview
	}
	return nil
}

// Retake drops everything recorded and returns to idle
func (r *Recorder) Retake() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != RecorderPreview {
		return fmt.Errorf("retake from %s: %w", r.state, ErrRecorderState)
	}
	r.chunks = nil
	r.state = RecorderIdle
	return nil
}

// Submit packages the chunks into one file and hands it to OnSubmit. The
// hook runs without the recorder lock, so it may Close the recorder.
func (r *Recorder) Submit(ctx context.Context) (File, error) {
	r.mu.Lock()
	if r.state != RecorderPreview {
		state := r.state
		r.mu.Unlock()
		return File{}, fmt.Errorf("submit from %s: %w", state, ErrRecorderState)
	}
	if len(r.chunks) == 0 {
		r.mu.Unlock()
		return File{}, ErrNoRecording
	}

	data := bytes.Join(r.chunks, nil)
	file := File{
		Name:        recordingName,
		ContentType: recordingMimeType,
		Size:        int64(len(data)),
		Data:        data,
	}
	r.state = RecorderDone
	r.mu.Unlock()

	if r.hooks.OnSubmit != nil {
		if err := r.hooks.OnSubmit(ctx, file); err != nil {
			r.mu.Lock()
			if r.state == RecorderDone && !r.closed {
				r.state = RecorderPreview
			}
			r.mu.Unlock()
			return File{}, err
		}
	}
	return file, nil
}

// Fail puts a counting down or recording recorder into failed, releasing
// the stream. The recorded chunks are discarded; Start retries.
func (r *Recorder) Fail(cause error) error {
	if cause == nil {
		cause = ErrCaptureEnded
	}

	r.mu.Lock()
	switch r.state {
	case RecorderCountdown, RecorderRecording:
	default:
		state := r.state
		r.mu.Unlock()
		return fmt.Errorf("fail from %s: %w", state, ErrRecorderState)
	}
	if r.task != nil {
		r.task.Stop()
		r.task = nil
	}
	stream, done := r.stream, r.readerDone
	r.stream = nil
	r.readerDone = nil
	r.state = RecorderFailed
	r.err = cause
	r.chunks = nil
	r.mu.Unlock()

	if stream != nil {
		stream.Stop()
		<-done
	}
	r.notifyFailure(cause)
	return nil
}

// Close cancels the countdown and releases a live stream. Safe to call
// more than once.
func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	if r.task != nil {
		r.task.Stop()
		r.task = nil
	}
	stream, done := r.stream, r.readerDone
	r.stream = nil
	r.readerDone = nil
	if r.state == RecorderCountdown || r.state == RecorderRecording || r.state == RecorderStopping {
		r.state = RecorderIdle
	}
	r.chunks = nil
	r.mu.Unlock()

	if stream != nil {
		stream.Stop()
		<-done
	}
}

func (r *Recorder) State() RecorderState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Countdown is the remaining count while counting down, otherwise 0
func (r *Recorder) Countdown() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != RecorderCountdown {
		return 0
	}
	return r.countdown
}

func (r *Recorder) ChunkCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.chunks)
}

// Err is the capture error that put the recorder into failed
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}
