package loans

import (
	"context"
	"errors"
	"testing"
	"time"

	"branchdesk/pkg/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const countdownTick = time.Second

type failingSource struct{ err error }

func (f failingSource) Open(context.Context) (CaptureStream, error) {
	return nil, f.err
}

type recorderFixture struct {
	sched     *schedule.Manual
	capture   *UploadCapture
	rec       *Recorder
	submitted []File
	failures  chan error
}

func newRecorderFixture(t *testing.T) *recorderFixture {
	t.Helper()

	f := &recorderFixture{
		sched:    schedule.NewManual(),
		capture:  NewUploadCapture(),
		failures: make(chan error, 4),
	}
	f.rec = NewRecorder(context.Background(), f.sched, countdownTick, f.capture, RecorderHooks{
		OnSubmit: func(_ context.Context, file File) error {
			f.submitted = append(f.submitted, file)
			return nil
		},
		OnFailure: func(err error) { f.failures <- err },
	})
	t.Cleanup(f.rec.Close)
	return f
}

// recording starts the countdown and runs it out
func (f *recorderFixture) recording(t *testing.T) {
	t.Helper()
	require.NoError(t, f.rec.Start())
	f.sched.Advance(3 * countdownTick)
	require.Equal(t, RecorderRecording, f.rec.State())
}

func (f *recorderFixture) push(t *testing.T, chunks ...string) {
	t.Helper()
	for _, c := range chunks {
		require.NoError(t, f.capture.Push([]byte(c)))
	}
}

func TestRecorderCountdown(t *testing.T) {
	f := newRecorderFixture(t)

	require.NoError(t, f.rec.Start())
	assert.Equal(t, RecorderCountdown, f.rec.State())
	assert.Equal(t, 3, f.rec.Countdown())

	f.sched.Advance(countdownTick)
	assert.Equal(t, 2, f.rec.Countdown())
	f.sched.Advance(countdownTick)
	assert.Equal(t, 1, f.rec.Countdown())
	assert.False(t, f.capture.Live())

	f.sched.Advance(countdownTick)
	assert.Equal(t, RecorderRecording, f.rec.State())
	assert.True(t, f.capture.Live())
	assert.Zero(t, f.sched.Active())
}

func TestRecorderStopEntersPreviewWithChunks(t *testing.T) {
	f := newRecorderFixture(t)
	f.recording(t)

	f.push(t, "aa", "", "bbb")
	require.NoError(t, f.rec.Stop())

	assert.Equal(t, RecorderPreview, f.rec.State())
	assert.Equal(t, 2, f.rec.ChunkCount(), "empty chunks are ignored")
	assert.False(t, f.capture.Live(), "stop releases the stream")
	assert.ErrorIs(t, f.capture.Push([]byte("late")), ErrNotRecording)
}

func TestRecorderSubmitPackagesChunks(t *testing.T) {
	f := newRecorderFixture(t)
	f.recording(t)
	f.push(t, "hello ", "world")
	require.NoError(t, f.rec.Stop())

	file, err := f.rec.Submit(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "response.webm", file.Name)
	assert.Equal(t, "video/webm", file.ContentType)
	assert.Equal(t, []byte("hello world"), file.Data)
	assert.Equal(t, int64(11), file.Size)
	assert.Equal(t, RecorderDone, f.rec.State())
	require.Len(t, f.submitted, 1)
	assert.Equal(t, file, f.submitted[0])
}

func TestRecorderSubmitWithoutChunks(t *testing.T) {
	f := newRecorderFixture(t)
	f.recording(t)
	require.NoError(t, f.rec.Stop())

	_, err := f.rec.Submit(context.Background())

	assert.ErrorIs(t, err, ErrNoRecording)
	assert.Equal(t, RecorderPreview, f.rec.State())
	assert.Empty(t, f.submitted)
}

func TestRecorderSubmitHookErrorReturnsToPreview(t *testing.T) {
	sched := schedule.NewManual()
	capture := NewUploadCapture()
	boom := errors.New("boom")
	rec := NewRecorder(context.Background(), sched, countdownTick, capture, RecorderHooks{
		OnSubmit: func(context.Context, File) error { return boom },
	})
	defer rec.Close()

	require.NoError(t, rec.Start())
	sched.Advance(3 * countdownTick)
	require.NoError(t, capture.Push([]byte("x")))
	require.NoError(t, rec.Stop())

	_, err := rec.Submit(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, RecorderPreview, rec.State())
	assert.Equal(t, 1, rec.ChunkCount())
}

func TestRecorderRetakeDiscardsEverything(t *testing.T) {
	for _, n := range []int{0, 1, 7} {
		f := newRecorderFixture(t)
		f.recording(t)
		for i := 0; i < n; i++ {
			f.push(t, "chunk")
		}
		require.NoError(t, f.rec.Stop())

		require.NoError(t, f.rec.Retake())

		assert.Equal(t, RecorderIdle, f.rec.State(), "chunks=%d", n)
		assert.Zero(t, f.rec.ChunkCount(), "chunks=%d", n)
	}
}

func TestRecorderRejectsOutOfOrderActions(t *testing.T) {
	f := newRecorderFixture(t)

	assert.ErrorIs(t, f.rec.Stop(), ErrRecorderState)
	assert.ErrorIs(t, f.rec.Retake(), ErrRecorderState)
	_, err := f.rec.Submit(context.Background())
	assert.ErrorIs(t, err, ErrRecorderState)

	require.NoError(t, f.rec.Start())
	assert.ErrorIs(t, f.rec.Start(), ErrRecorderState)
}

func TestRecorderOpenFailureIsRecoverable(t *testing.T) {
	sched := schedule.NewManual()
	denied := errors.New("permission denied")
	var failures []error
	rec := NewRecorder(context.Background(), sched, countdownTick, failingSource{err: denied}, RecorderHooks{
		OnFailure: func(err error) { failures = append(failures, err) },
	})
	defer rec.Close()

	require.NoError(t, rec.Start())
	sched.Advance(3 * countdownTick)

	assert.Equal(t, RecorderFailed, rec.State())
	assert.ErrorIs(t, rec.Err(), denied)
	require.Len(t, failures, 1)

	// retry goes through the countdown again
	require.NoError(t, rec.Start())
	assert.Equal(t, RecorderCountdown, rec.State())
	assert.NoError(t, rec.Err())
}

func TestRecorderStreamFailure(t *testing.T) {
	f := newRecorderFixture(t)
	f.recording(t)
	f.push(t, "partial")

	f.capture.Fail(ErrCaptureDevice)

	select {
	case err := <-f.failures:
		assert.ErrorIs(t, err, ErrCaptureDevice)
	case <-time.After(2 * time.Second):
		t.Fatal("failure was not reported")
	}
	assert.Equal(t, RecorderFailed, f.rec.State())
	assert.Zero(t, f.rec.ChunkCount())

	require.NoError(t, f.rec.Start())
	f.sched.Advance(3 * countdownTick)
	assert.Equal(t, RecorderRecording, f.rec.State())
}

func TestRecorderFail(t *testing.T) {
	f := newRecorderFixture(t)
	f.recording(t)
	f.push(t, "partial")

	require.NoError(t, f.rec.Fail(ErrCaptureDevice))

	assert.Equal(t, RecorderFailed, f.rec.State())
	assert.ErrorIs(t, f.rec.Err(), ErrCaptureDevice)
	assert.False(t, f.capture.Live())
	assert.Len(t, f.failures, 1)

	assert.ErrorIs(t, f.rec.Fail(ErrCaptureDevice), ErrRecorderState)
}

func TestRecorderCloseReleasesStream(t *testing.T) {
	f := newRecorderFixture(t)
	f.recording(t)
	f.push(t, "a")

	f.rec.Close()
	f.rec.Close()

	assert.False(t, f.capture.Live())
	assert.Equal(t, RecorderIdle, f.rec.State())
	assert.ErrorIs(t, f.rec.Start(), ErrRecorderClosed)
	assert.Empty(t, f.failures, "closing is not a failure")
}

func TestRecorderCloseDuringCountdown(t *testing.T) {
	f := newRecorderFixture(t)
	require.NoError(t, f.rec.Start())

	f.rec.Close()
	f.sched.Advance(5 * countdownTick)

	assert.Zero(t, f.sched.Active())
	assert.False(t, f.capture.Live())
}
