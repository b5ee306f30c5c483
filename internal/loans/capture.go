package loans

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNotRecording  = errors.New("recorder is not capturing")
	ErrCaptureEnded  = errors.New("capture stream ended unexpectedly")
	ErrCaptureDevice = errors.New("camera or microphone unavailable")
)

// CaptureSource opens the camera/microphone feed
type CaptureSource interface {
	Open(ctx context.Context) (CaptureStream, error)
}

// CaptureStream delivers recorded data until stopped. Chunks is closed once
// the stream has ended; Err then reports why, nil after a normal Stop.
type CaptureStream interface {
	Chunks() <-chan []byte
	Err() error
	Stop()
}

// UploadCapture is the capture source for browser clients: the client
// records locally and posts each chunk, which Push feeds into the stream
// the recorder opened.
type UploadCapture struct {
	mu     sync.Mutex
	stream *uploadStream
}

func NewUploadCapture() *UploadCapture {
	return &UploadCapture{}
}

// Open starts a new stream, ending any previous one
func (u *UploadCapture) Open(ctx context.Context) (CaptureStream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.stream != nil {
		u.stream.finish(ErrCaptureEnded)
	}
	u.stream = &uploadStream{chunks: make(chan []byte, 16)}
	return u.stream, nil
}

// Push hands one chunk to the live stream
func (u *UploadCapture) Push(data []byte) error {
	u.mu.Lock()
	s := u.stream
	u.mu.Unlock()

	if s == nil {
		return ErrNotRecording
	}
	return s.push(data)
}

// Fail ends the live stream with err, as a device error would
func (u *UploadCapture) Fail(err error) {
	if err == nil {
		err = ErrCaptureEnded
	}

	u.mu.Lock()
	s := u.stream
	u.mu.Unlock()

	if s != nil {
		s.finish(err)
	}
}

// Live reports whether a stream is open and accepting chunks
func (u *UploadCapture) Live() bool {
	u.mu.Lock()
	s := u.stream
	u.mu.Unlock()

	return s != nil && !s.ended()
}

type uploadStream struct {
	mu     sync.Mutex
	chunks chan []byte
	closed bool
	err    error
}

// push holds the lock while sending so finish cannot close the channel
// under it; the recorder drains the channel until it is closed.
func (s *uploadStream) push(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrNotRecording
	}
	s.chunks <- data
	return nil
}

func (s *uploadStream) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.err = err
	close(s.chunks)
}

func (s *uploadStream) ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *uploadStream) Chunks() <-chan []byte {
	return s.chunks
}

func (s *uploadStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *uploadStream) Stop() {
	s.finish(nil)
}
