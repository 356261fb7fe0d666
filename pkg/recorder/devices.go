package recorder

import (
	"context"
	"errors"
)

var ErrPermissionDenied = errors.New("recorder: camera or microphone permission denied")

// Devices acquires the camera and microphone.
type Devices interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is a live camera/microphone stream. The session owns it
// exclusively and closes it when done.
type Stream interface {
	NewRecorder() (MediaRecorder, error)
	Close() error
}

// MediaRecorder captures one segment from a stream.
type MediaRecorder interface {
	Start() error
	// Flush returns what was captured since the previous call.
	Flush() ([]byte, error)
	// Stop ends the capture and returns the remaining data.
	Stop() ([]byte, error)
	MimeType() string
}
