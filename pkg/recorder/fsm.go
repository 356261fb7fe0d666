// Package recorder drives a simulated interview: camera acquisition,
// per-question recording, upload, analysis polling and the final report.
package recorder

import (
	"errors"
	"fmt"
	"sync"
)

type State string

const (
	StateIdle            State = "idle"
	StateCameraRequested State = "camera-requested"
	StateCameraReady     State = "camera-ready"
	StateCameraDenied    State = "camera-denied"
	StateRecording       State = "recording"
	StateUploading       State = "uploading"
	StateCompleted       State = "completed"
	StateReportReady     State = "report-ready"
)

type Event string

const (
	EventRequestCamera   Event = "request-camera"
	EventCameraGranted   Event = "camera-granted"
	EventCameraDenied    Event = "camera-denied"
	EventRetry           Event = "retry"
	EventStartRecording  Event = "start-recording"
	EventStopRecording   Event = "stop-recording"
	EventUploadSucceeded Event = "upload-succeeded"
	EventUploadFailed    Event = "upload-failed"
	EventNextQuestion    Event = "next-question"
	EventFinish          Event = "finish"
	EventReportLoaded    Event = "report-loaded"
	EventStopCamera      Event = "stop-camera"
)

var ErrInvalidTransition = errors.New("recorder: invalid transition")

// TransitionError names the rejected event.
type TransitionError struct {
	From  State
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("recorder: event %q not allowed in state %q", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventRequestCamera: StateCameraRequested,
	},
	StateCameraRequested: {
		EventCameraGranted: StateCameraReady,
		EventCameraDenied:  StateCameraDenied,
	},
	StateCameraDenied: {
		EventRetry:      StateCameraRequested,
		EventStopCamera: StateIdle,
	},
	StateCameraReady: {
		EventStartRecording: StateRecording,
		EventNextQuestion:   StateCameraReady,
		EventFinish:         StateCompleted,
		EventStopCamera:     StateIdle,
	},
	StateRecording: {
		EventStopRecording: StateUploading,
	},
	StateUploading: {
		EventUploadSucceeded: StateCameraReady,
		EventUploadFailed:    StateCameraReady,
	},
	StateCompleted: {
		EventReportLoaded: StateReportReady,
	},
}

// Machine holds the current state and applies the transition table.
type Machine struct {
	mu       sync.Mutex
	state    State
	observer func(from, to State, ev Event)
}

func NewMachine(observer func(from, to State, ev Event)) *Machine {
	return &Machine{state: StateIdle, observer: observer}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Can(ev Event) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := transitions[m.state][ev]
	return ok
}

// Fire applies ev. An event the table does not allow returns a
// *TransitionError and leaves the state alone.
func (m *Machine) Fire(ev Event) (State, error) {
	m.mu.Lock()
	from := m.state
	to, ok := transitions[from][ev]
	if !ok {
		m.mu.Unlock()
		return from, &TransitionError{From: from, Event: ev}
	}
	m.state = to
	obs := m.observer
	m.mu.Unlock()

	if obs != nil {
		obs(from, to, ev)
	}
	return to, nil
}

// reset forces the machine back to idle; used when a session is closed.
func (m *Machine) reset() {
	m.mu.Lock()
	m.state = StateIdle
	m.mu.Unlock()
}
