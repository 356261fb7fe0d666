package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"agroskills-platform/pkg/faceanalysis"
	"agroskills-platform/pkg/recorder"

	"github.com/gabriel-vasile/mimetype"
)

// fileDevices stands in for the camera: every answer is read from a
// pre-recorded segment file in dir, in name order.
type fileDevices struct {
	dir       string
	chunkSize int
}

func (d *fileDevices) Open(ctx context.Context) (recorder.Stream, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", recorder.ErrPermissionDenied, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		files = append(files, filepath.Join(d.dir, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no segments in %s", recorder.ErrPermissionDenied, d.dir)
	}
	sort.Strings(files)
	return &fileStream{files: files, chunkSize: d.chunkSize}, nil
}

type fileStream struct {
	mu        sync.Mutex
	files     []string
	next      int
	chunkSize int
}

func (s *fileStream) NewRecorder() (recorder.MediaRecorder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.next >= len(s.files) {
		return &fileRecorder{mime: "video/webm", chunkSize: s.chunkSize}, nil
	}
	path := s.files[s.next]
	s.next++
	return &fileRecorder{path: path, chunkSize: s.chunkSize}, nil
}

func (s *fileStream) Close() error { return nil }

// fileRecorder hands out its file in chunks on every Flush.
type fileRecorder struct {
	path      string
	mime      string
	chunkSize int

	mu   sync.Mutex
	data []byte
}

func (r *fileRecorder) Start() error {
	if r.path == "" {
		return nil
	}
	data, err := os.ReadFile(r.path)
	if err != nil {
		return err
	}
	r.mime = mimetype.Detect(data).String()
	if !strings.HasPrefix(r.mime, "video/") {
		r.mime = "video/webm"
	}
	r.mu.Lock()
	r.data = data
	r.mu.Unlock()
	return nil
}

func (r *fileRecorder) Flush() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := min(r.chunkSize, len(r.data))
	chunk := r.data[:n:n]
	r.data = r.data[n:]
	return chunk, nil
}

func (r *fileRecorder) Stop() ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rest := r.data
	r.data = nil
	return rest, nil
}

func (r *fileRecorder) MimeType() string {
	// drop codec parameters
	mt, _, _ := strings.Cut(r.mime, ";")
	return mt
}

// replayDetector replays detections recorded in a JSON file, one per call.
func replayDetector(path string) (faceanalysis.Detector, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var frames []*faceanalysis.Detection
	if err := json.Unmarshal(raw, &frames); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	var (
		mu sync.Mutex
		i  int
	)
	return faceanalysis.DetectorFunc(func(ctx context.Context) (*faceanalysis.Detection, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(frames) == 0 {
			return nil, faceanalysis.ErrNoFace
		}
		d := frames[i%len(frames)]
		i++
		if d == nil {
			return nil, faceanalysis.ErrNoFace
		}
		return d, nil
	}), nil
}
