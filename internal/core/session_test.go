// ABOUTME: Tests for the voice SessionRunner
// ABOUTME: Uses a fake audio device and transcriber to drive full sessions
package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/diary/internal/audio"
	"github.com/harper/diary/internal/llm"
)

// silentStream returns zeroed chunks at roughly real-time pace
type silentStream struct {
	mu     sync.Mutex
	closed bool
}

func (s *silentStream) Start() error { return nil }

func (s *silentStream) Read(dst []int16) (bool, error) {
	time.Sleep(time.Millisecond)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, errors.New("read after close")
	}
	clear(dst)
	return false, nil
}

func (s *silentStream) Stop() error { return nil }

func (s *silentStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type silentDevice struct {
	streams []*silentStream
	openErr error
}

func (d *silentDevice) Open(sampleRate, chunkSize int) (audio.Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	s := &silentStream{}
	d.streams = append(d.streams, s)
	return s, nil
}

// scriptedTranscriber returns fixed answers in call order
type scriptedTranscriber struct {
	answers []string
	failAt  int
	paths   []string
	sizes   []int64
}

func (f *scriptedTranscriber) Transcribe(ctx context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	f.sizes = append(f.sizes, info.Size())

	call := len(f.paths)
	if f.failAt > 0 && call == f.failAt {
		return "", fmt.Errorf("%w: quota exceeded", llm.ErrTranscription)
	}
	return f.answers[call-1], nil
}

func fixedNow() time.Time {
	return time.Date(2024, time.January, 1, 21, 0, 0, 0, time.Local)
}

func newTestRunner(t *testing.T, in string, dev audio.Device, tr Transcriber, states *[]string) *SessionRunner {
	t.Helper()
	var logs bytes.Buffer
	return NewSessionRunner(SessionConfig{
		Device:      dev,
		Transcriber: tr,
		In:          strings.NewReader(in),
		Out:         &bytes.Buffer{},
		Logger:      log.New(&logs),
		TempDir:     t.TempDir(),
		Now:         fixedNow,
		OnTransition: func(state State, section string) {
			if states != nil {
				*states = append(*states, state.String()+":"+section)
			}
		},
	})
}

func TestSessionRunner_FullSession(t *testing.T) {
	dev := &silentDevice{}
	tr := &scriptedTranscriber{answers: []string{"A", "B", "C", "D"}}
	var states []string

	runner := newTestRunner(t, strings.Repeat("\n", 8), dev, tr, &states)
	if runner.State() != StateIdle {
		t.Errorf("initial state = %s, want idle", runner.State())
	}

	doc, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	want := "# 2024_01_01\n\n" +
		"# Today\n\nA\n\n# Problems\n\nB\n\n# Findings\n\nC\n\n# Questions\n\nD\n\n"
	if got := doc.Markdown(); got != want {
		t.Errorf("Markdown() = %q, want %q", got, want)
	}

	if runner.State() != StateDone {
		t.Errorf("final state = %s, want done", runner.State())
	}

	wantStates := []string{
		"awaiting_start:Today", "recording:Today", "transcribing:Today",
		"awaiting_start:Problems", "recording:Problems", "transcribing:Problems",
		"awaiting_start:Findings", "recording:Findings", "transcribing:Findings",
		"awaiting_start:Questions", "recording:Questions", "transcribing:Questions",
		"done:",
	}
	if strings.Join(states, ",") != strings.Join(wantStates, ",") {
		t.Errorf("transitions = %v, want %v", states, wantStates)
	}

	if len(dev.streams) != 4 {
		t.Fatalf("opened %d streams, want 4", len(dev.streams))
	}
	for i, s := range dev.streams {
		if !s.closed {
			t.Errorf("stream %d left open", i)
		}
	}
}

func TestSessionRunner_TemporaryRecordingsRemoved(t *testing.T) {
	tr := &scriptedTranscriber{answers: []string{"A", "B", "C", "D"}}
	runner := newTestRunner(t, strings.Repeat("\n", 8), &silentDevice{}, tr, nil)

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if len(tr.paths) != 4 {
		t.Fatalf("transcribed %d files, want 4", len(tr.paths))
	}
	for i, p := range tr.paths {
		if !strings.HasSuffix(p, ".wav") {
			t.Errorf("recording %d path %s should end in .wav", i, p)
		}
		if tr.sizes[i] < audio.WAVHeaderSize {
			t.Errorf("recording %d size = %d, want at least a WAV header", i, tr.sizes[i])
		}
		if _, err := os.Stat(p); !errors.Is(err, os.ErrNotExist) {
			t.Errorf("recording %s should be removed after transcription", p)
		}
	}
}

func TestSessionRunner_KeepAudio(t *testing.T) {
	tr := &scriptedTranscriber{answers: []string{"A", "B", "C", "D"}}
	var logs bytes.Buffer
	runner := NewSessionRunner(SessionConfig{
		Device:      &silentDevice{},
		Transcriber: tr,
		In:          strings.NewReader(strings.Repeat("\n", 8)),
		Logger:      log.New(&logs),
		TempDir:     t.TempDir(),
		KeepAudio:   true,
		Now:         fixedNow,
	})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	for _, p := range tr.paths {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("recording %s should be kept: %v", p, err)
		}
	}
}

func TestSessionRunner_TranscriptionFailureAborts(t *testing.T) {
	dev := &silentDevice{}
	tr := &scriptedTranscriber{answers: []string{"A", "B", "C", "D"}, failAt: 2}
	var states []string

	runner := newTestRunner(t, strings.Repeat("\n", 8), dev, tr, &states)
	doc, err := runner.Run(context.Background())

	if doc != nil {
		t.Error("Run() should not return a document after a failure")
	}
	if !errors.Is(err, llm.ErrTranscription) {
		t.Errorf("Run() error = %v, want ErrTranscription", err)
	}
	if !strings.Contains(err.Error(), "Problems") {
		t.Errorf("error %q should name the failing section", err)
	}
	if len(tr.paths) != 2 {
		t.Errorf("transcribed %d sections, want 2", len(tr.paths))
	}
	if states[len(states)-1] != "transcribing:Problems" {
		t.Errorf("last state = %s, want transcribing:Problems", states[len(states)-1])
	}
	if _, err := os.Stat(tr.paths[1]); !errors.Is(err, os.ErrNotExist) {
		t.Error("failed recording should still be removed")
	}
}

func TestSessionRunner_DeviceError(t *testing.T) {
	dev := &silentDevice{openErr: errors.New("no microphone")}
	tr := &scriptedTranscriber{}

	runner := newTestRunner(t, strings.Repeat("\n", 8), dev, tr, nil)
	_, err := runner.Run(context.Background())

	if !errors.Is(err, audio.ErrDevice) {
		t.Errorf("Run() error = %v, want ErrDevice", err)
	}
	if len(tr.paths) != 0 {
		t.Errorf("transcriber called %d times, want 0", len(tr.paths))
	}
}

func TestSessionRunner_InputClosedWhileRecording(t *testing.T) {
	dev := &silentDevice{}
	tr := &scriptedTranscriber{answers: []string{"A"}}

	// One Enter starts the recording, then stdin closes
	runner := newTestRunner(t, "\n", dev, tr, nil)
	_, err := runner.Run(context.Background())

	if err == nil {
		t.Fatal("Run() should fail when input closes")
	}
	if len(dev.streams) != 1 || !dev.streams[0].closed {
		t.Error("the open stream should be released before returning")
	}
	if runner.State() != StateRecording {
		t.Errorf("state = %s, want recording", runner.State())
	}
}

func TestSessionRunner_CancelWhileRecording(t *testing.T) {
	dev := &silentDevice{}
	tr := &scriptedTranscriber{answers: []string{"A"}}

	pr, pw := io.Pipe()
	defer pw.Close()
	go func() { _, _ = pw.Write([]byte("\n")) }()

	recording := make(chan struct{}, 1)
	runner := NewSessionRunner(SessionConfig{
		Device:      dev,
		Transcriber: tr,
		In:          pr,
		Out:         &bytes.Buffer{},
		Logger:      log.New(&bytes.Buffer{}),
		TempDir:     t.TempDir(),
		Now:         fixedNow,
		OnTransition: func(state State, section string) {
			if state == StateRecording {
				recording <- struct{}{}
			}
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := runner.Run(ctx)
		errc <- err
	}()

	<-recording
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancellation")
	}
	if len(dev.streams) != 1 || !dev.streams[0].closed {
		t.Error("the open stream should be released on cancellation")
	}
	if len(tr.paths) != 0 {
		t.Errorf("transcriber called %d times, want 0", len(tr.paths))
	}
}

func TestSessionRunner_PromptsOnOutput(t *testing.T) {
	var out bytes.Buffer
	var logs bytes.Buffer
	runner := NewSessionRunner(SessionConfig{
		Device:      &silentDevice{},
		Transcriber: &scriptedTranscriber{answers: []string{"x", "y"}},
		In:          strings.NewReader(strings.Repeat("\n", 4)),
		Out:         &out,
		Logger:      log.New(&logs),
		Sections:    []string{"Today", "Problems"},
		TempDir:     t.TempDir(),
		Now:         fixedNow,
	})

	if _, err := runner.Run(context.Background()); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	for _, want := range []string{
		"Recording section: Today",
		"Recording section: Problems",
		"Press Enter to start recording",
		"Recording... Press Enter to stop.",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateAwaitingStart, "awaiting_start"},
		{StateRecording, "recording"},
		{StateTranscribing, "transcribing"},
		{StateDone, "done"},
		{State(42), "state(42)"},
	}

	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", int(tt.state), got, tt.want)
		}
	}
}
