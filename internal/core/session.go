// ABOUTME: SessionRunner walks the diary prompts: wait, record, stop, transcribe
// ABOUTME: Produces a dated Document once every section has been transcribed
package core

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/harper/diary/internal/audio"
	"github.com/harper/diary/internal/models"
	"github.com/harper/diary/internal/storage"
	"github.com/harper/diary/internal/ui"
)

// Transcriber turns an audio file into text
type Transcriber interface {
	Transcribe(ctx context.Context, path string) (string, error)
}

// State is a SessionRunner position in the prompt sequence
type State int

const (
	StateIdle State = iota
	StateAwaitingStart
	StateRecording
	StateTranscribing
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingStart:
		return "awaiting_start"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// SessionConfig wires a SessionRunner to its collaborators
type SessionConfig struct {
	Device      audio.Device
	Transcriber Transcriber
	In          io.Reader
	Out         io.Writer
	Logger      *log.Logger

	// Sections defaults to models.DefaultSections
	Sections []string
	// TempDir holds per-section WAV files; empty means os.TempDir
	TempDir string
	// KeepAudio leaves the per-section WAV files on disk
	KeepAudio bool
	// Now defaults to time.Now
	Now func() time.Time
	// OnTransition is called on every state change
	OnTransition func(state State, section string)
}

// SessionRunner drives one voice diary session
type SessionRunner struct {
	cfg       SessionConfig
	in        *bufio.Reader
	logger    *log.Logger
	sessionID string
	state     State
}

// NewSessionRunner creates a runner in the idle state
func NewSessionRunner(cfg SessionConfig) *SessionRunner {
	if len(cfg.Sections) == 0 {
		cfg.Sections = models.DefaultSections()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Out == nil {
		cfg.Out = io.Discard
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	sessionID := uuid.New().String()[:8]
	return &SessionRunner{
		cfg:       cfg,
		in:        bufio.NewReader(cfg.In),
		logger:    logger.With("session", sessionID),
		sessionID: sessionID,
		state:     StateIdle,
	}
}

// State returns the current state
func (r *SessionRunner) State() State {
	return r.state
}

func (r *SessionRunner) transition(state State, section string) {
	r.state = state
	r.logger.Debug("session state", "state", state, "section", section)
	if r.cfg.OnTransition != nil {
		r.cfg.OnTransition(state, section)
	}
}

// Run records and transcribes every section in order. Any error aborts the
// session and no document is returned.
func (r *SessionRunner) Run(ctx context.Context) (*models.Document, error) {
	doc := models.NewDocument(r.cfg.Now())

	for _, section := range r.cfg.Sections {
		text, err := r.recordSection(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		doc.Add(section, text)
	}

	r.transition(StateDone, "")
	return doc, nil
}

func (r *SessionRunner) recordSection(ctx context.Context, section string) (string, error) {
	r.transition(StateAwaitingStart, section)
	fmt.Fprintln(r.cfg.Out, ui.SectionStyle.Render("Recording section: "+section))
	fmt.Fprintln(r.cfg.Out, ui.HintStyle.Render("Press Enter to start recording... Press Enter again to stop."))
	if err := r.waitEnter(ctx); err != nil {
		return "", err
	}

	capture, err := audio.Start(ctx, r.cfg.Device, r.logger)
	if err != nil {
		return "", err
	}
	r.transition(StateRecording, section)
	fmt.Fprintln(r.cfg.Out, ui.RecordingStyle.Render("Recording... Press Enter to stop."))

	// The stream is released before any error is reported
	waitErr := r.waitEnter(ctx)
	samples, stopErr := capture.Stop()
	if waitErr != nil {
		return "", waitErr
	}
	if stopErr != nil {
		return "", stopErr
	}

	r.transition(StateTranscribing, section)
	path, err := audio.WriteTempWAV(r.cfg.TempDir, "diary-"+r.sessionID+"-*.wav", samples, audio.SampleRate)
	if err != nil {
		return "", fmt.Errorf("%w: %w", storage.ErrFilesystem, err)
	}
	if r.cfg.KeepAudio {
		r.logger.Info("keeping recording", "section", section, "file", path)
	} else {
		defer func() {
			if err := os.Remove(path); err != nil {
				r.logger.Warn("removing temporary recording", "file", path, "err", err)
			}
		}()
	}

	r.logger.Info("transcribing", "section", section, "samples", len(samples))
	text, err := r.cfg.Transcriber.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}
	r.logger.Info("transcription complete", "section", section)

	return text, nil
}

// waitEnter blocks until a line is read or ctx is done. On cancellation the
// pending read is abandoned; the session is over at that point.
func (r *SessionRunner) waitEnter(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		_, err := r.in.ReadString('\n')
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("waiting for Enter: %w", err)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
