// ABOUTME: CLI command for the spoken diary session
// ABOUTME: Records each prompt from the microphone, transcribes it and saves the day's entry
package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/diary/internal/audio/portaudio"
	"github.com/harper/diary/internal/core"
	"github.com/harper/diary/internal/storage"
)

// NewVoiceCmd creates the voice command
func NewVoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Record today's diary by voice",
		Long: `Record today's diary by voice.

For each section (Today, Problems, Findings, Questions) press Enter to
start recording and Enter again to stop. Each answer is transcribed with
OpenAI and the finished diary is saved to the log directory together
with its embedding.

Requires OPENAI_API_KEY and a working microphone.`,
		Args: cobra.NoArgs,
		RunE: runVoice,
	}

	return cmd
}

func runVoice(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.RequireAPIKey(); err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr())

	store, err := storage.NewStorage(cfg.LogDir)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	client, err := newOpenAIClient(cfg)
	if err != nil {
		return err
	}

	device := portaudio.NewDevice()
	if err := device.Initialize(); err != nil {
		return err
	}
	defer func() {
		if err := device.Terminate(); err != nil {
			logger.Warn("terminating audio", "err", err)
		}
	}()

	ctx, stop := signal.NotifyContext(commandContext(cmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := core.NewSessionRunner(core.SessionConfig{
		Device:      device,
		Transcriber: client,
		In:          cmd.InOrStdin(),
		Out:         cmd.OutOrStdout(),
		Logger:      logger,
		KeepAudio:   cfg.KeepAudio,
	})

	doc, err := runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("voice session: %w", err)
	}

	if _, err := core.Persist(ctx, store, client, doc, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("saving diary: %w", err)
	}
	return nil
}
