// ABOUTME: Bounded live audio capture with a background chunk-reading loop
// ABOUTME: Stop is a single-slot signal channel; Stop joins the loop before releasing the stream
package audio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

const (
	// SampleRate is the capture rate in Hz
	SampleRate = 44100
	// ChunkSize is the number of samples read from the stream per iteration
	ChunkSize = 1024
)

var (
	// ErrDevice is returned when the audio input cannot be opened or started
	ErrDevice = errors.New("audio device error")
	// ErrStopped is returned by Stop on an already stopped capture
	ErrStopped = errors.New("capture already stopped")
)

// Stream is an open mono 16-bit input stream
type Stream interface {
	Start() error
	// Read blocks until len(dst) samples are available and copies them into dst.
	// overflowed reports that samples were dropped before this read.
	Read(dst []int16) (overflowed bool, err error)
	Stop() error
	Close() error
}

// Device opens input streams
type Device interface {
	Open(sampleRate, chunkSize int) (Stream, error)
}

// Capture owns one open stream and the loop collecting chunks from it
type Capture struct {
	stream    Stream
	chunkSize int
	logger    *log.Logger

	stop    chan struct{}
	group   *errgroup.Group
	chunks  [][]int16
	stopped bool
	mu      sync.Mutex
}

// Start opens a stream on dev and launches the collection loop. On failure no
// loop is running and no stream is left open. Cancelling ctx ends the loop the
// same way Stop does; Stop must still be called to release the stream.
func Start(ctx context.Context, dev Device, logger *log.Logger) (*Capture, error) {
	if logger == nil {
		logger = log.Default()
	}

	stream, err := dev.Open(SampleRate, ChunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: opening input stream: %w", ErrDevice, err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("%w: starting input stream: %w", ErrDevice, err)
	}

	c := &Capture{
		stream:    stream,
		chunkSize: ChunkSize,
		logger:    logger,
		stop:      make(chan struct{}, 1),
	}

	g, gctx := errgroup.WithContext(ctx)
	c.group = g
	g.Go(func() error { return c.collect(gctx) })

	return c, nil
}

// collect reads chunks until signalled. The signal is only checked between
// reads, so stop latency is bounded by one chunk (~23ms at 44.1kHz) and the
// chunk in flight when Stop is called is kept.
func (c *Capture) collect(ctx context.Context) error {
	for i := 0; ; i++ {
		// Cancellation wins over a pending stop signal
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-c.stop:
			return nil
		default:
		}

		chunk := make([]int16, c.chunkSize)
		overflowed, err := c.stream.Read(chunk)
		if err != nil {
			return fmt.Errorf("reading chunk %d: %w", i, err)
		}
		if overflowed {
			c.logger.Warn("audio input overflowed, samples dropped", "chunk", i)
		}
		c.chunks = append(c.chunks, chunk)
	}
}

// Stop signals the loop, waits for it to exit, then stops and closes the
// stream. The returned buffer holds every chunk read before the signal was
// observed, in order. A loop error is returned together with what was captured.
func (c *Capture) Stop() ([]int16, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return nil, ErrStopped
	}
	c.stopped = true

	select {
	case c.stop <- struct{}{}:
	default:
	}

	loopErr := c.group.Wait()

	if err := c.stream.Stop(); err != nil {
		c.logger.Debug("stopping input stream", "err", err)
	}
	closeErr := c.stream.Close()

	samples := concat(c.chunks)
	c.chunks = nil

	if loopErr != nil {
		if errors.Is(loopErr, context.Canceled) || errors.Is(loopErr, context.DeadlineExceeded) {
			return samples, loopErr
		}
		return samples, fmt.Errorf("%w: capture loop: %w", ErrDevice, loopErr)
	}
	if closeErr != nil {
		return samples, fmt.Errorf("%w: closing input stream: %w", ErrDevice, closeErr)
	}
	return samples, nil
}

func concat(chunks [][]int16) []int16 {
	n := 0
	for _, ch := range chunks {
		n += len(ch)
	}
	out := make([]int16, 0, n)
	for _, ch := range chunks {
		out = append(out, ch...)
	}
	return out
}
