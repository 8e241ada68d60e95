// ABOUTME: PortAudio-backed audio.Device reading from the default input
// ABOUTME: Kept apart from the capture loop so only this package needs the C library
package portaudio

import (
	"errors"
	"fmt"
	"sync"

	pa "github.com/gordonklaus/portaudio"

	"github.com/harper/diary/internal/audio"
)

var _ audio.Device = (*Device)(nil)

// Device opens mono int16 streams on the system default input.
// Initialize must be called before Open and Terminate once the device is no
// longer needed.
type Device struct {
	mu          sync.Mutex
	initialized bool
}

// NewDevice returns an uninitialized device
func NewDevice() *Device {
	return &Device{}
}

// Initialize loads the portaudio host APIs
func (d *Device) Initialize() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.initialized {
		return nil
	}
	if err := pa.Initialize(); err != nil {
		return fmt.Errorf("%w: initializing portaudio: %w", audio.ErrDevice, err)
	}
	d.initialized = true
	return nil
}

// Terminate releases portaudio
func (d *Device) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.initialized {
		return nil
	}
	d.initialized = false
	return pa.Terminate()
}

// Open opens a single-channel input stream whose reads fill chunkSize samples
func (d *Device) Open(sampleRate, chunkSize int) (audio.Stream, error) {
	d.mu.Lock()
	initialized := d.initialized
	d.mu.Unlock()
	if !initialized {
		return nil, errors.New("portaudio not initialized")
	}

	buf := make([]int16, chunkSize)
	stream, err := pa.OpenDefaultStream(1, 0, float64(sampleRate), chunkSize, buf)
	if err != nil {
		return nil, err
	}
	return &inputStream{stream: stream, buf: buf}, nil
}

// inputStream reads into the buffer bound at open time and copies out
type inputStream struct {
	stream *pa.Stream
	buf    []int16
}

func (s *inputStream) Start() error {
	return s.stream.Start()
}

func (s *inputStream) Read(dst []int16) (bool, error) {
	err := s.stream.Read()
	overflowed := false
	if errors.Is(err, pa.InputOverflowed) {
		overflowed = true
		err = nil
	}
	if err != nil {
		return false, err
	}
	copy(dst, s.buf)
	return overflowed, nil
}

func (s *inputStream) Stop() error {
	return s.stream.Stop()
}

func (s *inputStream) Close() error {
	return s.stream.Close()
}
