// ABOUTME: TextSession asks each diary prompt on stdin and reads one typed line per section
// ABOUTME: Produces the same dated Document as the voice session
package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/harper/diary/internal/models"
	"github.com/harper/diary/internal/ui"
)

// TextSession drives one typed diary session
type TextSession struct {
	in       *bufio.Reader
	out      io.Writer
	sections []string
	now      func() time.Time
}

// NewTextSession creates a session reading answers from in and prompting on out
func NewTextSession(in io.Reader, out io.Writer) *TextSession {
	if out == nil {
		out = io.Discard
	}
	return &TextSession{
		in:       bufio.NewReader(in),
		out:      out,
		sections: models.DefaultSections(),
		now:      time.Now,
	}
}

// Run prompts for every section in order
func (s *TextSession) Run(ctx context.Context) (*models.Document, error) {
	doc := models.NewDocument(s.now())

	for _, section := range s.sections {
		fmt.Fprint(s.out, ui.SectionStyle.Render(section+":")+" ")
		answer, err := s.readLine(ctx)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", section, err)
		}
		doc.Add(section, answer)
	}

	return doc, nil
}

// readLine returns one line without its terminator. A final line without a
// newline is accepted; EOF before any input is an error.
func (s *TextSession) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	type result struct {
		line string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		line, err := s.in.ReadString('\n')
		done <- result{line, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if r.err != nil {
		if !errors.Is(r.err, io.EOF) || r.line == "" {
			return "", fmt.Errorf("reading answer: %w", r.err)
		}
	}
	return strings.TrimRight(r.line, "\r\n"), nil
}
