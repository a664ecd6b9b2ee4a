// Package input provides the throttle sources that drive a simulation: an
// interactive console, a fixed script, and a circuit breaker wrapper that
// stops a run when its source keeps failing.
package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Prompt is written before every console read.
const Prompt = "Enter thrust % (0-100): "

// Console reads one throttle command per line from an operator. Lines are
// read on a background goroutine so a cancelled context releases a caller
// blocked at the prompt; a line typed after cancellation is kept for the
// next call.
type Console struct {
	reader *bufio.Reader
	writer io.Writer

	once  sync.Once
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewConsole creates a console source reading from r and prompting on w.
func NewConsole(r io.Reader, w io.Writer) *Console {
	return &Console{
		reader: bufio.NewReader(r),
		writer: w,
		lines:  make(chan readResult),
	}
}

// readLines feeds lines to NextThrust until the reader fails, then closes
// the channel.
func (c *Console) readLines() {
	defer close(c.lines)
	for {
		line, err := c.reader.ReadString('\n')
		c.lines <- readResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}

// NextThrust prompts for and parses one line. Text that is not a throttle
// percentage in [0, 100] returns an error wrapping
// validation.ErrInvalidThrust. End of input returns io.EOF, and
// cancellation of ctx returns ctx.Err() without waiting for the line.
func (c *Console) NextThrust(ctx context.Context, state physics.LanderState) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if _, err := io.WriteString(c.writer, Prompt); err != nil {
		return 0, fmt.Errorf("failed to write prompt: %w", err)
	}

	c.once.Do(func() { go c.readLines() })

	var res readResult
	var ok bool
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case res, ok = <-c.lines:
		if !ok {
			return 0, io.EOF
		}
	}

	if res.err != nil {
		if res.err != io.EOF {
			return 0, fmt.Errorf("failed to read input: %w", res.err)
		}
		// A final line without a newline still counts.
		if strings.TrimSpace(res.line) == "" {
			return 0, io.EOF
		}
	}

	return validation.ParseThrust(res.line)
}
