// pkg/input/script.go
package input

import (
	"context"
	"fmt"
	"strings"

	"github.com/opd-ai/go-lander/pkg/physics"
	"github.com/opd-ai/go-lander/pkg/validation"
)

// Script replays a fixed sequence of throttle commands. Once the sequence
// is used up it keeps repeating the last value, or zero for an empty script.
type Script struct {
	values []float64
	next   int
}

// NewScript creates a script source from values.
func NewScript(values ...float64) *Script {
	return &Script{values: append([]float64(nil), values...)}
}

// ParseScript parses a comma or whitespace separated list of throttle
// percentages such as "0, 0, 50 100".
func ParseScript(text string) (*Script, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})

	values := make([]float64, 0, len(fields))
	for i, field := range fields {
		v, err := validation.ParseThrust(field)
		if err != nil {
			return nil, fmt.Errorf("script entry %d: %w", i+1, err)
		}
		values = append(values, v)
	}
	return NewScript(values...), nil
}

// Len returns the number of scripted commands.
func (s *Script) Len() int {
	return len(s.values)
}

// NextThrust implements engine.InputSource.
func (s *Script) NextThrust(ctx context.Context, state physics.LanderState) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if len(s.values) == 0 {
		return 0, nil
	}
	if s.next >= len(s.values) {
		return s.values[len(s.values)-1], nil
	}
	v := s.values[s.next]
	s.next++
	return v, nil
}
