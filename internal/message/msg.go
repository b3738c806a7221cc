// Package message is the platform-agnostic outbound message model: a builder
// of segments, the per-platform handlers that turn segments into native
// messages, and the dispatcher that sends them.
package message

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedOperation is returned when a message is combined with an unsupported operand
var ErrUnsupportedOperation = errors.New("unsupported message operation")

// Msg builds an ordered sequence of segments. Only adjacent text appended
// with Text is coalesced; nothing is ever reordered or dropped.
type Msg struct {
	segs []Segment
}

// New creates a message from strings, segments, segment slices or messages
func New(parts ...any) (*Msg, error) {
	m := &Msg{}
	for _, p := range parts {
		switch v := p.(type) {
		case Segment:
			m.segs = append(m.segs, v)
		case []Segment:
			m.segs = append(m.segs, v...)
		default:
			if err := m.Append(v); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

// Text appends s, extending the last segment when it is text
func (m *Msg) Text(s string) *Msg {
	if n := len(m.segs); n > 0 && m.segs[n-1].Type == TypeText {
		m.segs[n-1].Data += s
		return m
	}
	m.segs = append(m.segs, TextSegment(s))
	return m
}

// Image appends an image from a URL or a filesystem path
func (m *Msg) Image(src string) *Msg {
	m.segs = append(m.segs, ImageSegment(MediaFrom(src)))
	return m
}

// ImageBytes appends an image from raw content
func (m *Msg) ImageBytes(b []byte) *Msg {
	m.segs = append(m.segs, ImageSegment(MediaBytes(b)))
	return m
}

// Voice appends a voice clip from a URL or a filesystem path
func (m *Msg) Voice(src string) *Msg {
	m.segs = append(m.segs, VoiceSegment(MediaFrom(src)))
	return m
}

// VoiceBytes appends a voice clip from raw content
func (m *Msg) VoiceBytes(b []byte) *Msg {
	m.segs = append(m.segs, VoiceSegment(MediaBytes(b)))
	return m
}

// At appends a mention of userID
func (m *Msg) At(userID string) *Msg {
	m.segs = append(m.segs, AtSegment(userID))
	return m
}

// Append adds other in place. A string is appended as Text; the segments of a
// *Msg are appended as they are.
func (m *Msg) Append(other any) error {
	switch v := other.(type) {
	case string:
		m.Text(v)
	case *Msg:
		if v != nil {
			m.segs = append(m.segs, v.segs...)
		}
	default:
		return fmt.Errorf("%w: cannot add %T to message", ErrUnsupportedOperation, other)
	}
	return nil
}

// Add returns a new message holding m followed by other
func (m *Msg) Add(other any) (*Msg, error) {
	out := m.Copy()
	if err := out.Append(other); err != nil {
		return nil, err
	}
	return out, nil
}

// Concat joins parts left to right into a new message
func Concat(parts ...any) (*Msg, error) {
	out := &Msg{}
	for _, p := range parts {
		if err := out.Append(p); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Copy returns a message with its own segment list. Media bytes are shared.
func (m *Msg) Copy() *Msg {
	if m == nil {
		return &Msg{}
	}
	return &Msg{segs: append([]Segment(nil), m.segs...)}
}

// Segments returns a copy of the segment sequence
func (m *Msg) Segments() []Segment {
	if m == nil {
		return nil
	}
	return append([]Segment(nil), m.segs...)
}

// Len returns the number of segments
func (m *Msg) Len() int {
	if m == nil {
		return 0
	}
	return len(m.segs)
}

// IsEmpty reports whether the message has no segments
func (m *Msg) IsEmpty() bool { return m.Len() == 0 }

func (m *Msg) String() string {
	var sb strings.Builder
	for _, s := range m.Segments() {
		sb.WriteString(s.String())
	}
	return sb.String()
}
