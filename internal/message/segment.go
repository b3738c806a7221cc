package message

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"
)

var (
	// ErrNoFetcher is returned when remote media must be downloaded but no fetcher is configured
	ErrNoFetcher = errors.New("no media fetcher configured")
	// ErrUnknownSegment is returned by handlers for segment types they do not know
	ErrUnknownSegment = errors.New("unknown segment type")
)

// SegmentType is the kind of a platform-agnostic segment
type SegmentType string

const (
	TypeText  SegmentType = "text"
	TypeImage SegmentType = "image"
	TypeAt    SegmentType = "at"
	TypeVoice SegmentType = "voice"
)

// Fetcher downloads remote media
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Media is the payload of an image or voice segment. Exactly one field is set.
type Media struct {
	URL   string
	Path  string
	Bytes []byte
}

// MediaFrom classifies src: an http(s) URL, otherwise a filesystem path
func MediaFrom(src string) Media {
	lower := strings.ToLower(src)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Media{URL: src}
	}
	return Media{Path: src}
}

// MediaBytes wraps raw content
func MediaBytes(b []byte) Media {
	return Media{Bytes: b}
}

// IsURL reports whether the media is a remote URL
func (m Media) IsURL() bool { return m.URL != "" }

// IsPath reports whether the media is a local file
func (m Media) IsPath() bool { return m.URL == "" && m.Path != "" }

// Load returns the media content, reading a path from disk or downloading a
// URL with f.
func (m Media) Load(ctx context.Context, f Fetcher) ([]byte, error) {
	switch {
	case m.Bytes != nil:
		return m.Bytes, nil
	case m.URL != "":
		if f == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoFetcher, m.URL)
		}
		return f.Get(ctx, m.URL)
	case m.Path != "":
		data, err := os.ReadFile(m.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read media file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("empty media")
	}
}

// FileName names the media for an upload: the base name of a path or URL when
// it has one, otherwise a ULID with ext appended.
func (m Media) FileName(ext string) string {
	var base string
	switch {
	case m.Path != "":
		base = filepath.Base(m.Path)
	case m.URL != "":
		if u, err := url.Parse(m.URL); err == nil {
			base = path.Base(u.Path)
		}
	}
	if base == "" || base == "." || base == "/" || !strings.Contains(base, ".") {
		return strings.ToLower(ulid.Make().String()) + ext
	}
	return base
}

// String describes the media without dumping its content
func (m Media) String() string {
	switch {
	case m.URL != "":
		return m.URL
	case m.Path != "":
		return "file:" + m.Path
	default:
		return fmt.Sprintf("bytes(%d)", len(m.Bytes))
	}
}

// Segment is one piece of outbound content. Data carries text and mention
// targets; Media carries image and voice payloads.
type Segment struct {
	Type  SegmentType
	Data  string
	Media Media
}

// TextSegment creates a text segment
func TextSegment(s string) Segment { return Segment{Type: TypeText, Data: s} }

// AtSegment creates a mention of userID
func AtSegment(userID string) Segment { return Segment{Type: TypeAt, Data: userID} }

// ImageSegment creates an image segment
func ImageSegment(m Media) Segment { return Segment{Type: TypeImage, Media: m} }

// VoiceSegment creates a voice segment
func VoiceSegment(m Media) Segment { return Segment{Type: TypeVoice, Media: m} }

func (s Segment) String() string {
	switch s.Type {
	case TypeText:
		return s.Data
	case TypeAt:
		return "[at:" + s.Data + "]"
	default:
		return "[" + string(s.Type) + ":" + s.Media.String() + "]"
	}
}

// MergeText coalesces consecutive text segments of an already built sequence.
// Other segments keep their order.
func MergeText(segs []Segment) []Segment {
	out := make([]Segment, 0, len(segs))
	for _, s := range segs {
		if s.Type == TypeText && len(out) > 0 && out[len(out)-1].Type == TypeText {
			out[len(out)-1].Data += s.Data
			continue
		}
		out = append(out, s)
	}
	return out
}
