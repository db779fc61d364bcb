package source

import "fmt"

// Span is a half-open byte range [Start, End) inside one file. The zero Span
// means "no location": load errors and verdict reasons carry it.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) IsZero() bool { return s == Span{} }

func (s Span) Len() uint32 { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Cover widens s to include other; spans of different files leave s as is.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	s.Start = min(s.Start, other.Start)
	s.End = max(s.End, other.End)
	return s
}

// Head is the empty span at the first byte of s, used to point at a loop
// keyword rather than the whole loop.
func (s Span) Head() Span {
	s.End = s.Start
	return s
}
