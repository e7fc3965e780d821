// Package stream keeps a bounded window of generated segments along a single
// travel axis. New segments are generated ahead of a moving viewpoint and the
// oldest ones are evicted once the window is full.
package stream

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidConfiguration is returned by New for unusable settings.
	ErrInvalidConfiguration = errors.New("stream: invalid configuration")
	// ErrDisposed is returned by Advance once the stream has been torn down.
	ErrDisposed = errors.New("stream: disposed")
)

// Segment is one unit of generated content anchored on the travel axis.
type Segment[C any] struct {
	Index    int
	Position float64
	Content  C
}

// Config controls spacing, window size and the generation trigger.
type Config struct {
	SegmentLength      float64 // distance between consecutive segments, > 0
	Capacity           int     // maximum resident segments, >= 1
	ProximityThreshold float64 // distance to the frontier that triggers generation
}

// Validate reports whether the config can drive a stream.
func (c Config) Validate() error {
	switch {
	case math.IsNaN(c.SegmentLength) || c.SegmentLength <= 0:
		return fmt.Errorf("%w: segment length must be > 0, got %v", ErrInvalidConfiguration, c.SegmentLength)
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity must be >= 1, got %d", ErrInvalidConfiguration, c.Capacity)
	case math.IsNaN(c.ProximityThreshold) || c.ProximityThreshold < 0:
		return fmt.Errorf("%w: proximity threshold must be >= 0, got %v", ErrInvalidConfiguration, c.ProximityThreshold)
	}
	return nil
}

// Factory produces the content for the segment at index/position.
// It must not touch the stream that calls it.
type Factory[C any] func(index int, position float64) (C, error)

// Sink receives content as it enters and leaves the window.
type Sink[C any] interface {
	Add(content C)
	Remove(content C)
}

// SinkFuncs adapts a pair of functions to Sink.
type SinkFuncs[C any] struct {
	AddFunc    func(C)
	RemoveFunc func(C)
}

func (s SinkFuncs[C]) Add(content C) {
	if s.AddFunc != nil {
		s.AddFunc(content)
	}
}

func (s SinkFuncs[C]) Remove(content C) {
	if s.RemoveFunc != nil {
		s.RemoveFunc(content)
	}
}

// FactoryError wraps a failure returned by the Factory.
type FactoryError struct {
	Index    int
	Position float64
	Err      error
}

func (e *FactoryError) Error() string {
	return fmt.Sprintf("stream: generating segment %d at %v: %v", e.Index, e.Position, e.Err)
}

func (e *FactoryError) Unwrap() error { return e.Err }

// Stream owns the resident segments and their content until eviction.
// It is not safe for concurrent use; drive it from the frame loop.
type Stream[C any] struct {
	cfg      Config
	factory  Factory[C]
	sink     Sink[C]
	segments []Segment[C] // oldest first
	disposed bool
}

// New validates cfg and seeds the stream with segment 0 at position 0.
func New[C any](cfg Config, factory Factory[C], sink Sink[C]) (*Stream[C], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil factory", ErrInvalidConfiguration)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: nil sink", ErrInvalidConfiguration)
	}

	s := &Stream[C]{
		cfg:      cfg,
		factory:  factory,
		sink:     sink,
		segments: make([]Segment[C], 0, cfg.Capacity+1),
	}
	if err := s.appendSegment(0, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// Advance generates at most one new segment when viewpoint is closer than the
// proximity threshold to the frontier, evicting the oldest segment if the
// window is then over capacity.
func (s *Stream[C]) Advance(viewpoint float64) error {
	if s.disposed {
		return ErrDisposed
	}

	frontier := s.segments[len(s.segments)-1]
	// Written as a negated "<" so a NaN viewpoint never triggers.
	if !(math.Abs(viewpoint-frontier.Position) < s.cfg.ProximityThreshold) {
		return nil
	}

	if err := s.appendSegment(frontier.Index+1, frontier.Position-s.cfg.SegmentLength); err != nil {
		return err
	}

	if len(s.segments) > s.cfg.Capacity {
		oldest := s.segments[0]
		// Shift in place so the backing array never grows past Capacity+1.
		n := copy(s.segments, s.segments[1:])
		var zero Segment[C]
		s.segments[n] = zero
		s.segments = s.segments[:n]
		s.sink.Remove(oldest.Content)
	}
	return nil
}

// appendSegment is all-or-nothing: a factory error leaves the stream as is.
func (s *Stream[C]) appendSegment(index int, position float64) error {
	content, err := s.factory(index, position)
	if err != nil {
		return &FactoryError{Index: index, Position: position, Err: err}
	}
	s.segments = append(s.segments, Segment[C]{Index: index, Position: position, Content: content})
	s.sink.Add(content)
	return nil
}

// Dispose removes every resident segment through the sink, oldest first.
// Calling it again is a no-op.
func (s *Stream[C]) Dispose() {
	if s.disposed {
		return
	}
	s.disposed = true
	for i := range s.segments {
		s.sink.Remove(s.segments[i].Content)
	}
	s.segments = nil
}

// Disposed reports whether Dispose has been called.
func (s *Stream[C]) Disposed() bool { return s.disposed }

// Len returns the number of resident segments.
func (s *Stream[C]) Len() int { return len(s.segments) }

// Config returns the settings the stream was built with.
func (s *Stream[C]) Config() Config { return s.cfg }

// Frontier returns the most recently generated segment.
func (s *Stream[C]) Frontier() (Segment[C], bool) {
	if len(s.segments) == 0 {
		var zero Segment[C]
		return zero, false
	}
	return s.segments[len(s.segments)-1], true
}

// Segments returns a copy of the resident segments, oldest first.
func (s *Stream[C]) Segments() []Segment[C] {
	out := make([]Segment[C], len(s.segments))
	copy(out, s.segments)
	return out
}
