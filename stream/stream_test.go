package stream

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSink keeps the order of Add/Remove calls.
type recordingSink struct {
	added   []int
	removed []int
}

func (r *recordingSink) Add(c int)    { r.added = append(r.added, c) }
func (r *recordingSink) Remove(c int) { r.removed = append(r.removed, c) }

func indexFactory(index int, position float64) (int, error) { return index, nil }

func roadConfig() Config {
	return Config{SegmentLength: 50, Capacity: 10, ProximityThreshold: 1.5}
}

func newTestStream(t *testing.T, cfg Config) (*Stream[int], *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	s, err := New[int](cfg, indexFactory, sink)
	require.NoError(t, err)
	return s, sink
}

func indices(s *Stream[int]) []int {
	var out []int
	for _, seg := range s.Segments() {
		out = append(out, seg.Index)
	}
	return out
}

// triggerN walks the viewpoint onto the frontier n times.
func triggerN(t *testing.T, s *Stream[int], n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		f, ok := s.Frontier()
		require.True(t, ok)
		require.NoError(t, s.Advance(f.Position))
	}
}

func TestNewSeedsFirstSegment(t *testing.T) {
	s, sink := newTestStream(t, roadConfig())

	assert.Equal(t, 1, s.Len())
	f, ok := s.Frontier()
	require.True(t, ok)
	assert.Equal(t, 0, f.Index)
	assert.Equal(t, 0.0, f.Position)
	assert.Equal(t, []int{0}, sink.added)
	assert.Empty(t, sink.removed)
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	cases := map[string]Config{
		"zero length":        {SegmentLength: 0, Capacity: 10, ProximityThreshold: 1},
		"negative length":    {SegmentLength: -5, Capacity: 10, ProximityThreshold: 1},
		"zero capacity":      {SegmentLength: 50, Capacity: 0, ProximityThreshold: 1},
		"negative threshold": {SegmentLength: 50, Capacity: 10, ProximityThreshold: -1},
	}
	for name, cfg := range cases {
		t.Run(name, func(t *testing.T) {
			sink := &recordingSink{}
			_, err := New[int](cfg, indexFactory, sink)
			assert.ErrorIs(t, err, ErrInvalidConfiguration)
			assert.Empty(t, sink.added)
		})
	}

	_, err := New[int](roadConfig(), nil, &recordingSink{})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
	_, err = New[int](roadConfig(), indexFactory, nil)
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestNewPropagatesSeedFailure(t *testing.T) {
	boom := errors.New("boom")
	sink := &recordingSink{}
	_, err := New[int](roadConfig(), func(int, float64) (int, error) { return 0, boom }, sink)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, sink.added)
}

func TestAdvanceFarFromFrontierIsNoop(t *testing.T) {
	calls := 0
	sink := &recordingSink{}
	s, err := New[int](roadConfig(), func(i int, p float64) (int, error) {
		calls++
		return i, nil
	}, sink)
	require.NoError(t, err)

	require.NoError(t, s.Advance(-48.6))
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Advance(-49.0))
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, 1, calls, "only the seed should hit the factory")
	assert.Equal(t, []int{0}, sink.added)
}

func TestAdvanceIgnoresNonFiniteViewpoint(t *testing.T) {
	s, sink := newTestStream(t, roadConfig())

	for i := 0; i < 12; i++ {
		require.NoError(t, s.Advance(math.NaN()))
	}
	require.NoError(t, s.Advance(math.Inf(-1)))
	require.NoError(t, s.Advance(math.Inf(1)))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, []int{0}, sink.added)
	assert.Empty(t, sink.removed)
}

func TestAdvanceGeneratesWhenNearFrontier(t *testing.T) {
	s, sink := newTestStream(t, roadConfig())

	// The seed sits under the viewpoint, so the first frame extends the road.
	require.NoError(t, s.Advance(0))
	f, _ := s.Frontier()
	assert.Equal(t, 1, f.Index)
	assert.Equal(t, -50.0, f.Position)
	assert.Equal(t, 2, s.Len())

	for v := -5.0; v > -48.5; v -= 5 {
		require.NoError(t, s.Advance(v))
		assert.Equal(t, 2, s.Len(), "viewpoint %v", v)
	}

	require.NoError(t, s.Advance(-49))
	f, _ = s.Frontier()
	assert.Equal(t, 2, f.Index)
	assert.Equal(t, -100.0, f.Position)
	assert.Equal(t, []int{0, 1, 2}, sink.added)
}

func TestAdvanceGeneratesOnePerCall(t *testing.T) {
	s, sink := newTestStream(t, Config{SegmentLength: 1, Capacity: 10, ProximityThreshold: 1000})

	require.NoError(t, s.Advance(-500))
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []int{0, 1}, sink.added)
}

func TestEvictsOldestAtCapacity(t *testing.T) {
	s, sink := newTestStream(t, roadConfig())

	triggerN(t, s, 10) // indices 0..10
	assert.Equal(t, 10, s.Len())
	assert.Equal(t, []int{0}, sink.removed)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, indices(s))
}

func TestEvictionIsFIFO(t *testing.T) {
	s, sink := newTestStream(t, roadConfig())

	triggerN(t, s, 14) // 15 creations
	assert.Equal(t, []int{5, 6, 7, 8, 9, 10, 11, 12, 13, 14}, indices(s))
	assert.Equal(t, []int{0, 1, 2, 3, 4}, sink.removed)
}

func TestCapacityOne(t *testing.T) {
	s, sink := newTestStream(t, Config{SegmentLength: 10, Capacity: 1, ProximityThreshold: 2})

	triggerN(t, s, 3)
	assert.Equal(t, []int{3}, indices(s))
	assert.Equal(t, []int{0, 1, 2}, sink.removed)
}

func TestFactoryFailureLeavesStreamUntouched(t *testing.T) {
	boom := errors.New("out of meshes")
	fail := false
	sink := &recordingSink{}
	s, err := New[int](roadConfig(), func(i int, p float64) (int, error) {
		if fail {
			return 0, boom
		}
		return i, nil
	}, sink)
	require.NoError(t, err)
	triggerN(t, s, 10)
	before := s.Segments()

	fail = true
	err = s.Advance(-500)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	var fe *FactoryError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 11, fe.Index)
	assert.Equal(t, -550.0, fe.Position)

	assert.Equal(t, before, s.Segments())
	assert.Len(t, sink.added, 11)
	assert.Equal(t, []int{0}, sink.removed)

	// Recovers on the next frame.
	fail = false
	require.NoError(t, s.Advance(-500))
	f, _ := s.Frontier()
	assert.Equal(t, 11, f.Index)
}

func TestDisposeIsIdempotent(t *testing.T) {
	s, sink := newTestStream(t, roadConfig())
	triggerN(t, s, 4)

	s.Dispose()
	s.Dispose()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, sink.removed)
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Disposed())
	_, ok := s.Frontier()
	assert.False(t, ok)
	assert.ErrorIs(t, s.Advance(0), ErrDisposed)
	assert.Len(t, sink.added, 5)
}

func TestSinkFuncs(t *testing.T) {
	var added, removed []string
	sink := SinkFuncs[string]{
		AddFunc:    func(c string) { added = append(added, c) },
		RemoveFunc: func(c string) { removed = append(removed, c) },
	}
	s, err := New[string](Config{SegmentLength: 5, Capacity: 1, ProximityThreshold: 1}, func(i int, p float64) (string, error) {
		return "slab", nil
	}, sink)
	require.NoError(t, err)
	require.NoError(t, s.Advance(0))
	s.Dispose()

	assert.Equal(t, []string{"slab", "slab"}, added)
	assert.Equal(t, []string{"slab", "slab"}, removed)

	// Nil funcs are tolerated.
	SinkFuncs[string]{}.Add("x")
	SinkFuncs[string]{}.Remove("x")
}

func TestWindowInvariantsUnderTravel(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cfg := Config{SegmentLength: 50, Capacity: 10, ProximityThreshold: 10}
	s, sink := newTestStream(t, cfg)

	viewpoint := 0.0
	for frame := 0; frame < 5000; frame++ {
		viewpoint -= rng.Float64() * 3
		require.NoError(t, s.Advance(viewpoint))

		segs := s.Segments()
		require.LessOrEqual(t, len(segs), cfg.Capacity)
		require.GreaterOrEqual(t, len(segs), 1)
		for i := 1; i < len(segs); i++ {
			require.Equal(t, segs[i-1].Index+1, segs[i].Index)
			require.Equal(t, segs[i-1].Position-cfg.SegmentLength, segs[i].Position)
		}
	}

	assert.Equal(t, len(sink.added)-len(sink.removed), s.Len())
	assert.Greater(t, len(sink.removed), 0)
}
