package logview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession(t *testing.T) (*Session, uint64) {
	t.Helper()
	s := &Session{}
	gen := s.Start("web-0", "default")
	return s, gen
}

func fill(s *Session, gen uint64, n int) {
	for i := 0; i < n; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
}

func TestPushAppendsInOrder(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 3)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, "line 0", s.Lines()[0])
	assert.Equal(t, "line 2", s.Lines()[2])
}

func TestPushEvictsOldestAtCapacity(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, Capacity)
	s.Push(gen, "overflow")

	assert.Equal(t, Capacity, s.Len())
	assert.Equal(t, "line 1", s.Lines()[0])
	assert.Equal(t, "overflow", s.Lines()[s.Len()-1])
}

func TestPushDropsStaleGeneration(t *testing.T) {
	s, gen := newSession(t)
	s.Start("web-1", "default")

	assert.False(t, s.Push(gen, "stale"))
	assert.Equal(t, 0, s.Len())
}

func TestPushEvictionShiftsPausedOffset(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, Capacity)
	s.ScrollTop()
	s.ScrollDown(10)
	off, paused := s.ScrollOffset()
	require.True(t, paused)
	require.Equal(t, 1, off)

	s.Push(gen, "overflow")
	off, _ = s.ScrollOffset()
	assert.Equal(t, 0, off)

	// Already at the floor: eviction must not go negative.
	s.Push(gen, "overflow 2")
	off, _ = s.ScrollOffset()
	assert.Equal(t, 0, off)
}

func TestStartResetsEverything(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 5)
	s.ScrollTop()
	s.SetQuery("Line")
	s.SearchNext(10)

	gen2 := s.Start("web-1", "kube-system")
	assert.Greater(t, gen2, gen)
	assert.Equal(t, 0, s.Len())
	assert.True(t, s.Following())
	assert.Empty(t, s.Query())
	_, ok := s.MatchLine()
	assert.False(t, ok)
	assert.False(t, s.HistoryExhausted())
}

func TestRequestMoreGrowsWindow(t *testing.T) {
	s, gen := newSession(t)

	req, ok := s.RequestMore()
	require.True(t, ok)
	assert.Equal(t, gen, req.Generation)
	assert.Equal(t, 200, req.TailLines)
	assert.True(t, s.LoadingHistory())
}

func TestRequestMoreSkipsWhileLoading(t *testing.T) {
	s, _ := newSession(t)
	_, ok := s.RequestMore()
	require.True(t, ok)

	_, ok = s.RequestMore()
	assert.False(t, ok)
}

func TestRequestMoreAtWindowCapMarksExhausted(t *testing.T) {
	s, _ := newSession(t)
	s.tailLines = Capacity

	_, ok := s.RequestMore()
	assert.False(t, ok)
	assert.True(t, s.HistoryExhausted())

	_, ok = s.RequestMore()
	assert.False(t, ok)
}

func TestMergeHistoryPrependsOlderLinesAndShiftsOffset(t *testing.T) {
	s, gen := newSession(t)
	for _, l := range []string{"l3", "l4", "l5"} {
		s.Push(gen, l)
	}
	s.ScrollTop()
	req, ok := s.RequestMore()
	require.True(t, ok)

	s.MergeHistory(req.Generation, []string{"l1", "l2", "l3", "l4", "l5"}, 10)

	assert.Equal(t, []string{"l1", "l2", "l3", "l4", "l5"}, s.Lines())
	off, paused := s.ScrollOffset()
	require.True(t, paused)
	assert.Equal(t, 2, off)
	assert.False(t, s.LoadingHistory())
	// Five lines for a 200-line window: nothing older exists.
	assert.True(t, s.HistoryExhausted())
}

func TestMergeHistoryUsesRightmostOverlap(t *testing.T) {
	s, gen := newSession(t)
	for _, l := range []string{"dup", "b"} {
		s.Push(gen, l)
	}
	req, _ := s.RequestMore()

	// "dup" appears twice; the rightmost occurrence wins, so only the
	// lines before it count as new.
	s.MergeHistory(req.Generation, []string{"a", "dup", "x", "dup", "b"}, 10)
	assert.Equal(t, []string{"a", "dup", "x", "dup", "b"}, s.Lines())
}

func TestMergeHistoryDropsStaleGeneration(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 3)
	req, _ := s.RequestMore()
	s.Start("other", "default")

	s.MergeHistory(req.Generation, []string{"old 1", "old 2"}, 10)
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.LoadingHistory())
}

func TestMergeHistoryNoOverlapPrependsAll(t *testing.T) {
	s, gen := newSession(t)
	s.Push(gen, "current")
	req, _ := s.RequestMore()

	s.MergeHistory(req.Generation, []string{"h1", "h2"}, 10)
	assert.Equal(t, []string{"h1", "h2", "current"}, s.Lines())
}

func TestMergeHistoryRespectsCapacity(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, Capacity-1)
	s.tailLines = Capacity - 100
	req, ok := s.RequestMore()
	require.True(t, ok)

	history := []string{"old a", "old b", "old c", s.Lines()[0]}
	for i := 0; i < req.TailLines-4; i++ {
		history = append(history, fmt.Sprintf("pad %d", i))
	}
	s.MergeHistory(req.Generation, history, 10)

	assert.Equal(t, Capacity, s.Len())
	assert.Equal(t, "old a", s.Lines()[0])
	assert.True(t, s.HistoryExhausted())
}

func TestMergeHistoryZeroRoomMarksExhausted(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, Capacity)
	req, ok := s.RequestMore()
	require.True(t, ok)

	history := append([]string{"ancient"}, s.Lines()[:10]...)
	s.MergeHistory(req.Generation, history, 10)

	assert.Equal(t, Capacity, s.Len())
	assert.Equal(t, "line 0", s.Lines()[0])
	assert.True(t, s.HistoryExhausted())
}

func TestScrollUpAtTopWantsMoreHistory(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 50)
	s.ScrollTop()

	assert.True(t, s.ScrollUp(20))
}

func TestScrollDownWhileFollowingPausesAtBottom(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 50)
	require.True(t, s.Following())

	s.ScrollDown(20)
	off, paused := s.ScrollOffset()
	require.True(t, paused)
	assert.Equal(t, 30, off)
}

func TestFollowResumesTailing(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 50)
	s.ScrollTop()

	s.Follow()
	assert.True(t, s.Following())
	assert.Equal(t, 30, s.Top(20))
}

func TestPageUpAndDown(t *testing.T) {
	s, gen := newSession(t)
	fill(s, gen, 100)
	s.ScrollDown(20) // pause at bottom, offset 80

	assert.False(t, s.PageUp(20))
	off, _ := s.ScrollOffset()
	assert.Equal(t, 60, off)

	s.PageDown(20)
	off, _ = s.ScrollOffset()
	assert.Equal(t, 80, off)

	s.ScrollTop()
	assert.True(t, s.PageUp(20))
}
