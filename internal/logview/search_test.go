package logview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pausedAt(s *Session, off int) {
	s.scrollOffset = &off
}

func TestSearchNextJumpsToNextMatch(t *testing.T) {
	s, gen := newSession(t)
	for i := 0; i < 50; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	s.Push(gen, "error found here")
	for i := 51; i < 200; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	pausedAt(s, 100)
	s.SetQuery("error")

	outcome := s.SearchNext(20)
	assert.Equal(t, SearchFound, outcome)
	match, ok := s.MatchLine()
	require.True(t, ok)
	assert.Equal(t, 50, match)
}

func TestSearchNextFindsAboveScroll(t *testing.T) {
	s, gen := newSession(t)
	s.Push(gen, "error first")
	for i := 1; i < 50; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	pausedAt(s, 10)
	s.SetQuery("error")

	assert.Equal(t, SearchFound, s.SearchNext(20))
	match, _ := s.MatchLine()
	assert.Equal(t, 0, match)
}

func TestSearchPrevJumpsToNewerMatch(t *testing.T) {
	s, gen := newSession(t)
	for i := 0; i < 80; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	s.Push(gen, "error found here")
	for i := 81; i < 200; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	pausedAt(s, 50)
	s.SetQuery("error")

	assert.Equal(t, SearchFound, s.SearchPrev(20))
	match, _ := s.MatchLine()
	assert.Equal(t, 80, match)
}

func TestSearchIsCaseInsensitive(t *testing.T) {
	s, gen := newSession(t)
	s.Push(gen, "CONNECTION refused")
	s.Push(gen, "all good")
	s.SetQuery("connection")

	assert.Equal(t, SearchFound, s.SearchNext(10))
	match, _ := s.MatchLine()
	assert.Equal(t, 0, match)
}

func TestSearchNextStepsThroughRepeatedMatches(t *testing.T) {
	s, gen := newSession(t)
	s.Push(gen, "error one")
	s.Push(gen, "filler")
	s.Push(gen, "error two")
	s.historyExhausted = true
	s.SetQuery("error")

	require.Equal(t, SearchFound, s.SearchNext(10))
	match, _ := s.MatchLine()
	assert.Equal(t, 2, match)

	require.Equal(t, SearchFound, s.SearchNext(10))
	match, _ = s.MatchLine()
	assert.Equal(t, 0, match)

	assert.Equal(t, SearchExhausted, s.SearchNext(10))
}

func TestSearchNextMissLeavesPendingWhenHistoryRemains(t *testing.T) {
	s, gen := newSession(t)
	for i := 0; i < 10; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	s.SetQuery("missing")

	assert.Equal(t, SearchNeedHistory, s.SearchNext(10))
	assert.True(t, s.SearchPending())
}

func TestPendingSearchResolvesOverMergedLines(t *testing.T) {
	s, gen := newSession(t)
	s.Push(gen, "recent")
	s.SetQuery("error")
	require.Equal(t, SearchNeedHistory, s.SearchNext(10))

	req, ok := s.RequestMore()
	require.True(t, ok)
	outcome := s.MergeHistory(req.Generation, []string{"boot", "error during init", "recent"}, 10)

	assert.Equal(t, SearchFound, outcome)
	match, _ := s.MatchLine()
	assert.Equal(t, 1, match)
	assert.False(t, s.SearchPending())
}

func TestPendingSearchReportsExhaustedWhenHistoryEnds(t *testing.T) {
	s, gen := newSession(t)
	s.Push(gen, "recent")
	s.SetQuery("error")
	require.Equal(t, SearchNeedHistory, s.SearchNext(10))

	req, _ := s.RequestMore()
	// Short response: no older lines, and none of them match.
	outcome := s.MergeHistory(req.Generation, []string{"boot", "recent"}, 10)

	assert.Equal(t, SearchExhausted, outcome)
	assert.False(t, s.SearchPending())
	_, ok := s.MatchLine()
	assert.False(t, ok)
}

func TestSearchFoundCentersViewport(t *testing.T) {
	s, gen := newSession(t)
	for i := 0; i < 200; i++ {
		s.Push(gen, fmt.Sprintf("line %d", i))
	}
	s.Lines()[100] = "the error line"
	pausedAt(s, 150)
	s.SetQuery("error")

	require.Equal(t, SearchFound, s.SearchNext(20))
	off, paused := s.ScrollOffset()
	require.True(t, paused)
	assert.Equal(t, 90, off)
}

func TestIndexFold(t *testing.T) {
	assert.Equal(t, 4, IndexFold("abc ERROR xyz", "error"))
	assert.Equal(t, -1, IndexFold("abc", "error"))
	assert.Equal(t, 0, IndexFold("anything", ""))
}
