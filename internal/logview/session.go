// Package logview holds the log viewer's state machine: a bounded line
// buffer fed by a live stream, a growing tail window for history backfill,
// and incremental substring search. It is pure state; fetching and
// rendering live in the callers.
package logview

// Capacity bounds the in-memory line buffer. Once full, the oldest line is
// evicted for every appended one.
const Capacity = 10_000

// tailStep is how much the requested tail window grows per backfill.
const tailStep = 100

// Session is the state of one pod's log view. Not safe for concurrent use;
// the event loop is the single writer.
type Session struct {
	pod       string
	namespace string

	lines      []string
	generation uint64

	tailLines        int
	loadingHistory   bool
	historyExhausted bool

	// nil means follow mode (pinned to the newest lines).
	scrollOffset *int

	query         string
	matchLine     *int
	searchPending bool
}

// FetchRequest asks the caller to fetch a non-follow snapshot of the last
// TailLines lines. Results must be delivered back tagged with Generation.
type FetchRequest struct {
	Generation uint64
	TailLines  int
}

// SearchOutcome reports how a search step or a pending-search resolution
// ended, so the caller can post the right banner.
type SearchOutcome int

const (
	// SearchNone: nothing to report (no query, or no pending search).
	SearchNone SearchOutcome = iota
	// SearchFound: match recorded and viewport centered on it.
	SearchFound
	// SearchNeedHistory: no match in loaded lines and older history may
	// exist; the search stays pending and the caller should backfill.
	SearchNeedHistory
	// SearchExhausted: no match and no more history to load.
	SearchExhausted
)

// Start resets the session for a new pod and bumps the generation. Every
// in-flight stream or backfill tagged with an older generation becomes
// stale and is dropped on arrival.
func (s *Session) Start(pod, namespace string) uint64 {
	s.generation++
	s.pod = pod
	s.namespace = namespace
	s.lines = s.lines[:0]
	s.tailLines = tailStep
	s.loadingHistory = false
	s.historyExhausted = false
	s.scrollOffset = nil
	s.query = ""
	s.matchLine = nil
	s.searchPending = false
	return s.generation
}

func (s *Session) Generation() uint64 { return s.generation }
func (s *Session) Pod() string        { return s.pod }
func (s *Session) Namespace() string  { return s.namespace }

// Push appends a live line. Stale generations are dropped. When the buffer
// is full the oldest line is evicted and a paused scroll offset (and any
// search match) shifts down by one so the view keeps showing the same
// content.
func (s *Session) Push(generation uint64, line string) bool {
	if generation != s.generation {
		return false
	}
	if len(s.lines) >= Capacity {
		s.lines = s.lines[1:]
		if s.scrollOffset != nil && *s.scrollOffset > 0 {
			*s.scrollOffset--
		}
		if s.matchLine != nil {
			if *s.matchLine > 0 {
				*s.matchLine--
			} else {
				s.matchLine = nil
			}
		}
	}
	s.lines = append(s.lines, line)
	return true
}

// RequestMore grows the tail window and asks for a backfill. It is a no-op
// while a backfill is in flight or when history is exhausted. A window
// already at capacity marks history exhausted without issuing a fetch.
func (s *Session) RequestMore() (FetchRequest, bool) {
	if s.loadingHistory || s.historyExhausted {
		return FetchRequest{}, false
	}
	if s.tailLines >= Capacity {
		s.historyExhausted = true
		return FetchRequest{}, false
	}
	s.loadingHistory = true
	s.tailLines += tailStep
	if s.tailLines > Capacity {
		s.tailLines = Capacity
	}
	return FetchRequest{Generation: s.generation, TailLines: s.tailLines}, true
}

// AbortFetch clears the in-flight flag after a failed backfill so the next
// scroll or search can retry.
func (s *Session) AbortFetch(generation uint64) {
	if generation == s.generation {
		s.loadingHistory = false
		s.searchPending = false
	}
}

// MergeHistory folds a backfill response into the buffer. The response is a
// full tail snapshot, so it overlaps what is already loaded; the overlap is
// located by scanning the response right-to-left for the buffer's first
// line, and only lines older than that are prepended. visibleHeight is
// needed to center the viewport when a pending search resolves.
func (s *Session) MergeHistory(generation uint64, history []string, visibleHeight int) SearchOutcome {
	if generation != s.generation {
		s.loadingHistory = false
		return SearchNone
	}
	s.loadingHistory = false

	// A response shorter than the requested window means the pod has no
	// older lines than what we just got.
	if len(history) < s.tailLines {
		s.historyExhausted = true
	}

	// Everything before the rightmost occurrence of the buffer's first
	// line is new; if that line does not appear, the whole response is.
	newCount := len(history)
	if len(s.lines) > 0 {
		first := s.lines[0]
		for i := len(history) - 1; i >= 0; i-- {
			if history[i] == first {
				newCount = i
				break
			}
		}
	}

	if room := Capacity - len(s.lines); newCount > room {
		newCount = room
		s.historyExhausted = true
	}

	if newCount <= 0 {
		return s.resolvePendingSearch(0, visibleHeight)
	}

	merged := make([]string, 0, newCount+len(s.lines))
	merged = append(merged, history[:newCount]...)
	merged = append(merged, s.lines...)
	s.lines = merged

	if s.scrollOffset != nil {
		*s.scrollOffset += newCount
	}
	if s.matchLine != nil {
		*s.matchLine += newCount
	}

	return s.resolvePendingSearch(newCount, visibleHeight)
}

// Len reports the number of buffered lines.
func (s *Session) Len() int { return len(s.lines) }

// Lines exposes the buffer for rendering. Callers must not mutate it.
func (s *Session) Lines() []string { return s.lines }

// TailLines is the current tail window size.
func (s *Session) TailLines() int { return s.tailLines }

func (s *Session) LoadingHistory() bool   { return s.loadingHistory }
func (s *Session) HistoryExhausted() bool { return s.historyExhausted }
func (s *Session) Following() bool        { return s.scrollOffset == nil }

// ScrollOffset returns the paused offset and whether the view is paused.
func (s *Session) ScrollOffset() (int, bool) {
	if s.scrollOffset == nil {
		return 0, false
	}
	return *s.scrollOffset, true
}

// Top returns the index of the first visible line for a viewport of the
// given height.
func (s *Session) Top(visibleHeight int) int {
	maxOff := s.maxOffset(visibleHeight)
	if s.scrollOffset == nil {
		return maxOff
	}
	if *s.scrollOffset > maxOff {
		return maxOff
	}
	return *s.scrollOffset
}

func (s *Session) maxOffset(visibleHeight int) int {
	m := len(s.lines) - visibleHeight
	if m < 0 {
		return 0
	}
	return m
}

// ScrollUp moves one line toward older history. When already paused at the
// very top it reports wantMore so the caller can trigger a backfill.
func (s *Session) ScrollUp(visibleHeight int) (wantMore bool) {
	maxOff := s.maxOffset(visibleHeight)
	if s.scrollOffset == nil {
		if maxOff > 0 {
			off := maxOff - 1
			s.scrollOffset = &off
		}
		return false
	}
	if *s.scrollOffset > 0 {
		*s.scrollOffset--
		return false
	}
	return true
}

// ScrollDown moves one line toward the newest lines. Scrolling down while
// following pauses the view at the bottom.
func (s *Session) ScrollDown(visibleHeight int) {
	maxOff := s.maxOffset(visibleHeight)
	if s.scrollOffset == nil {
		if maxOff > 0 {
			off := maxOff
			s.scrollOffset = &off
		}
		return
	}
	if *s.scrollOffset < maxOff {
		*s.scrollOffset++
	}
}

// PageUp moves a viewport's worth toward older history; when already
// paused at the top it reports wantMore like ScrollUp.
func (s *Session) PageUp(visibleHeight int) (wantMore bool) {
	maxOff := s.maxOffset(visibleHeight)
	if s.scrollOffset == nil {
		if maxOff > 0 {
			off := maxOff - visibleHeight
			if off < 0 {
				off = 0
			}
			s.scrollOffset = &off
		}
		return false
	}
	if *s.scrollOffset == 0 {
		return true
	}
	next := *s.scrollOffset - visibleHeight
	if next < 0 {
		next = 0
	}
	s.scrollOffset = &next
	return false
}

// PageDown moves a viewport's worth toward the newest lines.
func (s *Session) PageDown(visibleHeight int) {
	if s.scrollOffset == nil {
		return
	}
	maxOff := s.maxOffset(visibleHeight)
	next := *s.scrollOffset + visibleHeight
	if next >= maxOff {
		s.scrollOffset = &maxOff
	} else {
		s.scrollOffset = &next
	}
}

// ScrollTop jumps to the oldest loaded line.
func (s *Session) ScrollTop() {
	off := 0
	s.scrollOffset = &off
}

// Follow resumes follow mode (jump to newest, track the stream).
func (s *Session) Follow() {
	s.scrollOffset = nil
}
