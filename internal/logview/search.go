package logview

// SetQuery installs a new search query (stored lowercased) and clears any
// previous match.
func (s *Session) SetQuery(query string) {
	s.query = asciiLower(query)
	s.matchLine = nil
	s.searchPending = false
}

// ClearSearch drops the query, match, and any pending search.
func (s *Session) ClearSearch() {
	s.query = ""
	s.matchLine = nil
	s.searchPending = false
}

func (s *Session) Query() string { return s.query }

// MatchLine returns the current match index and whether one exists.
func (s *Session) MatchLine() (int, bool) {
	if s.matchLine == nil {
		return 0, false
	}
	return *s.matchLine, true
}

// SearchNext scans toward older lines: from just above the current match,
// or from the bottom of the viewport when there is none. On a miss with
// history still available the search is left pending so the caller can
// backfill and let MergeHistory resolve it.
func (s *Session) SearchNext(visibleHeight int) SearchOutcome {
	if s.query == "" || len(s.lines) == 0 {
		return SearchNone
	}
	start := len(s.lines) - 1
	if s.matchLine != nil {
		start = *s.matchLine - 1
	} else if s.scrollOffset != nil {
		start = *s.scrollOffset + visibleHeight - 1
	}
	if start >= len(s.lines) {
		start = len(s.lines) - 1
	}
	for i := start; i >= 0; i-- {
		if indexFold(s.lines[i], s.query) >= 0 {
			s.setMatch(i, visibleHeight)
			return SearchFound
		}
	}
	if s.historyExhausted {
		return SearchExhausted
	}
	s.searchPending = true
	return SearchNeedHistory
}

// SearchPrev scans toward newer lines: from just below the current match,
// or from the top of the viewport when there is none.
func (s *Session) SearchPrev(visibleHeight int) SearchOutcome {
	if s.query == "" || len(s.lines) == 0 {
		return SearchNone
	}
	start := s.Top(visibleHeight)
	if s.matchLine != nil {
		start = *s.matchLine + 1
	}
	for i := start; i < len(s.lines); i++ {
		if indexFold(s.lines[i], s.query) >= 0 {
			s.setMatch(i, visibleHeight)
			return SearchFound
		}
	}
	return SearchExhausted
}

// SearchPending reports whether a search is waiting on a history backfill.
func (s *Session) SearchPending() bool { return s.searchPending }

// resolvePendingSearch runs after a history merge: only the freshly
// prepended lines can hold the match, newest-first so "next" order holds.
func (s *Session) resolvePendingSearch(newCount, visibleHeight int) SearchOutcome {
	if !s.searchPending {
		return SearchNone
	}
	s.searchPending = false
	for i := newCount - 1; i >= 0; i-- {
		if indexFold(s.lines[i], s.query) >= 0 {
			s.setMatch(i, visibleHeight)
			return SearchFound
		}
	}
	if s.historyExhausted {
		return SearchExhausted
	}
	return SearchNeedHistory
}

func (s *Session) setMatch(i, visibleHeight int) {
	s.matchLine = &i
	off := i - visibleHeight/2
	if max := s.maxOffset(visibleHeight); off > max {
		off = max
	}
	if off < 0 {
		off = 0
	}
	s.scrollOffset = &off
}

// IndexFold reports the byte index of the first ASCII case-insensitive
// occurrence of substr in line, or -1. substr must already be lowercase.
func IndexFold(line, substr string) int {
	return indexFold(line, substr)
}

func indexFold(line, substr string) int {
	if substr == "" {
		return 0
	}
	if len(substr) > len(line) {
		return -1
	}
	for i := 0; i+len(substr) <= len(line); i++ {
		if foldEqual(line[i:i+len(substr)], substr) {
			return i
		}
	}
	return -1
}

func foldEqual(a, b string) bool {
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}
