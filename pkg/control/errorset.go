package control

import "sync"

// errorSet holds a control's three independently replaceable error
// sources. The visible error list is their union, deduplicated by first
// occurrence in sync, async, fixed order.
type errorSet struct {
	mu    sync.RWMutex
	sync_ []ErrorCode
	async []ErrorCode
	fixed []ErrorCode
}

// dedup copies codes, dropping empties and repeats while preserving
// first-occurrence order.
func dedup(codes []ErrorCode) []ErrorCode {
	if len(codes) == 0 {
		return nil
	}
	seen := make(map[ErrorCode]struct{}, len(codes))
	out := make([]ErrorCode, 0, len(codes))
	for _, c := range codes {
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func (s *errorSet) replaceSync(codes []ErrorCode) {
	s.mu.Lock()
	s.sync_ = dedup(codes)
	s.mu.Unlock()
}

func (s *errorSet) replaceAsync(codes []ErrorCode) {
	s.mu.Lock()
	s.async = dedup(codes)
	s.mu.Unlock()
}

func (s *errorSet) replaceFixed(codes []ErrorCode) {
	s.mu.Lock()
	s.fixed = dedup(codes)
	s.mu.Unlock()
}

// codes returns the union of the three sources. The result is source-
// unaware: a caller cannot tell which source contributed a code.
func (s *errorSet) codes() []ErrorCode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	union := make([]ErrorCode, 0, len(s.sync_)+len(s.async)+len(s.fixed))
	union = append(union, s.sync_...)
	union = append(union, s.async...)
	union = append(union, s.fixed...)
	return dedup(union)
}

func (s *errorSet) has(code ErrorCode) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, set := range [][]ErrorCode{s.sync_, s.async, s.fixed} {
		for _, c := range set {
			if c == code {
				return true
			}
		}
	}
	return false
}

// hasBlocking reports whether the sync or fixed source holds errors.
// These dominate the pending state: an already-invalid control keeps
// reporting invalid while async validators run.
func (s *errorSet) hasBlocking() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sync_) > 0 || len(s.fixed) > 0
}

func (s *errorSet) hasAsync() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.async) > 0
}
