package memory

import (
	"sort"

	"go-surface/session"
)

// hub keeps listeners per key. Notifications run synchronously in
// registration order; listeners added or removed during a notification take
// effect on the next one.
type hub struct {
	next int
	fns  map[any]map[int]func()
}

type subscription struct {
	h   *hub
	key any
	id  int
}

func (s *subscription) Cancel() {
	if s.h == nil {
		return
	}
	if m, ok := s.h.fns[s.key]; ok {
		delete(m, s.id)
		if len(m) == 0 {
			delete(s.h.fns, s.key)
		}
	}
	s.h = nil
}

func (h *hub) add(key any, fn func()) session.Subscription {
	if h.fns == nil {
		h.fns = make(map[any]map[int]func())
	}
	h.next++
	m, ok := h.fns[key]
	if !ok {
		m = make(map[int]func())
		h.fns[key] = m
	}
	m[h.next] = fn
	return &subscription{h: h, key: key, id: h.next}
}

func (h *hub) notify(key any) {
	m := h.fns[key]
	if len(m) == 0 {
		return
	}
	ids := make([]int, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, m[id])
	}
	for _, fn := range fns {
		fn()
	}
}

func (h *hub) count(key any) int {
	return len(h.fns[key])
}

func (h *hub) total() int {
	n := 0
	for _, m := range h.fns {
		n += len(m)
	}
	return n
}
