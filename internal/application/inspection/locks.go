package inspection

import (
	"sync"

	domain "github.com/bryanwahyu/tvp-inspect/internal/domain/inspection"
)

// AreaLocks hands out one mutex per area. The zero value is ready to use.
type AreaLocks struct {
	mu    sync.Mutex
	locks map[domain.Area]*sync.Mutex
}

// Lock blocks until the area's mutex is held and returns its release func.
func (l *AreaLocks) Lock(area domain.Area) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[domain.Area]*sync.Mutex)
	}
	m, ok := l.locks[area]
	if !ok {
		m = &sync.Mutex{}
		l.locks[area] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
