package routes

import "sync"

// Navigator moves the console to another view
type Navigator interface {
	Navigate(path string)
}

// History is an in-memory Navigator that records every view visited
type History struct {
	mu     sync.RWMutex
	visits []string
}

func NewHistory(start string) *History {
	return &History{visits: []string{start}}
}

func (h *History) Navigate(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visits = append(h.visits, path)
}

func (h *History) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.visits[len(h.visits)-1]
}

// Visits returns a copy of the navigation history, oldest first
func (h *History) Visits() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.visits...)
}
