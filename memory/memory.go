// Package memory holds client-side state shared between commands and the
// TUI: the signed-in user, projects, trends and the content plan. Every
// store is safe for concurrent use.
package memory

import (
	"cmp"
	"slices"
	"sync"

	"github.com/fwojciec/reel"
)

// AuthStore tracks the signed-in user.
type AuthStore struct {
	mu   sync.RWMutex
	user *reel.User
}

// User returns the signed-in user and whether anyone is signed in.
func (s *AuthStore) User() (reel.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return reel.User{}, false
	}
	return *s.user, true
}

// LoggedIn reports whether a user is signed in.
func (s *AuthStore) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// SetUser signs u in.
func (s *AuthStore) SetUser(u reel.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &u
}

// Logout forgets the signed-in user.
func (s *AuthStore) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}

// ProjectStore holds projects keyed by ID and remembers the one in use.
type ProjectStore struct {
	mu       sync.RWMutex
	projects map[string]reel.Project
	current  string
}

// Set adds or replaces p.
func (s *ProjectStore) Set(p reel.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.projects == nil {
		s.projects = make(map[string]reel.Project)
	}
	s.projects[p.ID] = p
}

// Get returns the project with the given ID.
func (s *ProjectStore) Get(id string) (reel.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	return p, ok
}

// SetCurrent selects the project in use. It reports false and leaves the
// selection unchanged when id is unknown.
func (s *ProjectStore) SetCurrent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return false
	}
	s.current = id
	return true
}

// Current returns the project in use.
func (s *ProjectStore) Current() (reel.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[s.current]
	return p, ok
}

// List returns all projects, oldest first.
func (s *ProjectStore) List() []reel.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reel.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b reel.Project) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// TrendsStore caches the last page of trends.
type TrendsStore struct {
	mu      sync.RWMutex
	trends  reel.Trends
	loading bool
}

// Trends returns the cached trends.
func (s *TrendsStore) Trends() reel.Trends {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return reel.Trends{Videos: slices.Clone(s.trends.Videos)}
}

// Loading reports whether a fetch is in progress.
func (s *TrendsStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SetTrends replaces the cache and ends loading.
func (s *TrendsStore) SetTrends(t reel.Trends) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trends = reel.Trends{Videos: slices.Clone(t.Videos)}
	s.loading = false
}

// SetLoading marks a fetch as started or finished.
func (s *TrendsStore) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// Clear empties the cache.
func (s *TrendsStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trends = reel.Trends{}
	s.loading = false
}

// PlanStore holds the content plan keyed by date.
type PlanStore struct {
	mu    sync.RWMutex
	plans map[string]reel.PlanEntry
}

// SetPlan adds or replaces the entry for e.Date.
func (s *PlanStore) SetPlan(e reel.PlanEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.plans == nil {
		s.plans = make(map[string]reel.PlanEntry)
	}
	s.plans[e.Date] = e
}

// Plan returns the entry for date.
func (s *PlanStore) Plan(date string) (reel.PlanEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.plans[date]
	return e, ok
}

// Plans returns every entry sorted by date.
func (s *PlanStore) Plans() []reel.PlanEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]reel.PlanEntry, 0, len(s.plans))
	for _, e := range s.plans {
		out = append(out, e)
	}
	slices.SortFunc(out, func(a, b reel.PlanEntry) int { return cmp.Compare(a.Date, b.Date) })
	return out
}
