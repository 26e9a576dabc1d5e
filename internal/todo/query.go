package todo

import (
	"math"
	"strings"
)

// Tasks returns a copy of the full list in order.
func (s *Service) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(func(Task) bool { return true })
}

// Get returns the task with id.
func (s *Service) Get(id int64) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		return s.st.Todos[i], true
	}
	return Task{}, false
}

func (s *Service) Filter() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.Filter
}

// NextID returns the id the next Add will assign.
func (s *Service) NextID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.NextID
}

// Filtered returns the tasks visible under the active filter, in list order.
func (s *Service) Filtered() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(s.st.Filter.Match)
}

// ByPriority returns every task with priority p, in list order.
func (s *Service) ByPriority(p Priority) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(func(t Task) bool { return t.Priority == p })
}

// Search matches query against task text, ignoring case. A blank query matches everything.
func (s *Service) Search(query string) []Task {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectLocked(func(t Task) bool {
		return q == "" || strings.Contains(strings.ToLower(t.Text), q)
	})
}

func (s *Service) selectLocked(keep func(Task) bool) []Task {
	out := make([]Task, 0, len(s.st.Todos))
	for _, t := range s.st.Todos {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.st.Todos)}
	for _, t := range s.st.Todos {
		if t.Completed {
			st.Completed++
			continue
		}
		switch t.Priority {
		case PriorityHigh:
			st.PriorityStats.High++
		case PriorityMedium:
			st.PriorityStats.Medium++
		case PriorityLow:
			st.PriorityStats.Low++
		}
	}
	st.Active = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}
