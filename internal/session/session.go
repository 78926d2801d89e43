package session

import "newsrag/internal/domain"

// State is the per-session view state: what has been processed, the
// current suggestions, and the last answer. It is created at startup,
// mutated only by the process and clear actions, and read by the
// display layer. Nothing in it is persisted.
type State struct {
	URLs       []string
	Processed  bool
	Summary    string
	Questions  []string
	Selected   int
	LastAsked  string
	LastAnswer *domain.Answer
	Notice     string
}

// New returns session state for a fresh session. Processed reflects
// whether a persisted index already exists from a previous run.
func New(urlSlots int, processed bool) *State {
	return &State{
		URLs:      make([]string, urlSlots),
		Processed: processed,
	}
}

// ApplyProcess records a successful build.
func (s *State) ApplyProcess(urls []string, res *domain.ProcessResult) {
	copy(s.URLs, urls)
	s.Processed = true
	s.Summary = res.Summary
	s.Questions = res.Questions
	s.Selected = 0
	s.Notice = res.Notice
	s.LastAsked = ""
	s.LastAnswer = nil
}

// ApplyClear resets everything the clear action owns.
func (s *State) ApplyClear() {
	s.Processed = false
	s.Summary = ""
	s.Questions = nil
	s.Selected = 0
	s.LastAsked = ""
	s.LastAnswer = nil
	s.Notice = ""
}

// ApplyAnswer records the outcome of an ask action.
func (s *State) ApplyAnswer(question string, answer *domain.Answer) {
	s.LastAsked = question
	s.LastAnswer = answer
}
