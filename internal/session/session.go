package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayomide/resumeforge/internal/types"
)

// State is everything a session owns. Handlers mutate it only through
// Session.Update so one user-triggered action runs to completion before the
// next; there is no ambient global.
type State struct {
	Profile      types.Profile
	Work         *Store[types.WorkEntry]
	Education    *Store[types.EducationEntry]
	Certs        *Store[types.CertificationEntry]
	Affiliations *Store[types.AffiliationEntry]

	// Generated content slots. Overwritten wholesale, never patched.
	Resume      string
	CoverLetter string

	// Skill suggestions from the last suggestion call, pending user selection.
	SuggestedSkills []string
}

func newState() *State {
	return &State{
		Profile:      types.NewProfile(),
		Work:         NewStore[types.WorkEntry](),
		Education:    NewStore[types.EducationEntry](),
		Certs:        NewStore[types.CertificationEntry](),
		Affiliations: NewStore[types.AffiliationEntry](),
	}
}

// Snapshot is an immutable copy of the session state, taken for prompt
// building and rendering so the model never observes a half-applied mutation.
type Snapshot struct {
	Profile         types.Profile
	Work            []types.WorkEntry
	Education       []types.EducationEntry
	Certs           []types.CertificationEntry
	Affiliations    []types.AffiliationEntry
	Resume          string
	CoverLetter     string
	SuggestedSkills []string
}

// Session is one user's builder state, addressed by UUID.
type Session struct {
	ID uuid.UUID

	mu       sync.Mutex
	state    *State
	lastSeen time.Time
}

func newSession() *Session {
	return &Session{
		ID:       uuid.New(),
		state:    newState(),
		lastSeen: time.Now(),
	}
}

// Update runs fn with exclusive access to the state.
func (s *Session) Update(fn func(*State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return fn(s.state)
}

// View runs fn with read access to the state. The single mutex keeps the
// original's one-action-at-a-time semantics.
func (s *Session) View(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	fn(s.state)
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	var snap Snapshot
	s.View(func(st *State) {
		snap = Snapshot{
			Profile:         st.Profile,
			Work:            st.Work.All(),
			Education:       st.Education.All(),
			Certs:           st.Certs.All(),
			Affiliations:    st.Affiliations.All(),
			Resume:          st.Resume,
			CoverLetter:     st.CoverLetter,
			SuggestedSkills: append([]string(nil), st.SuggestedSkills...),
		}
	})
	return snap
}
