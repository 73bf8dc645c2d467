package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ayomide/resumeforge/internal/session"
	"github.com/ayomide/resumeforge/internal/types"
)

// sessionView is the state payload returned by GET /sessions/{id} and the
// session-mutating handlers.
type sessionView struct {
	ID              string                     `json:"id"`
	Profile         types.Profile              `json:"profile"`
	Work            []types.WorkEntry          `json:"work_experience"`
	Education       []types.EducationEntry     `json:"education"`
	Certifications  []types.CertificationEntry `json:"certifications"`
	Affiliations    []types.AffiliationEntry   `json:"affiliations"`
	Cursors         map[string]*int            `json:"edit_cursors"`
	Resume          string                     `json:"resume"`
	CoverLetter     string                     `json:"cover_letter"`
	SuggestedSkills []string                   `json:"suggested_skills"`
}

func (s *Server) sessionView(sess *session.Session) sessionView {
	view := sessionView{ID: sess.ID.String(), Cursors: make(map[string]*int)}
	sess.View(func(st *session.State) {
		view.Profile = st.Profile
		view.Work = st.Work.All()
		view.Education = st.Education.All()
		view.Certifications = st.Certs.All()
		view.Affiliations = st.Affiliations.All()
		view.Cursors[kindWork] = cursorOf(st.Work)
		view.Cursors[kindEducation] = cursorOf(st.Education)
		view.Cursors[kindCertifications] = cursorOf(st.Certs)
		view.Cursors[kindAffiliations] = cursorOf(st.Affiliations)
		view.Resume = st.Resume
		view.CoverLetter = st.CoverLetter
		view.SuggestedSkills = st.SuggestedSkills
	})
	return view
}

func cursorOf[T any](store *session.Store[T]) *int {
	if i, ok := store.Cursor(); ok {
		return &i
	}
	return nil
}

// sessionFromPath resolves the {id} path value to a live session.
func (s *Server) sessionFromPath(r *http.Request) (*session.Session, error) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return nil, &ErrValidation{Message: "invalid session ID"}
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, &ErrSessionNotFound{SessionID: id}
	}
	return sess, nil
}

// handleCreateSession starts a fresh session with default profile values.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.jsonResponse(w, http.StatusCreated, s.sessionView(sess))
}

// handleGetSession returns the full session state.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionView(sess))
}

// handleDeleteSession drops the session and everything it holds.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.sessions.Delete(sess.ID)
	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateProfile replaces the profile scalars. Partial updates are not
// supported; clients send the whole profile each time, matching the form model.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	var profile types.Profile
	if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
		s.failWith(w, &ErrValidation{Message: "invalid JSON body: " + err.Error()})
		return
	}
	profile.WorkMode = types.ParseWorkMode(string(profile.WorkMode))
	if err := profile.Validate(); err != nil {
		s.failWith(w, &ErrValidation{Message: err.Error()})
		return
	}

	if err := sess.Update(func(st *session.State) error {
		st.Profile = profile
		return nil
	}); err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.sessionView(sess))
}
