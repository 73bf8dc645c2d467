package server

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/ayomide/resumeforge/internal/session"
	"github.com/ayomide/resumeforge/internal/types"
)

// Entry collection names as they appear in URLs.
const (
	kindWork           = "work"
	kindEducation      = "education"
	kindCertifications = "certifications"
	kindAffiliations   = "affiliations"
)

// entryOps bundles the per-kind store accessor and entry plumbing so the four
// collections share one set of handlers. Methods cannot be generic, so the
// handlers dispatch on the {kind} path value into these generic helpers.
type entryOps[T any] struct {
	store    func(*session.State) *session.Store[T]
	id       func(T) uuid.UUID
	setID    func(*T, uuid.UUID)
	validate func(*T) error
}

var workOps = entryOps[types.WorkEntry]{
	store:    func(st *session.State) *session.Store[types.WorkEntry] { return st.Work },
	id:       func(e types.WorkEntry) uuid.UUID { return e.ID },
	setID:    func(e *types.WorkEntry, id uuid.UUID) { e.ID = id },
	validate: func(e *types.WorkEntry) error { return e.Validate() },
}

var educationOps = entryOps[types.EducationEntry]{
	store:    func(st *session.State) *session.Store[types.EducationEntry] { return st.Education },
	id:       func(e types.EducationEntry) uuid.UUID { return e.ID },
	setID:    func(e *types.EducationEntry, id uuid.UUID) { e.ID = id },
	validate: func(e *types.EducationEntry) error { return e.Validate() },
}

var certificationOps = entryOps[types.CertificationEntry]{
	store:    func(st *session.State) *session.Store[types.CertificationEntry] { return st.Certs },
	id:       func(e types.CertificationEntry) uuid.UUID { return e.ID },
	setID:    func(e *types.CertificationEntry, id uuid.UUID) { e.ID = id },
	validate: func(e *types.CertificationEntry) error { return e.Validate() },
}

var affiliationOps = entryOps[types.AffiliationEntry]{
	store:    func(st *session.State) *session.Store[types.AffiliationEntry] { return st.Affiliations },
	id:       func(e types.AffiliationEntry) uuid.UUID { return e.ID },
	setID:    func(e *types.AffiliationEntry, id uuid.UUID) { e.ID = id },
	validate: func(e *types.AffiliationEntry) error { return e.Validate() },
}

// entryAction is one CRUD verb already bound to its kind's ops.
type entryAction func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session)

// dispatchEntry resolves the session and routes the {kind} path value to the
// matching bound action.
func (s *Server) dispatchEntry(w http.ResponseWriter, r *http.Request,
	work, edu, cert, aff entryAction) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	switch r.PathValue("kind") {
	case kindWork:
		work(s, w, r, sess)
	case kindEducation:
		edu(s, w, r, sess)
	case kindCertifications:
		cert(s, w, r, sess)
	case kindAffiliations:
		aff(s, w, r, sess)
	default:
		s.failWith(w, &ErrValidation{Message: "unknown entry kind: " + r.PathValue("kind")})
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	s.dispatchEntry(w, r,
		listEntries(workOps), listEntries(educationOps),
		listEntries(certificationOps), listEntries(affiliationOps))
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	s.dispatchEntry(w, r,
		addEntry(workOps), addEntry(educationOps),
		addEntry(certificationOps), addEntry(affiliationOps))
}

func (s *Server) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	s.dispatchEntry(w, r,
		updateEntry(workOps), updateEntry(educationOps),
		updateEntry(certificationOps), updateEntry(affiliationOps))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	s.dispatchEntry(w, r,
		deleteEntry(workOps), deleteEntry(educationOps),
		deleteEntry(certificationOps), deleteEntry(affiliationOps))
}

func (s *Server) handleEditEntry(w http.ResponseWriter, r *http.Request) {
	s.dispatchEntry(w, r,
		editEntry(workOps), editEntry(educationOps),
		editEntry(certificationOps), editEntry(affiliationOps))
}

func (s *Server) handleCancelEdit(w http.ResponseWriter, r *http.Request) {
	s.dispatchEntry(w, r,
		cancelEdit(workOps), cancelEdit(educationOps),
		cancelEdit(certificationOps), cancelEdit(affiliationOps))
}

// listEntries returns the collection in insertion order plus its edit cursor.
func listEntries[T any](ops entryOps[T]) entryAction {
	return func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var entries []T
		var cursor *int
		sess.View(func(st *session.State) {
			entries = ops.store(st).All()
			cursor = cursorOf(ops.store(st))
		})
		s.jsonResponse(w, http.StatusOK, map[string]any{
			"entries":     entries,
			"edit_cursor": cursor,
		})
	}
}

// addEntry validates and appends an entry. A fresh ID is always assigned;
// client-supplied IDs are ignored.
func addEntry[T any](ops entryOps[T]) entryAction {
	return func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session) {
		var entry T
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			s.failWith(w, &ErrValidation{Message: "invalid JSON body: " + err.Error()})
			return
		}
		ops.setID(&entry, uuid.New())
		if err := ops.validate(&entry); err != nil {
			s.failWith(w, &ErrValidation{Message: err.Error()})
			return
		}
		sess.Update(func(st *session.State) error {
			ops.store(st).Add(entry)
			return nil
		})
		s.jsonResponse(w, http.StatusCreated, entry)
	}
}

// updateEntry replaces the addressed entry in place, keeping its ID and
// position. The edit cursor is cleared by the store.
func updateEntry[T any](ops entryOps[T]) entryAction {
	return func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session) {
		entryID, err := uuid.Parse(r.PathValue("entry_id"))
		if err != nil {
			s.failWith(w, &ErrValidation{Message: "invalid entry ID"})
			return
		}
		var entry T
		if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
			s.failWith(w, &ErrValidation{Message: "invalid JSON body: " + err.Error()})
			return
		}
		ops.setID(&entry, entryID)
		if err := ops.validate(&entry); err != nil {
			s.failWith(w, &ErrValidation{Message: err.Error()})
			return
		}
		err = sess.Update(func(st *session.State) error {
			store := ops.store(st)
			index, ok := store.Find(func(e T) bool { return ops.id(e) == entryID })
			if !ok {
				return &ErrEntryNotFound{EntryID: entryID}
			}
			return store.Update(index, entry)
		})
		if err != nil {
			s.failWith(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, entry)
	}
}

// deleteEntry removes the addressed entry. Later entries shift down and the
// store adjusts any edit cursor pointing at or past the removed slot.
func deleteEntry[T any](ops entryOps[T]) entryAction {
	return func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session) {
		entryID, err := uuid.Parse(r.PathValue("entry_id"))
		if err != nil {
			s.failWith(w, &ErrValidation{Message: "invalid entry ID"})
			return
		}
		err = sess.Update(func(st *session.State) error {
			store := ops.store(st)
			index, ok := store.Find(func(e T) bool { return ops.id(e) == entryID })
			if !ok {
				return &ErrEntryNotFound{EntryID: entryID}
			}
			return store.Delete(index)
		})
		if err != nil {
			s.failWith(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// editEntry sets the collection's edit cursor to the addressed entry and
// returns it for form prefill.
func editEntry[T any](ops entryOps[T]) entryAction {
	return func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session) {
		entryID, err := uuid.Parse(r.PathValue("entry_id"))
		if err != nil {
			s.failWith(w, &ErrValidation{Message: "invalid entry ID"})
			return
		}
		var entry T
		err = sess.Update(func(st *session.State) error {
			store := ops.store(st)
			index, ok := store.Find(func(e T) bool { return ops.id(e) == entryID })
			if !ok {
				return &ErrEntryNotFound{EntryID: entryID}
			}
			if err := store.SetCursor(index); err != nil {
				return err
			}
			entry, _ = store.At(index)
			return nil
		})
		if err != nil {
			s.failWith(w, err)
			return
		}
		s.jsonResponse(w, http.StatusOK, entry)
	}
}

// cancelEdit returns the collection to add mode without touching entries.
func cancelEdit[T any](ops entryOps[T]) entryAction {
	return func(s *Server, w http.ResponseWriter, r *http.Request, sess *session.Session) {
		sess.Update(func(st *session.State) error {
			ops.store(st).ClearCursor()
			return nil
		})
		w.WriteHeader(http.StatusNoContent)
	}
}
