package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/ayomide/resumeforge/internal/prompts"
	"github.com/ayomide/resumeforge/internal/session"
)

// generate snapshots the session, builds the task prompt, and runs the model
// at the session's temperature. Prompt validation failures surface as 400s
// before any model call is made.
func (s *Server) generate(r *http.Request, sess *session.Session,
	build func(session.Snapshot) (string, error)) (string, error) {
	snap := sess.Snapshot()
	prompt, err := build(snap)
	if err != nil {
		return "", err
	}
	text, err := s.llm.Generate(r.Context(), prompt, snap.Profile.Temperature)
	if err != nil {
		log.Printf("[generate] model call failed: %v", err)
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// handleSuggestSkills asks the model for skills matching the job description
// and parks them on the session for later selection.
func (s *Server) handleSuggestSkills(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	text, err := s.generate(r, sess, prompts.BuildSkillSuggestions)
	if err != nil {
		s.failWith(w, err)
		return
	}
	skills := prompts.ParseSkillList(text)
	sess.Update(func(st *session.State) error {
		st.SuggestedSkills = skills
		return nil
	})
	s.jsonResponse(w, http.StatusOK, map[string]any{"suggested_skills": skills})
}

// handleSelectSkills merges chosen suggestions into the profile's technical
// skills, deduplicating against what is already there.
func (s *Server) handleSelectSkills(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	var req struct {
		Skills []string `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failWith(w, &ErrValidation{Message: "invalid JSON body: " + err.Error()})
		return
	}
	if len(req.Skills) == 0 {
		s.failWith(w, &ErrValidation{Message: "no skills selected"})
		return
	}

	var merged string
	sess.Update(func(st *session.State) error {
		existing := prompts.ParseSkillList(st.Profile.TechSkills)
		seen := make(map[string]bool, len(existing))
		for _, skill := range existing {
			seen[skill] = true
		}
		for _, skill := range req.Skills {
			skill = strings.TrimSpace(skill)
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			existing = append(existing, skill)
		}
		st.Profile.TechSkills = strings.Join(existing, ", ")
		merged = st.Profile.TechSkills
		return nil
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"tech_skills": merged})
}

// handleRefineSummary rewrites the career summary toward the target position
// and stores the result back on the profile.
func (s *Server) handleRefineSummary(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	text, err := s.generate(r, sess, prompts.BuildSummaryRefinement)
	if err != nil {
		s.failWith(w, err)
		return
	}
	sess.Update(func(st *session.State) error {
		st.Profile.Summary = text
		return nil
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"summary": text})
}

// handleEnhanceExperience turns raw responsibilities and project notes into
// quantified bullet points. The result is returned for the caller to review,
// not written into any entry.
func (s *Server) handleEnhanceExperience(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	var req struct {
		Position         string `json:"position"`
		Responsibilities string `json:"responsibilities"`
		Projects         string `json:"projects"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failWith(w, &ErrValidation{Message: "invalid JSON body: " + err.Error()})
		return
	}

	text, err := s.generate(r, sess, func(snap session.Snapshot) (string, error) {
		position := req.Position
		if position == "" {
			position = snap.Profile.Position
		}
		return prompts.BuildExperienceEnhancement(position, req.Responsibilities, req.Projects)
	})
	if err != nil {
		s.failWith(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"enhanced": text})
}

// handleGenerateResume produces the full Markdown resume and stores it in the
// session's resume slot, replacing any previous document.
func (s *Server) handleGenerateResume(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	text, err := s.generate(r, sess, prompts.BuildResumeGeneration)
	if err != nil {
		s.failWith(w, err)
		return
	}
	sess.Update(func(st *session.State) error {
		st.Resume = text
		return nil
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"resume": text})
}

// handleRefineResume regenerates the stored resume wholesale according to a
// free-text request. The previous document is the prompt input and is
// replaced, never patched.
func (s *Server) handleRefineResume(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	var req struct {
		Request string `json:"request"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.failWith(w, &ErrValidation{Message: "invalid JSON body: " + err.Error()})
		return
	}

	text, err := s.generate(r, sess, func(snap session.Snapshot) (string, error) {
		return prompts.BuildResumeRefinement(snap, req.Request)
	})
	if err != nil {
		s.failWith(w, err)
		return
	}
	sess.Update(func(st *session.State) error {
		st.Resume = text
		return nil
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"resume": text})
}

// handleGenerateCoverLetter produces the cover letter and stores it in its
// own slot, independent of the resume.
func (s *Server) handleGenerateCoverLetter(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	text, err := s.generate(r, sess, prompts.BuildCoverLetter)
	if err != nil {
		s.failWith(w, err)
		return
	}
	sess.Update(func(st *session.State) error {
		st.CoverLetter = text
		return nil
	})
	s.jsonResponse(w, http.StatusOK, map[string]string{"cover_letter": text})
}
