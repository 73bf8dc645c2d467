package server

import (
	"net/http"
	"strings"

	"github.com/ayomide/resumeforge/internal/rendering"
	"github.com/ayomide/resumeforge/internal/session"
)

// resumeMarkdown returns the stored resume or a validation failure when none
// has been generated yet.
func resumeMarkdown(snap session.Snapshot) (string, error) {
	if strings.TrimSpace(snap.Resume) == "" {
		return "", &ErrValidation{Message: "no resume has been generated yet"}
	}
	return snap.Resume, nil
}

// handleResumePDF renders the stored resume into the selected template and
// streams the PDF. The template query parameter defaults to the standard
// layout.
func (s *Server) handleResumePDF(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	markdown, err := resumeMarkdown(sess.Snapshot())
	if err != nil {
		s.failWith(w, err)
		return
	}

	templateName := r.URL.Query().Get("template")
	if templateName == "" {
		templateName = rendering.DefaultTemplate
	}

	pdf, err := rendering.ComposePDF(r.Context(), markdown, templateName)
	if err != nil {
		s.failWith(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// handleResumeText streams the stored resume as stripped plain text.
func (s *Server) handleResumeText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	markdown, err := resumeMarkdown(sess.Snapshot())
	if err != nil {
		s.failWith(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="resume.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write(rendering.PlainText(markdown))
}

// handleCoverLetterText streams the stored cover letter as stripped plain
// text. The cover letter has no PDF path.
func (s *Server) handleCoverLetterText(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}
	snap := sess.Snapshot()
	if strings.TrimSpace(snap.CoverLetter) == "" {
		s.failWith(w, &ErrValidation{Message: "no cover letter has been generated yet"})
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="cover_letter.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write(rendering.PlainText(snap.CoverLetter))
}
