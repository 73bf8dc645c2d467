package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ayomide/resumeforge/internal/persist"
	"github.com/ayomide/resumeforge/internal/session"
)

// maxImportSize bounds uploaded documents. Exported files are a few kilobytes;
// a megabyte leaves generous headroom.
const maxImportSize = 1 << 20

// handleExport serializes the session to the portable JSON document and
// offers it as a download named after the candidate.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	snap := sess.Snapshot()
	data, err := persist.Export(snap)
	if err != nil {
		s.failWith(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", persist.ExportFileName(snap.Profile.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleImport replaces the session state with an uploaded document. The
// session keeps its ID; generated content and suggestions are cleared.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessionFromPath(r)
	if err != nil {
		s.failWith(w, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(r.Body, maxImportSize))
	if err != nil {
		s.failWith(w, &ErrValidation{Message: "failed to read request body"})
		return
	}

	doc, err := persist.Import(data)
	if err != nil {
		s.failWith(w, err)
		return
	}

	sess.Update(func(st *session.State) error {
		persist.Apply(doc, st)
		return nil
	})
	s.jsonResponse(w, http.StatusOK, s.sessionView(sess))
}
