package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayomide/resumeforge/internal/llm"
	"github.com/ayomide/resumeforge/internal/types"
)

// stubClient scripts the model's replies for handler tests.
type stubClient struct {
	reply      string
	err        error
	lastPrompt string
	calls      int
}

func (c *stubClient) Generate(_ context.Context, prompt string, _ float64) (string, error) {
	c.calls++
	c.lastPrompt = prompt
	if c.err != nil {
		return "", c.err
	}
	return c.reply, nil
}

func (c *stubClient) Close() error { return nil }

func newTestServer(t *testing.T, client *stubClient) *Server {
	t.Helper()
	srv := NewWithClient(Config{Port: 0}, client)
	t.Cleanup(func() {
		srv.limiter.Stop()
		srv.sessions.Stop()
	})
	return srv
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func createSession(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := doJSON(t, h, "POST", "/sessions", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	return decodeBody(t, rec)["id"].(string)
}

func fullProfile() map[string]any {
	return map[string]any{
		"name":            "Ada Obi",
		"email":           "ada@example.com",
		"linkedin":        "linkedin.com/in/adaobi",
		"work_mode":       "Hybrid",
		"position":        "Platform Engineer",
		"job_description": "Run Go services.",
		"summary":         "Backend engineer.",
		"tech_skills":     "Go, Kubernetes",
		"temperature":     0.5,
	}
}

func workEntryBody() map[string]any {
	return map[string]any{
		"job":          "Backend Engineer",
		"organization": "Acme Corp",
		"location":     "Remote",
		"start_date":   "2021-03-01",
		"end_date":     "Present",
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	rec := doJSON(t, h, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestListTemplates(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	rec := doJSON(t, h, "GET", "/templates", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "Modern Professional", body["default"])
	assert.Len(t, body["templates"], 2)
}

func TestSessionLifecycle(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "GET", "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "Work from Home", profile["work_mode"])
	assert.Equal(t, types.DefaultTemperature, profile["temperature"])

	rec = doJSON(t, h, "DELETE", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "GET", "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetSession_BadID(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	rec := doJSON(t, h, "GET", "/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "PUT", "/sessions/"+id+"/profile", fullProfile())
	require.Equal(t, http.StatusOK, rec.Code)

	profile := decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "Ada Obi", profile["name"])
	assert.Equal(t, "Hybrid", profile["work_mode"])
}

func TestUpdateProfile_RejectsBadTemperature(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	body := fullProfile()
	body["temperature"] = 2.0
	rec := doJSON(t, h, "PUT", "/sessions/"+id+"/profile", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntryCRUD(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)
	base := "/sessions/" + id + "/entries/work"

	// Add
	rec := doJSON(t, h, "POST", base, workEntryBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	entryID := decodeBody(t, rec)["id"].(string)
	require.NotEmpty(t, entryID)

	// List
	rec = doJSON(t, h, "GET", base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeBody(t, rec)["entries"].([]any)
	require.Len(t, entries, 1)

	// Update keeps ID and position
	updated := workEntryBody()
	updated["job"] = "Staff Engineer"
	rec = doJSON(t, h, "PUT", base+"/"+entryID, updated)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Staff Engineer", decodeBody(t, rec)["job"])
	assert.Equal(t, entryID, decodeBody(t, rec)["id"])

	// Delete
	rec = doJSON(t, h, "DELETE", base+"/"+entryID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "GET", base, nil)
	assert.Empty(t, decodeBody(t, rec)["entries"])
}

func TestAddEntry_Invalid(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	body := workEntryBody()
	body["end_date"] = "2019-01-01" // before start
	rec := doJSON(t, h, "POST", "/sessions/"+id+"/entries/work", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntry_UnknownKind(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "GET", "/sessions/"+id+"/entries/hobbies", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEntry_NotFound(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "DELETE",
		"/sessions/"+id+"/entries/work/6b1e415f-9190-4f0a-b0d8-1e7e29f9f2b1", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditCursorFlow(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)
	base := "/sessions/" + id + "/entries/affiliations"

	for _, body := range []map[string]any{
		{"body": "IEEE", "date": "2020-05-01"},
		{"body": "ACM", "date": "2021-06-01"},
	} {
		rec := doJSON(t, h, "POST", base, body)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, h, "GET", base, nil)
	entries := decodeBody(t, rec)["entries"].([]any)
	firstID := entries[0].(map[string]any)["id"].(string)
	secondID := entries[1].(map[string]any)["id"].(string)

	// Point the cursor at the second entry
	rec = doJSON(t, h, "POST", base+"/"+secondID+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ACM", decodeBody(t, rec)["body"])

	rec = doJSON(t, h, "GET", base, nil)
	assert.Equal(t, float64(1), decodeBody(t, rec)["edit_cursor"])

	// Deleting the first entry shifts the cursor down with its entry
	rec = doJSON(t, h, "DELETE", base+"/"+firstID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "GET", base, nil)
	assert.Equal(t, float64(0), decodeBody(t, rec)["edit_cursor"])

	// Deleting the entry under the cursor clears it
	rec = doJSON(t, h, "DELETE", base+"/"+secondID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "GET", base, nil)
	assert.Nil(t, decodeBody(t, rec)["edit_cursor"])
}

func TestCancelEdit(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)
	base := "/sessions/" + id + "/entries/work"

	rec := doJSON(t, h, "POST", base, workEntryBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	entryID := decodeBody(t, rec)["id"].(string)

	rec = doJSON(t, h, "POST", base+"/"+entryID+"/edit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "POST", base+"/edit/cancel", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, "GET", base, nil)
	body := decodeBody(t, rec)
	assert.Nil(t, body["edit_cursor"])
	assert.Len(t, body["entries"], 1, "cancel leaves entries untouched")
}

// setupCompleteSession builds a session that satisfies resume generation.
func setupCompleteSession(t *testing.T, h http.Handler) string {
	t.Helper()
	id := createSession(t, h)

	rec := doJSON(t, h, "PUT", "/sessions/"+id+"/profile", fullProfile())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "POST", "/sessions/"+id+"/entries/work", workEntryBody())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, "POST", "/sessions/"+id+"/entries/education", map[string]any{
		"school": "University of Lagos", "course": "Computer Science",
		"degree": "BSc", "grad_date": "2019-07-15", "GPA": 4.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	return id
}

func TestGenerateResume(t *testing.T) {
	client := &stubClient{reply: "# Ada Obi\n\nGenerated resume."}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "# Ada Obi\n\nGenerated resume.", decodeBody(t, rec)["resume"])
	assert.Contains(t, client.lastPrompt, "Ada Obi")

	// Stored on the session
	rec = doJSON(t, h, "GET", "/sessions/"+id, nil)
	assert.Equal(t, "# Ada Obi\n\nGenerated resume.", decodeBody(t, rec)["resume"])
}

func TestGenerateResume_MissingFieldsRefusedBeforeModelCall(t *testing.T) {
	client := &stubClient{reply: "should never be used"}
	h := newTestServer(t, client).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Full Name")
	assert.Zero(t, client.calls, "validation failures must not reach the model")
}

func TestGenerateResume_TransportFailureLeavesSlotUnchanged(t *testing.T) {
	client := &stubClient{reply: "# First version"}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	client.err = &llm.TransportError{StatusCode: 400, Cause: errors.New("quota exceeded")}
	rec = doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = doJSON(t, h, "GET", "/sessions/"+id, nil)
	assert.Equal(t, "# First version", decodeBody(t, rec)["resume"],
		"a failed call must not clobber the stored document")
}

func TestRefineResume(t *testing.T) {
	client := &stubClient{reply: "# Version one"}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	client.reply = "# Version two"
	rec = doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume/refine",
		map[string]any{"request": "Shorter please"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, client.lastPrompt, "# Version one")
	assert.Contains(t, client.lastPrompt, "Shorter please")

	rec = doJSON(t, h, "GET", "/sessions/"+id, nil)
	assert.Equal(t, "# Version two", decodeBody(t, rec)["resume"])
}

func TestRefineResume_WithoutResume(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume/refine",
		map[string]any{"request": "Shorter"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "Generated Resume")
}

func TestSuggestAndSelectSkills(t *testing.T) {
	client := &stubClient{reply: "Docker, Terraform, Go, Docker"}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/skills", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	suggested := decodeBody(t, rec)["suggested_skills"].([]any)
	assert.Equal(t, []any{"Docker", "Terraform", "Go"}, suggested)

	rec = doJSON(t, h, "POST", "/sessions/"+id+"/skills/select",
		map[string]any{"skills": []string{"Docker", "Go"}})
	require.Equal(t, http.StatusOK, rec.Code)
	// Go was already present, only Docker is appended
	assert.Equal(t, "Go, Kubernetes, Docker", decodeBody(t, rec)["tech_skills"])
}

func TestSelectSkills_EmptySelection(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/skills/select",
		map[string]any{"skills": []string{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefineSummary(t *testing.T) {
	client := &stubClient{reply: "A sharper summary."}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A sharper summary.", decodeBody(t, rec)["summary"])

	rec = doJSON(t, h, "GET", "/sessions/"+id, nil)
	profile := decodeBody(t, rec)["profile"].(map[string]any)
	assert.Equal(t, "A sharper summary.", profile["summary"])
}

func TestEnhanceExperience(t *testing.T) {
	client := &stubClient{reply: "- Did a thing, 20% faster"}
	h := newTestServer(t, client).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/enhance", map[string]any{
		"position": "SRE", "responsibilities": "kept things up",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "- Did a thing, 20% faster", decodeBody(t, rec)["enhanced"])
	assert.Contains(t, client.lastPrompt, "SRE")
}

func TestEnhanceExperience_NothingProvided(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/enhance", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateCoverLetter(t *testing.T) {
	client := &stubClient{reply: "Dear Hiring Manager,"}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/cover-letter", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dear Hiring Manager,", decodeBody(t, rec)["cover_letter"])

	rec = doJSON(t, h, "GET", "/sessions/"+id, nil)
	body := decodeBody(t, rec)
	assert.Equal(t, "Dear Hiring Manager,", body["cover_letter"])
	assert.Equal(t, "", body["resume"], "cover letter must not touch the resume slot")
}

func TestResumeText(t *testing.T) {
	client := &stubClient{reply: "# Ada Obi\n\n**Backend** engineer with [links](x)."}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "GET", "/sessions/"+id+"/resume.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "resume.txt")
	assert.Equal(t, "# Ada Obi\n\nBackend engineer with links(x).", rec.Body.String())
}

func TestResumeText_NoResumeYet(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	rec := doJSON(t, h, "GET", "/sessions/"+id+"/resume.txt", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCoverLetterText(t *testing.T) {
	client := &stubClient{reply: "Dear **Hiring Manager**,"}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/cover-letter", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "GET", "/sessions/"+id+"/cover-letter.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dear Hiring Manager,", rec.Body.String())
}

func TestResumePDF_UnknownTemplate(t *testing.T) {
	client := &stubClient{reply: "# Resume"}
	h := newTestServer(t, client).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, "GET", "/sessions/"+id+"/resume.pdf?template=Futurist", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportImport(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := setupCompleteSession(t, h)

	rec := doJSON(t, h, "GET", "/sessions/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Ada_Obi.json")
	exported := rec.Body.Bytes()

	// Import into a fresh session
	other := createSession(t, h)
	req := httptest.NewRequest("POST", "/sessions/"+other+"/import", bytes.NewReader(exported))
	imp := httptest.NewRecorder()
	h.ServeHTTP(imp, req)
	require.Equal(t, http.StatusOK, imp.Code)

	body := decodeBody(t, imp)
	profile := body["profile"].(map[string]any)
	assert.Equal(t, "Ada Obi", profile["name"])
	assert.Len(t, body["work_experience"], 1)
	assert.Len(t, body["education"], 1)
}

func TestImport_BadJSON(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	id := createSession(t, h)

	req := httptest.NewRequest("POST", "/sessions/"+id+"/import", strings.NewReader(`{"name":`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGenerateLimit(t *testing.T) {
	client := &stubClient{reply: "ok"}
	srv := NewWithClient(Config{Port: 0, GenerateLimit: 2}, client)
	t.Cleanup(func() {
		srv.limiter.Stop()
		srv.sessions.Stop()
	})
	h := srv.Handler()
	id := setupCompleteSession(t, h)

	var last int
	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, "POST", "/sessions/"+id+"/generate/summary", nil)
		last = rec.Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)

	// Non-generation routes stay unlimited
	for i := 0; i < 5; i++ {
		rec := doJSON(t, h, "GET", "/sessions/"+id, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := newTestServer(t, &stubClient{}).Handler()
	req := httptest.NewRequest("OPTIONS", "/sessions", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"prompt validation", fmt.Errorf("wrapped: %w", &llm.TransportError{StatusCode: 500}), http.StatusBadGateway},
		{"malformed reply", &llm.MalformedResponseError{Reason: "no candidates"}, http.StatusBadGateway},
		{"request validation", &ErrValidation{Message: "bad"}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}
