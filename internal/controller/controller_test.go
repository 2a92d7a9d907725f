package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/logger"
	"resume-assistant-be/internal/pkg/serverutils"
	"resume-assistant-be/internal/repository/memory"
	"resume-assistant-be/internal/service"
	"resume-assistant-be/pkg/candidate"
	"resume-assistant-be/pkg/events"
	"resume-assistant-be/pkg/github"
	"resume-assistant-be/pkg/rag/intent"
	"resume-assistant-be/pkg/rag/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discardQueue struct{}

func (discardQueue) PublishResume(context.Context, dto.ResumeUploadedMessage) error {
	return nil
}

type fixedFetcher struct{}

func (fixedFetcher) FetchRepositories(_ context.Context, username string) ([]entity.GithubRepository, error) {
	if username == "ghost" {
		return nil, github.ErrUserNotFound
	}
	return []entity.GithubRepository{{Name: "resume-assistant", Language: "Go", Readme: "# Resume assistant"}}, nil
}

func setupApp() *fiber.App {
	log := logger.NewNopLogger()
	repo := memory.NewCandidateRepository(time.Hour)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware(log))

	uploadService := service.NewUploadService(repo, candidate.NewIDGenerator(), discardQueue{}, events.NopPublisher{}, log)
	chatService := service.NewChatService(intent.NewResolver(), response.NewGenerator(nil, log), repo, events.NopPublisher{}, log)

	NewHealthController().RegisterRoutes(app)
	NewUploadController(uploadService).RegisterRoutes(app)
	NewChatController(chatService).RegisterRoutes(app)
	NewCandidateController(service.NewCandidateService(repo, fixedFetcher{}, events.NopPublisher{}, log)).RegisterRoutes(app)
	return app
}

func multipartBody(t *testing.T, fileName, contentType string, content []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func TestUploadEndpoint(t *testing.T) {
	tests := []struct {
		name        string
		fileName    string
		contentType string
		wantStatus  int
		wantError   string
	}{
		{"pdf accepted", "resume.pdf", "application/pdf", http.StatusOK, ""},
		{"text rejected", "resume.txt", "text/plain", http.StatusBadRequest, "Only PDF files are allowed"},
		{"missing file", "", "", http.StatusBadRequest, "No file provided"},
	}

	app := setupApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.fileName, tt.contentType, []byte("%PDF-1.4"), map[string]string{"candidate_name": "Ada"})
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", ct)

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			out := decode(t, resp)
			if tt.wantError != "" {
				assert.Equal(t, "error", out["status"])
				assert.Equal(t, tt.wantError, out["error"])
				return
			}
			assert.Equal(t, "success", out["status"])
			assert.Equal(t, "Resume uploaded successfully", out["message"])
			assert.Equal(t, "Ada", out["candidate_name"])
			assert.Regexp(t, `^candidate_\d+_[0-9a-z]{9}$`, out["candidate_id"])
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := setupApp().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"status": "error", "error": "Failed to upload resume"}, decode(t, resp))
}

func TestUploadReady(t *testing.T) {
	resp, err := setupApp().Test(httptest.NewRequest(http.MethodGet, "/upload", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"status": "healthy", "message": "Upload endpoint is ready"}, decode(t, resp))
}

func TestChatEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       map[string]interface{}
	}{
		{
			name:       "skills",
			body:       `{"message":"What are your skills in Python?","history":[]}`,
			wantStatus: http.StatusOK,
			want:       map[string]interface{}{"reply": intent.ReplySkills, "sources": []interface{}{"Skills"}},
		},
		{
			name:       "projects with history",
			body:       `{"message":"Tell me about your projects","history":[{"role":"user","content":"hi"},{"role":"assistant","content":"hello"}]}`,
			wantStatus: http.StatusOK,
			want:       map[string]interface{}{"reply": intent.ReplyProjects, "sources": []interface{}{"Projects"}},
		},
		{
			name:       "weather falls back",
			body:       `{"message":"How's the weather?"}`,
			wantStatus: http.StatusOK,
			want:       map[string]interface{}{"reply": intent.ReplyGeneral, "sources": []interface{}{"General"}},
		},
		{
			name:       "empty message",
			body:       `{"message":"","history":[]}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]interface{}{"error": "Message is required"},
		},
		{
			name:       "missing message",
			body:       `{"history":[]}`,
			wantStatus: http.StatusBadRequest,
			want:       map[string]interface{}{"error": "Message is required"},
		},
		{
			name:       "malformed json",
			body:       `{"message":`,
			wantStatus: http.StatusInternalServerError,
			want:       map[string]interface{}{"error": "Internal server error"},
		},
	}

	app := setupApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.want, decode(t, resp))
		})
	}
}

func TestCandidateEndpoints(t *testing.T) {
	app := setupApp()

	body, ct := multipartBody(t, "cv.pdf", "application/pdf", []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	id := decode(t, resp)["candidate_id"].(string)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/candidates/"+id, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, id, out["id"])
	assert.Equal(t, "Candidate", out["candidate_name"])
	assert.Equal(t, "pending", out["status"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/candidates", nil), -1)
	require.NoError(t, err)
	assert.Len(t, decode(t, resp)["candidates"], 1)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/candidates/candidate_0_missing00", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"error": "Candidate not found"}, decode(t, resp))
}

func uploadCandidate(t *testing.T, app *fiber.App) string {
	t.Helper()
	body, ct := multipartBody(t, "cv.pdf", "application/pdf", []byte("%PDF-1.4"), nil)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return decode(t, resp)["candidate_id"].(string)
}

func postJSON(t *testing.T, app *fiber.App, target, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestAddProjectEndpoints(t *testing.T) {
	app := setupApp()
	id := uploadCandidate(t, app)

	resp := postJSON(t, app, "/candidates/"+id+"/projects", `{"name":"Resume Assistant","technologies":["Go"]}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "Project added successfully", out["message"])
	assert.Equal(t, id, out["candidate_id"])
	assert.Equal(t, "Resume Assistant", out["project"].(map[string]interface{})["name"])

	resp = postJSON(t, app, "/add-project?candidate_id="+id, `{"name":"Portfolio"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/candidates/"+id, nil), -1)
	require.NoError(t, err)
	assert.Len(t, decode(t, resp)["projects"], 2)

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantError  string
	}{
		{"no candidate id", "/add-project", `{"name":"x"}`, http.StatusBadRequest, "candidate_id is required"},
		{"blank name", "/candidates/" + id + "/projects", `{"name":" "}`, http.StatusBadRequest, "Name is required"},
		{"unknown candidate", "/candidates/candidate_0_missing00/projects", `{"name":"x"}`, http.StatusNotFound, "Candidate not found"},
		{"malformed json", "/candidates/" + id + "/projects", `{"name":`, http.StatusInternalServerError, "Internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, map[string]interface{}{"error": tt.wantError}, decode(t, resp))
		})
	}
}

func TestFetchGithubEndpoints(t *testing.T) {
	app := setupApp()
	id := uploadCandidate(t, app)

	resp := postJSON(t, app, "/candidates/"+id+"/github", `{"username":"octocat"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode(t, resp)
	assert.Equal(t, "GitHub data fetched successfully", out["message"])
	assert.Equal(t, "octocat", out["username"])
	assert.Equal(t, float64(1), out["repos_count"])

	resp = postJSON(t, app, "/fetch-github?candidate_id="+id+"&username=octocat", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/candidates/"+id, nil), -1)
	require.NoError(t, err)
	gh := decode(t, resp)["github"].(map[string]interface{})
	assert.Equal(t, "octocat", gh["username"])
	repo := gh["repositories"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "resume-assistant", repo["name"])
	assert.NotContains(t, repo, "readme")

	tests := []struct {
		name       string
		target     string
		body       string
		wantStatus int
		wantError  string
	}{
		{"no candidate id", "/fetch-github?username=octocat", "", http.StatusBadRequest, "candidate_id is required"},
		{"no username", "/candidates/" + id + "/github", `{}`, http.StatusBadRequest, "Username is required"},
		{"unknown github user", "/candidates/" + id + "/github", `{"username":"ghost"}`, http.StatusNotFound, "GitHub user not found"},
		{"unknown candidate", "/candidates/candidate_0_missing00/github", `{"username":"octocat"}`, http.StatusNotFound, "Candidate not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, app, tt.target, tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, map[string]interface{}{"error": tt.wantError}, decode(t, resp))
		})
	}
}

func TestHealth(t *testing.T) {
	resp, err := setupApp().Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"status": "healthy"}, decode(t, resp))
}
