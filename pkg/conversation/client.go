package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-assistant-be/internal/constant"
	"resume-assistant-be/internal/dto"
	"resume-assistant-be/internal/entity"
	"resume-assistant-be/internal/pkg/serverutils"
)

// UploadClient submits resumes to the server and returns the session to chat with.
type UploadClient struct {
	baseURL string
	client  *http.Client
}

func NewUploadClient(baseURL string, client *http.Client) *UploadClient {
	if client == nil {
		client = &http.Client{}
	}
	return &UploadClient{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

// UploadFile reads path from disk and uploads it, declaring the media type
// implied by its extension.
func (c *UploadClient) UploadFile(ctx context.Context, path, candidateName string) (entity.CandidateSession, error) {
	f, err := os.Open(path)
	if err != nil {
		return entity.CandidateSession{}, fmt.Errorf("failed to open resume: %w", err)
	}
	defer f.Close()

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return c.Upload(ctx, filepath.Base(path), mediaType, candidateName, f)
}

// Upload sends content as the multipart "file" field. A rejected upload is
// reported with the server's error message.
func (c *UploadClient) Upload(ctx context.Context, fileName, mediaType, candidateName string, content io.Reader) (entity.CandidateSession, error) {
	const op = "POST /upload"

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, constant.UploadFormFieldFile, fileName))
	header.Set("Content-Type", mediaType)
	part, err := w.CreatePart(header)
	if err != nil {
		return entity.CandidateSession{}, err
	}
	if _, err := io.Copy(part, content); err != nil {
		return entity.CandidateSession{}, fmt.Errorf("failed to read resume: %w", err)
	}
	if candidateName != "" {
		if err := w.WriteField(constant.UploadFormFieldName, candidateName); err != nil {
			return entity.CandidateSession{}, err
		}
	}
	if err := w.Close(); err != nil {
		return entity.CandidateSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload", &buf)
	if err != nil {
		return entity.CandidateSession{}, &serverutils.TransportError{Op: op, Err: err}
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return entity.CandidateSession{}, &serverutils.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		var rejected dto.UploadErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&rejected); err != nil || rejected.Error == "" {
			return entity.CandidateSession{}, &serverutils.TransportError{Op: op, StatusCode: resp.StatusCode}
		}
		return entity.CandidateSession{}, &serverutils.ValidationError{Message: rejected.Error}
	case resp.StatusCode != http.StatusOK:
		return entity.CandidateSession{}, &serverutils.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	var result dto.UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return entity.CandidateSession{}, &serverutils.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if result.CandidateId == "" {
		return entity.CandidateSession{}, &serverutils.TransportError{Op: op, Err: fmt.Errorf("response carried no candidate id")}
	}

	session := entity.CandidateSession{
		CandidateId:   result.CandidateId,
		CandidateName: result.CandidateName,
		CreatedAt:     time.Now(),
	}
	if result.UploadedAt != nil {
		session.CreatedAt = *result.UploadedAt
	}
	if session.CandidateName == "" {
		session.CandidateName = candidateName
	}
	return session, nil
}
