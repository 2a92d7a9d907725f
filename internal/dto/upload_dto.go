package dto

import "time"

type UploadResult struct {
	Status        string     `json:"status"`
	CandidateId   string     `json:"candidate_id,omitempty"`
	CandidateName string     `json:"candidate_name,omitempty"`
	Message       string     `json:"message"`
	UploadedAt    *time.Time `json:"uploaded_at,omitempty"`
}

// UploadErrorResponse is what clients receive on a rejected upload.
type UploadErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// ResumeUploadedMessage travels on the in-process ingestion topic.
type ResumeUploadedMessage struct {
	CandidateId string `json:"candidate_id"`
	FileName    string `json:"file_name"`
	MediaType   string `json:"media_type"`
	Content     []byte `json:"content"`
}
