package dto

type ChatTurnDTO struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message     string        `json:"message" validate:"notblank"`
	History     []ChatTurnDTO `json:"history"`
	CandidateId string        `json:"candidate_id,omitempty"`
}

type ChatResponse struct {
	Reply   string   `json:"reply"`
	Sources []string `json:"sources,omitempty"`
}

type ChatErrorResponse struct {
	Error string `json:"error"`
}
