package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"

	// Roles sent by older widgets.
	ChatMessageRoleAI    = "ai"
	ChatMessageRoleModel = "model"

	ChatFallbackReply = "Sorry, there was an error processing your message. Please try again."

	ChatErrMessageRequired = "Message is required"
	ChatErrInternal        = "Internal server error"
)

const (
	UploadStatusSuccess = "success"
	UploadStatusError   = "error"
	UploadStatusHealthy = "healthy"

	UploadFormFieldFile = "file"
	UploadFormFieldName = "candidate_name"

	UploadMsgSuccess     = "Resume uploaded successfully"
	UploadMsgReady       = "Upload endpoint is ready"
	UploadErrNoFile      = "No file provided"
	UploadErrOnlyPDF     = "Only PDF files are allowed"
	UploadErrFailed      = "Failed to upload resume"
	DefaultCandidateName = "Candidate"

	CandidateErrNotFound = "Candidate not found"
)

const (
	CandidateQueryId       = "candidate_id"
	CandidateQueryUsername = "username"

	ProjectMsgAdded        = "Project added successfully"
	GithubMsgFetched       = "GitHub data fetched successfully"
	GithubErrUserNotFound  = "GitHub user not found"
	GithubErrInvalidUser   = "username is invalid"
	GithubErrFetchFailed   = "Failed to fetch GitHub data"
	CandidateErrIdRequired = "candidate_id is required"
)
