package models

// ChatResult is the outcome of one chat orchestration.
type ChatResult struct {
	AnswerText   string
	UsedFallback bool
}

// ChatResponse is the JSON shape returned by POST /api/chat.
type ChatResponse struct {
	Response string `json:"response"`
	Fallback bool   `json:"fallback"`
}

// ErrorResponse is the JSON error envelope used by every endpoint.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type UploadResponse struct {
	Success  bool   `json:"success"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
	FileSize int64  `json:"fileSize"`
}

// ModelStatus reports whether one roster model answered a probe request.
type ModelStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type ModelsResponse struct {
	Available   []ModelStatus `json:"available"`
	Unavailable []ModelStatus `json:"unavailable"`
}

type APIKeyStatusResponse struct {
	HasAPIKey bool `json:"hasApiKey"`
}

type DeleteNoteResponse struct {
	Success bool `json:"success"`
}
