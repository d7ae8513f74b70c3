package server

// PromptRequest is the body of POST /llm/generate.
type PromptRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is returned for errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}
