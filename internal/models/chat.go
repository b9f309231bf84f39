package models

// ChatRequest is the payload sent to the chat endpoints.
type ChatRequest struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}
