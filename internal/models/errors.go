package models

// MissingFieldResponse is returned when a required request field is absent.
type MissingFieldResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// UpstreamErrorResponse carries the completion API's error body verbatim.
type UpstreamErrorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details"`
	RequestID string `json:"request_id,omitempty"`
}

type ServerErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}
