package model

// ShortenRequest is the body of a JSON shorten call.
type ShortenRequest struct {
	URL string `json:"url"`
}

// ResolveResponse is returned by the JSON resolve endpoint.
type ResolveResponse struct {
	OriginalURL string `json:"original_url"`
}

// BatchDeleteResponse acknowledges a bulk delete that will be applied asynchronously.
type BatchDeleteResponse struct {
	Accepted int `json:"accepted"`
}

// ErrorResponse carries a user-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}
