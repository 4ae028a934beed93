package network

import "fmt"

// HttpError describes a failed call to the indexer, a gateway, or a
// pinning service. The response body rides along because pinning
// services put their real diagnostics there, not in the status line.
type HttpError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func NewHttpError(method, absoluteURL string, statusCode int, body string) *HttpError {
	return &HttpError{
		Method:     method,
		URL:        absoluteURL,
		StatusCode: statusCode,
		Body:       body,
	}
}

func (e *HttpError) Error() string {
	return fmt.Sprintf("server returned status code %d. %s %s - body: %s",
		e.StatusCode, e.Method, e.URL, e.Body)
}

// RateLimited is true for HTTP 429, the one status callers retry on.
func (e *HttpError) RateLimited() bool {
	return e.StatusCode == 429
}
