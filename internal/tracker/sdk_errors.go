package tracker

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/imroc/req/v3"
)

var (
	ErrNoAPIToken  = errors.New("tracker: api token missing")
	ErrNoWorkspace = errors.New("tracker: workspace missing")
)

// ErrorKind classifies API failures so callers can apply differentiated
// policy (the reconciler currently treats everything as skip-and-log).
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindNotFound    ErrorKind = "not_found"
	KindRateLimited ErrorKind = "rate_limited"
	KindConflict    ErrorKind = "conflict"
	KindNetwork     ErrorKind = "network"
	KindMalformed   ErrorKind = "malformed_response"
)

// apiErrorBody is the error envelope returned by the tracker API.
type apiErrorBody struct {
	Err  string `json:"err"`
	Code string `json:"ECODE"`
}

// APIError is a classified tracker API error.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tracker api error: %s (%d %s) %s", e.Kind, e.Status, e.Code, e.Message)
}

// Kind returns the error kind of err, or "" if err is not an APIError.
func Kind(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

func IsNotFound(err error) bool { return Kind(err) == KindNotFound }
func IsConflict(err error) bool { return Kind(err) == KindConflict }

func kindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusConflict:
		return KindConflict
	default:
		return KindMalformed
	}
}

// handleAPIError handles the common error pattern for all tracker calls.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("%s: %w", operation, &APIError{
			Kind:    KindNetwork,
			Message: requestErr.Error(),
		})
	}

	// got a response, but the api returned an error
	if resp.IsErrorState() {
		apiErr := &APIError{
			Kind:   kindFromStatus(resp.StatusCode),
			Status: resp.StatusCode,
		}
		if body, ok := resp.ErrorResult().(*apiErrorBody); ok && body != nil {
			apiErr.Code = body.Code
			apiErr.Message = body.Err
		}
		return fmt.Errorf("%s: %w", operation, apiErr)
	}

	return nil
}
