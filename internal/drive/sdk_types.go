package drive

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/imroc/req/v3"
)

var ErrNoAPIToken = errors.New("drive: api token missing")

const folderMimeType = "application/vnd.google-apps.folder"

// File is the wire representation of a file or folder.
type File struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	MimeType      string            `json:"mimeType"`
	CreatedTime   time.Time         `json:"createdTime"`
	ModifiedTime  time.Time         `json:"modifiedTime"`
	Size          string            `json:"size,omitempty"` // decimal string, absent for folders
	WebViewLink   string            `json:"webViewLink,omitempty"`
	AppProperties map[string]string `json:"appProperties,omitempty"`
}

func (f *File) IsFolder() bool {
	return f.MimeType == folderMimeType
}

// SizeBytes parses the size field; 0 when absent or unparseable.
func (f *File) SizeBytes() int64 {
	if f.Size == "" {
		return 0
	}
	n, err := strconv.ParseInt(f.Size, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

type fileListResponse struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

type apiErrorBody struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// handleAPIError handles the common error pattern for all source calls.
func handleAPIError(resp *req.Response, requestErr error, operation string) error {
	if requestErr != nil {
		return fmt.Errorf("drive: %s: %w", operation, requestErr)
	}

	if resp.IsErrorState() {
		if body, ok := resp.ErrorResult().(*apiErrorBody); ok && body != nil && body.Error.Message != "" {
			return fmt.Errorf("drive: %s: %d %s", operation, body.Error.Code, body.Error.Message)
		}
		return fmt.Errorf("drive: %s: http %d", operation, resp.StatusCode)
	}

	return nil
}
