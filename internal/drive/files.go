package drive

import (
	"context"
)

const v3Files = "/drive/v3/files"

// ListChildren returns all direct children of a folder, following
// pagination until the listing is exhausted.
func (c *Client) ListChildren(ctx context.Context, folderID string) ([]File, error) {
	var all []File
	pageToken := ""

	for {
		var resp fileListResponse
		r := c.http.R().
			SetContext(ctx).
			SetQueryParam("parent", folderID).
			SetSuccessResult(&resp)
		if pageToken != "" {
			r.SetQueryParam("pageToken", pageToken)
		}

		res, err := r.Get(v3Files)
		if err := handleAPIError(res, err, "list files"); err != nil {
			return nil, err
		}

		all = append(all, resp.Files...)
		if resp.NextPageToken == "" {
			return all, nil
		}
		pageToken = resp.NextPageToken
	}
}
