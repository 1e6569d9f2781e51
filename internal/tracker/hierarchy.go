package tracker

import (
	"context"
	"fmt"
	"log/slog"
)

const (
	v2Spaces  = "/api/v2/team/%s/space"
	v2Folders = "/api/v2/space/%s/folder"
	v2Lists   = "/api/v2/folder/%s/list"
)

// ResolveList walks the workspace -> space -> folder -> list hierarchy by
// name, creating any missing level, and returns the destination list id.
// Repeated calls with the same path resolve to the same container. A
// conflict during create (another process created the level between our
// list and create calls) is resolved by re-listing, not treated as failure.
func (c *Client) ResolveList(ctx context.Context, path []string) (string, error) {
	if len(path) != 3 {
		return "", fmt.Errorf("tracker: container path must be space/folder/list, got %d levels", len(path))
	}
	spaceName, folderName, listName := path[0], path[1], path[2]

	spaceID, err := c.ensureSpace(ctx, spaceName)
	if err != nil {
		return "", fmt.Errorf("resolve space %q: %w", spaceName, err)
	}

	folderID, err := c.ensureFolder(ctx, spaceID, folderName)
	if err != nil {
		return "", fmt.Errorf("resolve folder %q: %w", folderName, err)
	}

	listID, err := c.ensureList(ctx, folderID, listName)
	if err != nil {
		return "", fmt.Errorf("resolve list %q: %w", listName, err)
	}

	slog.Debug("tracker container resolved", "space", spaceID, "folder", folderID, "list", listID)
	return listID, nil
}

func (c *Client) ensureSpace(ctx context.Context, name string) (string, error) {
	find := func() (string, error) {
		var resp spacesResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetSuccessResult(&resp).
			Get(fmt.Sprintf(v2Spaces, c.workspace))
		if err := handleAPIError(res, err, "list spaces"); err != nil {
			return "", err
		}
		for _, s := range resp.Spaces {
			if s.Name == name {
				return s.ID, nil
			}
		}
		return "", nil
	}

	id, err := find()
	if err != nil || id != "" {
		return id, err
	}

	var created Space
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(&createNameRequest{Name: name}).
		SetSuccessResult(&created).
		Post(fmt.Sprintf(v2Spaces, c.workspace))
	if err := handleAPIError(res, err, "create space"); err != nil {
		if IsConflict(err) {
			return c.relookup(err, find)
		}
		return "", err
	}
	return created.ID, nil
}

func (c *Client) ensureFolder(ctx context.Context, spaceID, name string) (string, error) {
	find := func() (string, error) {
		var resp foldersResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetSuccessResult(&resp).
			Get(fmt.Sprintf(v2Folders, spaceID))
		if err := handleAPIError(res, err, "list folders"); err != nil {
			return "", err
		}
		for _, f := range resp.Folders {
			if f.Name == name {
				return f.ID, nil
			}
		}
		return "", nil
	}

	id, err := find()
	if err != nil || id != "" {
		return id, err
	}

	var created Folder
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(&createNameRequest{Name: name}).
		SetSuccessResult(&created).
		Post(fmt.Sprintf(v2Folders, spaceID))
	if err := handleAPIError(res, err, "create folder"); err != nil {
		if IsConflict(err) {
			return c.relookup(err, find)
		}
		return "", err
	}
	return created.ID, nil
}

func (c *Client) ensureList(ctx context.Context, folderID, name string) (string, error) {
	find := func() (string, error) {
		var resp listsResponse
		res, err := c.http.R().
			SetContext(ctx).
			SetSuccessResult(&resp).
			Get(fmt.Sprintf(v2Lists, folderID))
		if err := handleAPIError(res, err, "list lists"); err != nil {
			return "", err
		}
		for _, l := range resp.Lists {
			if l.Name == name {
				return l.ID, nil
			}
		}
		return "", nil
	}

	id, err := find()
	if err != nil || id != "" {
		return id, err
	}

	var created List
	res, err := c.http.R().
		SetContext(ctx).
		SetBody(&createNameRequest{Name: name}).
		SetSuccessResult(&created).
		Post(fmt.Sprintf(v2Lists, folderID))
	if err := handleAPIError(res, err, "create list"); err != nil {
		if IsConflict(err) {
			return c.relookup(err, find)
		}
		return "", err
	}
	return created.ID, nil
}

// relookup resolves a create conflict by re-listing; someone else created
// the level first, which counts as success.
func (c *Client) relookup(conflict error, find func() (string, error)) (string, error) {
	slog.Debug("tracker container already exists, re-resolving", "error", conflict)
	id, err := find()
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", conflict
	}
	return id, nil
}
