package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// Query describes an ordered collection read.
type Query struct {
	OrderBy string
	Desc    bool
}

func docPath(path string) string {
	return "/api/v1/" + strings.Trim(path, "/")
}

// Set writes the whole document at path, replacing any previous content.
func (c *Client) Set(ctx context.Context, path string, data any) error {
	return c.do(ctx, http.MethodPut, docPath(path), nil, data, nil)
}

// Update merges fields into the existing document at path.
func (c *Client) Update(ctx context.Context, path string, fields map[string]any) error {
	return c.do(ctx, http.MethodPatch, docPath(path), nil, fields, nil)
}

// Get decodes the document at path into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, docPath(path), nil, nil, out)
}

// Delete removes the document at path. Deleting a missing document succeeds.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, docPath(path), nil, nil, nil)
}

// Query decodes the documents of a collection into out, a pointer to a slice.
func (c *Client) Query(ctx context.Context, collection string, q Query, out any) error {
	values := url.Values{}
	if q.OrderBy != "" {
		values.Set("order_by", q.OrderBy)
		if q.Desc {
			values.Set("direction", "desc")
		} else {
			values.Set("direction", "asc")
		}
	}
	return c.do(ctx, http.MethodGet, docPath(collection), values, nil, out)
}

// Stats decodes the per-status aggregate for a user into out.
func (c *Client) Stats(ctx context.Context, userID string, out any) error {
	return c.do(ctx, http.MethodGet, docPath("users/"+userID+"/stats"), nil, nil, out)
}
