package rest

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"path"

	"equiprent/internal/gateway"
)

type storageClient struct {
	c *Client
}

func (s *storageClient) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	var out gateway.UploadResponse
	status, err := s.c.do(ctx, request{
		method: http.MethodPut,
		path:   "/storage/v1/object/equipment/" + url.PathEscape(path.Base(filename)),
		raw:    body,
		header: http.Header{"Content-Type": {contentType}},
		cred:   credSession,
	}, &out)
	if err != nil {
		return "", queryErr("upload", "storage", status, err)
	}
	return out.URL, nil
}
