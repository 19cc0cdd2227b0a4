package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
)

// UploadPath is the backend endpoint accepting image uploads.
const UploadPath = "/uploads/image"

// UploadImage posts r as the multipart part "image" and returns the URL
// the backend stored it under.
func (c *Client) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+UploadPath, &buf)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", filename, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var data json.RawMessage
	if _, err := c.send(req, &data); err != nil {
		return "", err
	}
	return imageURL(data)
}

// imageURL accepts either a bare string or an object with a url member.
func imageURL(data json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s != "" {
		return s, nil
	}
	var obj struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.URL != "" {
		return obj.URL, nil
	}
	return "", &Error{Kind: KindApplication, Status: http.StatusOK, Message: "upload response carried no url"}
}
