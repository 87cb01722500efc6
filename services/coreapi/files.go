package coreapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// UploadOrderFile uploads one file tagged with the order id and returns the
// storage path assigned by the backend.
func (c *Client) UploadOrderFile(ctx context.Context, orderID int64, filename string, file io.Reader) (string, error) {
	if filename == "" {
		filename = "image"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read file content: %w", err)
	}
	fields := map[string]string{
		"type":        "other",
		"entity_type": "order",
		"entity_id":   strconv.FormatInt(orderID, 10),
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return "", fmt.Errorf("failed to write multipart field %s: %w", key, err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result struct {
		Status string `json:"status"`
		Data   struct {
			Path string `json:"path"`
		} `json:"data"`
	}
	if err := c.send(req, &result); err != nil {
		return "", err
	}
	if result.Data.Path == "" {
		return "", fmt.Errorf("upload response missing storage path")
	}
	return result.Data.Path, nil
}
