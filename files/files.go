// Package files manages media uploads for analysis.
package files

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/transport"
)

// filesPath is the API endpoint for files.
const filesPath = "/v1/files"

// Upload validation errors.
var (
	ErrFilenameRequired = errors.New("filename required")
	ErrContentRequired  = errors.New("content required: pass a non-nil reader")
)

// File describes an uploaded media file.
type File struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Purpose   string    `json:"purpose,omitempty"`
	SizeBytes int64     `json:"sizeBytes"`
	MimeType  string    `json:"mimeType,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadRequest describes a file upload.
type UploadRequest struct {
	// Filename is the name to store the file under (required).
	Filename string

	// Content is the file data (required).
	Content io.Reader

	// Purpose tags what the file will be used for, e.g. "analysis".
	Purpose string
}

// List holds one page of files.
type List struct {
	Data       []File `json:"data"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// ListOptions controls file listing pagination.
type ListOptions struct {
	// Limit caps the page size; zero uses the server default.
	Limit int

	// After resumes listing from a cursor returned in a previous page.
	After string
}

// Service exposes file operations. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
}

// NewService creates a file service on the given transport.
func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// Upload uploads a file as multipart/form-data.
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*File, error) {
	if req == nil || req.Filename == "" {
		return nil, ErrFilenameRequired
	}
	if req.Content == nil {
		return nil, ErrContentRequired
	}

	fields := map[string]string{}
	if req.Purpose != "" {
		fields["purpose"] = req.Purpose
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method: http.MethodPost,
		Path:   filesPath,
		Form: &transport.Form{
			Fields:    fields,
			FileField: "file",
			Filename:  req.Filename,
			File:      req.Content,
		},
		IdempotencyKey: transport.NewIdempotencyKey(),
		Retryable:      true,
	})
	if err != nil {
		return nil, err
	}

	var file File
	if err := resp.DecodeJSON(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// Get retrieves metadata for a file.
func (s *Service) Get(ctx context.Context, fileID string) (*File, error) {
	if fileID == "" {
		return nil, core.ErrIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      filesPath + "/" + fileID,
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var file File
	if err := resp.DecodeJSON(&file); err != nil {
		return nil, err
	}
	return &file, nil
}

// ListFiles lists uploaded files, newest first.
func (s *Service) ListFiles(ctx context.Context, opts ListOptions) (*List, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.After != "" {
		query.Set("after", opts.After)
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      filesPath,
		Query:     query,
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var list List
	if err := resp.DecodeJSON(&list); err != nil {
		return nil, err
	}
	return &list, nil
}

// Delete removes an uploaded file.
func (s *Service) Delete(ctx context.Context, fileID string) error {
	if fileID == "" {
		return core.ErrIDRequired
	}

	_, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodDelete,
		Path:      filesPath + "/" + fileID,
		Retryable: true,
	})
	return err
}
