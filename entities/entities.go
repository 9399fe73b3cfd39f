// Package entities manages the subjects recognized across analyses.
package entities

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/acuity-ai/acuity-go/core"
	"github.com/acuity-ai/acuity-go/transport"
)

// entitiesPath is the API endpoint for entities.
const entitiesPath = "/v1/entities"

// Entity is a subject the analysis pipeline has recognized in one or more
// reports.
type Entity struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"displayName,omitempty"`
	Kind        string    `json:"kind,omitempty"`
	ReportCount int       `json:"reportCount"`
	FirstSeenAt time.Time `json:"firstSeenAt"`
	LastSeenAt  time.Time `json:"lastSeenAt"`
}

// List holds one page of entities.
type List struct {
	Data       []Entity `json:"data"`
	HasMore    bool     `json:"hasMore"`
	NextCursor string   `json:"nextCursor,omitempty"`
}

// ListOptions controls entity listing pagination.
type ListOptions struct {
	Limit int
	After string
}

// UpdateRequest carries the mutable entity fields.
type UpdateRequest struct {
	DisplayName string `json:"displayName,omitempty"`
}

// Service exposes entity operations. Service is safe for concurrent use.
type Service struct {
	transport *transport.Client
}

// NewService creates an entity service on the given transport.
func NewService(t *transport.Client) *Service {
	return &Service{transport: t}
}

// ListEntities lists recognized entities.
func (s *Service) ListEntities(ctx context.Context, opts ListOptions) (*List, error) {
	query := url.Values{}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.After != "" {
		query.Set("after", opts.After)
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      entitiesPath,
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

// Get fetches one entity.
func (s *Service) Get(ctx context.Context, entityID string) (*Entity, error) {
	if entityID == "" {
		return nil, core.ErrIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodGet,
		Path:      entitiesPath + "/" + entityID,
		Retryable: true,
	})
	if err != nil {
		return nil, err
	}

	var entity Entity
	if err := resp.DecodeJSON(&entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update changes an entity's mutable fields.
func (s *Service) Update(ctx context.Context, entityID string, req *UpdateRequest) (*Entity, error) {
	if entityID == "" {
		return nil, core.ErrIDRequired
	}

	resp, err := s.transport.Do(ctx, &transport.Request{
		Method:         http.MethodPatch,
		Path:           entitiesPath + "/" + entityID,
		Body:           req,
		IdempotencyKey: transport.NewIdempotencyKey(),
		Retryable:      true,
	})
	if err != nil {
		return nil, err
	}

	var entity Entity
	if err := resp.DecodeJSON(&entity); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes an entity and detaches it from its reports.
func (s *Service) Delete(ctx context.Context, entityID string) error {
	if entityID == "" {
		return core.ErrIDRequired
	}

	_, err := s.transport.Do(ctx, &transport.Request{
		Method:    http.MethodDelete,
		Path:      entitiesPath + "/" + entityID,
		Retryable: true,
	})
	return err
}
