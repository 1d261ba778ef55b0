// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides application services shared across handlers.
package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/memberclub-app/memberclub/internal/model"
	"github.com/memberclub-app/memberclub/internal/store"
	"github.com/memberclub-app/memberclub/internal/util"
)

// EventService writes entries to the event log.
type EventService struct {
	queries *store.Queries
}

// NewEventService creates an event service over the given database.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{queries: store.New(db)}
}

// Log writes an event with the given level, category and message.
// Metadata is stored as JSON; the client IP and request path, when
// present, ride along inside it.
func (s *EventService) Log(ctx context.Context, level, category, message string, userID *int64, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}

	raw, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshaling event metadata: %w", err)
	}

	return s.queries.CreateEvent(ctx, store.CreateEventParams{
		Level:    level,
		Category: category,
		Message:  message,
		UserID:   util.NullInt64FromPtr(userID),
		Metadata: string(raw),
	})
}

// LogAuthEvent writes an auth-category event, attaching the client IP
// and request path to the metadata.
func (s *EventService) LogAuthEvent(ctx context.Context, level, message string, userID *int64, ip, path string, metadata map[string]any) error {
	if metadata == nil {
		metadata = map[string]any{}
	}
	if ip != "" {
		metadata["ip"] = ip
	}
	if path != "" {
		metadata["path"] = path
	}
	return s.Log(ctx, level, model.EventCategoryAuth, message, userID, metadata)
}

// LogPostEvent writes a post-category event.
func (s *EventService) LogPostEvent(ctx context.Context, level, message string, userID *int64, metadata map[string]any) error {
	return s.Log(ctx, level, model.EventCategoryPost, message, userID, metadata)
}
