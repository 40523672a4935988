package eventsource

import (
	"context"
	"fmt"
	"sync"
)

// Store is an append-only event store.
type Store interface {
	// Append atomically adds events to a stream. expectedVersion is the
	// version of the last event already in the stream (-1 for a new
	// stream); a mismatch fails with ErrVersionConflict and appends
	// nothing. Returns the version of the last appended event.
	Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error)

	// Read returns events from a stream, starting at fromVersion, in
	// version order.
	Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error)

	// Close releases store resources.
	Close() error
}

// MemoryStore is an in-memory Store for tests and ephemeral ledgers.
type MemoryStore struct {
	mu      sync.RWMutex
	streams map[string][]*Event
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		streams: make(map[string][]*Event),
	}
}

// Append implements Store.
func (s *MemoryStore) Append(ctx context.Context, streamID string, expectedVersion int, events []*Event) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrStoreClosed
	}

	stream := s.streams[streamID]
	current := len(stream) - 1
	if current != expectedVersion {
		return 0, fmt.Errorf("%w: stream %s is at version %d, expected %d",
			ErrVersionConflict, streamID, current, expectedVersion)
	}

	version := current
	for _, event := range events {
		version++
		stored := *event
		stored.StreamID = streamID
		stored.Version = version
		stream = append(stream, &stored)
	}
	s.streams[streamID] = stream

	return version, nil
}

// Read implements Store.
func (s *MemoryStore) Read(ctx context.Context, streamID string, fromVersion int) ([]*Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	stream, ok := s.streams[streamID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStreamNotFound, streamID)
	}

	var events []*Event
	for _, event := range stream {
		if event.Version >= fromVersion {
			copied := *event
			events = append(events, &copied)
		}
	}
	return events, nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
