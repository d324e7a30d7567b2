package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// decodeBatch accepts either {"records": [...]} or a single record object.
func decodeBatch[T any](payload []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(payload)
	var batch struct {
		Records []T `json:"records"`
	}
	if err := json.Unmarshal(trimmed, &batch); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	if batch.Records != nil {
		return batch.Records, nil
	}
	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return nil, fmt.Errorf("decode payload: %w", err)
	}
	return []T{one}, nil
}

// FromMQTT ingests one telemetry message published by a device gateway.
func (s *TelemetryService) FromMQTT(ctx context.Context, payload []byte) (IngestResult, error) {
	batch, err := decodeBatch[TelemetryInput](payload)
	if err != nil {
		return IngestResult{}, err
	}
	return s.Ingest(ctx, batch)
}

// FromMQTT ingests one occupancy message published by a device gateway.
func (s *OccupancyService) FromMQTT(ctx context.Context, payload []byte) (IngestResult, error) {
	batch, err := decodeBatch[OccupancyInput](payload)
	if err != nil {
		return IngestResult{}, err
	}
	return s.Ingest(ctx, batch)
}
