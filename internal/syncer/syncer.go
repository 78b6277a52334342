// Package syncer mirrors the full certificate table to a spreadsheet in
// object storage. Mirroring is best-effort: a failed run is logged and
// reported to the caller, but never rolls back or blocks local writes.
package syncer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/certificates"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/export"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/internal/storage"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/logger"
	"github.com/Nitish36/RR-Solutions-Inspection-Portal/pkg/metrics"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Syncer builds the mirror workbook from the certificate store and uploads
// it under a fixed object key.
type Syncer struct {
	certs     *certificates.Service
	store     storage.DocumentStore
	objectKey string
}

func New(certs *certificates.Service, store storage.DocumentStore, objectKey string) *Syncer {
	if objectKey == "" {
		objectKey = "mirrors/certificates.xlsx"
	}
	return &Syncer{certs: certs, store: store, objectKey: objectKey}
}

// Run mirrors the current certificate table. Returns the number of rows
// mirrored; an error from the upstream store is a soft failure for callers
// to report without undoing anything local.
func (s *Syncer) Run(ctx context.Context) (int, error) {
	certs, err := s.certs.All(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("load certificates: %w", err)
	}
	book, err := export.Workbook(certs)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("build workbook: %w", err)
	}
	if err := s.store.Upload(ctx, s.objectKey, bytes.NewReader(book), int64(len(book)), workbookContentType); err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		logger.Warnf("spreadsheet mirror upload failed: %v", err)
		return 0, fmt.Errorf("upload mirror: %w", err)
	}
	metrics.SyncRuns.WithLabelValues("ok").Inc()
	logger.Infof("mirrored %d certificates to %s", len(certs), s.objectKey)
	return len(certs), nil
}
