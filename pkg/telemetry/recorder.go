// Package telemetry records recommendation requests to Parquet files for
// offline analysis.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"

	"github.com/patilgayatri22/agentic-ecommerce/pkg/types"
)

// RequestRecord is a single recommendation request for Parquet storage
type RequestRecord struct {
	ID            string    `parquet:"id"`
	Timestamp     time.Time `parquet:"timestamp"`
	Query         string    `parquet:"query"`
	Budget        float64   `parquet:"budget"`
	MustHave      string    `parquet:"must_have"` // comma-joined
	Candidates    int       `parquet:"candidates"`
	Recommended   int       `parquet:"recommended"`
	TopScore      float64   `parquet:"top_score"`
	DurationMs    int64     `parquet:"duration_ms"`
	UserID        string    `parquet:"user_id"`
	SessionID     string    `parquet:"session_id"`
	RequestSource string    `parquet:"request_source"`
	Error         string    `parquet:"error"`
}

// Recorder buffers request records and writes them to Parquet files in
// batches. A nil *Recorder is a no-op, so callers can record
// unconditionally.
type Recorder struct {
	outputDir string
	mu        sync.Mutex
	buffer    []RequestRecord
	batchSize int
	flushErr  error
}

// NewRecorder creates a Recorder writing to outputDir.
func NewRecorder(outputDir string) (*Recorder, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create telemetry directory: %w", err)
	}

	return &Recorder{
		outputDir: outputDir,
		batchSize: 50,
		buffer:    make([]RequestRecord, 0, 50),
	}, nil
}

// Record captures one request. The record's ID and Timestamp are filled in
// here; user and session identity come from the context.
func (r *Recorder) Record(ctx context.Context, record RequestRecord) {
	if r == nil {
		return
	}

	record.ID = uuid.New().String()
	record.Timestamp = time.Now().UTC()

	if v, ok := ctx.Value(types.ContextKeyUserID).(string); ok {
		record.UserID = v
	}
	if v, ok := ctx.Value(types.ContextKeySessionID).(string); ok {
		record.SessionID = v
	}
	if v, ok := ctx.Value(types.ContextKeyRequestSource).(string); ok {
		record.RequestSource = v
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buffer = append(r.buffer, record)
	if len(r.buffer) >= r.batchSize {
		// Record has no error return; hold a failed batch write for the
		// next explicit Flush or Close to report.
		if err := r.flush(); err != nil {
			r.flushErr = err
		}
	}
}

// RecordResult is a convenience for recording a completed pipeline run.
func (r *Recorder) RecordResult(ctx context.Context, query *types.UserQuery, result *types.RecommendationResult, duration time.Duration, err error) {
	if r == nil {
		return
	}

	record := RequestRecord{
		DurationMs: duration.Milliseconds(),
	}
	if query != nil {
		record.Query = query.Raw
		record.Budget = query.BudgetAmount()
		record.MustHave = strings.Join(query.MustHave, ",")
	}
	if result != nil {
		record.Candidates = result.Candidates
		record.Recommended = len(result.Recommendations)
		if len(result.Recommendations) > 0 {
			record.TopScore = result.Recommendations[0].Score
		}
	}
	if err != nil {
		record.Error = err.Error()
	}
	r.Record(ctx, record)
}

// Flush writes any buffered records out immediately. A write failure from an
// earlier batch flush inside Record is reported here even when the current
// flush succeeds.
func (r *Recorder) Flush() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.flush()
	if err == nil {
		err = r.flushErr
	}
	r.flushErr = nil
	return err
}

// Close flushes remaining records.
func (r *Recorder) Close() error {
	return r.Flush()
}

// flush writes the current buffer to a new Parquet file.
// Caller must hold the lock.
func (r *Recorder) flush() error {
	if len(r.buffer) == 0 {
		return nil
	}

	filename := fmt.Sprintf("requests_%s_%d.parquet", time.Now().Format("20060102_150405"), time.Now().UnixNano())
	path := filepath.Join(r.outputDir, filename)

	if err := parquet.WriteFile(path, r.buffer); err != nil {
		return fmt.Errorf("failed to write telemetry parquet file: %w", err)
	}

	r.buffer = r.buffer[:0]
	return nil
}
