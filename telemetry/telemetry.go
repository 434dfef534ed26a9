// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package telemetry records per-frame statistics as CSV.
//
// A Writer is an aurora.FrameObserver:
//
//	w, err := telemetry.Create(dir)
//	...
//	defer w.Close()
//	a := aurora.Mount(c, win, s, aurora.WithFrameObserver(w))
package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/gogpu/aurora"
)

// FileName is the CSV file created by Create.
const FileName = "frames.csv"

// FrameRecord is one CSV row.
type FrameRecord struct {
	Frame       uint64  `csv:"frame"`
	TimestampMS float64 `csv:"timestamp_ms"`
	TimeUniform float32 `csv:"time_uniform"`
	Width       int     `csv:"width"`
	Height      int     `csv:"height"`
	DrawUS      int64   `csv:"draw_us"`
	Tier        string  `csv:"tier"`
}

// NewFrameRecord converts frame stats to a CSV row.
func NewFrameRecord(s aurora.FrameStats) FrameRecord {
	return FrameRecord{
		Frame:       s.Frame,
		TimestampMS: s.TimestampMS,
		TimeUniform: s.TimeUniform,
		Width:       s.Width,
		Height:      s.Height,
		DrawUS:      s.DrawDuration.Microseconds(),
		Tier:        s.Tier.String(),
	}
}

// Writer appends one row per observed frame. The header is written with
// the first row. A nil *Writer discards everything.
type Writer struct {
	mu            sync.Mutex
	out           io.Writer
	closer        io.Closer
	headerWritten bool
	err           error
}

// NewWriter writes CSV rows to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Create creates dir and a frames.csv inside it. It returns nil if dir is
// empty (output disabled).
func Create(dir string) (*Writer, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, FileName))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", FileName, err)
	}
	return &Writer{out: f, closer: f}, nil
}

// Write appends one record.
func (w *Writer) Write(rec FrameRecord) error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()

	records := []FrameRecord{rec}
	if !w.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, w.out); err != nil {
			return fmt.Errorf("writing frames: %w", err)
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
		return fmt.Errorf("writing frames: %w", err)
	}
	return nil
}

// ObserveFrame records s. The first write error is kept for Err and Close;
// later frames are dropped.
func (w *Writer) ObserveFrame(s aurora.FrameStats) {
	if w == nil || w.Err() != nil {
		return
	}
	if err := w.Write(NewFrameRecord(s)); err != nil {
		aurora.Logger().Warn("telemetry: frame dropped", "frame", s.Frame, "err", err)
		w.mu.Lock()
		w.err = err
		w.mu.Unlock()
	}
}

// Err returns the first write error seen by ObserveFrame.
func (w *Writer) Err() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close closes the underlying file, if Create opened one, and returns the
// first write error.
func (w *Writer) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closer != nil {
		if err := w.closer.Close(); err != nil && w.err == nil {
			w.err = err
		}
		w.closer = nil
	}
	return w.err
}

var _ aurora.FrameObserver = (*Writer)(nil)
