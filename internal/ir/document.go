package ir

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ErrInvariant signals a violated document invariant (duplicate ids or
// indices, out-of-order indices). It indicates a bug in the split logic or
// the upstream parser, never a recoverable document condition.
var ErrInvariant = errors.New("document invariant violated")

// StageStatus is the outcome of a pipeline stage run.
type StageStatus string

const (
	StageSuccess StageStatus = "success"
	StageError   StageStatus = "error"
)

// StageResult is one append-only processing-history entry.
type StageResult struct {
	Stage    string        `json:"stage"`
	Status   StageStatus   `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Metadata contains document-level metadata.
type Metadata struct {
	Title    string `json:"title,omitempty"`
	Author   string `json:"author,omitempty"`
	Source   string `json:"source,omitempty"`
	Language string `json:"language,omitempty"`
}

// Document is an ordered sequence of blocks plus document-level metadata and
// an append-only processing history. It is created once per input file and
// flows by reference through the pipeline; each stage returns the same
// document, enriched.
type Document struct {
	ID       string        `json:"id"`
	Version  string        `json:"version"`
	Metadata Metadata      `json:"metadata"`
	Blocks   []*Block      `json:"blocks"`
	History  []StageResult `json:"history,omitempty"`
}

// Version of the block-stream wire format.
const FormatVersion = "1.0"

// NewDocument creates an empty document with a fresh id.
func NewDocument() *Document {
	return &Document{
		ID:      uuid.NewString(),
		Version: FormatVersion,
		Blocks:  make([]*Block, 0),
	}
}

// AddBlock appends a block to the document.
func (d *Document) AddBlock(b *Block) {
	d.Blocks = append(d.Blocks, b)
}

// BlockByID returns the block with the given id, or nil.
func (d *Document) BlockByID(id string) *Block {
	for _, b := range d.Blocks {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// RecordStage appends a processing-history entry.
func (d *Document) RecordStage(stage string, status StageStatus, message string, duration time.Duration) {
	d.History = append(d.History, StageResult{
		Stage:    stage,
		Status:   status,
		Message:  message,
		Duration: duration,
	})
}

// CheckInvariants verifies id uniqueness and sparse-index ordering. Index
// values must be unique and strictly increasing; they are not required to be
// contiguous, the parser leaves gaps so derived blocks can be inserted
// without renumbering.
func (d *Document) CheckInvariants() error {
	ids := make(map[string]struct{}, len(d.Blocks))
	lastIndex := 0
	for i, b := range d.Blocks {
		if _, dup := ids[b.ID]; dup {
			return fmt.Errorf("%w: duplicate block id %q", ErrInvariant, b.ID)
		}
		ids[b.ID] = struct{}{}
		if i > 0 && b.Index <= lastIndex {
			return fmt.Errorf("%w: index %d at position %d not greater than previous %d",
				ErrInvariant, b.Index, i, lastIndex)
		}
		lastIndex = b.Index
	}
	return nil
}

// Clone returns a deep copy of the document, including blocks and history.
// The pipeline snapshots a document before each stage so it can restore the
// pre-stage state when a stage fails.
func (d *Document) Clone() *Document {
	c := *d
	c.Blocks = make([]*Block, len(d.Blocks))
	for i, b := range d.Blocks {
		c.Blocks[i] = b.Clone()
	}
	c.History = append([]StageResult(nil), d.History...)
	return &c
}

// MedianFontSize computes the document-wide median font size over non-empty
// blocks. Median rather than mean, so a handful of display-size title blocks
// cannot drag the baseline up. Returns 0 when no block carries a size.
func (d *Document) MedianFontSize() float64 {
	sizes := make([]float64, 0, len(d.Blocks))
	for _, b := range d.Blocks {
		if !b.IsEmpty() && b.Style.FontSize > 0 {
			sizes = append(sizes, b.Style.FontSize)
		}
	}
	if len(sizes) == 0 {
		return 0
	}
	sort.Float64s(sizes)
	mid := len(sizes) / 2
	if len(sizes)%2 == 1 {
		return sizes[mid]
	}
	return (sizes[mid-1] + sizes[mid]) / 2
}
