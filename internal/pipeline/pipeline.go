// Package pipeline runs the document enrichment stages in sequence.
//
// A stage never aborts the overall pipeline: any error or panic inside a
// stage restores the document to its pre-stage state, records an "error"
// processing-history entry, and lets the next stage run on the partially
// enriched document. The one exception is ir.ErrInvariant, which signals a
// programming bug rather than a document condition and stops the run.
package pipeline

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/roboco-io/manustruct/internal/ir"
)

// Stage is a single enrichment pass over a document. Run mutates the
// document in place and must not retain references to its blocks afterwards.
type Stage interface {
	// Name returns the stage identifier recorded in processing history.
	Name() string

	// Run enriches the document in place.
	Run(doc *ir.Document) error
}

// Pipeline executes stages sequentially, document-at-a-time.
type Pipeline struct {
	stages []Stage
	logger *zap.Logger
}

// New creates a pipeline over the given stages.
func New(logger *zap.Logger, stages ...Stage) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{stages: stages, logger: logger}
}

// Run executes every stage in order. Each stage's outcome is appended to the
// document's processing history. Only an invariant violation is returned as
// an error; everything else degrades to partial enrichment.
func (p *Pipeline) Run(doc *ir.Document) error {
	for _, stage := range p.stages {
		if err := p.runStage(stage, doc); err != nil {
			return err
		}
	}
	return nil
}

// runStage runs one stage inside the recovery boundary. The document is
// snapshotted first so a failing stage leaves it exactly as it stood.
func (p *Pipeline) runStage(stage Stage, doc *ir.Document) error {
	snapshot := doc.Clone()
	start := time.Now()

	err := p.invoke(stage, doc)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, ir.ErrInvariant) {
			doc.RecordStage(stage.Name(), ir.StageError, err.Error(), elapsed)
			p.logger.Error("stage violated document invariant",
				zap.String("stage", stage.Name()), zap.Error(err))
			return err
		}
		restore(doc, snapshot)
		doc.RecordStage(stage.Name(), ir.StageError, err.Error(), elapsed)
		p.logger.Warn("stage failed, document restored",
			zap.String("stage", stage.Name()),
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return nil
	}

	doc.RecordStage(stage.Name(), ir.StageSuccess, "", elapsed)
	p.logger.Debug("stage complete",
		zap.String("stage", stage.Name()),
		zap.Int("blocks", len(doc.Blocks)),
		zap.Duration("duration", elapsed))
	return nil
}

// invoke calls the stage and converts panics into errors.
func (p *Pipeline) invoke(stage Stage, doc *ir.Document) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s panicked: %v", stage.Name(), r)
		}
	}()
	return stage.Run(doc)
}

// restore copies the snapshot's state back into doc, preserving the original
// document pointer so callers holding the reference see the rollback.
func restore(doc, snapshot *ir.Document) {
	doc.Blocks = snapshot.Blocks
	doc.Metadata = snapshot.Metadata
	// History is append-only and survives the rollback.
}
