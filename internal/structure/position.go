package structure

import (
	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

// Position captures the positional signals for one block. Positional
// evidence can strengthen an already-qualifying heading candidate but never
// creates one.
type Position struct {
	IsFirst     bool
	BlankBefore bool
	BlankAfter  bool
	Isolated    bool
	Ratio       float64 // 0.0 at document start, approaching 1.0 at the end
}

// PositionOf computes the positional signals for the block at position i.
// Blank-line spacing comes from parser-supplied metadata; the document
// boundaries count as blank.
func PositionOf(doc *ir.Document, i int) Position {
	b := doc.Blocks[i]
	p := Position{
		IsFirst:     i == 0,
		BlankBefore: i == 0 || b.Flag(ir.MetaBlankBefore),
		BlankAfter:  i == len(doc.Blocks)-1 || b.Flag(ir.MetaBlankAfter),
	}
	p.Isolated = p.BlankBefore && p.BlankAfter
	if len(doc.Blocks) > 1 {
		p.Ratio = float64(i) / float64(len(doc.Blocks)-1)
	}
	return p
}

// Boost returns the positional confidence boost, capped by the configured
// maximum.
func (p Position) Boost(cfg config.Scoring) float64 {
	boost := 0.0
	if p.IsFirst {
		boost += cfg.PositionFirstBoost
	}
	if p.Isolated {
		boost += cfg.PositionIsolatedBoost
	} else {
		if p.BlankBefore {
			boost += cfg.PositionBlankBoost
		}
		if p.BlankAfter {
			boost += cfg.PositionBlankBoost
		}
	}
	if p.Ratio < 0.1 {
		boost += cfg.PositionEarlyBoost
	}
	if boost > cfg.PositionBoostMax {
		boost = cfg.PositionBoostMax
	}
	return boost
}
