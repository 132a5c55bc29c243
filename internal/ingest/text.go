package ingest

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/roboco-io/manustruct/internal/ir"
)

// ReadText splits plain text into blocks on blank lines. Lines within a
// paragraph are joined with a single space. Blank-line spacing is recorded as
// block metadata for the positional heading rules.
func ReadText(r io.Reader) (*ir.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var raws []RawBlock
	var lines []string
	blanksBefore := 0

	flush := func() {
		if len(lines) == 0 {
			return
		}
		raws = append(raws, RawBlock{
			Text: strings.Join(lines, " "),
			Metadata: map[string]any{
				ir.MetaBlankBefore: blanksBefore > 0 || len(raws) == 0,
			},
		})
		lines = nil
		blanksBefore = 0
	}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			blanksBefore++
			continue
		}
		lines = append(lines, line)
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	if len(raws) == 0 {
		return nil, fmt.Errorf("input contains no blocks")
	}

	// A paragraph followed by a blank line has blank_after set; the last
	// paragraph borders the document end, which the positional rules treat
	// as blank on their own.
	for i := range raws {
		raws[i].Metadata[ir.MetaBlankAfter] = i < len(raws)-1
	}

	return toDocument(raws)
}
