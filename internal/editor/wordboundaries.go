package editor

import (
	"unicode"
	"unicode/utf8"

	"github.com/JackWReid/hecto/internal/buffer"
)

// WordBoundary represents a word location in the buffer for navigation.
// Columns are grapheme offsets; EndCol is exclusive.
type WordBoundary struct {
	Line     int
	StartCol int
	EndCol   int
}

// FindWordBoundaries scans the entire buffer and returns all word boundaries.
func FindWordBoundaries(doc *buffer.Buffer) []WordBoundary {
	var boundaries []WordBoundary
	for lineNum := 0; lineNum < doc.LineCount(); lineNum++ {
		line, _ := doc.Line(lineNum)
		boundaries = append(boundaries, extractWordBoundariesFromLine(lineNum, line)...)
	}
	return boundaries
}

// isWordCluster judges a grapheme cluster by its base rune.
func isWordCluster(cluster string) bool {
	r, _ := utf8.DecodeRuneInString(cluster)
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func extractWordBoundariesFromLine(lineNum int, line *buffer.Line) []WordBoundary {
	var boundaries []WordBoundary
	clusters := line.Clusters()
	inWord := false
	var startCol int

	for i, c := range clusters {
		if isWordCluster(c) {
			if !inWord {
				startCol = i
				inWord = true
			}
		} else if inWord {
			boundaries = append(boundaries, WordBoundary{
				Line: lineNum, StartCol: startCol, EndCol: i,
			})
			inWord = false
		}
	}
	if inWord {
		boundaries = append(boundaries, WordBoundary{
			Line: lineNum, StartCol: startCol, EndCol: len(clusters),
		})
	}
	return boundaries
}

// NextWordStart returns the start of the first word after p.
func NextWordStart(doc *buffer.Buffer, p buffer.Position) (buffer.Position, bool) {
	for _, wb := range FindWordBoundaries(doc) {
		if wb.Line > p.Line || (wb.Line == p.Line && wb.StartCol > p.Column) {
			return buffer.Position{Line: wb.Line, Column: wb.StartCol}, true
		}
	}
	return p, false
}

// PrevWordStart returns the start of the last word before p.
func PrevWordStart(doc *buffer.Buffer, p buffer.Position) (buffer.Position, bool) {
	bounds := FindWordBoundaries(doc)
	for i := len(bounds) - 1; i >= 0; i-- {
		wb := bounds[i]
		if wb.Line < p.Line || (wb.Line == p.Line && wb.StartCol < p.Column) {
			return buffer.Position{Line: wb.Line, Column: wb.StartCol}, true
		}
	}
	return p, false
}
