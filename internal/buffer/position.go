package buffer

// Position addresses a document by zero-based line index and grapheme column.
type Position struct {
	Line   int
	Column int
}
