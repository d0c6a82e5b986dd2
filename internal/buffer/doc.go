// Package buffer implements the editor's document model.
//
// A Buffer is an ordered list of Lines. Every column offset taken or returned
// by this package counts grapheme clusters, never bytes or runes, so a flag,
// an emoji ZWJ sequence or a letter with combining marks is one column.
// Out-of-range positions are handled by no-ops rather than errors.
package buffer
