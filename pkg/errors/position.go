package errors

import "lockjs/pkg/source"

// Position represents a specific location in the source code.
// Line and column are 1-based for human-readable reporting; the byte
// offsets are 0-based for tooling use.
type Position struct {
	Line     int                // 1-based line number
	Column   int                // 1-based column number (rune index within the line)
	StartPos int                // 0-based byte offset of the start of the span
	EndPos   int                // 0-based byte offset past the end of the span
	Source   *source.SourceFile // Reference to the source file, may be nil
}
