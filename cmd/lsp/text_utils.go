package main

import (
	"net/url"
	"runtime"
	"strings"

	"github.com/pclint/pclint/internal/token"
)

// uriToPath converts a file:// URI to a filesystem path.
func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	path := strings.TrimPrefix(uri, "file://")
	if decoded, err := url.PathUnescape(path); err == nil {
		path = decoded
	}
	// file:///C:/x on Windows keeps a leading slash after trimming.
	if runtime.GOOS == "windows" && len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path
}

func pathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return "file://" + path
}

// positionToOffset converts an LSP position (0-based line/character) to a
// byte offset in text.
func positionToOffset(text string, pos Position) int {
	offset := 0
	line := 0
	for line < pos.Line {
		nl := strings.IndexByte(text[offset:], '\n')
		if nl < 0 {
			return len(text)
		}
		offset += nl + 1
		line++
	}
	offset += pos.Character
	if offset > len(text) {
		offset = len(text)
	}
	return offset
}

// spanToRange converts a 1-based token span to a 0-based LSP range.
func spanToRange(s token.Span) Range {
	return Range{
		Start: Position{Line: max0(s.Start.Line - 1), Character: max0(s.Start.Column - 1)},
		End:   Position{Line: max0(s.End.Line - 1), Character: max0(s.End.Column - 1)},
	}
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
