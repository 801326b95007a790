package ksero

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// RenderGroups renders a result in the given format as a list of byte slices, one per
// group (or a single slice for json). The slices are written in order.
func RenderGroups(format string, result *Result) ([][]byte, error) {
	switch strings.ToLower(format) {
	case FormatNative, "":
		return renderNative(result.Groups), nil
	case FormatFdupes:
		return renderFdupes(result.Groups), nil
	case FormatJSON:
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode result: %w", err)
		}
		return [][]byte{append(data, '\n')}, nil
	default:
		return nil, ValidateOutputFormat(format)
	}
}

// renderNative writes "<hash> <count> <bytes>" followed by one tab-indented,
// double-quoted path per line
func renderNative(groups []DuplicateGroup) [][]byte {
	chunks := make([][]byte, 0, len(groups))
	for _, g := range groups {
		var b []byte
		b = strconv.AppendUint(b, g.Key.Hash, 10)
		b = append(b, ' ')
		b = strconv.AppendInt(b, int64(g.Count), 10)
		b = append(b, ' ')
		b = strconv.AppendUint(b, g.Bytes, 10)
		b = append(b, '\n')
		for _, path := range g.Paths {
			b = append(b, '\t', '"')
			b = append(b, path...)
			b = append(b, '"', '\n')
		}
		chunks = append(chunks, b)
	}
	return chunks
}

// renderFdupes writes one path per line with a blank line after every group
func renderFdupes(groups []DuplicateGroup) [][]byte {
	chunks := make([][]byte, 0, len(groups))
	for _, g := range groups {
		var b []byte
		for _, path := range g.Paths {
			b = append(b, path...)
			b = append(b, '\n')
		}
		b = append(b, '\n')
		chunks = append(chunks, b)
	}
	return chunks
}

// WriteResult renders the result and writes it to w. When w is an *os.File the
// chunks go out with vectored writes; other writers receive them one at a time.
func WriteResult(w io.Writer, format string, result *Result) error {
	defer VerboseEnter()()
	chunks, err := RenderGroups(format, result)
	if err != nil {
		return err
	}

	if file, ok := w.(*os.File); ok {
		DebugLog("output", "writing %d chunks to fd %d", len(chunks), file.Fd())
		return writeChunksFile(file, chunks)
	}

	for _, chunk := range chunks {
		if _, err := w.Write(chunk); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
