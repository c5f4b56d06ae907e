package guard

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

// Probe computes the line count and byte size of the file at path.
// Counting is byte-oriented, so undecodable content cannot fail the
// probe; only I/O errors do. Callers treat any error as "metrics
// unavailable" and fail open.
func Probe(path string) (Metrics, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("stat file: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return Metrics{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	lines, err := countLines(f)
	if err != nil {
		return Metrics{}, fmt.Errorf("count lines: %w", err)
	}

	return Metrics{Lines: lines, Bytes: info.Size()}, nil
}

// countLines counts newline-delimited lines. A trailing partial line
// counts as a line.
func countLines(r io.Reader) (int64, error) {
	var lines int64
	buf := make([]byte, 64*1024)
	trailing := false

	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			lines += int64(bytes.Count(chunk, []byte{'\n'}))
			trailing = chunk[n-1] != '\n'
		}
		if errors.Is(err, io.EOF) {
			if trailing {
				lines++
			}
			return lines, nil
		}
		if err != nil {
			return 0, err
		}
	}
}
