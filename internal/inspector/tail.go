package inspector

import (
	"bytes"
	"io"
	"os"
)

// tailChunk is the backward read granularity. Worker logs are append-only
// and can grow large, so the tail must not read the whole file.
const tailChunk = 4096

// Tail returns the last n lines of the file at path, oldest first.
// The trailing newline does not count as an extra line.
func Tail(path string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return nil, nil
	}

	var (
		buf      []byte
		off      = size
		newlines int
	)
	for off > 0 && newlines <= n {
		step := int64(tailChunk)
		if off < step {
			step = off
		}
		off -= step
		chunk := make([]byte, step)
		if _, err := f.ReadAt(chunk, off); err != nil && err != io.EOF {
			return nil, err
		}
		buf = append(chunk, buf...)
		newlines = bytes.Count(buf, []byte{'\n'})
	}

	lines := bytes.Split(buf, []byte{'\n'})
	// A trailing newline leaves an empty last element.
	if len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = string(l)
	}
	return out, nil
}
