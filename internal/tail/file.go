// Package tail feeds log files into a log store as they grow.
package tail

import (
	"bytes"
	"fmt"
	"os"

	"golang.org/x/exp/mmap"
)

// File gives memory-mapped read access to a growing log file. It tracks
// the byte offset of the first line not yet returned, so each Refresh only
// scans what was appended since the previous one.
type File struct {
	path   string
	reader *mmap.ReaderAt
	size   int64 // size of the current mapping

	offset int64 // start of the first unread line
	lines  int   // complete lines returned so far
}

// OpenFile maps path for reading. No lines are consumed until Refresh.
func OpenFile(path string) (*File, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", path, err)
	}
	return &File{
		path:   path,
		reader: reader,
		size:   int64(reader.Len()),
	}, nil
}

// Path returns the file path
func (f *File) Path() string {
	return f.path
}

// Lines returns the number of complete lines returned so far
func (f *File) Lines() int {
	return f.lines
}

// Offset returns the byte offset of the first unread line
func (f *File) Offset() int64 {
	return f.offset
}

// Refresh re-maps the file if it has changed size and returns the complete
// lines written since the last call, without their line endings. A trailing
// partial line is held back until its newline arrives. A file that shrank
// below the read offset was truncated and is read again from the start.
func (f *File) Refresh() (lines []string, truncated bool, err error) {
	info, err := os.Stat(f.path)
	if err != nil {
		return nil, false, fmt.Errorf("stat %s: %w", f.path, err)
	}

	newSize := info.Size()
	if newSize < f.offset {
		f.offset = 0
		f.lines = 0
		truncated = true
	}
	if newSize != f.size {
		if err := f.remap(); err != nil {
			return nil, truncated, err
		}
	}
	if f.offset >= f.size {
		return nil, truncated, nil
	}

	buf := make([]byte, f.size-f.offset)
	if _, err := f.reader.ReadAt(buf, f.offset); err != nil {
		return nil, truncated, fmt.Errorf("reading %s: %w", f.path, err)
	}

	end := bytes.LastIndexByte(buf, '\n')
	if end < 0 {
		return nil, truncated, nil
	}
	complete := buf[:end]
	f.offset += int64(end + 1)

	for _, raw := range bytes.Split(complete, []byte{'\n'}) {
		lines = append(lines, string(bytes.TrimSuffix(raw, []byte{'\r'})))
	}
	f.lines += len(lines)
	return lines, truncated, nil
}

func (f *File) remap() error {
	reader, err := mmap.Open(f.path)
	if err != nil {
		return fmt.Errorf("re-mapping %s: %w", f.path, err)
	}
	f.reader.Close()
	f.reader = reader
	f.size = int64(reader.Len())
	if f.offset > f.size {
		f.offset = 0
		f.lines = 0
	}
	return nil
}

// Close closes the memory mapping
func (f *File) Close() error {
	return f.reader.Close()
}
