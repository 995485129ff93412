// Package sink writes generated samples to JSONL files, one JSON
// object per line.
package sink

import (
	"bufio"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/ptbr-tools/sampler-cli/internal/model"
)

// WriteMode selects whether an existing output file is replaced or
// extended.
type WriteMode int

const (
	ModeOverwrite WriteMode = iota
	ModeAppend
)

// JSONLWriter streams samples to a file. Not safe for concurrent use;
// callers serialize writes.
type JSONLWriter struct {
	path string
	f    *os.File
	buf  *bufio.Writer
	n    int
}

// NewJSONL opens path for writing. In append mode existing lines are
// kept and new samples are added after them.
func NewJSONL(path string, mode WriteMode) (*JSONLWriter, error) {
	flags := os.O_CREATE | os.O_WRONLY
	if mode == ModeAppend {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return nil, eris.Wrapf(err, "sink: open %s", path)
	}
	return &JSONLWriter{path: path, f: f, buf: bufio.NewWriter(f)}, nil
}

// Write appends one sample as a single JSON line.
func (w *JSONLWriter) Write(sample model.Sample) error {
	line, err := json.Marshal(sample)
	if err != nil {
		return eris.Wrap(err, "sink: marshal sample")
	}
	if _, err := w.buf.Write(line); err != nil {
		return eris.Wrapf(err, "sink: write %s", w.path)
	}
	if err := w.buf.WriteByte('\n'); err != nil {
		return eris.Wrapf(err, "sink: write %s", w.path)
	}
	w.n++
	return nil
}

// WriteAll writes every sample in order.
func (w *JSONLWriter) WriteAll(samples []model.Sample) error {
	for _, s := range samples {
		if err := w.Write(s); err != nil {
			return err
		}
	}
	return nil
}

// Close flushes buffered lines and closes the file.
func (w *JSONLWriter) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return eris.Wrapf(err, "sink: flush %s", w.path)
	}
	if err := w.f.Close(); err != nil {
		return eris.Wrapf(err, "sink: close %s", w.path)
	}
	zap.L().Debug("jsonl written", zap.String("path", w.path), zap.Int("samples", w.n))
	return nil
}

// ReadAll loads every sample from a JSONL file. Blank lines are
// skipped.
func ReadAll(path string) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "sink: open %s", path)
	}
	defer f.Close()

	var samples []model.Sample
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var s model.Sample
		if err := json.Unmarshal(line, &s); err != nil {
			return nil, eris.Wrapf(err, "sink: parse line %d of %s", len(samples)+1, path)
		}
		samples = append(samples, s)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "sink: read %s", path)
	}
	return samples, nil
}
