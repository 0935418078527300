// Bulk streaming of records over readers, writers, and files.

package csvmap

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"
)

// maxLineBytes bounds the length of a single input line.
const maxLineBytes = 1024 * 1024

// Read produces a lazy sequence of records decoded from r, one line each.
//
// If header inclusion is enabled, exactly the first line is discarded
// without validating its content. If blank-line skipping is enabled,
// empty and whitespace-only lines are filtered out after the header skip.
//
// This is the fail-fast policy: the first failure (decode or read I/O) is
// yielded as the error element and ends the sequence. Records already
// produced remain valid. Production is pull-based; stopping consumption
// early stops all further reading and decoding.
func (m *Mapper[T]) Read(r io.Reader) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		lines := newLineScanner(r)
		first := true
		for lines.Scan() {
			line := lines.Text()
			if first {
				first = false
				if m.header {
					continue
				}
			}
			if m.skipEmpty && strings.TrimSpace(line) == "" {
				continue
			}

			rec, err := m.Decode(line)
			if err != nil {
				yield(zero, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := lines.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// ReadQuiet produces a lazy sequence of records decoded from r under the
// collect policy: each failure's cause is passed to onErr as it occurs,
// the failing line contributes no record, and production continues.
// A nil onErr discards failures silently.
func (m *Mapper[T]) ReadQuiet(r io.Reader, onErr ErrorHandler) iter.Seq[T] {
	return func(yield func(T) bool) {
		lines := newLineScanner(r)
		first := true
		for lines.Scan() {
			line := lines.Text()
			if first {
				first = false
				if m.header {
					continue
				}
			}
			if m.skipEmpty && strings.TrimSpace(line) == "" {
				continue
			}

			rec, ok := m.DecodeQuiet(line, onErr)
			if !ok {
				continue
			}
			if !yield(rec) {
				return
			}
		}
		if err := lines.Err(); err != nil {
			onErr.handle(err)
		}
	}
}

// ReadFile opens the file at path and streams its records under the
// fail-fast policy. An open failure is yielded once, before any record.
// The file is closed when the sequence ends or the consumer stops early.
func (m *Mapper[T]) ReadFile(path string) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		f, err := os.Open(path)
		if err != nil {
			var zero T
			yield(zero, err)
			return
		}
		defer f.Close()

		for rec, err := range m.Read(f) {
			if !yield(rec, err) {
				return
			}
			if err != nil {
				return
			}
		}
	}
}

// ReadFileQuiet opens the file at path and streams its records under the
// collect policy. An open failure is reported to onErr once and the
// sequence is empty. The file is closed when the sequence ends or the
// consumer stops early.
func (m *Mapper[T]) ReadFileQuiet(path string, onErr ErrorHandler) iter.Seq[T] {
	return func(yield func(T) bool) {
		f, err := os.Open(path)
		if err != nil {
			onErr.handle(err)
			return
		}
		defer f.Close()

		for rec := range m.ReadQuiet(f, onErr) {
			if !yield(rec) {
				return
			}
		}
	}
}

// Write encodes every record in the sequence and writes the lines to w in
// input order, preceded by the header line when header inclusion is
// enabled.
//
// Mapping failures do not stop the drain: every encodable record is still
// written, and after the sequence is exhausted a single *WriteError
// aggregating all failures is returned. I/O failures return immediately
// and are never folded into the aggregate.
func (m *Mapper[T]) Write(records iter.Seq[T], w io.Writer) error {
	bw := bufio.NewWriter(w)

	if m.header {
		if _, err := bw.WriteString(m.headerLine + "\n"); err != nil {
			return err
		}
	}

	var mappingErrs []error
	for rec := range records {
		line, err := m.Encode(rec)
		if err != nil {
			mappingErrs = append(mappingErrs, err)
			continue
		}
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}

	if err := bw.Flush(); err != nil {
		return err
	}
	if len(mappingErrs) > 0 {
		return &WriteError{Errs: mappingErrs}
	}
	return nil
}

// WriteQuiet encodes and writes records under the collect policy: each
// encode failure is reported to onErr immediately and the record is
// skipped; an I/O failure is reported to the same handler once and
// terminates the write loop early.
//
// There is no zero-callback write policy; callers wanting silence supply
// a no-op handler (a nil handler is tolerated and discards).
func (m *Mapper[T]) WriteQuiet(records iter.Seq[T], w io.Writer, onErr ErrorHandler) {
	bw := bufio.NewWriter(w)

	if m.header {
		if _, err := bw.WriteString(m.headerLine + "\n"); err != nil {
			onErr.handle(err)
			return
		}
	}

	for rec := range records {
		line, ok := m.EncodeQuiet(rec, onErr)
		if !ok {
			continue
		}
		if _, err := bw.WriteString(line); err != nil {
			onErr.handle(err)
			return
		}
	}

	if err := bw.Flush(); err != nil {
		onErr.handle(err)
	}
}

// WriteFile opens the file at path for truncating write and drains the
// sequence into it under the fail-fast aggregate policy of Write.
// The file is closed on every exit path.
func (m *Mapper[T]) WriteFile(records iter.Seq[T], path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := m.Write(records, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteFileQuiet opens the file at path for truncating write and drains
// the sequence into it under the collect policy of WriteQuiet. Open and
// close failures are reported to the same handler.
func (m *Mapper[T]) WriteFileQuiet(records iter.Seq[T], path string, onErr ErrorHandler) {
	f, err := os.Create(path)
	if err != nil {
		onErr.handle(err)
		return
	}

	m.WriteQuiet(records, f, onErr)
	if err := f.Close(); err != nil {
		onErr.handle(err)
	}
}

// newLineScanner returns a line scanner sized for long rows.
func newLineScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return sc
}
