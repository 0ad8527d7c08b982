package warehouse

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path"

	"varhive/api/models/schema"

	"github.com/klauspost/compress/gzip"
)

// DuplicateKeyError signals two records mapping to the same locus key after
// merge. Fatal to the run: it means a schema or source-data invariant broke.
type DuplicateKeyError struct {
	Key string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate locus key '%s' across batches", e.Key)
}

// FlushError signals that persisting one batch failed; the batch index and
// record count are kept for diagnosis.
type FlushError struct {
	BatchIndex  int
	RecordCount int
	Err         error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("failed to flush batch %d (%d records): %v", e.BatchIndex, e.RecordCount, e.Err)
}

func (e *FlushError) Unwrap() error { return e.Err }

/*
	BatchWriter accumulates flat records into a bounded in-memory buffer,
	persists each full batch as an immutable gzipped JSON-lines segment,
	and finally merges every segment into one table keyed by locus.

	State machine per run: Accumulating -> Flushing -> Accumulating -> ...
	-> Finalizing -> Done. A writer is exclusively owned by its ingestion
	run and must not be shared across goroutines.
*/
type BatchWriter struct {
	directory string
	batchSize int

	buffer    []*schema.VariantDocument
	batchNum  int
	segments  []string
	numAdded  int
	finalized bool
}

const DefaultBatchSize = 2500

func NewBatchWriter(directory string, batchSize int) (*BatchWriter, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, err
	}

	return &BatchWriter{
		directory: directory,
		batchSize: batchSize,
		buffer:    make([]*schema.VariantDocument, 0, batchSize),
	}, nil
}

// Add appends one record; a full buffer is flushed before returning.
func (w *BatchWriter) Add(doc *schema.VariantDocument) error {
	if w.finalized {
		return fmt.Errorf("batch writer already finalized")
	}

	w.buffer = append(w.buffer, doc)
	w.numAdded++

	if len(w.buffer) >= w.batchSize {
		return w.flush()
	}
	return nil
}

func (w *BatchWriter) NumAdded() int { return w.numAdded }

// flush persists the current buffer as one immutable segment.
func (w *BatchWriter) flush() error {
	if len(w.buffer) == 0 {
		return nil
	}

	segmentPath := path.Join(w.directory, fmt.Sprintf("batch_%d.json.gz", w.batchNum))
	if err := w.writeSegment(segmentPath); err != nil {
		return &FlushError{BatchIndex: w.batchNum, RecordCount: len(w.buffer), Err: err}
	}

	w.segments = append(w.segments, segmentPath)
	w.batchNum++
	w.buffer = w.buffer[:0]
	return nil
}

func (w *BatchWriter) writeSegment(segmentPath string) error {
	f, err := os.Create(segmentPath)
	if err != nil {
		return err
	}

	gw := gzip.NewWriter(f)
	bw := bufio.NewWriter(gw)
	enc := json.NewEncoder(bw)

	for _, doc := range w.buffer {
		// lower any arbitrary-precision numbers left in dynamic blocks
		// to the schema's two numeric kinds before persisting
		doc.VcfInfo = CoerceNumbers(doc.VcfInfo)

		if encodeErr := enc.Encode(doc); encodeErr != nil {
			f.Close()
			return encodeErr
		}
	}

	if flushErr := bw.Flush(); flushErr != nil {
		f.Close()
		return flushErr
	}
	if closeErr := gw.Close(); closeErr != nil {
		f.Close()
		return closeErr
	}
	return f.Close()
}

/*
	Table is the finished flat table: every record of the run, keyed
	uniquely by (chromosome, position, ref, alt). Records are never
	mutated after the merge.
*/
type Table struct {
	Records []*schema.VariantDocument
	byKey   map[string]*schema.VariantDocument
}

func (t *Table) Count() int { return len(t.Records) }

func (t *Table) Lookup(locusKey string) (*schema.VariantDocument, bool) {
	doc, ok := t.byKey[locusKey]
	return doc, ok
}

/*
	Finalize flushes any partial batch, merges all persisted segments into
	one keyed table with uniqueness enforced, and removes the segment
	directory. On failure the segments are preserved for inspection.
*/
func (w *BatchWriter) Finalize() (*Table, error) {
	if w.finalized {
		return nil, fmt.Errorf("batch writer already finalized")
	}
	w.finalized = true

	if err := w.flush(); err != nil {
		return nil, err
	}

	table := &Table{
		Records: make([]*schema.VariantDocument, 0, w.numAdded),
		byKey:   make(map[string]*schema.VariantDocument, w.numAdded),
	}

	for _, segmentPath := range w.segments {
		if err := mergeSegment(segmentPath, table); err != nil {
			return nil, err
		}
	}

	// merge committed; segments are no longer needed
	if err := os.RemoveAll(w.directory); err != nil {
		return nil, err
	}

	return table, nil
}

// Abort discards buffered records and deletes any partial segments,
// leaving the source document untouched.
func (w *BatchWriter) Abort() error {
	w.finalized = true
	w.buffer = nil
	return os.RemoveAll(w.directory)
}

func mergeSegment(segmentPath string, table *Table) error {
	f, err := os.Open(segmentPath)
	if err != nil {
		return err
	}
	defer f.Close()

	gr, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gr.Close()

	dec := json.NewDecoder(bufio.NewReader(gr))
	dec.UseNumber()
	for {
		var doc schema.VariantDocument
		if decodeErr := dec.Decode(&doc); decodeErr == io.EOF {
			break
		} else if decodeErr != nil {
			return fmt.Errorf("unreadable segment %s: %w", segmentPath, decodeErr)
		}

		// re-lower dynamic numbers to the schema's two numeric kinds
		doc.VcfInfo = CoerceNumbers(doc.VcfInfo)

		key := doc.LocusKey()
		if _, exists := table.byKey[key]; exists {
			return &DuplicateKeyError{Key: key}
		}

		record := doc
		table.byKey[key] = &record
		table.Records = append(table.Records, &record)
	}
	return nil
}

/*
	CoerceNumbers recursively lowers json.Number values inside a dynamic
	JSON structure to int64 where the value is integral, else float64.
*/
func CoerceNumbers(value map[string]interface{}) map[string]interface{} {
	if value == nil {
		return nil
	}
	coerced := make(map[string]interface{}, len(value))
	for k, v := range value {
		coerced[k] = coerceValue(v)
	}
	return coerced
}

func coerceValue(value interface{}) interface{} {
	switch v := value.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]interface{}:
		return CoerceNumbers(v)
	case []interface{}:
		coerced := make([]interface{}, len(v))
		for i, item := range v {
			coerced[i] = coerceValue(item)
		}
		return coerced
	default:
		return value
	}
}
