package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"varhive/api/models/annotation"

	"github.com/klauspost/compress/gzip"
)

// top-level keys an annotation document must carry
var expectedTopLevelKeys = []string{"header", "positions"}

// MalformedInputError signals that the gzipped JSON document is not shaped
// like an annotation export at the top level. It aborts the run.
type MalformedInputError struct {
	Reason string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed annotation document: %s (expected top-level keys: %v)", e.Reason, expectedTopLevelKeys)
}

/*
	AnnotationReader provides lazy access to a gzipped annotation JSON
	document without materializing the whole document in memory.

	Each accessor reopens the underlying file, as the gzip stream depletes
	and needs a refresh; a position stream obtained after exhaustion
	restarts from the beginning rather than resuming.
*/
type AnnotationReader struct {
	path string
}

func NewAnnotationReader(path string) *AnnotationReader {
	return &AnnotationReader{path: path}
}

// Header eagerly reads and returns the document header.
func (r *AnnotationReader) Header() (*annotation.Header, error) {
	var header *annotation.Header

	err := r.scanTopLevel("header", func(dec *json.Decoder) error {
		var h annotation.Header
		if decodeErr := dec.Decode(&h); decodeErr != nil {
			return &MalformedInputError{Reason: fmt.Sprintf("invalid 'header' value: %v", decodeErr)}
		}
		header = &h
		return nil
	})
	if err != nil {
		return nil, err
	}

	if header == nil {
		return nil, &MalformedInputError{Reason: "missing 'header' key"}
	}
	return header, nil
}

// Genes reads the optional genes table; a document without one yields nil.
func (r *AnnotationReader) Genes() ([]annotation.Gene, error) {
	var genes []annotation.Gene

	err := r.scanTopLevel("genes", func(dec *json.Decoder) error {
		if decodeErr := dec.Decode(&genes); decodeErr != nil {
			return &MalformedInputError{Reason: fmt.Sprintf("invalid 'genes' value: %v", decodeErr)}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return genes, nil
}

// Positions opens a finite, forward-only stream of position records.
// The caller owns the stream and must Close it.
func (r *AnnotationReader) Positions() (*PositionStream, error) {
	f, gr, dec, err := r.open()
	if err != nil {
		return nil, err
	}

	// seek the decoder up to the start of the 'positions' array,
	// skipping over any other top-level values along the way
	foundPositions := false
	if _, tokenErr := dec.Token(); tokenErr != nil { // consume '{'
		f.Close()
		return nil, &MalformedInputError{Reason: fmt.Sprintf("document is not a JSON object: %v", tokenErr)}
	}
	for dec.More() {
		keyToken, tokenErr := dec.Token()
		if tokenErr != nil {
			f.Close()
			return nil, &MalformedInputError{Reason: fmt.Sprintf("unreadable top-level key: %v", tokenErr)}
		}

		key, _ := keyToken.(string)
		if key != "positions" {
			// skip this key's whole value
			var skipped json.RawMessage
			if skipErr := dec.Decode(&skipped); skipErr != nil {
				f.Close()
				return nil, &MalformedInputError{Reason: fmt.Sprintf("invalid '%s' value: %v", key, skipErr)}
			}
			continue
		}

		// consume the '[' of the positions array
		arrToken, arrErr := dec.Token()
		if arrErr != nil {
			f.Close()
			return nil, &MalformedInputError{Reason: fmt.Sprintf("invalid 'positions' value: %v", arrErr)}
		}
		if delim, ok := arrToken.(json.Delim); !ok || delim != '[' {
			f.Close()
			return nil, &MalformedInputError{Reason: "'positions' is not an array"}
		}

		foundPositions = true
		break
	}

	if !foundPositions {
		f.Close()
		return nil, &MalformedInputError{Reason: "missing 'positions' key"}
	}

	return &PositionStream{file: f, gzipReader: gr, decoder: dec}, nil
}

func (r *AnnotationReader) open() (*os.File, *gzip.Reader, *json.Decoder, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, nil, nil, err
	}

	gr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, nil, nil, &MalformedInputError{Reason: fmt.Sprintf("not a gzip stream: %v", err)}
	}

	dec := json.NewDecoder(gr)
	// keep arbitrary-precision numbers intact inside dynamic blocks
	// (vcfInfo and friends) until the batch writer coerces them
	dec.UseNumber()
	return f, gr, dec, nil
}

// scanTopLevel walks the document's top-level keys and invokes decodeValue
// on the decoder when the wanted key is reached; other values are skipped.
func (r *AnnotationReader) scanTopLevel(wantedKey string, decodeValue func(dec *json.Decoder) error) error {
	f, _, dec, err := r.open()
	if err != nil {
		return err
	}
	defer f.Close()

	openingToken, tokenErr := dec.Token()
	if tokenErr != nil {
		return &MalformedInputError{Reason: fmt.Sprintf("document is not a JSON object: %v", tokenErr)}
	}
	if delim, ok := openingToken.(json.Delim); !ok || delim != '{' {
		return &MalformedInputError{Reason: "document is not a JSON object"}
	}

	for dec.More() {
		keyToken, keyErr := dec.Token()
		if keyErr != nil {
			return &MalformedInputError{Reason: fmt.Sprintf("unreadable top-level key: %v", keyErr)}
		}

		key, _ := keyToken.(string)
		if key == wantedKey {
			return decodeValue(dec)
		}

		var skipped json.RawMessage
		if skipErr := dec.Decode(&skipped); skipErr != nil {
			return &MalformedInputError{Reason: fmt.Sprintf("invalid '%s' value: %v", key, skipErr)}
		}
	}

	// key absent; the caller decides whether that is fatal
	return nil
}

/*
	PositionStream lazily yields one position record at a time.
	It is finite, forward-only and non-restartable.
*/
type PositionStream struct {
	file       *os.File
	gzipReader *gzip.Reader
	decoder    *json.Decoder
	exhausted  bool
}

// Next returns the next position, or io.EOF once the array is exhausted.
func (s *PositionStream) Next() (*annotation.Position, error) {
	if s.exhausted {
		return nil, io.EOF
	}

	if !s.decoder.More() {
		// consume the closing ']' of the positions array
		if _, err := s.decoder.Token(); err != nil && err != io.EOF {
			return nil, &MalformedInputError{Reason: fmt.Sprintf("unterminated 'positions' array: %v", err)}
		}
		s.exhausted = true
		return nil, io.EOF
	}

	var position annotation.Position
	if err := s.decoder.Decode(&position); err != nil {
		return nil, &MalformedInputError{Reason: fmt.Sprintf("invalid position record: %v", err)}
	}
	return &position, nil
}

func (s *PositionStream) Close() error {
	if closeErr := s.gzipReader.Close(); closeErr != nil {
		s.file.Close()
		return closeErr
	}
	return s.file.Close()
}
