package annotation

import (
	"io"
	"os"
	"path"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
)

const testAnnotationDocument = `{
	"header": {
		"annotator": "Nirvana 3.18.1",
		"genomeAssembly": "GRCh38",
		"schemaVersion": 6,
		"dataSources": [{"name": "gnomAD", "version": "4.1"}]
	},
	"positions": [
		{
			"chromosome": "1",
			"position": 100,
			"refAllele": "A",
			"altAlleles": ["T"],
			"variants": [{"vid": "1-100-A-T", "begin": 100, "end": 100, "altAllele": "T"}]
		},
		{
			"chromosome": "2",
			"position": 200,
			"refAllele": "G",
			"altAlleles": ["C", "T"],
			"variants": [
				{"vid": "2-200-G-C", "begin": 200, "end": 200, "altAllele": "C"},
				{"vid": "2-200-G-T", "begin": 200, "end": 200, "altAllele": "T"}
			]
		}
	],
	"genes": [{"name": "BRCA1", "geneId": "672"}]
}`

func writeGzippedDocument(t *testing.T, content string) string {
	t.Helper()

	filePath := path.Join(t.TempDir(), "annotations.json.gz")
	f, createErr := os.Create(filePath)
	assert.Nil(t, createErr)

	gw := gzip.NewWriter(f)
	_, writeErr := gw.Write([]byte(content))
	assert.Nil(t, writeErr)
	assert.Nil(t, gw.Close())
	assert.Nil(t, f.Close())

	return filePath
}

func TestReaderHeader(t *testing.T) {
	reader := NewAnnotationReader(writeGzippedDocument(t, testAnnotationDocument))

	header, err := reader.Header()
	assert.Nil(t, err)
	assert.Equal(t, "Nirvana 3.18.1", header.Annotator)
	assert.Equal(t, "GRCh38", header.GenomeAssembly)
	assert.Equal(t, 6, header.SchemaVersion)
	assert.Len(t, header.DataSources, 1)
}

func TestReaderGenes(t *testing.T) {
	reader := NewAnnotationReader(writeGzippedDocument(t, testAnnotationDocument))

	genes, err := reader.Genes()
	assert.Nil(t, err)
	assert.Len(t, genes, 1)
	assert.Equal(t, "BRCA1", genes[0].Name)
}

func TestReaderPositionsStream(t *testing.T) {
	reader := NewAnnotationReader(writeGzippedDocument(t, testAnnotationDocument))

	stream, err := reader.Positions()
	assert.Nil(t, err)
	defer stream.Close()

	first, firstErr := stream.Next()
	assert.Nil(t, firstErr)
	assert.Equal(t, "1", first.Chromosome)
	assert.Len(t, first.Variants, 1)

	second, secondErr := stream.Next()
	assert.Nil(t, secondErr)
	assert.Equal(t, "2", second.Chromosome)
	assert.Len(t, second.Variants, 2)

	_, eofErr := stream.Next()
	assert.Equal(t, io.EOF, eofErr)

	// exhaustion is sticky
	_, eofErr = stream.Next()
	assert.Equal(t, io.EOF, eofErr)
}

func TestReaderReopensPerAccessor(t *testing.T) {
	reader := NewAnnotationReader(writeGzippedDocument(t, testAnnotationDocument))

	// exhaust a stream, then open a fresh one; it restarts from the top
	stream, _ := reader.Positions()
	for {
		if _, err := stream.Next(); err == io.EOF {
			break
		}
	}
	stream.Close()

	restarted, err := reader.Positions()
	assert.Nil(t, err)
	defer restarted.Close()

	position, nextErr := restarted.Next()
	assert.Nil(t, nextErr)
	assert.Equal(t, "1", position.Chromosome)

	// header remains readable after streaming
	header, headerErr := reader.Header()
	assert.Nil(t, headerErr)
	assert.Equal(t, "GRCh38", header.GenomeAssembly)
}

func TestReaderRejectsNonGzipInput(t *testing.T) {
	filePath := path.Join(t.TempDir(), "annotations.json")
	assert.Nil(t, os.WriteFile(filePath, []byte(testAnnotationDocument), 0o644))

	reader := NewAnnotationReader(filePath)
	_, err := reader.Positions()
	assert.NotNil(t, err)

	_, ok := err.(*MalformedInputError)
	assert.True(t, ok)
}

func TestReaderRejectsMissingPositions(t *testing.T) {
	reader := NewAnnotationReader(writeGzippedDocument(t, `{"header": {"annotator": "x"}}`))

	_, err := reader.Positions()
	assert.NotNil(t, err)

	malformedErr, ok := err.(*MalformedInputError)
	assert.True(t, ok)
	assert.Contains(t, malformedErr.Error(), "positions")
}

func TestReaderRejectsNonObjectDocument(t *testing.T) {
	reader := NewAnnotationReader(writeGzippedDocument(t, `[1, 2, 3]`))

	_, err := reader.Positions()
	assert.NotNil(t, err)
}
