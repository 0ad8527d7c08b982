package identifiers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVariantCanonicalForms(t *testing.T) {
	// hyphen and colon forms resolve to the same canonical key
	hyphen, hyphenErr := ResolveVariant("17-43071077-T-C")
	assert.Nil(t, hyphenErr)
	assert.Equal(t, LookupVid, hyphen.Kind)
	assert.Equal(t, "17-43071077-T-C", hyphen.Key)

	colon, colonErr := ResolveVariant("17:43071077-T-C")
	assert.Nil(t, colonErr)
	assert.Equal(t, hyphen.Key, colon.Key)

	// case is normalized upward
	lower, lowerErr := ResolveVariant("x-123-a-g")
	assert.Nil(t, lowerErr)
	assert.Equal(t, "X-123-A-G", lower.Key)
}

func TestResolveVariantRsid(t *testing.T) {
	lookup, err := ResolveVariant("rs123456")
	assert.Nil(t, err)
	assert.Equal(t, LookupRsid, lookup.Kind)
	assert.Equal(t, "rs123456", lookup.Key)

	// rsIDs normalize downward
	upper, upperErr := ResolveVariant("RS123456")
	assert.Nil(t, upperErr)
	assert.Equal(t, "rs123456", upper.Key)
}

func TestResolveVariantRegionShaped(t *testing.T) {
	lookup, err := ResolveVariant("17:43000000-43200000")
	assert.Nil(t, err)
	assert.Equal(t, LookupRegion, lookup.Kind)
	assert.Equal(t, "17", lookup.Chromosome)
	assert.Equal(t, 43000000, lookup.Start)
	assert.Equal(t, 43200000, lookup.End)
}

func TestResolveVariantRejectsGarbage(t *testing.T) {
	rejected := []string{
		"invalid-format",
		"chr17/43071077",
		"17-43071077-T", // missing alt
		"17-abc-T-C",
		"99-100-A-T", // no such human chromosome
		"",
		"rs", // no digits
	}
	for _, input := range rejected {
		_, err := ResolveVariant(input)
		assert.NotNil(t, err, "input: %q", input)
		assert.True(t, errors.Is(err, ErrInvalidIdentifierFormat), "input: %q", input)
	}
}

func TestResolveRegionCanonicalizes(t *testing.T) {
	plain, plainErr := ResolveRegion("17:100-200")
	assert.Nil(t, plainErr)
	assert.Equal(t, "17:100-200", plain.Key)

	// the 'chr' prefix and thousands separators are cosmetic
	prefixed, prefixedErr := ResolveRegion("chr17:100-200")
	assert.Nil(t, prefixedErr)
	assert.Equal(t, plain.Key, prefixed.Key)

	withCommas, commasErr := ResolveRegion("17:1,000-2,000")
	assert.Nil(t, commasErr)
	assert.Equal(t, "17:1000-2000", withCommas.Key)
	assert.Equal(t, 1000, withCommas.Start)
	assert.Equal(t, 2000, withCommas.End)
}

func TestResolveRegionSpanLimit(t *testing.T) {
	// exactly at the limit passes
	atLimit, atLimitErr := ResolveRegion("1:1-10000001")
	assert.Nil(t, atLimitErr)
	assert.Equal(t, MaxRegionSpan, atLimit.End-atLimit.Start)

	// one base wider is rejected with the dedicated error
	_, overErr := ResolveRegion("1:1-10000002")
	assert.NotNil(t, overErr)

	var tooLarge *RegionTooLargeError
	assert.True(t, errors.As(overErr, &tooLarge))
	assert.Equal(t, MaxRegionSpan+1, tooLarge.Span)
}

func TestResolveRegionRejectsMalformed(t *testing.T) {
	rejected := []string{"17", "17:100", "17:100-", ":100-200", "Z:100-200", "99:100-200", "17:200-100a"}
	for _, input := range rejected {
		_, err := ResolveRegion(input)
		assert.NotNil(t, err, "input: %q", input)
	}
}

func TestResolveGene(t *testing.T) {
	name, err := ResolveGene("  brca1 ")
	assert.Nil(t, err)
	assert.Equal(t, "BRCA1", name)

	_, emptyErr := ResolveGene("   ")
	assert.NotNil(t, emptyErr)
}
