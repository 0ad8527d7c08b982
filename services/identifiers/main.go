package identifiers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"varhive/api/models/constants/chromosome"
)

/*
	Parsing and validation of externally supplied variant, region and gene
	identifiers into canonical lookup keys. All resolvers are pure: the
	same input always yields the same accept/reject decision and the same
	canonical key, and rejection is a first-class return value.
*/

// MaxRegionSpan is the widest region (in bases) a single lookup may cover.
const MaxRegionSpan = 10_000_000

var ErrInvalidIdentifierFormat = errors.New("invalid identifier format")

// RegionTooLargeError rejects spans exceeding MaxRegionSpan.
type RegionTooLargeError struct {
	Span int
}

func (e *RegionTooLargeError) Error() string {
	return fmt.Sprintf("region too large: %d bases (maximum %d)", e.Span, MaxRegionSpan)
}

type LookupKind string

const (
	LookupRsid   LookupKind = "rsid"
	LookupVid    LookupKind = "vid"
	LookupRegion LookupKind = "region"
)

// VariantLookup is the canonical key a variant identifier resolves to.
type VariantLookup struct {
	Kind LookupKind
	Key  string

	// populated for region-shaped identifiers only
	Chromosome string
	Start      int
	End        int
}

var (
	rsidPattern       = regexp.MustCompile(`(?i)^rs\d+$`)
	standardPattern   = regexp.MustCompile(`(?i)^([0-9]{1,2}|X|Y|MT?)-\d+-[ACGT]+-[ACGT]+$`)
	colonPattern      = regexp.MustCompile(`(?i)^([0-9]{1,2}|X|Y|MT?):\d+-[ACGT]+-[ACGT]+$`)
	bareRegionPattern = regexp.MustCompile(`(?i)^([0-9]{1,2}|X|Y|MT?):(\d+)-(\d+)$`)
	regionPattern     = regexp.MustCompile(`(?i)^(?:chr)?([0-9]{1,2}|X|Y|MT?):([\d,]+)-([\d,]+)$`)
)

/*
	ResolveVariant accepts:
	  - an rsID (case-insensitive 'rs' prefix + digits), lower-cased;
	  - CHR-POS-REF-ALT or CHR:POS-REF-ALT (the colon form is rewritten to
	    the hyphen form), upper-cased;
	  - a bare CHR:START-END region-shaped identifier.
	Anything else is rejected with ErrInvalidIdentifierFormat.
*/
func ResolveVariant(raw string) (*VariantLookup, error) {
	trimmed := strings.TrimSpace(raw)

	if rsidPattern.MatchString(trimmed) {
		return &VariantLookup{Kind: LookupRsid, Key: strings.ToLower(trimmed)}, nil
	}

	if standardPattern.MatchString(trimmed) || colonPattern.MatchString(trimmed) {
		key := strings.ToUpper(trimmed)
		key = strings.Replace(key, ":", "-", 1)

		// the patterns allow any 1-2 digit contig; only human ones pass
		if !chromosome.IsValidHumanChromosome(strings.SplitN(key, "-", 2)[0]) {
			return nil, fmt.Errorf("%w: '%s' (unknown chromosome)", ErrInvalidIdentifierFormat, raw)
		}
		return &VariantLookup{Kind: LookupVid, Key: key}, nil
	}

	// identifier endpoints also take a bare region-shaped string
	if match := bareRegionPattern.FindStringSubmatch(trimmed); match != nil {
		chrom := strings.ToUpper(match[1])
		if !chromosome.IsValidHumanChromosome(chrom) {
			return nil, fmt.Errorf("%w: '%s' (unknown chromosome)", ErrInvalidIdentifierFormat, raw)
		}

		start, _ := strconv.Atoi(match[2])
		end, _ := strconv.Atoi(match[3])
		return &VariantLookup{
			Kind:       LookupRegion,
			Key:        fmt.Sprintf("%s:%d-%d", chrom, start, end),
			Chromosome: chrom,
			Start:      start,
			End:        end,
		}, nil
	}

	return nil, fmt.Errorf("%w: '%s' (expected CHR-POS-REF-ALT, rs..., or CHR:START-END)", ErrInvalidIdentifierFormat, raw)
}

// RegionLookup is the canonical key a region identifier resolves to.
type RegionLookup struct {
	Key        string
	Chromosome string
	Start      int
	End        int
}

/*
	ResolveRegion accepts '[chr]CHR:START-END' (optional case-insensitive
	'chr' prefix; thousands separators in the bounds are stripped before
	parsing). Spans wider than MaxRegionSpan are rejected with a
	RegionTooLargeError.
*/
func ResolveRegion(raw string) (*RegionLookup, error) {
	trimmed := strings.TrimSpace(raw)

	match := regionPattern.FindStringSubmatch(trimmed)
	if match == nil {
		return nil, fmt.Errorf("%w: '%s' (expected CHR:START-END)", ErrInvalidIdentifierFormat, raw)
	}

	chrom := strings.ToUpper(match[1])
	if !chromosome.IsValidHumanChromosome(chrom) {
		return nil, fmt.Errorf("%w: '%s' (unknown chromosome)", ErrInvalidIdentifierFormat, raw)
	}

	start, startErr := strconv.Atoi(strings.ReplaceAll(match[2], ",", ""))
	end, endErr := strconv.Atoi(strings.ReplaceAll(match[3], ",", ""))
	if startErr != nil || endErr != nil {
		return nil, fmt.Errorf("%w: '%s' (unparseable bounds)", ErrInvalidIdentifierFormat, raw)
	}

	if span := end - start; span > MaxRegionSpan {
		return nil, &RegionTooLargeError{Span: span}
	}

	return &RegionLookup{
		Key:        fmt.Sprintf("%s:%d-%d", chrom, start, end),
		Chromosome: chrom,
		Start:      start,
		End:        end,
	}, nil
}

// ResolveGene normalizes a gene symbol by trimming and upper-casing; any
// non-empty string is accepted.
func ResolveGene(raw string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(raw))
	if normalized == "" {
		return "", fmt.Errorf("%w: empty gene name", ErrInvalidIdentifierFormat)
	}
	return normalized, nil
}
