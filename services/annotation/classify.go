package annotation

import "strings"

/*
	Consensus classification of multi-valued clinical-significance
	annotations. The input is a semicolon-delimited string of terms; the
	unique-term set is matched against a fixed, ordered list of named
	term-sets, and the first set containing every input term decides the
	label. Inputs crossing two disjoint sets collapse to "Other".
*/

type termSet map[string]struct{}

func newTermSet(terms ...string) termSet {
	set := make(termSet, len(terms))
	for _, term := range terms {
		set[term] = struct{}{}
	}
	return set
}

func (s termSet) containsAll(terms map[string]struct{}) bool {
	for term := range terms {
		if _, ok := s[term]; !ok {
			return false
		}
	}
	return true
}

var (
	setPathogenic = newTermSet(
		"Pathogenic", "Likely pathogenic",
		"Pathogenic/Likely pathogenic", "Likely pathogenic/Pathogenic")
	setBenign = newTermSet(
		"Benign", "Likely benign",
		"Benign/Likely benign", "Likely benign/Benign")
	setUncertain   = newTermSet("Uncertain significance")
	setConflicting = newTermSet("Conflicting classifications of pathogenicity")
	setDrug        = newTermSet("drug response")
	setAffects     = newTermSet("Affects")
	setProtective  = newTermSet("protective")
	setLowPenetrance = newTermSet(
		"Pathogenic/Likely pathogenic/Pathogenic, low penetrance",
		"Pathogenic/Pathogenic, low penetrance",
		"Likely risk allele",
		"Uncertain risk allele",
		"Uncertain significance/Uncertain risk allele")
	setNotProvided = newTermSet("not provided", "NA", "", "nan")
	setAssociation = newTermSet("association")
	setRiskFactor  = newTermSet("risk factor")
)

// evaluation order matters: the first superset wins
var classificationRules = []struct {
	set   termSet
	label string
}{
	{setPathogenic, "Likely pathogenic/Pathogenic"},
	{setBenign, "Likely benign/Benign"},
	{setUncertain, "Uncertain significance"},
	{setConflicting, "Conflicting classifications of pathogenicity"},
	{setDrug, "Drug response"},
	{setAffects, "Affects a non-disease phenotype"},
	{setProtective, "Protective"},
	{setLowPenetrance, "Low penetrance for Mendelian diseases"},
	{setNotProvided, "Not provided"},
	{setAssociation, "GWAS hits"},
	{setRiskFactor, "Risk factor"},
}

// ClassifySignificance collapses a semicolon-delimited clinical-significance
// string into one consensus label. Total: every input (including the empty
// string standing in for an absent annotation) maps to exactly one of the
// twelve labels; it never fails.
func ClassifySignificance(value string) string {
	terms := make(map[string]struct{})
	for _, rawTerm := range strings.Split(value, clinvarDelimiter) {
		term := strings.TrimSpace(rawTerm)
		if term == "" {
			continue
		}
		terms[term] = struct{}{}
	}

	if len(terms) == 0 {
		return "Not provided"
	}

	for _, rule := range classificationRules {
		if rule.set.containsAll(terms) {
			return rule.label
		}
	}

	return "Other"
}

// ClassifySignificanceValue is the nilable-string form used against flat
// records, where an absent annotation is a nil pointer.
func ClassifySignificanceValue(value *string) string {
	if value == nil {
		return "Not provided"
	}
	return ClassifySignificance(*value)
}
