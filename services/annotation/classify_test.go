package annotation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySignificanceKnownLabels(t *testing.T) {
	cases := []struct {
		input    string
		expected string
	}{
		{"Pathogenic", "Likely pathogenic/Pathogenic"},
		{"Likely pathogenic", "Likely pathogenic/Pathogenic"},
		{"Pathogenic;Likely pathogenic", "Likely pathogenic/Pathogenic"},
		{"Pathogenic/Likely pathogenic", "Likely pathogenic/Pathogenic"},
		{"Benign", "Likely benign/Benign"},
		{"Benign;Likely benign;Benign/Likely benign", "Likely benign/Benign"},
		{"Uncertain significance", "Uncertain significance"},
		{"Conflicting classifications of pathogenicity", "Conflicting classifications of pathogenicity"},
		{"drug response", "Drug response"},
		{"Affects", "Affects a non-disease phenotype"},
		{"protective", "Protective"},
		{"Likely risk allele", "Low penetrance for Mendelian diseases"},
		{"not provided", "Not provided"},
		{"NA", "Not provided"},
		{"nan", "Not provided"},
		{"association", "GWAS hits"},
		{"risk factor", "Risk factor"},
	}

	for _, c := range cases {
		assert.Equal(t, c.expected, ClassifySignificance(c.input), "input: %q", c.input)
	}
}

func TestClassifySignificanceOrderIndependent(t *testing.T) {
	forward := ClassifySignificance("Benign;Likely benign")
	backward := ClassifySignificance("Likely benign;Benign")
	assert.Equal(t, forward, backward)

	// duplicate terms collapse into the same set
	duplicated := ClassifySignificance("Benign;Benign;Likely benign")
	assert.Equal(t, forward, duplicated)
}

func TestClassifySignificanceMixedSetsCollapseToOther(t *testing.T) {
	// terms crossing two disjoint sets cannot be attributed to either
	assert.Equal(t, "Other", ClassifySignificance("Pathogenic;Benign"))
	assert.Equal(t, "Other", ClassifySignificance("Benign;drug response"))
	assert.Equal(t, "Other", ClassifySignificance("Uncertain significance;risk factor"))
}

func TestClassifySignificanceEmptyInputs(t *testing.T) {
	// delimiters and whitespace alone carry no terms
	assert.Equal(t, "Not provided", ClassifySignificance(""))
	assert.Equal(t, "Not provided", ClassifySignificance(";"))
	assert.Equal(t, "Not provided", ClassifySignificance("   "))
	assert.Equal(t, "Not provided", ClassifySignificance(" ; ; "))
}

func TestClassifySignificanceIsTotal(t *testing.T) {
	// anything unrecognized still maps to exactly one label
	inputs := []string{
		"some brand new consortium term",
		"Pathogenic;???",
		"likely pathogenic", // case matters; lower-case is not a known term
		"Benign; Pathogenic; drug response",
	}
	for _, input := range inputs {
		label := ClassifySignificance(input)
		assert.NotEmpty(t, label, "input: %q", input)
	}
}

func TestClassifySignificanceValueNilMeansNotProvided(t *testing.T) {
	assert.Equal(t, "Not provided", ClassifySignificanceValue(nil))

	value := "Pathogenic"
	assert.Equal(t, "Likely pathogenic/Pathogenic", ClassifySignificanceValue(&value))
}
