package chromosome

import (
	"fmt"
	"strings"

	"varhive/api/utils"
)

// ValidListOfHumanChromosomes enumerates 1-22, X, Y and the
// mitochondrial contig under both of its common names.
func ValidListOfHumanChromosomes() []string {
	var humChroms []string
	for i := 1; i < 23; i++ {
		humChroms = append(humChroms, fmt.Sprint(i))
	}
	humChroms = append(humChroms, "X")
	humChroms = append(humChroms, "Y")
	humChroms = append(humChroms, "M")
	humChroms = append(humChroms, "MT")
	return humChroms
}

func IsValidHumanChromosome(text string) bool {
	return utils.StringInSlice(strings.ToUpper(strings.TrimSpace(text)), ValidListOfHumanChromosomes())
}
