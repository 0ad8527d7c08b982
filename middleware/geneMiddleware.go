package middleware

import (
	"net/http"

	"varhive/api/contexts"
	"varhive/api/services/identifiers"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid gene symbol path parameter was
	provided, normalized to its canonical upper-case form
*/
func MandateGeneNameAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		bc := c.(*contexts.BrowserContext)

		// check for the gene name path parameter
		rawName := c.Param("name")
		if len(rawName) == 0 {
			// if no name was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'name' parameter for querying!")
		}

		geneName, resolveErr := identifiers.ResolveGene(rawName)
		if resolveErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid gene name! Check your input")
		}

		bc.GeneName = geneName
		return next(bc)
	}
}
