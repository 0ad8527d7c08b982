package middleware

import (
	"fmt"
	"net/http"

	"varhive/api/contexts"
	"varhive/api/services/identifiers"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid variant identifier path parameter was
	provided, resolving it to its canonical lookup key
*/
func MandateVariantIdentifier(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		bc := c.(*contexts.BrowserContext)

		// check for the identifier path parameter
		rawId := c.Param("id")
		if len(rawId) == 0 {
			// if no id was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing variant identifier for querying!")
		}

		lookup, resolveErr := identifiers.ResolveVariant(rawId)
		if resolveErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Invalid variant identifier '%s'! Expected CHR-POS-REF-ALT, an rsID, or CHR:START-END", rawId))
		}

		bc.VariantLookup = lookup
		return next(bc)
	}
}
