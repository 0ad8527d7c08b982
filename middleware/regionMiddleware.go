package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"varhive/api/contexts"
	"varhive/api/services/identifiers"

	"github.com/labstack/echo"
)

/*
	Echo middleware to ensure a valid genomic region path parameter was
	provided, resolving it to canonical chromosome and bounds
*/
func MandateRegionAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		bc := c.(*contexts.BrowserContext)

		// check for the region path parameter
		rawRegion := c.Param("region")
		if len(rawRegion) == 0 {
			// if no region was provided return an error
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'region' parameter for querying!")
		}

		lookup, resolveErr := identifiers.ResolveRegion(rawRegion)
		if resolveErr != nil {
			var tooLarge *identifiers.RegionTooLargeError
			if errors.As(resolveErr, &tooLarge) {
				return echo.NewHTTPError(http.StatusBadRequest,
					fmt.Sprintf("Region too large (%d bases)! Maximum span is %d bases", tooLarge.Span, identifiers.MaxRegionSpan))
			}
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("Invalid region '%s'! Expected CHR:START-END", rawRegion))
		}

		bc.RegionLookup = lookup
		return next(bc)
	}
}
