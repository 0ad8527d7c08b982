package mvc

import (
	"strconv"

	"varhive/api/contexts"
	"varhive/api/models"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

func RetrieveCommonElements(c echo.Context) (*elasticsearch.Client, *models.Config) {
	bc := c.(*contexts.BrowserContext)
	return bc.Es7Client, bc.Config
}

// RetrievePagination reads 'page' and 'pageSize' query parameters,
// falling back to sane defaults on absent or unparseable values.
func RetrievePagination(c echo.Context, defaultPageSize int) (int, int) {
	page := 1
	pageQP := c.QueryParam("page")
	if len(pageQP) > 0 {
		if p, conversionErr := strconv.Atoi(pageQP); conversionErr == nil && p > 0 {
			page = p
		}
	}

	pageSize := defaultPageSize
	pageSizeQP := c.QueryParam("pageSize")
	if len(pageSizeQP) > 0 {
		if ps, conversionErr := strconv.Atoi(pageSizeQP); conversionErr == nil && ps > 0 && ps <= 1000 {
			pageSize = ps
		}
	}

	return page, pageSize
}
