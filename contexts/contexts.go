package contexts

import (
	"varhive/api/models"
	"varhive/api/services"
	"varhive/api/services/identifiers"
	variantsService "varhive/api/services/variants"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other variables
	BrowserContext struct {
		echo.Context
		Es7Client        *es7.Client
		Config           *models.Config
		IngestionService *services.IngestionService
		VariantService   *variantsService.VariantService

		// resolved by the identifier middlewares
		VariantLookup *identifiers.VariantLookup
		RegionLookup  *identifiers.RegionLookup
		GeneName      string
	}
)
