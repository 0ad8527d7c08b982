package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"varhive/api/contexts"
	vam "varhive/api/middleware"
	"varhive/api/models"
	serviceInfo "varhive/api/models/constants/service-info"
	genesMvc "varhive/api/mvc/genes"
	serviceInfoMvc "varhive/api/mvc/service-info"
	statsMvc "varhive/api/mvc/stats"
	variantsMvc "varhive/api/mvc/variants"
	esRepo "varhive/api/repositories/elasticsearch"
	"varhive/api/services"
	"varhive/api/services/sanitation"
	variantsService "varhive/api/services/variants"
	"varhive/api/utils"

	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

func main() {
	// Gather environment variables
	var cfg models.Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	fmt.Printf("Using : \n"+

		"\tDebug : %t \n\n"+

		"\tAnnotation Directory Path : %s \n"+
		"\tBatch Directory Path : %s \n"+
		"\tBatch Size : %d\n"+
		"\tBulk Indexing Cap : %d\n"+
		"\tFile Processing Concurrency Level : %d\n"+
		"\tPosition Processing Concurrency Level : %d\n"+
		"\tElasticsearch Url : %s \n"+
		"\tElasticsearch Username : %s\n"+
		"\tElasticsearch Index : %s\n\n"+

		"Running on Port : %s\n",

		cfg.Debug,
		cfg.Api.AnnotationPath,
		cfg.Api.BatchDirectory,
		cfg.Api.BatchSize,
		cfg.Api.BulkIndexingCap,
		cfg.Api.FileProcessingConcurrencyLevel,
		cfg.Api.PositionProcessingConcurrencyLevel,
		cfg.Elasticsearch.Url, cfg.Elasticsearch.Username,
		cfg.Elasticsearch.Index,
		cfg.Api.Port)
	// --

	// Instantiate Server
	e := echo.New()

	// Service Connections:
	// -- Elasticsearch
	es := utils.CreateEsConnection(&cfg)

	// -- ensure the variants index and its mapping exist up front
	if indexErr := esRepo.EnsureVariantsIndex(&cfg, es); indexErr != nil {
		fmt.Printf("Failed to bootstrap the variants index: %s\n", indexErr)
		os.Exit(2)
	}

	// Service Singletons
	iz := services.NewIngestionService(es, &cfg)
	vs := variantsService.NewVariantService(&cfg)
	sanitation.NewSanitationService(iz, &cfg)

	// Configure Server
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
	}))

	// -- Override handlers with "custom browser" context
	//		to be able to provide variables and global singletons
	e.Use(func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bc := &contexts.BrowserContext{
				Context:          c,
				Es7Client:        es,
				Config:           &cfg,
				IngestionService: iz,
				VariantService:   vs,
			}
			return h(bc)
		}
	})

	// Begin MVC Routes
	// -- Root
	e.GET("/", func(c echo.Context) error {
		fmt.Printf("[%s] - Root hit!\n", time.Now())
		return c.JSON(http.StatusOK, serviceInfo.SERVICE_WELCOME)
	})

	// -- Service Info
	e.GET("/service-info", serviceInfoMvc.GetServiceInfo)

	// -- Variants
	e.GET("/variants/overview", variantsMvc.GetVariantsOverview)

	e.GET("/variant/:id", variantsMvc.VariantsGetById,
		// middleware
		vam.MandateVariantIdentifier)
	e.GET("/region/:region", variantsMvc.VariantsGetByRegion,
		// middleware
		vam.MandateRegionAttribute)

	e.GET("/variants/ingestion/run", variantsMvc.VariantsIngest)
	e.GET("/variants/ingestion/requests", variantsMvc.VariantsIngestionRequests)
	e.GET("/variants/ingestion/stats", variantsMvc.VariantsIngestionStats)

	// -- Genes
	e.GET("/gene/:name", genesMvc.GenesGetVariants,
		// middleware
		vam.MandateGeneNameAttribute)

	// -- Stats
	e.GET("/stats", statsMvc.GetDatabaseStats)
	e.GET("/search/autocomplete", statsMvc.GetAutocompleteSuggestions)

	// Run
	e.Logger.Fatal(e.Start(":" + cfg.Api.Port))
}
