package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"varhive/api/models"
	"varhive/api/models/schema"

	"github.com/elastic/go-elasticsearch/v7"
)

// EnsureVariantsIndex creates the variants index with its explicit field
// mapping if it does not already exist. Idempotent across restarts.
func EnsureVariantsIndex(cfg *models.Config, es *elasticsearch.Client) error {
	indexName := cfg.Elasticsearch.Index

	existsRes, existsErr := es.Indices.Exists(
		[]string{indexName},
		es.Indices.Exists.WithContext(context.Background()),
	)
	if existsErr != nil {
		return fmt.Errorf("error checking index '%s': %w", indexName, existsErr)
	}
	defer existsRes.Body.Close()

	if existsRes.StatusCode == 200 {
		return nil
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(schema.VARIANT_INDEX_MAPPING); err != nil {
		return fmt.Errorf("error encoding index mapping: %w", err)
	}

	if cfg.Debug {
		fmt.Printf("Creating index '%s' with mapping: %s\n", indexName, buf.String())
	}

	createRes, createErr := es.Indices.Create(
		indexName,
		es.Indices.Create.WithContext(context.Background()),
		es.Indices.Create.WithBody(&buf),
	)
	if createErr != nil {
		return fmt.Errorf("error creating index '%s': %w", indexName, createErr)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		// lost a create race with another instance; treat as created
		if strings.Contains(createRes.String(), "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("index creation failed: %s", createRes.String())
	}

	fmt.Printf("Created index '%s'\n", indexName)
	return nil
}
