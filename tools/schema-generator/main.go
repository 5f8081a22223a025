// Command schema-generator writes the workon config schema to
// schema/workon.schema.json for editor integration.
package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/grovetools/workon/schema"
)

func main() {
	data, err := schema.GenerateSchema()
	if err != nil {
		log.Fatalf("Error generating schema: %v", err)
	}

	outputPath := filepath.Join("schema", "workon.schema.json")
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated schema at %s", outputPath)
}
