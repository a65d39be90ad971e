// Schema Generator
//
// Generates JSON Schema files from Go types so mobile clients can
// derive their own validation schemas. Go is the source of truth for
// the API and persisted-state shapes.
//
// Usage:
//
//	go run cmd/schema-gen/main.go
//
// Output:
//
//	./schemas/catalog.json
//	./schemas/cart.json
//	./schemas/chat.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/frostmart/storefront-service/internal/assistant"
	"github.com/frostmart/storefront-service/internal/auth"
	"github.com/frostmart/storefront-service/internal/cart"
	"github.com/frostmart/storefront-service/internal/catalog"
	"github.com/frostmart/storefront-service/internal/handlers"
	"github.com/frostmart/storefront-service/internal/intent"
)

// SchemaGroup represents a group of related schemas
type SchemaGroup struct {
	Name   string
	Types  []any
	Output string
}

func main() {
	outputDir := "./schemas"

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	groups := []SchemaGroup{
		{
			Name: "catalog",
			Types: []any{
				catalog.Product{},
				catalog.Rating{},
				handlers.ListProductsRequest{},
				handlers.ListProductsResponse{},
			},
			Output: "catalog.json",
		},
		{
			Name: "cart",
			Types: []any{
				cart.Line{},
				cart.Snapshot{},
				handlers.AddCartItemRequest{},
				handlers.SetQuantityRequest{},
			},
			Output: "cart.json",
		},
		{
			Name: "chat",
			Types: []any{
				assistant.Message{},
				assistant.Reply{},
				intent.Intent{},
				handlers.ChatRequest{},
				// Auth and settings ride along in the chat bundle since
				// the mobile client loads them together.
				auth.Session{},
				handlers.RegisterRequest{},
				handlers.LoginRequest{},
				handlers.SettingsResponse{},
				handlers.UpdateSettingsRequest{},
			},
			Output: "chat.json",
		},
	}

	for _, group := range groups {
		schema := generateGroupSchema(group)
		outputPath := filepath.Join(outputDir, group.Output)

		if err := writeSchema(schema, outputPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", group.Output, err)
			os.Exit(1)
		}

		fmt.Printf("Generated %s\n", outputPath)
	}

	fmt.Println("Schema generation complete!")
}

// generateGroupSchema creates a combined schema with all types in a group
func generateGroupSchema(group SchemaGroup) map[string]any {
	reflector := &jsonschema.Reflector{
		DoNotReference: false,
		ExpandedStruct: false,
	}

	definitions := make(map[string]any)

	for _, t := range group.Types {
		schema := reflector.Reflect(t)

		typeName := ""
		if schema.Ref != "" {
			// Extract type name from $ref like "#/$defs/Product"
			typeName = filepath.Base(schema.Ref)
		}

		for name, def := range schema.Definitions {
			definitions[name] = def
		}

		if typeName != "" && schema.Definitions[typeName] != nil {
			definitions[typeName] = schema.Definitions[typeName]
		}
	}

	return map[string]any{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         fmt.Sprintf("https://frostmart.app/schemas/%s.json", group.Name),
		"title":       fmt.Sprintf("%s API Types", capitalize(group.Name)),
		"description": fmt.Sprintf("JSON Schema for %s API types generated from Go structs", group.Name),
		"$defs":       definitions,
	}
}

// writeSchema writes a schema to a JSON file
func writeSchema(schema map[string]any, path string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
