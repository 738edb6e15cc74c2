// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"
)

func LoadRegistry(path string) (*SourceRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg SourceRegistry
	err = json.Unmarshal(data, &reg)
	return &reg, err
}

// Lookup returns the spec for a source ID, or nil when unknown.
func (r *SourceRegistry) Lookup(id string) *SourceSpec {
	for i := range r.Sources {
		if r.Sources[i].ID == id {
			return &r.Sources[i]
		}
	}
	return nil
}

// CompileSchema compiles the spec's response schema. Specs without a
// schema return (nil, nil) and skip validation.
func (s *SourceSpec) CompileSchema() (*gojsonschema.Schema, error) {
	if len(s.ResponseSchema) == 0 {
		return nil, nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(s.ResponseSchema))
	if err != nil {
		return nil, fmt.Errorf("compile schema for source %q: %w", s.ID, err)
	}
	return schema, nil
}
