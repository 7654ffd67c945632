package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

//go:embed schema.json
var embeddedSchema string

// schemaNode is the subset of JSON schema checked on load
type schemaNode struct {
	Ref        string                 `json:"$ref"`
	Defs       map[string]*schemaNode `json:"$defs"`
	Properties map[string]*schemaNode `json:"properties"`
	Required   []string               `json:"required"`
	Minimum    *float64               `json:"minimum"`
}

// VerifyAgainstEmbeddedSchema checks the config against the embedded JSON schema.
// Only required fields and numeric minimums are checked.
func VerifyAgainstEmbeddedSchema(cfg *Config) error {
	var schema schemaNode
	if err := json.Unmarshal([]byte(embeddedSchema), &schema); err != nil {
		return fmt.Errorf("parse embedded schema: %w", err)
	}

	configData, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	var configMap map[string]any
	if err := json.Unmarshal(configData, &configMap); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}

	root := schema.resolve(&schema)
	if root == nil {
		return fmt.Errorf("unresolved schema reference %s", schema.Ref)
	}
	return schema.check("", root, configMap)
}

func (s *schemaNode) check(path string, node *schemaNode, values map[string]any) error {
	for _, req := range node.Required {
		if v, ok := values[req]; !ok || v == "" {
			return fmt.Errorf("%s is required", join(path, req))
		}
	}
	for name, prop := range node.Properties {
		prop = s.resolve(prop)
		if prop == nil {
			continue
		}
		switch v := values[name].(type) {
		case map[string]any:
			if err := s.check(join(path, name), prop, v); err != nil {
				return err
			}
		case float64:
			if prop.Minimum != nil && v < *prop.Minimum {
				return fmt.Errorf("%s must be at least %v", join(path, name), *prop.Minimum)
			}
		}
	}
	return nil
}

// resolve follows a local $ref into $defs
func (s *schemaNode) resolve(node *schemaNode) *schemaNode {
	if node == nil || node.Ref == "" {
		return node
	}
	name, ok := strings.CutPrefix(node.Ref, "#/$defs/")
	if !ok {
		return nil
	}
	return s.Defs[name]
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// GenerateSchema generates a JSON schema for the Config struct
func GenerateSchema() *jsonschema.Schema {
	return jsonschema.Reflect(&Config{})
}
