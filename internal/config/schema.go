// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 DeskHub Contributors

package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
)

// SchemaID is the $id published with the generated config schema.
const SchemaID = "https://deskhub.dev/schemas/identityd.schema.json"

// GenerateSchema generates a JSON Schema from the Config struct so
// editors can validate identityd config files.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "DeskHub identityd Configuration"
	schema.Description = "Schema for identityd YAML configuration files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.Code("SCHEMA_GENERATE_FAILED").Wrap(err)
	}
	return data, nil
}
