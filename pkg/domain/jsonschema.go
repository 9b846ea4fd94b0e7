package domain

import "github.com/invopop/jsonschema"

// JSONSchemaExtend marks current_node as nullable, matching MarshalJSON.
func (State) JSONSchemaExtend(s *jsonschema.Schema) {
	if s.Properties == nil {
		return
	}
	prop, ok := s.Properties.Get("current_node")
	if !ok {
		return
	}
	s.Properties.Set("current_node", &jsonschema.Schema{
		Description: prop.Description,
		AnyOf: []*jsonschema.Schema{
			{Type: "string"},
			{Type: "null"},
		},
	})
}
