package web

import (
	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the protocol schema document.
const SchemaID = "https://github.com/vovakirdan/tui-flappy/schema/protocol.json"

// Schema describes the websocket protocol. Client messages are listed under
// oneOf; every message type is also available under $defs by name.
func Schema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}

	messages := []struct {
		name        string
		description string
		value       any
	}{
		{"ClientMessage", "Sent by the browser: hello with the viewport, flap, restart.", &ClientMessage{}},
		{"FrameMessage", "Sent by the server after every step that changed the world.", &FrameMessage{}},
		{"ErrorMessage", "Sent by the server when a client message is rejected.", &ErrorMessage{}},
	}

	defs := make(jsonschema.Definitions, len(messages))
	for _, m := range messages {
		s := r.Reflect(m.value)
		s.Version = ""
		s.ID = ""
		s.Title = m.name
		s.Description = m.description
		defs[m.name] = s
	}

	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		ID:          jsonschema.ID(SchemaID),
		Title:       "flappy websocket protocol",
		Definitions: defs,
		OneOf:       []*jsonschema.Schema{{Ref: "#/$defs/ClientMessage"}},
	}
}
