package event

// DocumentData is the payload for document lifecycle events: loaded,
// reloaded, saved, invalidated.
type DocumentData struct {
	SessionID string `json:"sessionID"`
	File      string `json:"file"`
}

// ValueUpdatedData is the payload for value.updated events.
type ValueUpdatedData struct {
	SessionID string `json:"sessionID"`
	File      string `json:"file"`
	PathKey   string `json:"pathKey"`
	Modified  bool   `json:"modified"`
}

// ArrayMutatedData is the payload for array.mutated events.
type ArrayMutatedData struct {
	SessionID string `json:"sessionID"`
	File      string `json:"file"`
	PathKey   string `json:"pathKey"`
	Op        string `json:"op"` // "add" | "remove" | "clone"
	Index     int    `json:"index"`
}

// SchemaData is the payload for schema.attached and schema.detached
// events.
type SchemaData struct {
	SessionID string `json:"sessionID"`
	File      string `json:"file"`
	Schema    string `json:"schema,omitempty"`
}
