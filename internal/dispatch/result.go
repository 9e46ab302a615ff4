package dispatch

import "encoding/json"

// Status classifies the outcome of a single tool dispatch.
type Status string

const (
	StatusOK                    Status = "ok"
	StatusAuthorizationRequired Status = "authorization_required"
	StatusAuthorizationDenied   Status = "authorization_denied"
	StatusExecutionFailed       Status = "execution_failed"
)

// Invocation is one tool call requested by the model. Arguments is the raw
// JSON-encoded argument string as the model produced it.
type Invocation struct {
	ID        string
	Tool      string
	Arguments string
}

// Result is the uniform envelope produced for every invocation. Payload is
// the backend response for StatusOK and a structured error object otherwise;
// its serialized form is what gets fed back to the model.
type Result struct {
	ID      string
	Tool    string
	Status  Status
	Payload json.RawMessage
}

// Content returns the payload as the tool-message body for the synthesis
// call.
func (r Result) Content() string {
	return string(r.Payload)
}

func errorPayload(fields map[string]string) json.RawMessage {
	data, err := json.Marshal(fields)
	if err != nil {
		// unreachable for a map of strings
		return json.RawMessage(`{"error":"internal error"}`)
	}
	return data
}
