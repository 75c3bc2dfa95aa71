package entities

// MessageType identifies a command exchanged between the UI, the controller and page agents
type MessageType string

const (
	MessageStartClicking MessageType = "startClicking"
	MessageStopClicking  MessageType = "stopClicking"
	MessageSaveConfig    MessageType = "saveConfig"
	MessageStartConfig   MessageType = "startConfig"
	MessageClearMarkers  MessageType = "clearMarkers"
)

// Message is a typed request delivered through the router
type Message struct {
	ID     string              `json:"id"`
	Type   MessageType         `json:"type"`
	Config *ClickConfiguration `json:"config,omitempty"`
}

// Response acknowledges a message
type Response struct {
	ID      string `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Ack builds a successful response for msg
func Ack(msg Message) Response {
	return Response{ID: msg.ID, Success: true}
}

// Fail builds a failed response for msg
func Fail(msg Message, err error) Response {
	resp := Response{ID: msg.ID}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}
