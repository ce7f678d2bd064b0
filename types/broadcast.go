package types

// Broadcast is the envelope pushed to dashboard websocket clients.
type Broadcast struct {
	MessageType string      `json:"message_type"`
	Data        interface{} `json:"data"`
}
