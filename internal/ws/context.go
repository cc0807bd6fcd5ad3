package ws

import (
	"context"

	json "github.com/goccy/go-json"
)

type HandlerFunc func(ctx *EventContext) error

// EventContext carries one inbound frame through dispatch, plus closures to
// answer on the same connection.
type EventContext struct {
	context.Context

	Session *Session
	Event   string
	Data    json.RawMessage

	Reply      func(event string, payload any) error
	ReplyError func(message string) error
}

// Bind decodes the frame payload into out. A frame with no payload decodes
// to the zero value.
func (c *EventContext) Bind(out any) error {
	if len(c.Data) == 0 {
		return nil
	}
	return json.Unmarshal(c.Data, out)
}
