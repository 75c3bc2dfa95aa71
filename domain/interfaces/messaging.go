package interfaces

import (
	"autoclicker/domain/entities"
	"context"
)

// ControllerEndpoint is the router address of the controller
const ControllerEndpoint = "controller"

// MessageHandler processes one message addressed to an endpoint
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg entities.Message) entities.Response
}

// Sender posts a message to an endpoint. The returned channel yields exactly
// one response; callers that don't care may drop it.
type Sender interface {
	Send(endpoint string, msg entities.Message) <-chan entities.Response
}

// Tabs reports which tab is in the foreground
type Tabs interface {
	// ActiveTab returns the endpoint of the foreground tab, false if there is none
	ActiveTab() (string, bool)
}

// ScriptInjector makes sure the page script is present in a tab
type ScriptInjector interface {
	EnsureInjected(ctx context.Context, tab string) error
}
