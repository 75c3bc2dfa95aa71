package controller

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	// ErrMissingConfig is returned when a message needs a configuration and has none
	ErrMissingConfig = errors.New("message has no configuration")
	// ErrUnsupportedMessage is returned for message types the controller doesn't handle
	ErrUnsupportedMessage = errors.New("unsupported message type")
)

// Controller holds the automation intent and relays commands to the foreground tab
type Controller struct {
	sender interfaces.Sender
	tabs   interfaces.Tabs
	store  interfaces.SettingsStore
	logger *logrus.Logger

	mu     sync.RWMutex
	state  entities.AutomationState
	config entities.ClickConfiguration
}

// NewController - creates a controller in the inactive state
func NewController(sender interfaces.Sender, tabs interfaces.Tabs, store interfaces.SettingsStore, logger *logrus.Logger) *Controller {
	return &Controller{
		sender: sender,
		tabs:   tabs,
		store:  store,
		logger: logger,
		state:  entities.AutomationInactive,
	}
}

// HandleMessage - processes a command addressed to the controller
func (c *Controller) HandleMessage(ctx context.Context, msg entities.Message) entities.Response {
	switch msg.Type {
	case entities.MessageStartClicking:
		if msg.Config == nil {
			return entities.Fail(msg, ErrMissingConfig)
		}
		c.startClicking(*msg.Config)

	case entities.MessageStopClicking:
		c.setState(entities.AutomationInactive)
		c.forward(entities.Message{Type: entities.MessageStopClicking})

	case entities.MessageClearMarkers:
		c.setState(entities.AutomationInactive)
		c.forward(entities.Message{Type: entities.MessageClearMarkers})

	case entities.MessageSaveConfig:
		if msg.Config == nil {
			return entities.Fail(msg, ErrMissingConfig)
		}
		if err := c.saveConfig(ctx, *msg.Config); err != nil {
			return entities.Fail(msg, err)
		}

	default:
		return entities.Fail(msg, fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg.Type))
	}

	return entities.Ack(msg)
}

// State returns the current automation state
func (c *Controller) State() entities.AutomationState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Config returns the last configuration received
func (c *Controller) Config() entities.ClickConfiguration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return entities.ClickConfiguration{
		Points: entities.ClonePoints(c.config.Points),
		Delays: append([]int(nil), c.config.Delays...),
	}
}

func (c *Controller) startClicking(cfg entities.ClickConfiguration) {
	c.mu.Lock()
	c.state = entities.AutomationActive
	c.config = cfg
	c.mu.Unlock()

	c.forward(entities.Message{
		Type:   entities.MessageStartClicking,
		Config: &cfg,
	})
}

func (c *Controller) saveConfig(ctx context.Context, cfg entities.ClickConfiguration) error {
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()

	if err := c.store.SaveClickConfig(ctx, cfg); err != nil {
		c.logger.Errorf("Failed to save click configuration: %v", err)
		return fmt.Errorf("failed to save click configuration: %w", err)
	}

	c.logger.WithField("points", len(cfg.Points)).Info("Click configuration saved")
	return nil
}

func (c *Controller) setState(state entities.AutomationState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = state
}

// forward posts msg to the foreground tab; without one it is silently skipped
func (c *Controller) forward(msg entities.Message) {
	tab, ok := c.tabs.ActiveTab()
	if !ok {
		c.logger.WithField("type", msg.Type).Debug("No active tab, command not forwarded")
		return
	}
	c.sender.Send(tab, msg)
}

var _ interfaces.MessageHandler = (*Controller)(nil)
