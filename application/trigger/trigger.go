package trigger

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	// ErrNoActiveTab is returned when a command needs a foreground tab and there is none
	ErrNoActiveTab = errors.New("no active tab")
	// ErrInvalidDelay is returned for delay input that is not a whole number of milliseconds
	ErrInvalidDelay = errors.New("delay must be a non-negative number of milliseconds")
)

// Trigger issues the user-initiated commands: configure, start, stop and clear
type Trigger struct {
	sender       interfaces.Sender
	tabs         interfaces.Tabs
	injector     interfaces.ScriptInjector
	store        interfaces.SettingsStore
	defaultDelay int
	logger       *logrus.Logger
}

// NewTrigger - creates the command surface used by the terminal UI
func NewTrigger(sender interfaces.Sender, tabs interfaces.Tabs, injector interfaces.ScriptInjector, store interfaces.SettingsStore, defaultDelay int, logger *logrus.Logger) *Trigger {
	return &Trigger{
		sender:       sender,
		tabs:         tabs,
		injector:     injector,
		store:        store,
		defaultDelay: defaultDelay,
		logger:       logger,
	}
}

// InitialDelay returns the persisted delay, or the default one when none was saved
func (t *Trigger) InitialDelay(ctx context.Context) int {
	delay, ok, err := t.store.LoadDelay(ctx)
	if err != nil {
		t.logger.Warnf("Failed to read saved delay: %v", err)
		return t.defaultDelay
	}
	if !ok || delay <= 0 {
		return t.defaultDelay
	}
	return delay
}

// Configure makes sure the page script is present, then toggles configuration mode
func (t *Trigger) Configure(ctx context.Context) (<-chan entities.Response, error) {
	tab, ok := t.tabs.ActiveTab()
	if !ok {
		return nil, ErrNoActiveTab
	}
	if err := t.injector.EnsureInjected(ctx, tab); err != nil {
		return nil, fmt.Errorf("failed to inject page script: %w", err)
	}
	return t.sender.Send(tab, entities.Message{Type: entities.MessageStartConfig}), nil
}

// Start persists the delay and asks the controller to start clicking with
// one delay per saved point. Nothing saved yet means no delays, so the page
// falls back to the default interval.
func (t *Trigger) Start(ctx context.Context, delayText string) (<-chan entities.Response, error) {
	delay, err := ParseDelay(delayText)
	if err != nil {
		return nil, err
	}

	saved, err := t.store.LoadClickConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load click configuration: %w", err)
	}

	if err := t.store.SaveDelay(ctx, delay); err != nil {
		t.logger.Warnf("Failed to save delay: %v", err)
	}

	cfg := entities.ClickConfiguration{Delays: []int{}}
	if saved != nil {
		cfg = saved.WithDelay(delay)
	}

	t.logger.WithFields(logrus.Fields{
		"delay":  delay,
		"points": len(cfg.Points),
	}).Debug("Requesting start")

	return t.sender.Send(interfaces.ControllerEndpoint, entities.Message{
		Type:   entities.MessageStartClicking,
		Config: &cfg,
	}), nil
}

// Stop asks the controller to stop clicking
func (t *Trigger) Stop() <-chan entities.Response {
	return t.sender.Send(interfaces.ControllerEndpoint, entities.Message{Type: entities.MessageStopClicking})
}

// Clear asks the controller to clear the points of the foreground tab
func (t *Trigger) Clear() <-chan entities.Response {
	return t.sender.Send(interfaces.ControllerEndpoint, entities.Message{Type: entities.MessageClearMarkers})
}

// ParseDelay parses the delay field. An empty field or 0 means no delay was
// chosen; the page then clicks at the default interval.
func ParseDelay(text string) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	delay, err := strconv.Atoi(text)
	if err != nil || delay < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelay, text)
	}
	return delay, nil
}
