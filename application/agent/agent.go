package agent

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedMessage is returned for message types a page agent doesn't handle
var ErrUnsupportedMessage = errors.New("unsupported message type")

// Agent owns the configuration mode, the recorded points and the click loop of one tab.
// Its handlers are expected to run one at a time (the router guarantees it).
type Agent struct {
	tab     string
	page    interfaces.PageSurface
	sender  interfaces.Sender
	metrics interfaces.ClickMetrics
	logger  *logrus.Logger

	loop   *ClickLoop
	mode   entities.ConfigMode
	points []entities.Point
}

// NewAgent - creates a page agent for tab
func NewAgent(tab string, page interfaces.PageSurface, sender interfaces.Sender, clock clockwork.Clock, metrics interfaces.ClickMetrics, logger *logrus.Logger) *Agent {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	a := &Agent{
		tab:     tab,
		page:    page,
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		mode:    entities.ConfigModeIdle,
	}
	a.loop = NewClickLoop(clock, a.clickAt)
	return a
}

// HandleMessage - dispatches a command addressed to this tab
func (a *Agent) HandleMessage(ctx context.Context, msg entities.Message) entities.Response {
	switch msg.Type {
	case entities.MessageStartConfig:
		a.toggleConfig(ctx)

	case entities.MessageStartClicking:
		var cfg entities.ClickConfiguration
		if msg.Config != nil {
			cfg = *msg.Config
		}
		if err := a.startClicking(cfg); err != nil {
			return entities.Fail(msg, err)
		}

	case entities.MessageStopClicking:
		a.stopClicking()

	case entities.MessageClearMarkers:
		a.clearMarkers(ctx)

	default:
		return entities.Fail(msg, fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg.Type))
	}

	return entities.Ack(msg)
}

// OnOverlayClick - records a point clicked on the capture layer
func (a *Agent) OnOverlayClick(ctx context.Context, p entities.Point) {
	if a.mode != entities.ConfigModeConfiguring {
		return
	}
	a.points = append(a.points, p)
	a.logger.WithFields(logrus.Fields{
		"tab":   a.tab,
		"x":     p.X,
		"y":     p.Y,
		"count": len(a.points),
	}).Debug("Point recorded")

	if err := a.page.RenderMarkers(ctx, a.points); err != nil {
		a.logger.WithField("tab", a.tab).Warnf("Failed to render markers: %v", err)
	}
}

// OnEscape - leaves configuration mode and asks the controller to persist the points
func (a *Agent) OnEscape(ctx context.Context) {
	if a.mode != entities.ConfigModeConfiguring {
		return
	}
	a.mode = entities.ConfigModeIdle
	a.removeOverlay(ctx)

	a.sender.Send(interfaces.ControllerEndpoint, entities.Message{
		Type:   entities.MessageSaveConfig,
		Config: &entities.ClickConfiguration{Points: entities.ClonePoints(a.points)},
	})
}

// Close - stops the click loop, used when the tab goes away
func (a *Agent) Close() {
	a.stopLoop()
}

// Mode returns the current configuration mode
func (a *Agent) Mode() entities.ConfigMode {
	return a.mode
}

// Points returns a copy of the recorded points
func (a *Agent) Points() []entities.Point {
	return entities.ClonePoints(a.points)
}

// LoopState reports whether the click loop is running
func (a *Agent) LoopState() entities.LoopState {
	return a.loop.State()
}

func (a *Agent) toggleConfig(ctx context.Context) {
	if a.mode == entities.ConfigModeConfiguring {
		a.mode = entities.ConfigModeIdle
		a.removeOverlay(ctx)
		return
	}

	a.mode = entities.ConfigModeConfiguring
	if err := a.page.ShowOverlay(ctx); err != nil {
		a.logger.WithField("tab", a.tab).Warnf("Failed to show overlay: %v", err)
	}
}

func (a *Agent) removeOverlay(ctx context.Context) {
	if err := a.page.RemoveOverlay(ctx); err != nil {
		a.logger.WithField("tab", a.tab).Warnf("Failed to remove overlay: %v", err)
	}
}

// startClicking runs the loop over the recorded points. Only the first
// delay of cfg is used; the interval stays fixed for every point.
func (a *Agent) startClicking(cfg entities.ClickConfiguration) error {
	wasRunning := a.loop.State() == entities.LoopRunning
	interval := cfg.Interval()

	err := a.loop.Start(a.points, interval)
	if wasRunning {
		a.metrics.LoopStopped()
	}
	if err != nil {
		a.logger.WithField("tab", a.tab).Warn("No points selected to start auto click")
		return err
	}

	a.metrics.LoopStarted()
	a.logger.WithFields(logrus.Fields{
		"tab":      a.tab,
		"points":   len(a.points),
		"interval": interval,
	}).Info("Auto click started")
	return nil
}

func (a *Agent) stopClicking() {
	if a.stopLoop() {
		a.logger.WithField("tab", a.tab).Info("Auto click stopped")
	}
}

func (a *Agent) stopLoop() bool {
	if !a.loop.Stop() {
		return false
	}
	a.metrics.LoopStopped()
	return true
}

func (a *Agent) clearMarkers(ctx context.Context) {
	a.points = nil
	if err := a.page.RenderMarkers(ctx, nil); err != nil {
		a.logger.WithField("tab", a.tab).Warnf("Failed to clear markers: %v", err)
	}
	a.stopClicking()
}

// clickAt runs on the loop goroutine
func (a *Agent) clickAt(ctx context.Context, p entities.Point) {
	log := a.logger.WithFields(logrus.Fields{"tab": a.tab, "x": p.X, "y": p.Y})

	found, err := a.page.DispatchClick(ctx, p)
	if err != nil {
		log.Warnf("Synthetic click failed: %v", err)
		a.metrics.ClickMissed()
		return
	}
	if !found {
		log.Warn("No element found at position")
		a.metrics.ClickMissed()
		return
	}

	a.metrics.ClickDispatched()
	log.Debug("Click dispatched")
}

type noopMetrics struct{}

func (noopMetrics) ClickDispatched() {}
func (noopMetrics) ClickMissed()     {}
func (noopMetrics) LoopStarted()     {}
func (noopMetrics) LoopStopped()     {}

var _ interfaces.MessageHandler = (*Agent)(nil)
