package agent

import (
	"autoclicker/domain/entities"
	"context"
	"sync"
)

type fakePage struct {
	mu          sync.Mutex
	clicks      []entities.Point
	missing     map[entities.Point]bool
	overlay     bool
	showCalls   int
	removeCalls int
	markers     []entities.Point
}

func newFakePage() *fakePage {
	return &fakePage{missing: make(map[entities.Point]bool)}
}

func (p *fakePage) DispatchClick(ctx context.Context, pt entities.Point) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.missing[pt] {
		return false, nil
	}
	p.clicks = append(p.clicks, pt)
	return true, nil
}

func (p *fakePage) ShowOverlay(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay = true
	p.showCalls++
	return nil
}

func (p *fakePage) RemoveOverlay(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.overlay = false
	p.removeCalls++
	return nil
}

func (p *fakePage) RenderMarkers(ctx context.Context, points []entities.Point) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.markers = entities.ClonePoints(points)
	return nil
}

func (p *fakePage) clickLog() []entities.Point {
	p.mu.Lock()
	defer p.mu.Unlock()
	return entities.ClonePoints(p.clicks)
}

func (p *fakePage) clickCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clicks)
}

type sentMessage struct {
	endpoint string
	msg      entities.Message
}

type fakeSender struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (s *fakeSender) Send(endpoint string, msg entities.Message) <-chan entities.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentMessage{endpoint: endpoint, msg: msg})
	ch := make(chan entities.Response, 1)
	ch <- entities.Ack(msg)
	return ch
}

func (s *fakeSender) messages() []sentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sentMessage(nil), s.sent...)
}

type countingMetrics struct {
	mu         sync.Mutex
	dispatched int
	missed     int
	running    int
}

func (m *countingMetrics) ClickDispatched() { m.mu.Lock(); m.dispatched++; m.mu.Unlock() }
func (m *countingMetrics) ClickMissed()     { m.mu.Lock(); m.missed++; m.mu.Unlock() }
func (m *countingMetrics) LoopStarted()     { m.mu.Lock(); m.running++; m.mu.Unlock() }
func (m *countingMetrics) LoopStopped()     { m.mu.Lock(); m.running--; m.mu.Unlock() }

func (m *countingMetrics) snapshot() (dispatched, missed, running int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dispatched, m.missed, m.running
}
