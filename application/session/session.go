package session

import (
	"autoclicker/application/agent"
	"autoclicker/application/router"
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

// TabStatus describes the page agent of one tab
type TabStatus struct {
	Tab    string
	Mode   entities.ConfigMode
	Loop   entities.LoopState
	Points int
}

// Session creates a page agent for every tab the browser opens and feeds page
// events to it through the router, so they are serialized with messages.
type Session struct {
	router  *router.Router
	clock   clockwork.Clock
	metrics interfaces.ClickMetrics
	logger  *logrus.Logger

	mu     sync.Mutex
	agents map[string]*agent.Agent
}

// NewSession - creates an empty session
func NewSession(r *router.Router, clock clockwork.Clock, metrics interfaces.ClickMetrics, logger *logrus.Logger) *Session {
	return &Session{
		router:  r,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
		agents:  make(map[string]*agent.Agent),
	}
}

// TabOpened - starts a page agent for tab
func (s *Session) TabOpened(tab string, page interfaces.PageSurface) {
	a := agent.NewAgent(tab, page, s.router, s.clock, s.metrics, s.logger)

	s.mu.Lock()
	s.agents[tab] = a
	s.mu.Unlock()

	s.router.Register(tab, a)
}

// TabClosed - stops the tab's click loop and forgets its agent
func (s *Session) TabClosed(tab string) {
	s.router.Unregister(tab)

	s.mu.Lock()
	a, ok := s.agents[tab]
	delete(s.agents, tab)
	s.mu.Unlock()

	if ok {
		s.router.Post(func(ctx context.Context) { a.Close() })
	}
}

// OverlayClicked - forwards a capture-layer click to the tab's agent
func (s *Session) OverlayClicked(tab string, p entities.Point) {
	s.router.Post(func(ctx context.Context) {
		if a := s.agent(tab); a != nil {
			a.OnOverlayClick(ctx, p)
		}
	})
}

// EscapePressed - forwards an escape key press to the tab's agent
func (s *Session) EscapePressed(tab string) {
	s.router.Post(func(ctx context.Context) {
		if a := s.agent(tab); a != nil {
			a.OnEscape(ctx)
		}
	})
}

// Status reads the state of tab's agent on the router goroutine
func (s *Session) Status(ctx context.Context, tab string) (TabStatus, bool) {
	result := make(chan TabStatus, 1)
	s.router.Post(func(context.Context) {
		a := s.agent(tab)
		if a == nil {
			close(result)
			return
		}
		result <- TabStatus{
			Tab:    tab,
			Mode:   a.Mode(),
			Loop:   a.LoopState(),
			Points: len(a.Points()),
		}
	})

	select {
	case st, ok := <-result:
		return st, ok
	case <-ctx.Done():
		return TabStatus{}, false
	}
}

// Close stops every click loop
func (s *Session) Close() {
	s.mu.Lock()
	agents := make([]*agent.Agent, 0, len(s.agents))
	for _, a := range s.agents {
		agents = append(agents, a)
	}
	s.agents = make(map[string]*agent.Agent)
	s.mu.Unlock()

	for _, a := range agents {
		a.Close()
	}
}

func (s *Session) agent(tab string) *agent.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agents[tab]
}

var _ interfaces.TabListener = (*Session)(nil)
