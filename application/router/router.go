package router

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownEndpoint is returned for messages nobody is registered for
	ErrUnknownEndpoint = errors.New("no receiver for endpoint")
	// ErrClosed is returned for messages still queued when the router stops
	ErrClosed = errors.New("router closed")
)

type envelope struct {
	endpoint string
	msg      entities.Message
	reply    chan entities.Response
	task     func(ctx context.Context)
}

// Router delivers messages and page events one at a time on a single goroutine.
// A handler always runs to completion before the next item is taken.
type Router struct {
	mu       sync.Mutex
	handlers map[string]interfaces.MessageHandler
	queue    []envelope
	closed   bool
	notify   chan struct{}
	logger   *logrus.Logger
}

// NewRouter creates a router; call Run to start delivering
func NewRouter(logger *logrus.Logger) *Router {
	return &Router{
		handlers: make(map[string]interfaces.MessageHandler),
		notify:   make(chan struct{}, 1),
		logger:   logger,
	}
}

// Register binds a handler to an endpoint, replacing any previous one
func (r *Router) Register(endpoint string, h interfaces.MessageHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[endpoint] = h
}

// Unregister removes the handler of an endpoint
func (r *Router) Unregister(endpoint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, endpoint)
}

// Send queues msg for endpoint and returns a channel that yields the response.
// It never blocks, so handlers may call it for follow-up messages.
func (r *Router) Send(endpoint string, msg entities.Message) <-chan entities.Response {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	reply := make(chan entities.Response, 1)
	if !r.enqueue(envelope{endpoint: endpoint, msg: msg, reply: reply}) {
		reply <- entities.Fail(msg, ErrClosed)
	}
	return reply
}

// Post queues a task to run on the delivery goroutine, serialized with messages
func (r *Router) Post(task func(ctx context.Context)) {
	r.enqueue(envelope{task: task})
}

func (r *Router) enqueue(env envelope) bool {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return false
	}
	r.queue = append(r.queue, env)
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default:
	}
	return true
}

func (r *Router) next() (envelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queue) == 0 {
		return envelope{}, false
	}
	env := r.queue[0]
	r.queue[0] = envelope{}
	r.queue = r.queue[1:]
	return env, true
}

// Run delivers queued items until ctx is done. Messages still queued at that
// point resolve with ErrClosed.
func (r *Router) Run(ctx context.Context) error {
	defer r.close()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		env, ok := r.next()
		if !ok {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.notify:
			}
			continue
		}
		r.deliver(ctx, env)
	}
}

func (r *Router) close() {
	r.mu.Lock()
	r.closed = true
	pending := r.queue
	r.queue = nil
	r.mu.Unlock()

	for _, env := range pending {
		if env.reply != nil {
			env.reply <- entities.Fail(env.msg, ErrClosed)
		}
	}
}

func (r *Router) deliver(ctx context.Context, env envelope) {
	if env.task != nil {
		r.runTask(ctx, env.task)
		return
	}

	r.mu.Lock()
	h, ok := r.handlers[env.endpoint]
	r.mu.Unlock()

	log := r.logger.WithFields(logrus.Fields{
		"endpoint": env.endpoint,
		"type":     env.msg.Type,
		"id":       env.msg.ID,
	})

	if !ok {
		log.Debug("Dropping message for unknown endpoint")
		env.reply <- entities.Fail(env.msg, fmt.Errorf("%w: %s", ErrUnknownEndpoint, env.endpoint))
		return
	}

	log.Debug("Delivering message")
	env.reply <- r.handle(ctx, h, env.msg)
}

func (r *Router) handle(ctx context.Context, h interfaces.MessageHandler, msg entities.Message) (resp entities.Response) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithField("type", msg.Type).Errorf("Message handler panicked: %v", p)
			resp = entities.Fail(msg, fmt.Errorf("handler panic: %v", p))
		}
	}()
	resp = h.HandleMessage(ctx, msg)
	resp.ID = msg.ID
	return resp
}

func (r *Router) runTask(ctx context.Context, task func(ctx context.Context)) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorf("Posted task panicked: %v", p)
		}
	}()
	task(ctx)
}

var _ interfaces.Sender = (*Router)(nil)
