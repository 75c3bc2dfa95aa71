package terminal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"autoclicker/application/controller"
	"autoclicker/application/router"
	"autoclicker/application/session"
	"autoclicker/application/trigger"
	"autoclicker/domain/interfaces"
	"autoclicker/infrastructure/browser"
	"autoclicker/infrastructure/config"
	"autoclicker/infrastructure/metrics"
	"autoclicker/infrastructure/storage"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
)

const logFile = "autoclicker.log"

type TerminalInterface struct {
	cfg        *config.Config
	logger     *logrus.Logger
	logOutput  *os.File
	store      *storage.Settings
	metrics    *metrics.Metrics
	router     *router.Router
	session    *session.Session
	host       *browser.Host
	controller *controller.Controller
	trigger    *trigger.Trigger
}

// NewLogger builds the application logger at the configured level
func NewLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

func NewTerminalInterface(cfg *config.Config) (*TerminalInterface, error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// Setup logger; the terminal belongs to the UI, so logs go to a file
	logger := NewLogger(cfg)
	out, err := os.OpenFile(filepath.Join(cfg.DataDir, logFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(out)

	store, err := storage.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("failed to open settings: %w", err)
	}

	m := metrics.New()
	r := router.NewRouter(logger)
	sess := session.NewSession(r, clockwork.NewRealClock(), m, logger)

	host, err := browser.NewHost(browser.Options{
		Browser:  cfg.Browser,
		Headless: cfg.Headless,
		Width:    cfg.Viewport.Width,
		Height:   cfg.Viewport.Height,
		StartURL: cfg.StartURL,
	}, sess, logger)
	if err != nil {
		store.Close()
		out.Close()
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	ctrl := controller.NewController(r, host, store, logger)
	r.Register(interfaces.ControllerEndpoint, ctrl)

	return &TerminalInterface{
		cfg:        cfg,
		logger:     logger,
		logOutput:  out,
		store:      store,
		metrics:    m,
		router:     r,
		session:    sess,
		host:       host,
		controller: ctrl,
		trigger:    trigger.NewTrigger(r, host, host, store, cfg.DefaultDelayMs, logger),
	}, nil
}

func (t *TerminalInterface) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	routerDone := make(chan struct{})
	go func() {
		defer close(routerDone)
		t.router.Run(ctx)
	}()
	defer func() {
		cancel()
		<-routerDone
	}()

	if t.cfg.MetricsAddr != "" {
		go func() {
			if err := t.metrics.Serve(ctx, t.cfg.MetricsAddr, t.logger); err != nil {
				t.logger.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	t.logger.WithField("url", t.cfg.StartURL).Info("Auto clicker started")

	model := NewModel(ctx, t.trigger, t.status, t.trigger.InitialDelay(ctx))
	_, err := tea.NewProgram(model, tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		// interrupted by a signal
		return nil
	}
	return err
}

// status - combines the controller state with the active tab's agent
func (t *TerminalInterface) status(ctx context.Context) Status {
	st := Status{Automation: t.controller.State()}

	tab, ok := t.host.ActiveTab()
	if !ok {
		return st
	}
	st.Tab = tab
	if ts, ok := t.session.Status(ctx, tab); ok {
		st.Mode = ts.Mode
		st.Loop = ts.Loop
		st.Points = ts.Points
	}
	return st
}

func (t *TerminalInterface) Close() error {
	t.session.Close()
	err := t.host.Close()
	if cerr := t.store.Close(); cerr != nil && err == nil {
		err = cerr
	}
	t.logOutput.Close()
	return err
}
