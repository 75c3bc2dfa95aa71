package trigger

import (
	"autoclicker/domain/entities"
	"autoclicker/domain/interfaces"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	endpoint string
	msg      entities.Message
}

type fakeSender struct {
	sent []sentMessage
}

func (s *fakeSender) Send(endpoint string, msg entities.Message) <-chan entities.Response {
	s.sent = append(s.sent, sentMessage{endpoint: endpoint, msg: msg})
	ch := make(chan entities.Response, 1)
	ch <- entities.Ack(msg)
	return ch
}

type fakeTabs struct{ active string }

func (t fakeTabs) ActiveTab() (string, bool) { return t.active, t.active != "" }

type fakeInjector struct {
	injected []string
	err      error
}

func (i *fakeInjector) EnsureInjected(ctx context.Context, tab string) error {
	if i.err != nil {
		return i.err
	}
	i.injected = append(i.injected, tab)
	return nil
}

type memoryStore struct {
	config *entities.ClickConfiguration
	delay  *int
}

func (s *memoryStore) SaveClickConfig(ctx context.Context, cfg entities.ClickConfiguration) error {
	s.config = &cfg
	return nil
}

func (s *memoryStore) LoadClickConfig(ctx context.Context) (*entities.ClickConfiguration, error) {
	return s.config, nil
}

func (s *memoryStore) SaveDelay(ctx context.Context, delayMs int) error {
	s.delay = &delayMs
	return nil
}

func (s *memoryStore) LoadDelay(ctx context.Context) (int, bool, error) {
	if s.delay == nil {
		return 0, false, nil
	}
	return *s.delay, true, nil
}

type fixture struct {
	trigger  *Trigger
	sender   *fakeSender
	injector *fakeInjector
	store    *memoryStore
}

func newFixture(active string) *fixture {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	f := &fixture{
		sender:   &fakeSender{},
		injector: &fakeInjector{},
		store:    &memoryStore{},
	}
	f.trigger = NewTrigger(f.sender, fakeTabs{active: active}, f.injector, f.store, 500, logger)
	return f
}

func TestInitialDelay(t *testing.T) {
	f := newFixture("tab-1")
	assert.Equal(t, 500, f.trigger.InitialDelay(context.Background()))

	require.NoError(t, f.store.SaveDelay(context.Background(), 120))
	assert.Equal(t, 120, f.trigger.InitialDelay(context.Background()))
}

func TestConfigureInjectsThenToggles(t *testing.T) {
	f := newFixture("tab-1")

	resp, err := f.trigger.Configure(context.Background())
	require.NoError(t, err)
	assert.True(t, (<-resp).Success)

	assert.Equal(t, []string{"tab-1"}, f.injector.injected)
	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, "tab-1", f.sender.sent[0].endpoint)
	assert.Equal(t, entities.MessageStartConfig, f.sender.sent[0].msg.Type)
}

func TestConfigureWithoutTab(t *testing.T) {
	f := newFixture("")
	_, err := f.trigger.Configure(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveTab)
	assert.Empty(t, f.sender.sent)
}

func TestConfigureInjectionFailure(t *testing.T) {
	f := newFixture("tab-1")
	f.injector.err = errors.New("page crashed")

	_, err := f.trigger.Configure(context.Background())
	assert.Error(t, err)
	assert.Empty(t, f.sender.sent)
}

func TestStartUsesSavedPoints(t *testing.T) {
	f := newFixture("tab-1")
	points := []entities.Point{{X: 10, Y: 10}, {X: 20, Y: 20}}
	require.NoError(t, f.store.SaveClickConfig(context.Background(), entities.ClickConfiguration{Points: points}))

	_, err := f.trigger.Start(context.Background(), " 100 ")
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 1)
	sent := f.sender.sent[0]
	assert.Equal(t, interfaces.ControllerEndpoint, sent.endpoint)
	assert.Equal(t, entities.MessageStartClicking, sent.msg.Type)
	require.NotNil(t, sent.msg.Config)
	assert.Equal(t, points, sent.msg.Config.Points)
	assert.Equal(t, []int{100, 100}, sent.msg.Config.Delays)

	require.NotNil(t, f.store.delay)
	assert.Equal(t, 100, *f.store.delay)
}

func TestStartWithoutSavedConfigSendsNoDelays(t *testing.T) {
	f := newFixture("tab-1")

	_, err := f.trigger.Start(context.Background(), "100")
	require.NoError(t, err)

	cfg := f.sender.sent[0].msg.Config
	require.NotNil(t, cfg)
	assert.Empty(t, cfg.Delays)
	assert.Equal(t, entities.DefaultClickInterval, cfg.Interval())
}

func TestStartRejectsInvalidDelay(t *testing.T) {
	for _, input := range []string{"abc", "1.5", "-5"} {
		f := newFixture("tab-1")
		_, err := f.trigger.Start(context.Background(), input)
		assert.ErrorIs(t, err, ErrInvalidDelay, input)
		assert.Empty(t, f.sender.sent)
		assert.Nil(t, f.store.delay)
	}
}

func TestStartZeroDelayFallsBackToDefault(t *testing.T) {
	for _, input := range []string{"0", "", "  "} {
		f := newFixture("tab-1")
		points := []entities.Point{{X: 1, Y: 1}}
		require.NoError(t, f.store.SaveClickConfig(context.Background(), entities.ClickConfiguration{Points: points}))

		_, err := f.trigger.Start(context.Background(), input)
		require.NoError(t, err, input)

		cfg := f.sender.sent[0].msg.Config
		require.NotNil(t, cfg)
		assert.Equal(t, []int{0}, cfg.Delays)
		assert.Equal(t, entities.DefaultClickInterval, cfg.Interval())
		assert.Equal(t, 500, f.trigger.InitialDelay(context.Background()))
	}
}

func TestStopAndClearGoToController(t *testing.T) {
	f := newFixture("tab-1")

	assert.True(t, (<-f.trigger.Stop()).Success)
	assert.True(t, (<-f.trigger.Clear()).Success)

	require.Len(t, f.sender.sent, 2)
	assert.Equal(t, interfaces.ControllerEndpoint, f.sender.sent[0].endpoint)
	assert.Equal(t, entities.MessageStopClicking, f.sender.sent[0].msg.Type)
	assert.Equal(t, entities.MessageClearMarkers, f.sender.sent[1].msg.Type)
}
