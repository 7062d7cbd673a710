package hub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mationai/spe/internal/net/proto"
	"github.com/mationai/spe/internal/scene"
	"github.com/mationai/spe/internal/sim"
	"github.com/mationai/spe/internal/telemetry"
	"github.com/mationai/spe/internal/world"
	"github.com/mationai/spe/logging"
	"github.com/mationai/spe/logging/lifecycle"
)

const defaultWriteWait = 5 * time.Second

// ErrHalted prefixes the log line written when the world stops on an
// invariant violation.
var ErrHalted = errors.New("simulation halted")

// Config tunes the hub. A zero TickRate uses the scene's world tick rate.
type Config struct {
	TickRate        int
	CatchupMaxTicks int
	WriteWait       time.Duration
	Logger          telemetry.Logger
	Metrics         telemetry.Metrics
}

// DefaultConfig returns the hub defaults.
func DefaultConfig() Config {
	return Config{WriteWait: defaultWriteWait}
}

// Hub owns the running world and the snapshot subscribers.
type Hub struct {
	mu          sync.Mutex
	cfg         Config
	world       *world.World
	file        scene.File
	halted      error
	subscribers map[string]*Subscriber
	nextClient  atomic.Uint64
	resets      chan struct{}

	publisher logging.Publisher
	logger    telemetry.Logger
	telemetry *telemetryCounters
}

// Subscriber is one websocket connection receiving state broadcasts. Writes
// to its connection are serialized.
type Subscriber struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex
}

// ID identifies the subscriber in logs.
func (s *Subscriber) ID() string {
	return s.id
}

// Diagnostics is served by the diagnostics endpoint.
type Diagnostics struct {
	Scene       string            `json:"scene"`
	Tick        uint64            `json:"tick"`
	Bodies      int               `json:"bodies"`
	Groups      int               `json:"groups"`
	Subscribers int               `json:"subscribers"`
	Halted      string            `json:"halted,omitempty"`
	Telemetry   telemetrySnapshot `json:"telemetry"`
}

// New builds the initial world from file.
func New(cfg Config, pub logging.Publisher, file scene.File) (*Hub, error) {
	if cfg.WriteWait <= 0 {
		cfg.WriteWait = defaultWriteWait
	}
	if pub == nil {
		pub = logging.NopPublisher()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	h := &Hub{
		cfg:         cfg,
		subscribers: make(map[string]*Subscriber),
		resets:      make(chan struct{}, 1),
		publisher:   pub,
		logger:      logger,
		telemetry:   newTelemetryCounters(cfg.Metrics),
	}
	if err := h.Reset(file); err != nil {
		return nil, err
	}
	return h, nil
}

// Reset replaces the running world with one built from file. On error the
// current world keeps running.
func (h *Hub) Reset(file scene.File) error {
	next, err := scene.Build(file, world.Deps{Publisher: h.publisher})
	if err != nil {
		lifecycle.SceneRejected(context.Background(), h.publisher, h.Tick(), lifecycle.SceneRejectedPayload{
			Name:   file.Name,
			Reason: err.Error(),
		}, nil)
		return fmt.Errorf("scene %q: %w", file.Name, err)
	}

	h.mu.Lock()
	h.world = next
	h.file = file
	h.halted = nil
	snapshot := next.Snapshot()
	groups := len(next.Groups())
	h.mu.Unlock()

	select {
	case h.resets <- struct{}{}:
	default:
	}

	lifecycle.SceneLoaded(context.Background(), h.publisher, 0, lifecycle.SceneLoadedPayload{
		Name:   file.Name,
		Bodies: len(snapshot.Bodies),
		Groups: groups,
	}, nil)
	h.broadcast(snapshot)
	return nil
}

// Restart rebuilds the current scene from its document.
func (h *Hub) Restart() error {
	h.mu.Lock()
	file := h.file
	h.mu.Unlock()
	return h.Reset(file)
}

// Scene returns the document the running world was built from.
func (h *Hub) Scene() scene.File {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.file
}

// Advance steps the world once and broadcasts the result. It satisfies
// sim.Engine.
func (h *Hub) Advance(tick sim.LoopTickContext) error {
	h.mu.Lock()
	if h.halted != nil {
		err := h.halted
		h.mu.Unlock()
		return err
	}
	report, err := h.world.Step(tick.Delta)
	if err != nil {
		h.halted = err
	}
	snapshot := h.world.Snapshot()
	h.mu.Unlock()

	h.telemetry.RecordStep(report, err)
	if err != nil {
		return err
	}
	h.broadcast(snapshot)
	return nil
}

// Run drives the simulation until ctx is cancelled. A Reset restarts the
// loop so a new tick rate takes effect; when the world halts the hub stops
// stepping until Reset installs a new world.
func (h *Hub) Run(ctx context.Context) error {
	select {
	case <-h.resets:
	default:
	}

	for {
		loopCtx, cancel := context.WithCancel(ctx)
		restarted := make(chan struct{})
		go func() {
			select {
			case <-h.resets:
				close(restarted)
				cancel()
			case <-loopCtx.Done():
			}
		}()

		err := h.newLoop().Run(loopCtx)
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		if err == nil {
			continue
		}
		h.logger.Printf("%v: %v", ErrHalted, err)

		select {
		case <-ctx.Done():
			return nil
		case <-restarted:
		case <-h.resets:
		}
	}
}

func (h *Hub) newLoop() *sim.Loop {
	return sim.NewLoop(h, sim.LoopConfig{
		TickRate:        h.tickRate(),
		CatchupMaxTicks: h.cfg.CatchupMaxTicks,
	}, sim.Deps{
		Logger:    h.logger,
		Metrics:   h.cfg.Metrics,
		Publisher: h.publisher,
	}, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			h.telemetry.RecordTickDuration(result.Duration, result.Overrun)
		},
	})
}

func (h *Hub) tickRate() int {
	if h.cfg.TickRate > 0 {
		return h.cfg.TickRate
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.Config().Normalized().TickRate
}

// Tick returns the current world tick.
func (h *Hub) Tick() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.world == nil {
		return 0
	}
	return h.world.Tick()
}

// Snapshot copies the current world state.
func (h *Hub) Snapshot() world.Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.world.Snapshot()
}

// Halted reports the error that stopped the world, if any.
func (h *Hub) Halted() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.halted
}

// Subscribe registers a websocket connection and returns the snapshot the
// caller should send first.
func (h *Hub) Subscribe(conn *websocket.Conn) (*Subscriber, world.Snapshot) {
	id := fmt.Sprintf("client-%d", h.nextClient.Add(1))
	sub := &Subscriber{id: id, conn: conn}

	h.mu.Lock()
	h.subscribers[id] = sub
	count := len(h.subscribers)
	snapshot := h.world.Snapshot()
	h.mu.Unlock()

	h.telemetry.RecordSubscribers(count)
	remote := ""
	if conn != nil {
		remote = conn.RemoteAddr().String()
	}
	lifecycle.ClientConnected(context.Background(), h.publisher, snapshot.Tick, clientRef(id), lifecycle.ClientPayload{Remote: remote}, nil)
	return sub, snapshot
}

// Unsubscribe removes the subscriber and closes its connection.
func (h *Hub) Unsubscribe(sub *Subscriber, reason string) {
	if sub == nil {
		return
	}
	h.mu.Lock()
	_, ok := h.subscribers[sub.id]
	if ok {
		delete(h.subscribers, sub.id)
	}
	count := len(h.subscribers)
	h.mu.Unlock()

	if !ok {
		return
	}
	if sub.conn != nil {
		sub.conn.Close()
	}
	h.telemetry.RecordSubscribers(count)
	lifecycle.ClientDisconnected(context.Background(), h.publisher, h.Tick(), clientRef(sub.id), lifecycle.ClientPayload{Reason: reason}, nil)
}

// SendSnapshot writes one state message to a single subscriber.
func (h *Hub) SendSnapshot(sub *Subscriber, snapshot world.Snapshot) error {
	data, err := encodeState(snapshot)
	if err != nil {
		return err
	}
	return h.write(sub, data)
}

// SendJSON writes any message to a single subscriber.
func (h *Hub) SendJSON(sub *Subscriber, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return h.write(sub, data)
}

// Diagnostics summarizes the hub for operators.
func (h *Hub) Diagnostics() Diagnostics {
	h.mu.Lock()
	diag := Diagnostics{
		Scene:       h.file.Name,
		Tick:        h.world.Tick(),
		Bodies:      len(h.world.Bodies()),
		Groups:      len(h.world.Groups()),
		Subscribers: len(h.subscribers),
	}
	if h.halted != nil {
		diag.Halted = h.halted.Error()
	}
	h.mu.Unlock()
	diag.Telemetry = h.telemetry.Snapshot()
	return diag
}

func (h *Hub) broadcast(snapshot world.Snapshot) {
	h.mu.Lock()
	subs := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()
	if len(subs) == 0 {
		return
	}

	data, err := encodeState(snapshot)
	if err != nil {
		h.logger.Printf("failed to marshal state message: %v", err)
		return
	}

	sent := 0
	for _, sub := range subs {
		if err := h.write(sub, data); err != nil {
			h.logger.Printf("failed to send update to %s: %v", sub.id, err)
			h.Unsubscribe(sub, "write failed")
			continue
		}
		sent++
	}
	h.telemetry.RecordBroadcast(len(data), sent)
}

func (h *Hub) write(sub *Subscriber, data []byte) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	sub.conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteWait))
	return sub.conn.WriteMessage(websocket.TextMessage, data)
}

func encodeState(snapshot world.Snapshot) ([]byte, error) {
	return proto.EncodeState(snapshot, time.Now())
}

func clientRef(id string) logging.EntityRef {
	return logging.EntityRef{ID: id, Kind: logging.EntityKindClient}
}
