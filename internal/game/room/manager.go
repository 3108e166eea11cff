package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/finishlast/officesim/internal/game/catalog"
	"github.com/finishlast/officesim/internal/game/office"
	"github.com/finishlast/officesim/internal/game/rng"
)

// EmptyRoomTTL is how long an empty room keeps simulating before teardown.
const EmptyRoomTTL = 5 * time.Minute

// DefaultMaxRooms bounds concurrent rooms per server.
const DefaultMaxRooms = 20

// ErrTooManyRooms is returned when the room cap is reached.
var ErrTooManyRooms = errors.New("room limit reached")

// ManagerOptions configures a Manager.
type ManagerOptions struct {
	Catalog  *catalog.Catalog
	Layout   *office.Layout
	Roster   []*catalog.NPCConfig
	Logger   *zap.Logger
	Recorder WeeklyRecorder
	// NewSource supplies each room its own randomness stream.
	NewSource func() rng.Source
	// MaxRooms defaults to DefaultMaxRooms when zero.
	MaxRooms int
	// EmptyTTL defaults to EmptyRoomTTL when zero.
	EmptyTTL time.Duration
}

type managedRoom struct {
	room     *Room
	cancel   context.CancelFunc
	teardown *time.Timer
}

// Manager creates rooms on demand and tears down rooms that stay empty.
type Manager struct {
	opts ManagerOptions
	log  *zap.Logger

	mu    sync.Mutex
	rooms map[string]*managedRoom
}

// NewManager creates a Manager.
//
// Precondition: opts.Catalog, opts.Layout, opts.Logger, and opts.NewSource
// must not be nil.
func NewManager(opts ManagerOptions) *Manager {
	if opts.Catalog == nil || opts.Layout == nil || opts.Logger == nil || opts.NewSource == nil {
		panic("room.NewManager: catalog, layout, logger, and source factory must not be nil")
	}
	if opts.MaxRooms == 0 {
		opts.MaxRooms = DefaultMaxRooms
	}
	if opts.EmptyTTL == 0 {
		opts.EmptyTTL = EmptyRoomTTL
	}
	return &Manager{
		opts:  opts,
		log:   opts.Logger,
		rooms: make(map[string]*managedRoom),
	}
}

// GetOrCreate returns the room with the given id, creating and starting it
// when absent. Joining an existing empty room cancels its pending teardown.
func (m *Manager) GetOrCreate(roomID string) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if managed, ok := m.rooms[roomID]; ok {
		if managed.teardown != nil {
			managed.teardown.Stop()
			managed.teardown = nil
		}
		return managed.room, nil
	}

	if len(m.rooms) >= m.opts.MaxRooms {
		return nil, ErrTooManyRooms
	}

	r := New(Options{
		ID:       roomID,
		Catalog:  m.opts.Catalog,
		Layout:   m.opts.Layout,
		Roster:   m.opts.Roster,
		RNG:      m.opts.NewSource(),
		Logger:   m.opts.Logger,
		Recorder: m.opts.Recorder,
		OnEmpty:  m.scheduleTeardown,
	})

	ctx, cancel := context.WithCancel(context.Background())
	m.rooms[roomID] = &managedRoom{room: r, cancel: cancel}
	go r.Run(ctx)

	m.log.Info("room created", zap.String("room", roomID), zap.Int("rooms", len(m.rooms)))
	return r, nil
}

// scheduleTeardown arms the empty-room timer. A player joining before it
// fires disarms it in GetOrCreate.
func (m *Manager) scheduleTeardown(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	managed, ok := m.rooms[roomID]
	if !ok || managed.teardown != nil {
		return
	}

	managed.teardown = time.AfterFunc(m.opts.EmptyTTL, func() {
		m.remove(roomID)
	})
	m.log.Info("room empty, teardown scheduled",
		zap.String("room", roomID),
		zap.Duration("ttl", m.opts.EmptyTTL))
}

func (m *Manager) remove(roomID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	managed, ok := m.rooms[roomID]
	if !ok {
		return
	}
	// A join may have raced the timer; keep occupied rooms alive.
	if managed.room.PlayerCount() > 0 {
		managed.teardown = nil
		return
	}

	managed.cancel()
	delete(m.rooms, roomID)
	m.log.Info("room destroyed", zap.String("room", roomID), zap.Int("rooms", len(m.rooms)))
}

// RoomCount returns the number of live rooms.
func (m *Manager) RoomCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rooms)
}

// Close stops every room. Used on server shutdown.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, managed := range m.rooms {
		if managed.teardown != nil {
			managed.teardown.Stop()
		}
		managed.cancel()
		delete(m.rooms, id)
	}
}
