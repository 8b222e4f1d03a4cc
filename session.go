package leebox

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/palemoky/leebox/internal/config"
	"github.com/palemoky/leebox/internal/storage"
)

const (
	// DefaultAddress is used until Initialize is called.
	DefaultAddress = "https://localhost:7256/api"

	// DefaultTimeoutSeconds is the prompt timeout used when a caller passes 0.
	DefaultTimeoutSeconds = 30
)

// Journal records room snapshots and group answers, keyed by player id.
// *storage.RedisStore implements it.
type Journal interface {
	SaveRoster(ctx context.Context, roomID string, data *storage.RosterData) error
	SaveAnswers(ctx context.Context, roomID string, data *storage.AnswerData) error
}

// Session holds what every room shares: the service address, one HTTP client,
// the logger and the optional journal. A Session is safe for concurrent use
// and may own any number of rooms; each room authenticates its own requests.
type Session struct {
	mu      sync.RWMutex
	address string

	client         *http.Client
	log            *log.Logger
	journal        Journal
	defaultTimeout int
}

// Option configures a Session.
type Option func(*Session)

// WithAddress sets the service address, same as calling Initialize.
func WithAddress(address string) Option {
	return func(s *Session) { s.address = normalizeAddress(address) }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Session) {
		if c != nil {
			s.client = c
		}
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithJournal records every sync and group answer set.
func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

// WithDefaultTimeout sets the prompt timeout used when a caller passes 0.
func WithDefaultTimeout(seconds int) Option {
	return func(s *Session) {
		if seconds > 0 {
			s.defaultTimeout = seconds
		}
	}
}

// NewSession creates a session pointing at DefaultAddress unless an option
// says otherwise.
func NewSession(opts ...Option) *Session {
	s := &Session{
		address:        DefaultAddress,
		client:         &http.Client{},
		log:            log.New(io.Discard),
		defaultTimeout: DefaultTimeoutSeconds,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FromConfig creates a session from the loaded configuration file. Options
// are applied after the configuration.
func FromConfig(cfg *config.Config, opts ...Option) *Session {
	base := []Option{
		WithAddress(cfg.Service.Address),
		WithHTTPClient(&http.Client{Timeout: cfg.Service.RequestTimeoutDuration()}),
		WithDefaultTimeout(cfg.Room.PromptTimeout),
	}
	return NewSession(append(base, opts...)...)
}

func normalizeAddress(address string) string {
	address = strings.TrimRight(strings.TrimSpace(address), "/")
	if address == "" {
		return DefaultAddress
	}
	return address
}

// Initialize sets the base address for every subsequent request, including
// requests of rooms created earlier.
func (s *Session) Initialize(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.address = normalizeAddress(address)
}

// Address returns the current base address.
func (s *Session) Address() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.address
}

// CreateRoom asks the service for a new room and returns it once the room has
// an id and a secret key.
func (s *Session) CreateRoom(ctx context.Context, maxPlayers int) (*Room, error) {
	room := newRoom(s, maxPlayers)
	if err := room.setup(ctx); err != nil {
		return nil, err
	}
	s.log.Info("room created", "room", room.ID(), "max_players", maxPlayers)
	return room, nil
}

func (s *Session) promptTimeout(seconds int) int {
	if seconds > 0 {
		return seconds
	}
	return s.defaultTimeout
}
