package neo

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/bjartek/invokepanel/pkg/express"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// Connection identifies the blockchain the panel is talking to.
type Connection struct {
	Blockchain string // Display name, the express file name for local networks
	URL        string
	Local      bool     // The network is an express instance controlled by this machine
	Wallets    []string // Wallet names of a local network, in config order
	Accounts   *express.AccountRegistry
	Client     Client
}

// ManagerConfig selects the network to connect to. An express config wins
// over a plain RPC URL; a plain URL is always treated as a remote network.
type ManagerConfig struct {
	ExpressConfig string
	RPCURL        string
}

// Dialer opens a client for a JSON-RPC endpoint.
type Dialer func(ctx context.Context, url string) (Client, func(), error)

// Manager owns the active connection and establishes it on demand.
type Manager struct {
	mu     sync.Mutex
	cfg    ManagerConfig
	fs     afero.Fs
	probe  PortProbe
	dial   Dialer
	logger zerolog.Logger

	active  *Connection
	closeFn func()
}

type ManagerOption func(*Manager)

// WithPortProbe replaces the gopsutil based port probe.
func WithPortProbe(p PortProbe) ManagerOption {
	return func(m *Manager) { m.probe = p }
}

// WithDialer replaces the go-ethereum rpc dialer.
func WithDialer(d Dialer) ManagerOption {
	return func(m *Manager) { m.dial = d }
}

func NewManager(cfg ManagerConfig, fs afero.Fs, logger zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		cfg:    cfg,
		fs:     fs,
		probe:  SystemPortProbe{},
		dial:   dialRPC,
		logger: logger.With().Str("component", "connection").Logger(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func dialRPC(ctx context.Context, url string) (Client, func(), error) {
	c, err := Dial(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if _, err := c.GetVersion(ctx); err != nil {
		c.Close()
		return nil, nil, err
	}
	return c, c.Close, nil
}

// Active returns the current connection or nil.
func (m *Manager) Active() *Connection {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Connect returns the active connection, establishing one if there is none.
func (m *Manager) Connect(ctx context.Context) (*Connection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return m.active, nil
	}

	var conn *Connection
	var err error
	switch {
	case m.cfg.ExpressConfig != "":
		conn, err = m.connectExpress(ctx)
	case m.cfg.RPCURL != "":
		conn, err = m.connectRemote(ctx)
	default:
		err = errors.New("no network configured: set an express config or an rpc url")
	}
	if err != nil {
		return nil, err
	}

	m.active = conn
	m.logger.Info().
		Str("blockchain", conn.Blockchain).
		Str("url", conn.URL).
		Bool("local", conn.Local).
		Msg("Connected to node")
	return conn, nil
}

func (m *Manager) connectExpress(ctx context.Context) (*Connection, error) {
	cfg, err := express.Load(m.fs, m.cfg.ExpressConfig)
	if err != nil {
		return nil, err
	}

	port, err := cfg.RPCPort()
	if err != nil {
		return nil, err
	}

	listening, err := m.probe.Listening(ctx, port)
	if err != nil {
		m.logger.Debug().Err(err).Int("port", port).Msg("Port probe failed, dialing anyway")
	} else if !listening {
		return nil, errors.Newf("no node is listening on port %d, is neo-express running?", port)
	}

	url := fmt.Sprintf("http://127.0.0.1:%d", port)
	client, closeFn, err := m.dial(ctx, url)
	if err != nil {
		return nil, err
	}
	m.closeFn = closeFn

	return &Connection{
		Blockchain: filepath.Base(m.cfg.ExpressConfig),
		URL:        url,
		Local:      true,
		Wallets:    cfg.WalletNames(),
		Accounts:   express.NewAccountRegistry(cfg),
		Client:     client,
	}, nil
}

func (m *Manager) connectRemote(ctx context.Context) (*Connection, error) {
	client, closeFn, err := m.dial(ctx, m.cfg.RPCURL)
	if err != nil {
		return nil, err
	}
	m.closeFn = closeFn

	return &Connection{
		Blockchain: m.cfg.RPCURL,
		URL:        m.cfg.RPCURL,
		Client:     client,
		Accounts:   express.NewAccountRegistry(nil),
	}, nil
}

// Disconnect drops the active connection so the next Connect dials again.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closeFn != nil {
		m.closeFn()
		m.closeFn = nil
	}
	m.active = nil
}
