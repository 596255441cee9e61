package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jsonapi/backend/internal/config"
	"jsonapi/backend/internal/db"
	httpx "jsonapi/backend/internal/http"
)

// State is the lifecycle position of an Instance.
type State int32

const (
	Starting State = iota
	Listening
)

func (s State) String() string {
	switch s {
	case Starting:
		return "STARTING"
	case Listening:
		return "LISTENING"
	default:
		return "UNKNOWN"
	}
}

// Options is the explicit startup input for one server instance.
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	// Dial opens the database. Nil means db.Open.
	Dial db.Dialer
	// Addr overrides the listen address, which defaults to ":<port>".
	Addr string
}

// Instance is one running server built by Start.
type Instance struct {
	state atomic.Int32
	ln    net.Listener
	srv   *http.Server
	conn  *db.Conn
	log   zerolog.Logger
}

// Start connects to the database in the background, registers routes and
// binds the listener. It does not wait for the database.
func Start(ctx context.Context, opts Options) (*Instance, error) {
	if opts.Config == nil {
		return nil, errors.New("app: nil config")
	}
	inst := &Instance{log: opts.Logger}
	inst.state.Store(int32(Starting))

	inst.conn = db.Connect(ctx, opts.Config.Settings.DB, opts.Dial)
	inst.conn.OnFailure(func(err error) {
		inst.log.Error().Err(err).Str("env", opts.Config.Env).Msg("database connection failed")
	})
	go func() {
		<-inst.conn.Done()
		if inst.conn.Err() == nil {
			inst.log.Info().Str("env", opts.Config.Env).Msg("database connected")
		}
	}()

	s := httpx.NewServer(inst.conn)

	addr := opts.Addr
	if addr == "" {
		addr = ":" + strconv.Itoa(opts.Config.Port)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("app: listen on %s: %w", addr, err)
	}
	inst.ln = ln
	inst.srv = &http.Server{Handler: s.R}
	inst.state.Store(int32(Listening))

	inst.log.Info().Int("port", inst.Port()).Msgf("Server is running on port %d", inst.Port())
	return inst, nil
}

// Run starts an instance and serves until the listener fails.
func Run(ctx context.Context, opts Options) error {
	inst, err := Start(ctx, opts)
	if err != nil {
		return err
	}
	return inst.Serve()
}

// Serve accepts connections until Close is called.
func (i *Instance) Serve() error {
	err := i.srv.Serve(i.ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close stops the listener immediately.
func (i *Instance) Close() error { return i.srv.Close() }

func (i *Instance) Addr() net.Addr { return i.ln.Addr() }

func (i *Instance) Port() int {
	if tcp, ok := i.ln.Addr().(*net.TCPAddr); ok {
		return tcp.Port
	}
	return 0
}

func (i *Instance) State() State { return State(i.state.Load()) }

func (i *Instance) DB() *db.Conn { return i.conn }
