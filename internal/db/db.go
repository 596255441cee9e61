package db

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const connectTimeout = 10 * time.Second

// ErrUnsupportedScheme is returned by Open for uris it has no driver for.
var ErrUnsupportedScheme = errors.New("db: unsupported uri scheme")

// Client is an established database handle.
type Client interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// Dialer opens a Client for uri.
type Dialer func(ctx context.Context, uri string) (Client, error)

// Open dials uri and confirms the connection with a ping. The driver is
// chosen from the uri scheme; the rest of the uri is left to the driver,
// since mongo uris may list several hosts.
func Open(ctx context.Context, uri string) (Client, error) {
	scheme, _, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("%w: no scheme in uri", ErrUnsupportedScheme)
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch strings.ToLower(scheme) {
	case "mongodb", "mongodb+srv":
		return openMongo(ctx, uri)
	case "postgres", "postgresql":
		return openPostgres(ctx, uri)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
	}
}

type mongoClient struct{ c *mongo.Client }

func openMongo(ctx context.Context, uri string) (Client, error) {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("db: mongo connect: %w", err)
	}
	mc := &mongoClient{c: c}
	if err := mc.Ping(ctx); err != nil {
		_ = c.Disconnect(context.Background())
		return nil, fmt.Errorf("db: mongo ping: %w", err)
	}
	return mc, nil
}

func (m *mongoClient) Ping(ctx context.Context) error  { return m.c.Ping(ctx, readpref.Primary()) }
func (m *mongoClient) Close(ctx context.Context) error { return m.c.Disconnect(ctx) }

type pgClient struct{ pool *pgxpool.Pool }

func openPostgres(ctx context.Context, uri string) (Client, error) {
	cfg, err := pgxpool.ParseConfig(uri)
	if err != nil {
		return nil, fmt.Errorf("db: postgres config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db: postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: postgres ping: %w", err)
	}
	return &pgClient{pool: pool}, nil
}

func (p *pgClient) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }

func (p *pgClient) Close(context.Context) error {
	p.pool.Close()
	return nil
}
