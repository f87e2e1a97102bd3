// Package redis wraps the go-redis client used by the remote character store
package redis

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/rpg-sheet/internal/errors"
)

// Options configures Redis client behavior
type Options struct {
	PoolSize        int
	MinIdleConns    int
	ConnMaxIdleTime time.Duration
	MaxRetries      int
	UseTLS          bool
	Password        string
	DB              int
}

// ConnectConfig picks a topology: sentinel when MasterName is set, cluster
// when more than one address is given, single instance otherwise.
type ConnectConfig struct {
	Addrs      []string
	MasterName string
	Options    *Options
}

// Validate checks the config can produce a client
func (c *ConnectConfig) Validate() error {
	if len(c.Addrs) == 0 {
		return errors.InvalidArgument("redis: at least one address is required")
	}
	return nil
}

// Connect returns a client for the configured topology. Redis connects
// lazily, so no network I/O happens here.
func Connect(cfg *ConnectConfig) (Client, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("redis: config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case cfg.MasterName != "":
		return NewFailoverClient(cfg.MasterName, cfg.Addrs, cfg.Options)
	case len(cfg.Addrs) > 1:
		return NewClusterClient(cfg.Addrs, cfg.Options)
	default:
		return NewClient(cfg.Addrs[0], cfg.Options)
	}
}

// NewClient creates a Redis client for a single instance
func NewClient(endpoint string, opts *Options) (Client, error) {
	if endpoint == "" {
		return nil, errors.InvalidArgument("redis: endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	redisOpts := &redis.Options{
		Addr:            endpoint,
		Password:        opts.Password,
		DB:              opts.DB,
		MinIdleConns:    opts.MinIdleConns,
		PoolSize:        opts.PoolSize,
		ConnMaxIdleTime: opts.ConnMaxIdleTime,
		MaxRetries:      opts.MaxRetries,
	}

	if opts.UseTLS {
		redisOpts.TLSConfig = tlsConfig()
	}

	return redis.NewClient(redisOpts), nil
}

// NewClusterClient creates a Redis client for cluster mode
func NewClusterClient(endpoints []string, opts *Options) (Client, error) {
	if len(endpoints) == 0 {
		return nil, errors.InvalidArgument("redis: at least one endpoint is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	clusterOpts := &redis.ClusterOptions{
		Addrs:        endpoints,
		Password:     opts.Password,
		MinIdleConns: opts.MinIdleConns,
		PoolSize:     opts.PoolSize,
		MaxRetries:   opts.MaxRetries,
	}

	if opts.UseTLS {
		clusterOpts.TLSConfig = tlsConfig()
	}

	return redis.NewClusterClient(clusterOpts), nil
}

// NewFailoverClient creates a Redis client with Sentinel support
func NewFailoverClient(masterName string, sentinelAddrs []string, opts *Options) (Client, error) {
	if masterName == "" {
		return nil, errors.InvalidArgument("redis: master name is required")
	}
	if len(sentinelAddrs) == 0 {
		return nil, errors.InvalidArgument("redis: at least one sentinel address is required")
	}

	if opts == nil {
		opts = &Options{}
	}

	failoverOpts := &redis.FailoverOptions{
		MasterName:    masterName,
		SentinelAddrs: sentinelAddrs,
		Password:      opts.Password,
		DB:            opts.DB,
		MinIdleConns:  opts.MinIdleConns,
		PoolSize:      opts.PoolSize,
		MaxRetries:    opts.MaxRetries,
	}

	if opts.UseTLS {
		failoverOpts.TLSConfig = tlsConfig()
	}

	return redis.NewFailoverClient(failoverOpts), nil
}

func tlsConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
}

// Ping checks that the server answers. An unreachable server is
// errors.Unavailable naming the addresses tried.
func Ping(ctx context.Context, client Client, addrs []string) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.Unavailablef("redis at %s is unreachable: %v", strings.Join(addrs, ","), err)
	}
	return nil
}
