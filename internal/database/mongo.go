package database

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDB represents a MongoDB connection
type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
}

// Options configures the MongoDB connection
type Options struct {
	URI      string
	Database string

	// TLS enforces an encrypted connection with certificate verification unless
	// the URI sets tls=false. TLS options given in the URI are kept.
	TLS                    bool
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration

	// Timeout bounds the initial connect and ping
	Timeout time.Duration
}

// Connect establishes a connection to MongoDB and verifies it with a ping
func Connect(ctx context.Context, opts Options) (*MongoDB, error) {
	slog.Info("Connecting to MongoDB",
		"database", opts.Database,
		"tls", opts.TLS,
	)

	connectCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, ClientOptions(opts))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	slog.Info("Successfully connected to MongoDB")

	return &MongoDB{
		Client:   client,
		Database: client.Database(opts.Database),
	}, nil
}

// ClientOptions builds the driver options: pooled connections, bounded
// connect and server-selection latency, retryable writes and optional TLS.
func ClientOptions(opts Options) *options.ClientOptions {
	clientOptions := options.Client().
		ApplyURI(opts.URI).
		SetMaxPoolSize(100).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(opts.ConnectTimeout).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout).
		SetRetryWrites(true).
		SetRetryReads(true).
		SetCompressors([]string{"snappy"})

	if !opts.TLS {
		return clientOptions
	}

	switch {
	case clientOptions.TLSConfig != nil:
		// keep CA and client certificates configured through the URI
		tlsConfig := clientOptions.TLSConfig.Clone()
		if tlsConfig.MinVersion < tls.VersionTLS12 {
			tlsConfig.MinVersion = tls.VersionTLS12
		}
		clientOptions.SetTLSConfig(tlsConfig)
	case uriDisablesTLS(opts.URI):
		slog.Warn("MONGO_URL disables TLS, ignoring MONGO_TLS")
	default:
		clientOptions.SetTLSConfig(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
	}

	return clientOptions
}

// uriDisablesTLS reports whether the connection string sets tls=false or ssl=false
func uriDisablesTLS(uri string) bool {
	_, rawQuery, ok := strings.Cut(uri, "?")
	if !ok {
		return false
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return false
	}
	for key, values := range query {
		key = strings.ToLower(key)
		if key != "tls" && key != "ssl" {
			continue
		}
		for _, value := range values {
			if strings.EqualFold(value, "false") {
				return true
			}
		}
	}
	return false
}

// Ping checks that the primary is reachable
func (m *MongoDB) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, nil)
}

// Disconnect closes the MongoDB connection
func (m *MongoDB) Disconnect(ctx context.Context) error {
	slog.Info("Disconnecting from MongoDB")

	disconnectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(disconnectCtx); err != nil {
		return fmt.Errorf("failed to disconnect from MongoDB: %w", err)
	}

	slog.Info("Successfully disconnected from MongoDB")
	return nil
}

// GetCollection returns a collection by name
func (m *MongoDB) GetCollection(name string) *mongo.Collection {
	return m.Database.Collection(name)
}

// CollectionStatusChecks holds StatusCheck documents
const CollectionStatusChecks = "status_checks"
