package database

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vivek-portfolio/portfolio-api/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func newMockRepository(mt *mtest.T) (*StatusCheckRepository, string) {
	db := &MongoDB{Client: mt.Client, Database: mt.DB}
	return NewStatusCheckRepository(db), mt.DB.Name() + "." + CollectionStatusChecks
}

func TestStatusCheckRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("inserts document", func(mt *mtest.T) {
		repo, _ := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		check := &model.StatusCheck{
			ID:         "0b7f4a3e-3c57-4c1a-9a43-1c2f0e7e5a10",
			ClientName: "alice",
			Timestamp:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		if err := repo.Create(context.Background(), check); err != nil {
			t.Fatalf("expected insert to succeed, got %v", err)
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "insert" {
			t.Fatalf("expected an insert command, got %+v", started)
		}

		if coll := started.Command.Lookup("insert").StringValue(); coll != CollectionStatusChecks {
			t.Fatalf("expected insert into %s, got %s", CollectionStatusChecks, coll)
		}
	})

	mt.Run("wraps write errors", func(mt *mtest.T) {
		repo, _ := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := repo.Create(context.Background(), &model.StatusCheck{ID: "dup", ClientName: "bob"})
		if err == nil {
			t.Fatalf("expected insert to fail")
		}
		if !strings.Contains(err.Error(), "failed to create status check") {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if !mongo.IsDuplicateKeyError(err) {
			t.Fatalf("expected driver error to be preserved, got %v", err)
		}
	})
}

func TestStatusCheckRepositoryList(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("decodes documents", func(mt *mtest.T) {
		repo, ns := newMockRepository(mt)
		first := time.Date(2025, 3, 1, 12, 0, 0, 123000000, time.UTC)
		second := first.Add(time.Minute)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "id", Value: "id-1"},
				{Key: "client_name", Value: "alice"},
				{Key: "timestamp", Value: primitive.NewDateTimeFromTime(first)},
			},
			bson.D{
				{Key: "id", Value: "id-2"},
				{Key: "client_name", Value: "bob"},
				{Key: "timestamp", Value: primitive.NewDateTimeFromTime(second)},
			},
		))

		checks, err := repo.List(context.Background(), 1000)
		if err != nil {
			t.Fatalf("expected list to succeed, got %v", err)
		}
		if len(checks) != 2 {
			t.Fatalf("expected 2 status checks, got %d", len(checks))
		}
		if checks[0].ID != "id-1" || checks[0].ClientName != "alice" || !checks[0].Timestamp.Equal(first) {
			t.Fatalf("unexpected first record: %+v", checks[0])
		}
		if checks[1].ID != "id-2" || checks[1].ClientName != "bob" || !checks[1].Timestamp.Equal(second) {
			t.Fatalf("unexpected second record: %+v", checks[1])
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "find" {
			t.Fatalf("expected a find command, got %+v", started)
		}
		if limit := started.Command.Lookup("limit").Int64(); limit != 1000 {
			t.Fatalf("expected limit 1000, got %d", limit)
		}
	})

	mt.Run("returns empty slice", func(mt *mtest.T) {
		repo, ns := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		checks, err := repo.List(context.Background(), 1000)
		if err != nil {
			t.Fatalf("expected list to succeed, got %v", err)
		}
		if checks == nil || len(checks) != 0 {
			t.Fatalf("expected empty non-nil slice, got %#v", checks)
		}
	})

	mt.Run("wraps command errors", func(mt *mtest.T) {
		repo, _ := newMockRepository(mt)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Name:    "BadValue",
			Message: "query failed",
		}))

		_, err := repo.List(context.Background(), 1000)
		if err == nil {
			t.Fatalf("expected list to fail")
		}
		var cmdErr mongo.CommandError
		if !errors.As(err, &cmdErr) || cmdErr.Code != 2 {
			t.Fatalf("expected wrapped command error, got %v", err)
		}
	})
}

func TestClientOptions(t *testing.T) {
	opts := ClientOptions(Options{
		URI:                    "mongodb://localhost:27017",
		Database:               "portfolio",
		TLS:                    true,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
	})

	if opts.TLSConfig == nil {
		t.Fatalf("expected TLS config when TLS is enabled")
	}
	if opts.TLSConfig.InsecureSkipVerify {
		t.Fatalf("expected certificate verification to stay enabled")
	}
	if opts.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Fatalf("expected TLS 1.2 minimum, got %x", opts.TLSConfig.MinVersion)
	}
	if opts.RetryWrites == nil || !*opts.RetryWrites {
		t.Fatalf("expected retryable writes")
	}
	if opts.ConnectTimeout == nil || *opts.ConnectTimeout != 10*time.Second {
		t.Fatalf("expected connect timeout 10s, got %v", opts.ConnectTimeout)
	}
	if opts.ServerSelectionTimeout == nil || *opts.ServerSelectionTimeout != 5*time.Second {
		t.Fatalf("expected server selection timeout 5s, got %v", opts.ServerSelectionTimeout)
	}
}

func TestClientOptionsWithoutTLS(t *testing.T) {
	opts := ClientOptions(Options{URI: "mongodb://localhost:27017"})
	if opts.TLSConfig != nil {
		t.Fatalf("expected no TLS config when TLS is disabled")
	}
}

// writeCAFile writes a self-signed CA certificate and returns its path
func writeCAFile(t *testing.T) string {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "portfolio test CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}), 0o600); err != nil {
		t.Fatalf("failed to write CA file: %v", err)
	}
	return path
}

func TestClientOptionsKeepsURITLSSettings(t *testing.T) {
	caFile := writeCAFile(t)

	opts := ClientOptions(Options{
		URI: "mongodb://db.internal:27017/?tls=true&tlsCAFile=" + caFile,
		TLS: true,
	})

	if opts.TLSConfig == nil {
		t.Fatalf("expected TLS config")
	}
	if opts.TLSConfig.RootCAs == nil {
		t.Fatalf("expected CA from tlsCAFile to be kept")
	}
	if opts.TLSConfig.MinVersion != tls.VersionTLS12 {
		t.Fatalf("expected TLS 1.2 minimum, got %x", opts.TLSConfig.MinVersion)
	}
}

func TestClientOptionsRespectsURITLSDisabled(t *testing.T) {
	for _, uri := range []string{
		"mongodb://localhost:27017/?tls=false",
		"mongodb://localhost:27017/?ssl=false&retryWrites=true",
	} {
		opts := ClientOptions(Options{URI: uri, TLS: true})
		if opts.TLSConfig != nil {
			t.Fatalf("%s: expected TLS to stay disabled", uri)
		}
	}
}
