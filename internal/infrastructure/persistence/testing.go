//go:build integration
// +build integration

package persistence

import (
	"strings"
	"testing"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/domain/idempotency"
	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Known mappings shared by the repository tests
const (
	TestToken         = "uS8vN3dph7ttuKMHbuk4Hsbbln1aAvLY"
	TestAccountNumber = "1234 5678 9012 3456"
)

// TestContext holds test database and repositories
type TestContext struct {
	DB              *gorm.DB
	TokenRepo       tokens.TokenRepository
	IdempotencyRepo idempotency.Repository
}

// SetupTestDB initializes test database with automatic cleanup
func SetupTestDB(t *testing.T, dbType string) *TestContext {
	t.Helper()

	var settings config.DatabaseSettings
	cleanupFunc := func() {}

	switch dbType {
	case config.SqliteDbType:
		settings = config.DatabaseSettings{
			Type: config.SqliteDbType,
			DSN:  ":memory:",
		}

	case config.PostgresDbType:
		uniqueDBName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		settings = config.DatabaseSettings{
			Type: config.PostgresDbType,
			DSN:  "user=postgres password=postgres host=localhost port=5432 sslmode=disable",
			Name: uniqueDBName,
		}
		cleanupFunc = func() {
			adminDSN := "user=postgres password=postgres host=localhost port=5432 dbname=postgres sslmode=disable"
			_ = DropDatabase(adminDSN, uniqueDBName)
		}

	default:
		t.Fatalf("Unsupported database type: %s", dbType)
	}

	db, err := NewDBConnection(settings)
	require.NoError(t, err, "Failed to create database connection")

	t.Cleanup(func() {
		_ = CloseDB(db)
		cleanupFunc()
	})

	require.NoError(t, Migrate(db), "Failed to migrate schema")

	log := testutil.SetupTestLogger(t)

	tokenRepo, err := NewGormTokenRepository(db, log)
	require.NoError(t, err, "Failed to create token repository")

	idempotencyRepo, err := NewGormIdempotencyRepository(db, log)
	require.NoError(t, err, "Failed to create idempotency repository")

	return &TestContext{
		DB:              db,
		TokenRepo:       tokenRepo,
		IdempotencyRepo: idempotencyRepo,
	}
}

// CreateTestMapping creates a token mapping with the given values
func CreateTestMapping(t *testing.T, token, accountNumber string) *tokens.TokenMapping {
	t.Helper()

	return &tokens.TokenMapping{
		Token:           token,
		AccountNumber:   accountNumber,
		DateTimeCreated: time.Now().UTC(),
	}
}

// CreateTestRecord creates an idempotency record for key
func CreateTestRecord(t *testing.T, key string, created time.Time) *idempotency.Record {
	t.Helper()

	return &idempotency.Record{
		ID:              uuid.NewString(),
		Key:             key,
		Operation:       idempotency.OperationTokenize,
		RequestHash:     strings.Repeat("0f", 32),
		ResponseJSON:    `["` + TestToken + `"]`,
		StatusCode:      200,
		DateTimeCreated: created,
	}
}
