//go:build integration
// +build integration

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/MGTheTrain/tokenization-service/internal/domain/tokens"
	"github.com/MGTheTrain/tokenization-service/internal/infrastructure/persistence"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("TOKENIZATION_DATABASE_DSN", filepath.Join(t.TempDir(), "cli.db"))
}

func TestTokenizeDetokenizeRoundTrip(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "tokenize", "1234 5678 9012 3456", "1111-2222-3333-4444")
	require.NoError(t, err)
	var tokenList []string
	require.NoError(t, json.Unmarshal([]byte(out), &tokenList))
	require.Len(t, tokenList, 2)

	out, err = execute(t, "tokenize", "1234 5678 9012 3456")
	require.NoError(t, err)
	var again []string
	require.NoError(t, json.Unmarshal([]byte(out), &again))
	assert.Equal(t, tokenList[:1], again)

	out, err = execute(t, append([]string{"detokenize"}, tokenList...)...)
	require.NoError(t, err)
	var accountNumbers []string
	require.NoError(t, json.Unmarshal([]byte(out), &accountNumbers))
	assert.Equal(t, []string{"1234 5678 9012 3456", "1111-2222-3333-4444"}, accountNumbers)
}

func TestMappingsCommands(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "tokenize", "1234 5678 9012 3456")
	require.NoError(t, err)
	var tokenList []string
	require.NoError(t, json.Unmarshal([]byte(out), &tokenList))

	out, err = execute(t, "mappings", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "***************3456")
	assert.NotContains(t, out, "1234 5678 9012 3456")

	out, err = execute(t, "mappings", "count")
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":1}`, out)

	_, err = execute(t, "mappings", "delete", tokenList[0])
	require.NoError(t, err)

	_, err = execute(t, "detokenize", tokenList[0])
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Token not found: "+tokenList[0])
}

func TestIdempotencyPurgeCmd(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "idempotency", "purge", "--older-than", "1h")
	require.NoError(t, err)

	var result struct {
		Removed int64 `json:"removed"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.EqualValues(t, 0, result.Removed)
}

func TestCommands_ReadConfigFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	dbPath := filepath.Join(t.TempDir(), "from-file.db")
	configPath := testutil.CreateTestFile(t, "cli.yaml", []byte(fmt.Sprintf(`
database:
  type: sqlite
  dsn: %s
  name: tokenization
`, dbPath)))

	_, err := execute(t, "--config", configPath, "tokenize", "1234 5678 9012 3456")
	require.NoError(t, err)

	out, err := execute(t, "--config", configPath, "-o", "yaml", "mappings", "count")
	require.NoError(t, err)
	assert.Equal(t, "count: 1\n", out)
}

func openTempDB(t *testing.T) (*config.RestConfig, *gorm.DB) {
	t.Helper()
	useTempStore(t)

	cfg, err := config.InitializeRestConfig("")
	require.NoError(t, err)
	db, err := persistence.NewDBConnection(cfg.Database)
	require.NoError(t, err)
	return cfg, db
}

func assertClosed(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.ErrorContains(t, sqlDB.Ping(), "database is closed")
}

func TestNewStore_ClosesDatabaseWhenWiringFails(t *testing.T) {
	cfg, db := openTempDB(t)
	cfg.Events = config.EventSettings{Enabled: true, Topic: "tokens", BufferSize: 4}

	_, err := newStore(cfg, db, testutil.SetupTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create event publisher")
	assertClosed(t, db)
}

func TestStoreServices_CloseReportsFlushFailure(t *testing.T) {
	cfg, db := openTempDB(t)
	store, err := newStore(cfg, db, testutil.SetupTestLogger(t))
	require.NoError(t, err)

	publisher := new(tokens.MockEventPublisher)
	publisher.On("Close").Return(errors.New("broker unreachable"))
	store.publisher = publisher

	err = store.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to flush events: broker unreachable")
	assertClosed(t, db)
}

func TestWithStore_ReturnsCloseErrorAfterCommand(t *testing.T) {
	useTempStore(t)
	rootCmd, err := NewRootCommand()
	require.NoError(t, err)
	opts := &Options{Output: OutputJSON, LogLevel: config.LogLevelError}

	ran := false
	err = withStore(rootCmd, opts, func(store *storeServices) error {
		ran = true
		publisher := new(tokens.MockEventPublisher)
		publisher.On("Close").Return(errors.New("broker unreachable"))
		store.publisher = publisher
		return nil
	})

	assert.True(t, ran)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unreachable")
}

func TestMappingsDelete_WarnsAboutServerCaches(t *testing.T) {
	useTempStore(t)

	out, err := execute(t, "tokenize", "1234 5678 9012 3456")
	require.NoError(t, err)
	var tokenList []string
	require.NoError(t, json.Unmarshal([]byte(out), &tokenList))

	rootCmd, err := NewRootCommand()
	require.NoError(t, err)
	stderr := &bytes.Buffer{}
	rootCmd.SetOut(&bytes.Buffer{})
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs([]string{"mappings", "delete", tokenList[0]})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, stderr.String(), "Deleted mapping for token "+tokenList[0])
	assert.Contains(t, stderr.String(), "from their cache for up to 10m0s")
}
