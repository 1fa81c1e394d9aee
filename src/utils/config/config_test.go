package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/warp-contracts/escrow/src/utils/fault"
)

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) SetupTest() {
	s.T().Setenv("ESCROW_ESCROW_CUSTODY_SECRET", "config-test-custody-secret")
}

func (s *ConfigTestSuite) TestDefaults() {
	config := Default()
	require.NotNil(s.T(), config)
	require.Equal(s.T(), StoreBackendPostgres, config.Store.Backend)
	require.Equal(s.T(), "arbitrator", config.Escrow.Arbitrator)
	require.Equal(s.T(), 30*time.Second, config.StopTimeout)
	require.Equal(s.T(), 30*time.Second, config.Watcher.Interval)
	require.Equal(s.T(), uint16(6379), config.Redis.Port)
	require.False(s.T(), config.Notifier.Enabled)
}

func (s *ConfigTestSuite) TestEnvOverride() {
	s.T().Setenv("ESCROW_STORE_BACKEND", "memory")
	s.T().Setenv("ESCROW_ESCROW_ARBITRATOR", "judge")
	s.T().Setenv("ESCROW_WATCHER_INTERVAL", "5s")

	config, err := Load("")
	require.Nil(s.T(), err)
	require.Equal(s.T(), StoreBackendMemory, config.Store.Backend)
	require.Equal(s.T(), "judge", config.Escrow.Arbitrator)
	require.Equal(s.T(), 5*time.Second, config.Watcher.Interval)
}

func (s *ConfigTestSuite) TestFile() {
	path := filepath.Join(s.T().TempDir(), "config.json")
	err := os.WriteFile(path, []byte(`{"LogLevel":"info","Escrow":{"Arbitrator":"court"},"Database":{"Port":5432}}`), 0o600)
	require.Nil(s.T(), err)

	config, err := Load(path)
	require.Nil(s.T(), err)
	require.Equal(s.T(), "info", config.LogLevel)
	require.Equal(s.T(), "court", config.Escrow.Arbitrator)
	require.Equal(s.T(), uint16(5432), config.Database.Port)
	require.Equal(s.T(), "escrow", config.Database.Name)
}

func (s *ConfigTestSuite) TestValidation() {
	s.T().Setenv("ESCROW_STORE_BACKEND", "sqlite")
	_, err := Load("")
	require.ErrorIs(s.T(), err, ErrUnknownStoreBackend)
}

func (s *ConfigTestSuite) TestReservedArbitrator() {
	s.T().Setenv("ESCROW_ESCROW_ARBITRATOR", "custody-authority/abc")
	_, err := Load("")
	require.ErrorIs(s.T(), err, ErrReservedIdentity)
}

func (s *ConfigTestSuite) TestReservedWatcherIdentity() {
	s.T().Setenv("ESCROW_WATCHER_IDENTITY", "custody/escrow-1")
	_, err := Load("")
	require.ErrorIs(s.T(), err, ErrReservedIdentity)
	require.Equal(s.T(), fault.Validation, fault.KindOf(err))
}

func (s *ConfigTestSuite) TestDevelopmentSecret() {
	s.T().Setenv("ESCROW_ESCROW_CUSTODY_SECRET", DevelopmentCustodySecret)
	_, err := Load("")
	require.ErrorIs(s.T(), err, ErrDevelopmentCustodySecret)

	s.T().Setenv("ESCROW_IS_DEVELOPMENT", "true")
	config, err := Load("")
	require.Nil(s.T(), err)
	require.True(s.T(), config.IsDevelopment)
	require.Equal(s.T(), DevelopmentCustodySecret, config.Escrow.CustodySecret)
}

func (s *ConfigTestSuite) TestDefaultIsNotValidated() {
	s.T().Setenv("ESCROW_ESCROW_CUSTODY_SECRET", DevelopmentCustodySecret)
	config := Default()
	require.NotNil(s.T(), config)
	require.ErrorIs(s.T(), config.Validate(), ErrDevelopmentCustodySecret)
}

func (s *ConfigTestSuite) TestShortSecret() {
	s.T().Setenv("ESCROW_ESCROW_CUSTODY_SECRET", "short")
	_, err := Load("")
	require.ErrorIs(s.T(), err, ErrCustodySecretShort)
}
