package common_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/op/go-logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/models/common"
	"github.com/theonetwoone/CYBER-repinning/network"
)

const testEnvFile = `LOG_LEVEL=DEBUG
PIN_SERVICE=pinata
PIN_TOKEN=test-token-not-real
INDEXER_URL=https://mainnet-idx.algonode.cloud
IPFS_GATEWAYS=https://ipfs.io/ipfs/,https://dweb.link/ipfs
PIN_PAGE_SIZE=250
PIN_DELETE_DELAY=750ms
PIN_PAGE_DELAY=250ms
VERIFY_TIME_LIMIT=2m
`

func writeTestEnv(t *testing.T, contents string) {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env.test"), []byte(contents), 0644)
	require.Nil(t, err)
	os.Setenv("REPIN_CONFIG_DIR", dir)
	os.Setenv("REPIN_ENV", "test")
	t.Cleanup(func() {
		os.Unsetenv("REPIN_CONFIG_DIR")
		os.Unsetenv("REPIN_ENV")
	})
	// Dirs the config creates on load.
	os.Setenv("HOME", dir)
}

func TestNewConfig(t *testing.T) {
	writeTestEnv(t, testEnvFile+"LOG_DIR=~/logs\nDATA_DIR=~/data\n")
	config := common.NewConfig()
	assert.Equal(t, "test", config.ConfigName)
	assert.Equal(t, logging.DEBUG, config.LogLevel)
	assert.Equal(t, constants.SvcPinata, config.PinService)
	assert.Equal(t, 250, config.PinPageSize)
	assert.Equal(t, 750*time.Millisecond, config.PinDeleteDelay)
	assert.Equal(t, 250*time.Millisecond, config.PinPageDelay)
	assert.Equal(t, 2*time.Minute, config.VerifyTimeLimit)

	// Gateways are normalized to end with a slash.
	require.Equal(t, 2, len(config.Gateways))
	assert.Equal(t, "https://ipfs.io/ipfs/", config.Gateways[0])
	assert.Equal(t, "https://dweb.link/ipfs/", config.Gateways[1])

	// Tilde paths expand and the dirs exist.
	assert.NotContains(t, config.LogDir, "~")
	stat, err := os.Stat(config.LogDir)
	require.Nil(t, err)
	assert.True(t, stat.IsDir())
}

func TestConfigDefaults(t *testing.T) {
	writeTestEnv(t, "PIN_SERVICE=filebase\nPIN_TOKEN=abc\nLOG_DIR=~/logs\nDATA_DIR=~/data\n")
	config := common.NewConfig()
	assert.Equal(t, constants.PublicGateways, config.Gateways)
	assert.Equal(t, 10*time.Second, config.GatewayTimeout)
	assert.Equal(t, "https://mainnet-idx.algonode.cloud", config.IndexerURL)
	assert.Equal(t, 1000, config.PinPageSize)
	assert.Equal(t, 500*time.Millisecond, config.PinPageDelay)
	assert.Equal(t, 300, config.FallbackLookups)
	assert.Equal(t, 5*time.Minute, config.VerifyTimeLimit)
}

func TestPinCredential(t *testing.T) {
	config := &common.Config{
		PinService: constants.SvcPinata,
		PinToken:   "tok",
	}
	cred := config.PinCredential()
	assert.Equal(t, network.CredentialSingleToken, cred.Kind)
	assert.Equal(t, "tok", cred.Token)

	config = &common.Config{
		PinService: constants.SvcInfura,
		PinKeyID:   "key",
		PinSecret:  "secret",
	}
	cred = config.PinCredential()
	assert.Equal(t, network.CredentialKeyPair, cred.Kind)
	assert.Equal(t, "key", cred.KeyID)
	assert.Equal(t, "secret", cred.Secret)
}
