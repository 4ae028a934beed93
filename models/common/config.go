package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
	"github.com/theonetwoone/CYBER-repinning/constants"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util"
)

type Config struct {
	ConfigName      string
	DataDir         string
	FallbackLookups int
	GatewayTimeout  time.Duration
	Gateways        []string
	IndexerURL      string
	LogDir          string
	LogLevel        logging.Level
	PinDeleteDelay  time.Duration
	PinKeyID        string
	PinPageDelay    time.Duration
	PinPageSize     int
	PinSecret       string
	PinService      string
	PinToken        string
	RedisDefaultDB  int
	RedisPassword   string
	RedisURL        string
	VerifyTimeLimit time.Duration
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// Returns a new config based on ENV vars REPIN_CONFIG_DIR and REPIN_ENV
func NewConfig() *Config {
	config := loadConfig()
	config.expandPaths()
	config.applyDefaults()
	config.makeDirs()
	return config
}

func loadConfig() *Config {
	configDir, envName := getEnvVars()
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return &Config{
		ConfigName:      envName,
		DataDir:         v.GetString("DATA_DIR"),
		FallbackLookups: v.GetInt("PIN_FALLBACK_LOOKUPS"),
		GatewayTimeout:  v.GetDuration("GATEWAY_TIMEOUT"),
		Gateways:        splitGateways(v.GetString("IPFS_GATEWAYS")),
		IndexerURL:      v.GetString("INDEXER_URL"),
		LogDir:          v.GetString("LOG_DIR"),
		LogLevel:        logLevels[v.GetString("LOG_LEVEL")],
		PinDeleteDelay:  v.GetDuration("PIN_DELETE_DELAY"),
		PinKeyID:        v.GetString("PIN_KEY_ID"),
		PinPageDelay:    v.GetDuration("PIN_PAGE_DELAY"),
		PinPageSize:     v.GetInt("PIN_PAGE_SIZE"),
		PinSecret:       v.GetString("PIN_SECRET"),
		PinService:      v.GetString("PIN_SERVICE"),
		PinToken:        v.GetString("PIN_TOKEN"),
		RedisDefaultDB:  v.GetInt("REDIS_DEFAULT_DB"),
		RedisPassword:   v.GetString("REDIS_PASSWORD"),
		RedisURL:        v.GetString("REDIS_URL"),
		VerifyTimeLimit: v.GetDuration("VERIFY_TIME_LIMIT"),
	}
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("REPIN_CONFIG_DIR")
	envName := getRequiredEnvVar("REPIN_ENV")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

func splitGateways(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	gateways := make([]string, 0, len(parts))
	for _, part := range parts {
		gateway := strings.TrimSpace(part)
		if gateway == "" {
			continue
		}
		if !strings.HasSuffix(gateway, "/") {
			gateway += "/"
		}
		gateways = append(gateways, gateway)
	}
	return gateways
}

// Expand ~ to home dir in path settings.
func (c *Config) expandPaths() {
	c.DataDir = expandPath(c.DataDir)
	c.LogDir = expandPath(c.LogDir)
}

func expandPath(dirName string) string {
	dir, err := util.ExpandTilde(dirName)
	if err != nil {
		panic(err)
	}
	return dir
}

func (c *Config) applyDefaults() {
	if len(c.Gateways) == 0 {
		c.Gateways = constants.PublicGateways
	}
	if c.GatewayTimeout == 0 {
		c.GatewayTimeout = 10 * time.Second
	}
	if c.IndexerURL == "" {
		c.IndexerURL = "https://mainnet-idx.algonode.cloud"
	}
	if c.PinPageSize == 0 {
		c.PinPageSize = 1000
	}
	if c.PinPageDelay == 0 {
		c.PinPageDelay = 500 * time.Millisecond
	}
	if c.PinDeleteDelay == 0 {
		c.PinDeleteDelay = 200 * time.Millisecond
	}
	if c.FallbackLookups == 0 {
		c.FallbackLookups = 300
	}
	if c.VerifyTimeLimit == 0 {
		c.VerifyTimeLimit = 5 * time.Minute
	}
}

func (c *Config) makeDirs() error {
	dirs := []string{
		c.DataDir,
		c.LogDir,
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			panic(err)
		}
	}
	return nil
}

// PinCredential builds the credential for the configured pinning
// service. Infura wants a key pair, everyone else a bearer token.
func (c *Config) PinCredential() network.Credential {
	if c.PinService == constants.SvcInfura {
		return network.NewKeyPair(c.PinKeyID, c.PinSecret)
	}
	return network.NewSingleToken(c.PinToken)
}
