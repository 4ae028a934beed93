package common

import (
	"fmt"

	"github.com/op/go-logging"
	"github.com/theonetwoone/CYBER-repinning/network"
	"github.com/theonetwoone/CYBER-repinning/util/logger"
)

// Context holds the config plus the clients every worker needs.
// Build one per process and pass it down.
type Context struct {
	Config        *Config
	Logger        *logging.Logger
	IndexerClient *network.IndexerClient
	GatewayClient *network.GatewayClient
	PinClient     network.PinClient
	RedisClient   *network.RedisClient
}

func NewContext() *Context {
	config := NewConfig()
	_logger := getLogger(config)
	return &Context{
		Config:        config,
		Logger:        _logger,
		IndexerClient: network.NewIndexerClient(config.IndexerURL, _logger),
		GatewayClient: network.NewGatewayClient(config.Gateways, config.GatewayTimeout, _logger),
		PinClient:     getPinClient(config, _logger),
		RedisClient:   getRedisClient(config),
	}
}

func getLogger(config *Config) *logging.Logger {
	logger, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return logger
}

func getPinClient(config *Config, logger *logging.Logger) network.PinClient {
	client, err := network.NewPinClient(
		config.PinService,
		config.PinCredential(),
		config.PinPageSize,
		logger)
	if err != nil {
		msg := fmt.Sprintf("Could not initialize pinning client: %v", err)
		panic(msg)
	}
	return client
}

// RedisClient is optional. Without it, metadata resolution just
// skips the cache.
func getRedisClient(config *Config) *network.RedisClient {
	if config.RedisURL == "" {
		return nil
	}
	return network.NewRedisClient(
		config.RedisURL,
		config.RedisPassword,
		config.RedisDefaultDB)
}
