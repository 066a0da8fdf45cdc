package main

import (
	"chatbot/errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOwnerAddress(t *testing.T) {
	req := require.New(t)

	owner, err := OwnerAddress("(11) 98765-4321", "BR")
	req.NoError(err)
	req.Equal("5511987654321@c.us", owner.String())

	owner, err = OwnerAddress("+1 650-253-0000", "BR")
	req.NoError(err)
	req.Equal("16502530000@c.us", owner.String())

	_, err = OwnerAddress("123", "BR")
	req.ErrorIs(err, errors.ErrInvalidOwner)

	_, err = OwnerAddress("not a number", "BR")
	req.ErrorIs(err, errors.ErrInvalidOwner)
}

func setRequired(t *testing.T) {
	t.Setenv("PHONE_NUMBER", "(11) 98765-4321")
	t.Setenv("GATEWAY_URL", "ws://localhost:3000/ws")
}

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal("!", config.Prefix)
	req.Equal("wwebjs_auth", config.AuthDir)
	req.Equal("badger", config.StoreBackend)
	req.Equal("whatsapp-api", config.MongoDatabase)
	req.Equal(5*time.Second, config.ShutdownGrace)
	req.Equal(8080, config.Port)
	req.False(config.SkipSessionDownload)
}

func TestLoadConfig_BackendRequirements(t *testing.T) {
	req := require.New(t)
	setRequired(t)

	// Given the redis backend without its URL
	t.Setenv("STORE_BACKEND", "redis")
	_, err := LoadConfig()
	req.Error(err)

	// When the URL is provided
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	config, err := LoadConfig()

	// Then the configuration is accepted
	req.NoError(err)
	req.Equal("redis", config.StoreBackend)

	// An unknown backend is refused
	t.Setenv("STORE_BACKEND", "postgres")
	_, err = LoadConfig()
	req.Error(err)
}
