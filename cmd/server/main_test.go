package main

import (
	"testing"

	"github.com/anonto42/class-forum/backend/pkg/config"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRunRejectsDefaultSecretInProduction(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		Env:           "production",
		StorageDriver: config.DriverMemory,
		SessionDriver: config.DriverMemory,
		SessionSecret: config.DefaultSessionSecret,
	}

	err := run(cfg, log)
	assert.ErrorContains(t, err, "SESSION_SECRET")
}

func TestRunReturnsStartupErrors(t *testing.T) {
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		Env:           "development",
		StorageDriver: config.DriverPostgres,
		SessionDriver: config.DriverMemory,
		SessionSecret: config.DefaultSessionSecret,
	}

	err := run(cfg, log)
	assert.ErrorContains(t, err, "POSTGRES_CONN_STR")
}
