package application

import (
	"os"
	"testing"

	"arcade/config"

	log "github.com/sirupsen/logrus"
)

func TestMain(m *testing.M) {
	config.SetTestConfig(config.NewTestConfig())

	// Concurrency tests log every balance change at debug
	log.SetLevel(log.WarnLevel)

	os.Exit(m.Run())
}
