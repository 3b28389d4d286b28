package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:8080", c.ServerAddr)
}

func TestLoadConfig_FlagOverridesDefault(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	os.Args = []string{"testbin", "-a", "http://auth.example:9000"}

	c := LoadConfig()
	assert.Equal(t, "http://auth.example:9000", c.ServerAddr)
}
