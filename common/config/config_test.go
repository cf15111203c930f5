package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfig_LoadConfig(t *testing.T) {
	t.Run("config env", func(t *testing.T) {
		t.Setenv("TUNEHUB_INSTANCE_ID", "foo")
		t.Setenv("TUNEHUB_SERVER_PORT", "6789")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, "foo", cfg.InstanceID)
		require.Equal(t, 6789, cfg.APIServer.Port)
		require.Equal(t, "tunehub-jobs", cfg.TrainJob.Namespace)
	})

	t.Run("config file", func(t *testing.T) {
		SetConfigFile("test.toml")
		defer SetConfigFile("")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, "bar", cfg.InstanceID)
		require.Equal(t, 4321, cfg.APIServer.Port)
		require.Equal(t, "tunehub-jobs", cfg.TrainJob.Namespace)
	})

	t.Run("file and env", func(t *testing.T) {
		SetConfigFile("test.toml")
		defer SetConfigFile("")
		t.Setenv("TUNEHUB_INSTANCE_ID", "foobar")
		cfg, err := LoadConfig()
		require.Nil(t, err)

		require.Equal(t, "foobar", cfg.InstanceID)
		require.Equal(t, 4321, cfg.APIServer.Port)
		require.Equal(t, "tunehub-jobs", cfg.TrainJob.Namespace)
	})
}
