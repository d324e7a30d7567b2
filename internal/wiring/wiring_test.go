package wiring

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/config"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/domain"
	"github.com/ANIKETSHETTY47/smart-parking-management-system/internal/scheduler"
)

func TestBuild_MemoryDriverSeedsDemoFleet(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "memory")
	require.NoError(t, config.Load())

	env, err := Build(context.Background(), zerolog.Nop())
	require.NoError(t, err)
	defer env.Close()

	assert.IsType(t, &scheduler.LocalLock{}, env.Lock)
	devices, err := env.Services.Store.ListDevices(context.Background(), domain.Scope{})
	require.NoError(t, err)
	assert.Len(t, devices, 10)
	assert.Equal(t, "PARK-B1-S001", devices[0].DeviceCode)

	res, err := env.Services.Monitor.RunSweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 10, res.Created)
}

func TestBuild_UnknownDriver(t *testing.T) {
	viper.Reset()
	t.Setenv("STORE_DRIVER", "sqlite")
	require.NoError(t, config.Load())

	_, err := Build(context.Background(), zerolog.Nop())

	assert.ErrorContains(t, err, "sqlite")
}
