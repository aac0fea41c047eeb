package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yizeng/gab/gin/gorm/merchant/internal/config"
)

func TestOpenRedis_Disabled(t *testing.T) {
	client, err := OpenRedis(config.Redis{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	_, err := OpenRedis(config.Redis{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
