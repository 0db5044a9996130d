package errx

import (
	"errors"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(cause, http.StatusBadGateway, "upstream failure")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "upstream failure")
	require.Contains(t, err.Error(), "connection refused")

	var appErr *AppError
	require.ErrorAs(t, error(err), &appErr)
	require.Equal(t, http.StatusBadGateway, appErr.Status)
}

func TestWrapRedisNotFound(t *testing.T) {
	err := WrapRedis(redis.Nil)
	require.Equal(t, http.StatusNotFound, err.Status)
	require.Equal(t, RedisNotFoundMessage, err.Message)
}

func TestWrapRedisOperationFailure(t *testing.T) {
	err := WrapRedis(errors.New("timeout"))
	require.Equal(t, http.StatusBadGateway, err.Status)
	require.Equal(t, RedisErrorMessage, err.Message)
}
