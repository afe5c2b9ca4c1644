package authenticator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestTokenEngine(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(time.Minute, testInfo{ID: "user1", Name: "foo"})
	require.NoError(t, err)

	var info testInfo
	require.NoError(t, engine.Verify(token, &info))
	require.Equal(t, testInfo{ID: "user1", Name: "foo"}, info)
}

func TestTokenEngineExpired(t *testing.T) {
	engine := NewTokenEngine("secret")

	token, err := engine.Generate(-time.Minute, testInfo{ID: "user1"})
	require.NoError(t, err)

	var info testInfo
	require.Error(t, engine.Verify(token, &info))
}

func TestTokenEngineWrongSecret(t *testing.T) {
	token, err := NewTokenEngine("secret").Generate(time.Minute, testInfo{ID: "user1"})
	require.NoError(t, err)

	var info testInfo
	require.Error(t, NewTokenEngine("another-secret").Verify(token, &info))
}
