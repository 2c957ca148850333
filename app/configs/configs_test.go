package configs

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateKeysRoundTripsThroughLoaders(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), ".env.new_keys")

	require.NoError(t, GenerateKeys(&buf, path))

	env := ENV{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		k, v, ok := strings.Cut(line, "=")
		require.True(t, ok)
		switch k {
		case "APP_AUTH_KEY":
			env.AppAuthKey = v
		case "APP_ENC_KEY":
			env.AppEncKey = v
		case "CSRF_KEY":
			env.CSRFKey = v
		}
	}

	keys, err := LoadSessionKeys(env)
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.Len(t, keys.EncKey, 32)

	csrfKey, err := CSRFKeyBytes(env)
	require.NoError(t, err)
	assert.Len(t, csrfKey, 32)
}

func TestLoadSessionKeysRequiresBothKeys(t *testing.T) {
	_, err := LoadSessionKeys(ENV{AppEncKey: "x"})
	assert.Error(t, err)

	_, err = LoadSessionKeys(ENV{AppAuthKey: "x"})
	assert.Error(t, err)
}

func TestCSRFKeyBytesEmptyDisables(t *testing.T) {
	key, err := CSRFKeyBytes(ENV{})
	assert.NoError(t, err)
	assert.Nil(t, key)
}

func TestDialectorRejectsUnknownDriver(t *testing.T) {
	_, err := Dialector(ENV{DBDriver: "oracle"})
	assert.Error(t, err)

	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(ENV{DBDriver: driver, DBHost: "localhost", DBPort: "1", SQLitePath: ":memory:"})
		assert.NoError(t, err, driver)
		assert.NotNil(t, d, driver)
	}
}
