package credentials_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwise/gcpkit/pkg/credentials"
)

func TestCheck_Unset(t *testing.T) {
	t.Setenv(credentials.EnvCredentials, "")

	_, err := credentials.Check()
	assert.Error(t, err)
}

func TestCheck_MissingFile(t *testing.T) {
	t.Setenv(credentials.EnvCredentials, filepath.Join(t.TempDir(), "nope.json"))

	_, err := credentials.Check()
	assert.Error(t, err)
}

func TestCheck_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0600))
	t.Setenv(credentials.EnvCredentials, path)

	got, err := credentials.Check()
	require.NoError(t, err)
	assert.Equal(t, path, got)
}

func TestCheck_Directory(t *testing.T) {
	t.Setenv(credentials.EnvCredentials, t.TempDir())

	_, err := credentials.Check()
	assert.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GCPKIT_TEST_VALUE=loaded\n"), 0600))
	t.Setenv("GCPKIT_TEST_VALUE", "")
	os.Unsetenv("GCPKIT_TEST_VALUE")

	require.NoError(t, credentials.LoadEnv(path))
	assert.Equal(t, "loaded", os.Getenv("GCPKIT_TEST_VALUE"))
}
