package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestInitCommand(t *testing.T) {
	home := t.TempDir()
	alice := custodytest.NamedAddr("alice")
	bert := custodytest.NamedAddr("bert")

	out, err := execute(t, context.Background(),
		"init", "--home", home,
		"--owner", "hex:"+alice.String(),
		"--owner", bert.String(),
		"--required", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "genesis written")

	opts, err := app.LoadGenesis(filepath.Join(home, "genesis.json"))
	require.NoError(t, err)
	var g struct {
		Multisig struct {
			Owners                []custody.Address `json:"owners"`
			RequiredConfirmations uint32            `json:"required_confirmations"`
		} `json:"multisig"`
	}
	raw, err := json.Marshal(opts)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &g))
	assert.Equal(t, []custody.Address{alice, bert}, g.Multisig.Owners)
	assert.Equal(t, uint32(2), g.Multisig.RequiredConfirmations)

	_, err = execute(t, context.Background(), "init", "--home", home, "--owner", alice.String())
	assert.True(t, errors.ErrDuplicate.Is(err), "existing genesis must not be overwritten: %v", err)

	_, err = execute(t, context.Background(), "init", "--home", home, "--owner", "nope:123", "--force")
	assert.True(t, errors.ErrType.Is(err))
}

func TestStartInitializesFromGenesis(t *testing.T) {
	home := t.TempDir()
	alice := custodytest.NamedAddr("alice")

	_, err := execute(t, context.Background(), "init", "--home", home, "--owner", alice.String())
	require.NoError(t, err)

	// A cancelled context makes the server stop right after the start.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = execute(t, ctx, "start", "--home", home, "--http", "127.0.0.1:0", "--log-level", "none")
	require.NoError(t, err)

	out, err := execute(t, context.Background(), "show", "--home", home)
	require.NoError(t, err)
	var info app.Info
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, []custody.Address{alice}, info.Owners)
	assert.Equal(t, uint32(1), info.RequiredConfirmations)

	_, err = execute(t, context.Background(), "show", "--home", home, "0")
	assert.True(t, errors.ErrNotFound.Is(err))
}

func TestStartWithoutGenesis(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := execute(t, ctx, "start", "--home", t.TempDir(), "--log-level", "none")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, context.Background(), "start", "--home", t.TempDir(), "--log-level", "loud")
	assert.True(t, errors.ErrInput.Is(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, context.Background(), "version")
	require.NoError(t, err)
	assert.Equal(t, custody.Version(), strings.TrimSpace(out))
}

func TestEnvDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv(EnvHome, home)

	_, err := execute(t, context.Background(), "init", "--owner", custodytest.NamedAddr("alice").String())
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "genesis.json"))
	require.NoError(t, err)
}
