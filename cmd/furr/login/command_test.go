package login

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addPersistentFlagsForTesting(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "./furr.yaml", "An alternative YAML file containing the configuration")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug messages")
}

func setCommandOutputForTesting(cmd *cobra.Command) {
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
}

func TestCommandWithRunnerParsesFlags(t *testing.T) {
	t.Setenv("FURR_TEST", "true")
	t.Setenv("FURR_CACHE_URL", "none")

	var got loginOptions
	var password string
	cmd := commandWithRunner(func(_ context.Context, opts loginOptions, deps loginDeps) error {
		got = opts
		var err error
		password, err = deps.readPassword()
		return err
	})
	addPersistentFlagsForTesting(cmd)
	setCommandOutputForTesting(cmd)
	cmd.SetIn(strings.NewReader("hunter2\n"))

	cmd.SetArgs([]string{"-u", "engineer", "--email-code", "A1B2", "--save"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, loginOptions{Username: "engineer", EmailCode: "A1B2", Save: true, EnvPath: ".env"}, got)
	assert.Equal(t, "hunter2", password)
}

func TestCommandUsernameFallsBackToEnvironment(t *testing.T) {
	t.Setenv("FURR_TEST", "true")
	t.Setenv("FURR_CACHE_URL", "none")
	t.Setenv("FACTORIO_USERNAME", "from-env")

	var got loginOptions
	cmd := commandWithRunner(func(_ context.Context, opts loginOptions, _ loginDeps) error {
		got = opts
		return nil
	})
	addPersistentFlagsForTesting(cmd)
	setCommandOutputForTesting(cmd)

	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "from-env", got.Username)
}

func TestCommandWithRunnerErrorReturnsError(t *testing.T) {
	t.Setenv("FURR_TEST", "true")
	t.Setenv("FURR_CACHE_URL", "none")

	boom := errors.New("boom")
	cmd := commandWithRunner(func(context.Context, loginOptions, loginDeps) error {
		return boom
	})
	addPersistentFlagsForTesting(cmd)
	setCommandOutputForTesting(cmd)

	cmd.SetArgs([]string{"-u", "engineer"})
	assert.ErrorIs(t, cmd.Execute(), boom)
}
