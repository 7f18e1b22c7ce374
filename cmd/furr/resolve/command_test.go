package resolve

import (
	"context"
	"io"
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
	t.Setenv("FURR_CONCURRENCY", "3")

	var gotOpts resolveOptions
	var gotDeps resolveDeps
	cmd := commandWithRunner(func(_ context.Context, opts resolveOptions, deps resolveDeps) (Result, error) {
		gotOpts = opts
		gotDeps = deps
		return Result{}, nil
	})
	addPersistentFlagsForTesting(cmd)
	setCommandOutputForTesting(cmd)

	cmd.SetArgs([]string{"--deps", "-n", "-c", "mods.yaml"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, resolveOptions{ConfigPath: "mods.yaml", ShowDeps: true, DryRun: true}, gotOpts)
	assert.Equal(t, 3, gotDeps.concurrency)
	assert.NotNil(t, gotDeps.portal)
}

func TestCommandWithRunnerErrorReturnsError(t *testing.T) {
	t.Setenv("FURR_TEST", "true")
	t.Setenv("FURR_CACHE_URL", "none")

	cmd := commandWithRunner(func(context.Context, resolveOptions, resolveDeps) (Result, error) {
		return Result{}, assert.AnError
	})
	addPersistentFlagsForTesting(cmd)
	setCommandOutputForTesting(cmd)
	cmd.SetArgs([]string{})

	assert.ErrorIs(t, cmd.Execute(), assert.AnError)
}

func TestCommandRejectsArguments(t *testing.T) {
	t.Setenv("FURR_TEST", "true")

	cmd := Command()
	addPersistentFlagsForTesting(cmd)
	setCommandOutputForTesting(cmd)
	cmd.SetArgs([]string{"flib"})

	assert.Error(t, cmd.Execute())
}

func TestCommandMissingConfigFlagErrors(t *testing.T) {
	runE := Command().RunE
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	setCommandOutputForTesting(cmd)

	assert.Error(t, runE(cmd, nil))
}
