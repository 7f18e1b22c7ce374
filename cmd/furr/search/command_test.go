package search

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/furrctorio/furrctorio/internal/modportal"
	"github.com/furrctorio/furrctorio/internal/models"
)

func addPersistentFlagsForTesting(cmd *cobra.Command) {
	cmd.PersistentFlags().StringP("config", "c", "./furr.yaml", "An alternative YAML file containing the configuration")
	cmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress all output")
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug messages")
}

func TestCommandWithRunnerParsesFlags(t *testing.T) {
	t.Setenv("FURR_TEST", "true")
	t.Setenv("FURR_CACHE_URL", "none")

	var got searchOptions
	cmd := commandWithRunner(func(_ context.Context, opts searchOptions, _ searchDeps) (int, error) {
		got = opts
		return 0, nil
	})
	addPersistentFlagsForTesting(cmd)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	cmd.SetArgs([]string{"-g", "1.1", "-l", "5", "--hide-deprecated=false", "train", "signals"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, searchOptions{
		Terms:           []string{"train", "signals"},
		FactorioVersion: models.Factorio11,
		Limit:           5,
		PageSize:        modportal.MaxPageSize,
	}, got)
}

func TestCommandMissingConfigFlagErrors(t *testing.T) {
	runE := Command().RunE
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)

	assert.Error(t, runE(cmd, nil))
}
