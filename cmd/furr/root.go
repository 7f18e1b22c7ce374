package furr

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/furrctorio/furrctorio/cmd/furr/add"
	"github.com/furrctorio/furrctorio/cmd/furr/cmdutil"
	"github.com/furrctorio/furrctorio/cmd/furr/deps"
	"github.com/furrctorio/furrctorio/cmd/furr/download"
	"github.com/furrctorio/furrctorio/cmd/furr/login"
	"github.com/furrctorio/furrctorio/cmd/furr/resolve"
	"github.com/furrctorio/furrctorio/cmd/furr/search"
	"github.com/furrctorio/furrctorio/cmd/furr/version"
	"github.com/furrctorio/furrctorio/internal/config"
	"github.com/furrctorio/furrctorio/internal/constants"
	"github.com/furrctorio/furrctorio/internal/environment"
	"github.com/furrctorio/furrctorio/internal/i18n"
	"github.com/furrctorio/furrctorio/internal/logger"
	"github.com/furrctorio/furrctorio/internal/perf"
)

func Command() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               constants.CommandName,
		Short:             i18n.T("app.description"),
		Version:           environment.AppVersion(),
		SilenceUsage:      true,
		PersistentPreRunE: startPerf,
		PersistentPostRun: finishPerf,
	}
	cobra.MousetrapHelpText = "" // allow the app to run in windows by clicking the exe

	rootCmd.PersistentFlags().StringP("config", "c", "./"+constants.DefaultConfigFile, i18n.T("cmd.root.flag.config"))
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, i18n.T("cmd.root.flag.quiet"))
	rootCmd.PersistentFlags().BoolP("debug", "d", false, i18n.T("cmd.root.flag.debug"))
	rootCmd.PersistentFlags().Bool("perf", false, i18n.T("cmd.root.flag.perf"))

	rootCmd.SetVersionTemplate("{{.Version}}\n")
	rootCmd.AddCommand(add.Command())
	rootCmd.AddCommand(deps.Command())
	rootCmd.AddCommand(download.Command())
	rootCmd.AddCommand(login.Command())
	rootCmd.AddCommand(resolve.Command())
	rootCmd.AddCommand(search.Command())
	rootCmd.AddCommand(version.Command())

	translateDefaultHelpFacilities(rootCmd)
	fixFlagUsageAlignment(rootCmd)
	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + "\n" + i18n.T("cmd.help.more", i18n.Tvars{
		Data: &i18n.TData{"url": environment.HelpURL()},
	}) + "\n")

	return rootCmd
}

func translateDefaultHelpFacilities(rootCmd *cobra.Command) {
	subcommands := rootCmd.Commands()
	allCommands := make([]*cobra.Command, 0, len(subcommands)+1)
	allCommands = append(allCommands, rootCmd)
	allCommands = append(allCommands, subcommands...)

	for _, cmd := range allCommands {
		cmd.InitDefaultHelpFlag()
		flags := cmd.Flags()
		flags.Lookup("help").Usage = i18n.T("cmd.help.template", i18n.Tvars{
			Data: &i18n.TData{"command": cmd.Name()},
		})
	}

	rootCmd.InitDefaultHelpCmd()
	helpCmd, _, e := rootCmd.Find([]string{"help"})

	if e == nil {
		helpCmd.Short = i18n.T("cmd.help.usage.short")
		helpCmd.Long = i18n.T("cmd.help.usage.long", i18n.Tvars{
			Data: &i18n.TData{"appName": rootCmd.Name()},
		})
		helpCmd.Run = func(c *cobra.Command, args []string) {
			cmd, _, e := c.Root().Find(args)
			if cmd == nil || e != nil {
				c.PrintErrln(i18n.T("cmd.help.error", i18n.Tvars{
					Data: &i18n.TData{"topic": fmt.Sprintf("%#q", args)},
				}) + "\n")
				cobra.CheckErr(c.Root().Usage())
			} else {
				cmd.InitDefaultHelpFlag()
				cmd.InitDefaultVersionFlag()
				cobra.CheckErr(cmd.Help())
			}
		}
	}
}

func fixFlagUsageAlignment(rootCmd *cobra.Command) {
	width, _, _ := term.GetSize(int(os.Stdout.Fd()))
	usageTemplate := rootCmd.UsageTemplate()
	usageTemplate = strings.ReplaceAll(usageTemplate, ".FlagUsages", fmt.Sprintf(".FlagUsagesWrapped %d", width))
	rootCmd.SetUsageTemplate(usageTemplate)
}

func startPerf(cmd *cobra.Command, _ []string) error {
	enabled, err := cmd.Flags().GetBool("perf")
	if err != nil {
		return err
	}
	return perf.Init(perf.Config{Enabled: enabled})
}

// finishPerf writes the recorded spans next to the config file. Failures
// only show up in debug output.
func finishPerf(cmd *cobra.Command, _ []string) {
	enabled, _ := cmd.Flags().GetBool("perf")
	if !enabled {
		return
	}
	global, err := cmdutil.ReadGlobalOptions(cmd)
	if err != nil {
		return
	}
	log := logger.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), global.Quiet, global.Debug)
	defer func() {
		if err := perf.Shutdown(cmd.Context()); err != nil {
			log.Debug("perf shutdown failed", "error", err)
		}
	}()

	if durations, err := perf.GetRunDurations(); err == nil {
		log.Debug("run finished", "total", durations.Total, "network", durations.Network, "local", durations.Local)
	}

	spans, err := perf.GetSpans()
	if err != nil {
		log.Debug("perf export skipped", "error", err)
		return
	}
	dir := config.NewMetadata(global.ConfigPath).Dir()
	path, err := perf.ExportToFile(afero.NewOsFs(), dir, dir, spans)
	if err != nil {
		log.Debug("perf export failed", "error", err)
		return
	}
	log.Log(i18n.T("cmd.root.perf_exported", i18n.Tvars{
		Data: &i18n.TData{"path": path},
	}), false)
}

func Execute() error {
	return Command().Execute()
}

// ExecuteContext runs the CLI with ctx as the context of every command.
func ExecuteContext(ctx context.Context) error {
	return Command().ExecuteContext(ctx)
}
