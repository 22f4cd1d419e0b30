package barista

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/scawful/barista/internal/version"
	"github.com/scawful/barista/pkg/builder"
	"github.com/scawful/barista/pkg/caveats"
	"github.com/scawful/barista/pkg/config"
	"github.com/scawful/barista/pkg/doctor"
	"github.com/scawful/barista/pkg/filesystem"
	"github.com/scawful/barista/pkg/hooks"
	"github.com/scawful/barista/pkg/installer"
	"github.com/scawful/barista/pkg/logging"
	"github.com/scawful/barista/pkg/output"
	"github.com/scawful/barista/pkg/paths"
	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// globals holds the persistent flag values
type globals struct {
	verbosity  int
	dryRun     bool
	configRoot string
	configFile string
	format     string
}

// session is everything a command needs once flags and configuration are resolved
type session struct {
	cfg     *config.Config
	paths   paths.Paths
	fsys    filesystem.FS
	printer *output.Printer
	dryRun  bool
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "barista",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerWithOutput(g.verbosity, cmd.ErrOrStderr())
			logging.LogCommand(cmd.CommandPath(), args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&g.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().BoolVar(&g.dryRun, "dry-run", false, MsgFlagDryRun)
	rootCmd.PersistentFlags().StringVar(&g.configRoot, "config-root", "", MsgFlagConfigRoot)
	rootCmd.PersistentFlags().StringVar(&g.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&g.format, "format", "", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(newInstallCmd(g))
	rootCmd.AddCommand(newBootstrapCmd(g))
	rootCmd.AddCommand(newHookCmd(g))
	rootCmd.AddCommand(newCaveatsCmd(g))
	rootCmd.AddCommand(newDoctorCmd(g))
	rootCmd.AddCommand(newConfigCmd(g))
	rootCmd.AddCommand(newVersionCmd(g))
	rootCmd.AddCommand(newCompletionCmd())
	rootCmd.AddCommand(newManCmd())

	return rootCmd
}

// setup loads configuration and resolves the configuration root, the
// filesystem and the output format for a command
func (g *globals) setup(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(config.LoadOptions{ConfigFile: g.configFile})
	if err != nil {
		return nil, fmt.Errorf(MsgErrLoadConfig, err)
	}

	root := g.configRoot
	if root == "" {
		root = cfg.Paths.ConfigRoot
	}
	var p paths.Paths
	if root != "" {
		p, err = paths.New(root)
	} else {
		p, err = paths.ForApp(cfg.App.Name)
	}
	if err != nil {
		return nil, fmt.Errorf(MsgErrInitPaths, err)
	}

	format := g.format
	if format == "" {
		format = cfg.Output.Format
	}
	f, err := output.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf(MsgErrFormat, err)
	}

	fsys := filesystem.NewOS()
	if g.dryRun {
		fsys = filesystem.NewOverlay()
	}

	log.Debug().
		Str("config_root", p.ConfigRoot()).
		Bool("dry_run", g.dryRun).
		Str("format", f.String()).
		Msg("Runtime resolved")

	return &session{
		cfg:     cfg,
		paths:   p,
		fsys:    fsys,
		printer: output.New(cmd.OutOrStdout(), f),
		dryRun:  g.dryRun,
	}, nil
}

// progress returns where streamed tool output goes, or nil when the
// output must stay machine-readable
func (rt *session) progress(cmd *cobra.Command) io.Writer {
	if rt.printer.Format().Structured() {
		return nil
	}
	return cmd.ErrOrStderr()
}

func newInstallCmd(g *globals) *cobra.Command {
	var (
		source    string
		binDir    string
		skipBuild bool
		skipHook  bool
	)

	cmd := &cobra.Command{
		Use:     "install",
		Short:   MsgInstallShort,
		Long:    MsgInstallLong,
		Example: MsgInstallExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if source == "" {
				source = rt.cfg.Build.SourceDir
			}
			if source, err = filepath.Abs(source); err != nil {
				return err
			}
			if binDir == "" {
				binDir = rt.cfg.Paths.SystemBinDir
			}

			log.Info().
				Str("source", source).
				Str("config_root", rt.paths.ConfigRoot()).
				Bool("dry_run", rt.dryRun).
				Msg("Installing")

			opts := installer.Options{
				FS:        rt.fsys,
				Paths:     rt.paths,
				SourceDir: source,
				Build:     buildOptions(rt.cfg),
				SkipBuild: skipBuild,

				SystemBinDir: binDir,
				DocDir:       rt.cfg.Paths.DocDir,
				SkipHook:     skipHook || !rt.cfg.Hook.Enabled,
				HookTimeout:  rt.cfg.Hook.Timeout,
				HookOutput:   rt.progress(cmd),
				DryRun:       rt.dryRun,
			}
			if g.verbosity > 0 {
				opts.Build.Output = rt.progress(cmd)
			}

			report, err := installer.Run(cmd.Context(), opts)
			if err != nil && installer.IsFatal(err) {
				return err
			}
			for _, e := range flatten(err) {
				report.Warnings = append(report.Warnings, e.Error())
			}

			guidance := caveats.Render(rt.paths, rt.cfg.Paths.DocDir)
			return rt.printer.Emit(installOutput{Report: report, Caveats: guidance}, func() error {
				if err := renderInstall(rt, report); err != nil {
					return err
				}
				return rt.printer.Markdown(guidance)
			})
		},
	}

	cmd.Flags().StringVar(&source, "source", "", MsgFlagSource)
	cmd.Flags().StringVar(&binDir, "bin-dir", "", MsgFlagBinDir)
	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, MsgFlagSkipBuild)
	cmd.Flags().BoolVar(&skipHook, "skip-hook", false, MsgFlagSkipHook)
	return cmd
}

type installOutput struct {
	Report  *installer.Report `json:"report" yaml:"report"`
	Caveats string            `json:"caveats" yaml:"caveats"`
}

func newBootstrapCmd(g *globals) *cobra.Command {
	var skipHook bool

	cmd := &cobra.Command{
		Use:     "bootstrap",
		Short:   MsgBootstrapShort,
		Long:    MsgBootstrapLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd)
			if err != nil {
				return err
			}

			report, bootErr := installer.PostInstall(cmd.Context(), installer.Options{
				FS:          rt.fsys,
				Paths:       rt.paths,
				SkipHook:    skipHook || !rt.cfg.Hook.Enabled,
				HookTimeout: rt.cfg.Hook.Timeout,
				HookOutput:  rt.progress(cmd),
				DryRun:      rt.dryRun,
			})

			if err := rt.printer.Emit(report, func() error { return renderInstall(rt, report) }); err != nil {
				return err
			}
			return bootErr
		},
	}

	cmd.Flags().BoolVar(&skipHook, "skip-hook", false, MsgFlagSkipHook)
	return cmd
}

func newHookCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "hook",
		Short:   MsgHookShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd)
			if err != nil {
				return err
			}

			runner := hooks.NewRunner(rt.fsys, rt.cfg.Hook.Timeout, rt.dryRun)
			runner.Stdout = rt.progress(cmd)
			runner.Stderr = rt.progress(cmd)
			result, hookErr := runner.RunIfPresent(cmd.Context(), rt.paths)

			if err := rt.printer.Emit(result, func() error {
				return rt.printer.Status(MsgTitleHook, hookLines(result))
			}); err != nil {
				return err
			}
			return hookErr
		},
	}
}

func newCaveatsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "caveats",
		Short:   MsgCaveatsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd)
			if err != nil {
				return err
			}
			return rt.printer.Markdown(caveats.Render(rt.paths, rt.cfg.Paths.DocDir))
		},
	}
}

func newDoctorCmd(g *globals) *cobra.Command {
	var binDir string

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		Long:    MsgDoctorLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := g.setup(cmd)
			if err != nil {
				return err
			}
			if binDir == "" {
				binDir = rt.cfg.Paths.SystemBinDir
			}

			report := doctor.Run(rt.fsys, rt.paths, binDir)
			if err := rt.printer.Emit(report, func() error {
				if err := rt.printer.Status(MsgTitleDoctor, report.Lines()); err != nil {
					return err
				}
				if !report.Failed() {
					return rt.printer.Message(MsgDoctorPassed)
				}
				return nil
			}); err != nil {
				return err
			}
			if report.Failed() {
				return fmt.Errorf(MsgErrDoctorFailed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&binDir, "bin-dir", "", MsgFlagBinDir)
	return cmd
}

func newConfigCmd(g *globals) *cobra.Command {
	var effective bool

	cmd := &cobra.Command{
		Use:     "config",
		Short:   MsgConfigShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !effective {
				_, err := io.WriteString(cmd.OutOrStdout(), config.GenerateConfigContent())
				return err
			}

			cfg, err := config.Load(config.LoadOptions{ConfigFile: g.configFile})
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}
			out, err := config.Effective(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&effective, "effective", false, MsgFlagEffective)
	return cmd
}

func newVersionCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := output.ParseFormat(g.format)
			if err != nil {
				return fmt.Errorf(MsgErrFormat, err)
			}
			info := version.Get()
			return output.New(cmd.OutOrStdout(), f).Emit(info, func() error {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, info.Version, info.Commit, info.Date)
				return err
			})
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		GroupID:               "misc",
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

func newManCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "man",
		Short:   MsgManShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			header := &doc.GenManHeader{
				Title:   "BARISTA",
				Section: "1",
				Source:  "barista " + version.Version,
				Manual:  "barista manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}

func buildOptions(cfg *config.Config) builder.Options {
	return builder.Options{
		Commands:  cfg.Build.Commands,
		OutputDir: cfg.Build.OutputDir,
		Timeout:   cfg.Build.Timeout,
	}
}

// flatten splits a joined error into its parts
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}
