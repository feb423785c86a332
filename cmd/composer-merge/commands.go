package composermerge

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/composer-merge/internal/version"
	"github.com/arthur-debert/composer-merge/pkg/config"
	"github.com/arthur-debert/composer-merge/pkg/driver"
	"github.com/arthur-debert/composer-merge/pkg/errors"
	"github.com/arthur-debert/composer-merge/pkg/filesystem"
	"github.com/arthur-debert/composer-merge/pkg/lockfile"
	"github.com/arthur-debert/composer-merge/pkg/logging"
	"github.com/arthur-debert/composer-merge/pkg/paths"
	"github.com/arthur-debert/composer-merge/pkg/report"
)

// Exit statuses
const (
	ExitClean     = 0
	ExitConflicts = 1
	ExitParse     = 2
	ExitFailure   = 3
)

// ExitCode maps the error returned by the root command to the process exit
// status git reads
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitClean
	case errors.IsErrorCode(err, errors.ErrConflicts):
		return ExitConflicts
	case errors.IsErrorCode(err, errors.ErrParse):
		return ExitParse
	default:
		return ExitFailure
	}
}

// globalOptions are the flags shared by every command
type globalOptions struct {
	verbosity  int
	configFile string
	indent     string
	logFile    string
}

// app holds what PersistentPreRunE prepared for the commands
type app struct {
	fs    filesystem.FS
	paths paths.Paths
	cfg   *config.Config
}

// NewRootCmd creates the root command working on the OS filesystem
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithFS(filesystem.NewOS())
}

// NewRootCmdWithFS creates the root command reading and writing the merged
// files through fsys
func NewRootCmdWithFS(fsys filesystem.FS) *cobra.Command {
	initTemplateFormatting()

	var (
		opts    globalOptions
		summary string
	)
	a := &app{fs: fsys}

	rootCmd := &cobra.Command{
		Use:     "composer-merge ANCESTOR OURS THEIRS [MARKER_SIZE] [NAME]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Example: MsgRootExample,
		Version: version.Version,
		Args:    cobra.RangeArgs(3, 5),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logging.SetupLoggerTo(cmd.ErrOrStderr(), opts.verbosity, "")
			if err := a.init(cmd, opts); err != nil {
				return err
			}
			logging.SetupLoggerTo(cmd.ErrOrStderr(), opts.verbosity, a.cfg.LogFilePath(a.paths))
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := report.ParseFormat(summary)
			if err != nil {
				return errors.Wrap(err, errors.ErrInvalidInput, MsgErrSummaryFlag)
			}
			return a.runMerge(cmd, args, format)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&opts.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&opts.indent, "indent", "", MsgFlagIndent)
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", MsgFlagLogFile)
	rootCmd.Flags().StringVar(&summary, "summary", string(report.FormatNone), MsgFlagSummary)

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(a))

	return rootCmd
}

// init resolves paths and loads the configuration
func (a *app) init(cmd *cobra.Command, opts globalOptions) error {
	p, err := paths.New("")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, MsgErrInitPaths)
	}
	if p.UsedFallback() {
		log.Debug().Msgf(MsgFallbackRoot, p.RepoRoot())
	}
	a.paths = p

	overrides := map[string]interface{}{}
	if cmd.Flags().Changed("indent") {
		overrides["render.indent"] = opts.indent
	}
	if cmd.Flags().Changed("log-file") {
		overrides["log.file"] = opts.logFile
	}

	cfg, err := config.Load(config.Options{
		Paths:     p,
		File:      opts.configFile,
		Overrides: overrides,
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) runMerge(cmd *cobra.Command, args []string, format report.Format) error {
	files := make([]string, 3)
	for i, arg := range args[:3] {
		path, err := a.paths.NormalizePath(arg)
		if err != nil {
			return err
		}
		files[i] = path
	}
	ancestorPath, oursPath, theirsPath := files[0], files[1], files[2]

	markerSize := a.cfg.Merge.MarkerSize
	if len(args) > 3 {
		n, err := strconv.Atoi(args[3])
		if err != nil || n <= 0 {
			return errors.Newf(errors.ErrInvalidInput, MsgErrMarkerSize, args[3])
		}
		markerSize = n
	}

	name := filepath.Base(oursPath)
	if len(args) > 4 && args[4] != "" {
		name = args[4]
	}
	lock := lockfile.IsLockFile(name, a.cfg.Lock.Filename)

	logger := logging.GetLogger("cli")
	logger.Info().
		Str("name", name).
		Bool("lock", lock).
		Int("markerSize", markerSize).
		Msg("Merging")

	ancestor, err := a.fs.ReadFile(ancestorPath)
	if err != nil {
		return err
	}
	ours, err := a.fs.ReadFile(oursPath)
	if err != nil {
		return err
	}
	theirs, err := a.fs.ReadFile(theirsPath)
	if err != nil {
		return err
	}

	result, err := driver.Run(driver.Input{
		Ancestor: ancestor,
		Ours:     ours,
		Theirs:   theirs,
	}, driver.Options{
		MarkerSize:     markerSize,
		Lock:           lock,
		Normalizer:     a.cfg.Normalizer(),
		FallbackIndent: a.cfg.Render.Indent,
	})
	if err != nil {
		return errors.Wrapf(err, errors.GetErrorCode(err), "cannot merge %s", name).
			WithDetail("name", name)
	}

	if err := a.fs.WriteFileAtomic(oursPath, []byte(result.Text)); err != nil {
		return err
	}

	// the merged file is already written, so the status must reflect it
	if err := writeSummary(cmd.ErrOrStderr(), name, lock, result, format); err != nil {
		logger.Warn().Err(err).Msg("Cannot write conflict summary")
	}

	if result.HasConflicts() {
		logger.Info().Int("conflicts", len(result.Conflicts)).Msg("Conflicts written")
		return errors.Newf(errors.ErrConflicts, MsgErrConflicts, len(result.Conflicts), name)
	}
	logger.Info().Msg("Merged cleanly")
	return nil
}

func writeSummary(w io.Writer, name string, lock bool, result *driver.Result, format report.Format) error {
	s, err := report.New(name, lock, result.Conflicts)
	if err != nil {
		return err
	}
	return report.Write(w, s, format)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), MsgVersionFormat, version.Version, version.Commit, version.Date)
			return err
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: MsgConfigShort,
		Long:  MsgConfigLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				_, err := fmt.Fprint(cmd.OutOrStdout(), config.DefaultsContent())
				return err
			}
			out, err := a.cfg.TOML()
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, MsgFlagDefaults)
	return cmd
}
