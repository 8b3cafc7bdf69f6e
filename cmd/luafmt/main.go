package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jsvensson/luafmt"
	"github.com/jsvensson/luafmt/internal/config"
	"github.com/jsvensson/luafmt/internal/format"
	"github.com/jsvensson/luafmt/internal/plugin"
)

var (
	flagConfig      string
	flagVerbose     int
	flagLog         string
	flagCheck       bool
	flagDiff        bool
	flagWrite       bool
	flagJobs        int
	flagStdinPath   string
	flagSet         []string
	flagConfigCheck bool
	version         = "dev" // Injected at build time via ldflags
)

// Exit codes. Errors returned from a command exit with exitUsage.
const (
	exitChanged = 1
	exitUsage   = 2
)

var rootCmd = &cobra.Command{
	Use:              "luafmt",
	Short:            "Format Lua source code",
	Version:          version,
	SilenceUsage:     true,
	SilenceErrors:    true,
	PersistentPreRun: configureLogging,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt [paths...]",
	Short: "Format Lua files",
	Long: `Format Lua files and directories. Directories are searched for .lua files.

By default the formatted source is printed. --write rewrites changed files in
place and prints their names, --check only prints the names, and --diff prints
a unified diff. With no paths, standard input is formatted.

Exits 1 when --check or --diff found files to change or any file failed.`,
	RunE: runFmt,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration as JSON",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

var configFmtCmd = &cobra.Command{
	Use:   "fmt [file]",
	Short: "Format an HCL configuration file",
	Long:  "Format an HCL configuration file in place. Defaults to the --config file or the one discovered in the working directory.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigFmt,
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print plugin information as JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd, luafmt.Handler{}.PluginInfo())
	},
}

var licenseCmd = &cobra.Command{
	Use:   "license",
	Short: "Print the license",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), luafmt.Handler{}.LicenseText())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to a configuration file (default: discovered in the working directory)")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log more (repeatable)")
	rootCmd.PersistentFlags().StringVar(&flagLog, "log", "", "write logs to this file instead of stderr")

	fmtCmd.Flags().BoolVarP(&flagCheck, "check", "c", false, "list files that are not formatted (do not write changes)")
	fmtCmd.Flags().BoolVarP(&flagDiff, "diff", "d", false, "print a unified diff of the changes")
	fmtCmd.Flags().BoolVarP(&flagWrite, "write", "w", false, "write changes back to the files")
	fmtCmd.Flags().IntVarP(&flagJobs, "jobs", "j", 0, "files to format concurrently (default: number of CPUs)")
	fmtCmd.Flags().StringVar(&flagStdinPath, "stdin-filepath", "", "file name to report when formatting standard input")
	fmtCmd.Flags().StringArrayVar(&flagSet, "set", nil, "override a plugin setting, key=value (can be repeated)")
	fmtCmd.MarkFlagsMutuallyExclusive("check", "write")

	configCmd.Flags().StringArrayVar(&flagSet, "set", nil, "override a plugin setting, key=value (can be repeated)")
	configFmtCmd.Flags().BoolVarP(&flagConfigCheck, "check", "c", false, "check if the file is formatted (do not write changes)")
	configCmd.AddCommand(configFmtCmd)

	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(licenseCmd)
	rootCmd.AddCommand(versionCmd)
}

// configureLogging keeps the CLI quiet unless -v or --log asks otherwise.
func configureLogging(_ *cobra.Command, _ []string) {
	switch {
	case flagLog != "":
		commonlog.Configure(flagVerbose, &flagLog)
	case flagVerbose > 0:
		commonlog.Configure(flagVerbose, nil)
	default:
		commonlog.Configure(-4, nil)
	}
}

// loadConfigFile returns the --config file or the one discovered in the
// working directory.
func loadConfigFile() (*config.File, error) {
	if flagConfig != "" {
		return config.Load(flagConfig)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("finding working directory: %w", err)
	}
	return config.LoadDir(wd)
}

// resolveConfig loads and resolves the configuration, printing diagnostics
// as warnings.
func resolveConfig(cmd *cobra.Command) (plugin.Configuration, error) {
	f, err := loadConfigFile()
	if err != nil {
		return plugin.Configuration{}, err
	}
	overrides, err := config.ParseSet(flagSet)
	if err != nil {
		return plugin.Configuration{}, err
	}

	cfg, diagnostics := f.Resolve(overrides)
	for _, d := range diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", d)
	}
	return cfg, nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	r := &format.Runner{
		Config: cfg,
		Options: format.Options{
			Check:  flagCheck,
			Diff:   flagDiff,
			Write:  flagWrite,
			Jobs:   flagJobs,
			Stdout: cmd.OutOrStdout(),
			Stderr: cmd.ErrOrStderr(),
		},
	}

	var summary format.Summary
	if len(args) == 0 {
		summary, err = r.RunStdin(cmd.InOrStdin(), cmd.OutOrStdout(), flagStdinPath)
		if err != nil && summary.Failed > 0 {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error %v\n", err)
			os.Exit(exitChanged)
		}
	} else {
		summary, err = r.Run(cmd.Context(), args)
	}
	if err != nil {
		return err
	}

	if summary.Failed > 0 || ((flagCheck || flagDiff) && summary.Changed > 0) {
		os.Exit(exitChanged)
	}
	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return printJSON(cmd, cfg)
}

func runConfigFmt(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if len(args) == 1 {
		path = args[0]
	}
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("finding working directory: %w", err)
		}
		found, ok := config.Discover(wd)
		if !ok {
			return fmt.Errorf("no configuration file in %s", wd)
		}
		path = found
	}
	if !strings.EqualFold(filepath.Ext(path), ".hcl") {
		return fmt.Errorf("only HCL configuration files can be formatted: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	content := string(data)
	formatted := format.FormatConfig(content)
	if formatted == content {
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	if flagConfigCheck {
		os.Exit(exitChanged)
	}
	if err := os.WriteFile(path, []byte(formatted), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func main() {
	plugin.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitUsage)
	}
}
