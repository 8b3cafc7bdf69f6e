package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/jsvensson/luafmt/internal/lsp"
	"github.com/jsvensson/luafmt/internal/plugin"
)

var (
	flagVerbosity int
	flagLog       string
	version       = "dev" // Injected at build time via ldflags
)

var rootCmd = &cobra.Command{
	Use:          "luafmt-lsp",
	Short:        "Language server that formats Lua documents over stdio",
	Version:      version,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagLog != "" {
			commonlog.Configure(flagVerbosity, &flagLog)
		} else {
			commonlog.Configure(flagVerbosity, nil)
		}
		return lsp.NewServer(version).Run()
	},
}

func init() {
	rootCmd.Flags().IntVar(&flagVerbosity, "verbosity", 1, "log verbosity (-4 off, 0 notice, 1 info, 2 debug)")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "write logs to this file instead of stderr")
}

func main() {
	plugin.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
