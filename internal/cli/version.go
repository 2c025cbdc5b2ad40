package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Overwritten by the build flags.
//
//	go build -ldflags "-X github.com/benz9527/xtree/internal/cli.Version=v0.1.0"
var (
	Version   = "dev"
	GitCommit = ""
)

func versionString() string {
	commit := GitCommit
	if commit == "" {
		commit = "unknown"
	}
	return fmt.Sprintf("xtree %s (commit %s, %s %s/%s)", Version, commit, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), versionString())
			return err
		},
	}
}
