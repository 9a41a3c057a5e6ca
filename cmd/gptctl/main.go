// Command gptctl inspects and writes GUID partition tables.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

var rootCmd = &cobra.Command{
	Use:     "gptctl",
	Short:   "GPT label tool",
	Long:    "gptctl reads, writes and reshapes GUID partition table labels",
	Version: appVersion,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	var initCmd = &cobra.Command{
		Use:     "init",
		Aliases: []string{"i"},
		Short:   "Initialise a new empty label",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nParts, _ := cmd.Flags().GetInt("parts")
			return runInit(args[0], uint32(nParts))
		},
	}
	initCmd.Flags().Int("parts", 128, "number of partition-entry slots")

	var readCmd = &cobra.Command{
		Use:     "read",
		Aliases: []string{"r"},
		Short:   "Read and print a label",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runRead(args[0])
		},
	}

	var reshapeCmd = &cobra.Command{
		Use:   "reshape",
		Short: "Grow the last partition to fill newly available capacity",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runReshape(args[0])
		},
	}

	var pmbrCmd = &cobra.Command{
		Use:   "pmbr",
		Short: "Rewrite the protective MBR for an existing label",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPMBR(args[0])
		},
	}

	var backupCmd = &cobra.Command{
		Use:   "backup",
		Short: "Archive a label's raw bytes to a compressed file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, _ := cmd.Flags().GetString("algo")
			return runBackup(args[0], args[1], algo)
		},
	}
	backupCmd.Flags().String("algo", "zstd", "compression algorithm: gzip, zlib, bzip2, snappy, s2, zstd, zip")

	var restoreCmd = &cobra.Command{
		Use:   "restore",
		Short: "Restore a label's raw bytes from a compressed file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			algo, _ := cmd.Flags().GetString("algo")
			return runRestore(args[0], args[1], algo)
		},
	}
	restoreCmd.Flags().String("algo", "zstd", "compression algorithm used for the archive")

	var tuiCmd = &cobra.Command{
		Use:   "tui",
		Short: "Interactively inspect a label",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runTUI(args[0])
		},
	}

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(reshapeCmd)
	rootCmd.AddCommand(pmbrCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(tuiCmd)
}
