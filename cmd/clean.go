package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zhubert/followup/internal/logger"
)

var skipConfirm bool

// logDir is the directory clean sweeps for followup log files.
var logDir = logger.LogDir

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove followup log files",
	Long: `Removes the debug log and any other followup-*.log files from /tmp.
Other files in /tmp are left alone.
It will prompt for confirmation before proceeding unless the --yes flag is used.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVarP(&skipConfirm, "yes", "y", false, "Skip confirmation prompt")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	return runCleanWithReader(os.Stdin, cmd.OutOrStdout())
}

// runCleanWithReader allows injecting the confirmation input and output for testing
func runCleanWithReader(input io.Reader, out io.Writer) error {
	files, err := logger.LogFilesIn(logDir)
	if err != nil {
		return fmt.Errorf("error listing log files: %w", err)
	}

	if len(files) == 0 {
		fmt.Fprintln(out, "Nothing to clean.")
		return nil
	}

	fmt.Fprintln(out, "This will remove:")
	for _, f := range files {
		fmt.Fprintf(out, "  - %s\n", f)
	}

	// Confirm unless --yes flag is set
	if !skipConfirm {
		if !confirm(input, "Continue?") {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	// The running process may hold the debug log open.
	logger.Close()

	removed, err := logger.ClearLogsIn(logDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: error clearing logs: %v\n", err)
	}
	fmt.Fprintf(out, "Removed %d log file(s).\n", removed)
	return nil
}

// confirm prompts the user for y/n confirmation
func confirm(input io.Reader, prompt string) bool {
	reader := bufio.NewReader(input)
	fmt.Printf("%s [y/N]: ", prompt)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}
