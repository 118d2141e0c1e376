package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/schema"
)

var diffCmd = &cobra.Command{
	Use:   "diff <file> [path=value ...]",
	Short: "Show the diff a set of edits would produce",
	Long: `Apply edits in memory and print the resulting patch against the file
on disk without saving. Each edit is written as path=value; values are
coerced and validated the same way 'set' does it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
	sess, _, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	for _, edit := range args[1:] {
		path, value, ok := strings.Cut(edit, "=")
		if !ok {
			return fmt.Errorf("invalid edit %q: expected path=value", edit)
		}
		if err := sess.UpdateValue(path, value, schema.TypeUnknown); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	fmt.Print(sess.Diff())
	return nil
}
