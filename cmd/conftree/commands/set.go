package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/schema"
)

var (
	setType   string
	setDryRun bool
)

var setCmd = &cobra.Command{
	Use:   "set <file> <path> <value>",
	Short: "Update the value at a path and save",
	Long: `Update a single value. The raw value is coerced against the schema's
declared type for the path (or --type when given) and validated against
its range or choice list before the file is written back.`,
	Args: cobra.ExactArgs(3),
	RunE: runSet,
}

func init() {
	setCmd.Flags().StringVar(&setType, "type", "", "Declared type (string|enum|integer|number|boolean)")
	setCmd.Flags().BoolVar(&setDryRun, "dry-run", false, "Apply and print the diff without saving")
}

func runSet(cmd *cobra.Command, args []string) error {
	sess, _, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if err := sess.UpdateValue(args[1], args[2], schema.FieldType(setType)); err != nil {
		return err
	}

	if setDryRun {
		fmt.Print(sess.Diff())
		return nil
	}
	return sess.Save()
}
