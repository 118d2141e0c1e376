package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/schema"
	"github.com/conftree/conftree/internal/session"
)

var (
	arrayIndex int
	arrayValue string
	arrayType  string
)

var arrayCmd = &cobra.Command{
	Use:   "array",
	Short: "Mutate arrays in a document",
}

var arrayAddCmd = &cobra.Command{
	Use:   "add <file> <path>",
	Short: "Insert an element into an array and save",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArrayOp(cmd, args, func(sess *session.Session, idx *int) (int, error) {
			return sess.ArrayAdd(args[1], idx, arrayValue, schema.FieldType(arrayType))
		})
	},
}

var arrayRemoveCmd = &cobra.Command{
	Use:   "remove <file> <path>",
	Short: "Remove an element from an array and save",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArrayOp(cmd, args, func(sess *session.Session, idx *int) (int, error) {
			return sess.ArrayRemove(args[1], idx)
		})
	},
}

var arrayCloneCmd = &cobra.Command{
	Use:   "clone <file> <path>",
	Short: "Duplicate an array element and save",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runArrayOp(cmd, args, func(sess *session.Session, idx *int) (int, error) {
			return sess.ArrayClone(args[1], idx)
		})
	},
}

func init() {
	arrayCmd.PersistentFlags().IntVar(&arrayIndex, "index", -1, "Target index (default: end of array)")
	arrayAddCmd.Flags().StringVar(&arrayValue, "value", "", "Raw value for the new element")
	arrayAddCmd.Flags().StringVar(&arrayType, "type", "", "Declared type for the new element")

	arrayCmd.AddCommand(arrayAddCmd)
	arrayCmd.AddCommand(arrayRemoveCmd)
	arrayCmd.AddCommand(arrayCloneCmd)
}

func runArrayOp(cmd *cobra.Command, args []string, op func(*session.Session, *int) (int, error)) error {
	sess, _, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var idx *int
	if arrayIndex >= 0 {
		idx = &arrayIndex
	}

	at, err := op(sess, idx)
	if err != nil {
		return err
	}
	if err := sess.Save(); err != nil {
		return err
	}
	fmt.Printf("%s[%d]\n", args[1], at)
	return nil
}
