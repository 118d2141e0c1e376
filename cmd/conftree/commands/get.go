package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/document"
)

var getCmd = &cobra.Command{
	Use:   "get <file> <path>",
	Short: "Print the value at a path",
	Args:  cobra.ExactArgs(2),
	RunE:  runGet,
}

func runGet(cmd *cobra.Command, args []string) error {
	sess, _, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	v, ok := sess.Get(args[1])
	if !ok {
		return fmt.Errorf("path not found: %s", args[1])
	}

	os.Stdout.Write(document.Serialize(v, 2))
	fmt.Println()
	return nil
}
