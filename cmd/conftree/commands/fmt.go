package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/document"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Reformat a JSON/JSONC file",
	Long: `Parse a JSON or JSONC file and print it back as normalized JSON at
the configured indent. JSONC comments and trailing commas are stripped.
With --write the file is replaced in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "Write result back to the file")
}

func runFmt(cmd *cobra.Command, args []string) error {
	sess, env, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if fmtWrite {
		return sess.Save()
	}

	doc := sess.Document()
	out := append(document.Serialize(doc, env.config.IndentOrDefault()), '\n')
	_, err = os.Stdout.Write(out)
	return err
}
