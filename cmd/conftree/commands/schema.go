package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect and pin document schemas",
}

var schemaShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show the schema attached to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaShow,
}

var schemaPinCmd = &cobra.Command{
	Use:   "pin <file> <schema>",
	Short: "Pin a schema file to a document",
	Long: `Pin a schema to a document. A pinned schema takes precedence over
suffix-based discovery every time the document is opened.`,
	Args: cobra.ExactArgs(2),
	RunE: runSchemaPin,
}

var schemaUnpinCmd = &cobra.Command{
	Use:   "unpin <file>",
	Short: "Remove a document's schema pin",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchemaUnpin,
}

func init() {
	schemaCmd.AddCommand(schemaShowCmd)
	schemaCmd.AddCommand(schemaPinCmd)
	schemaCmd.AddCommand(schemaUnpinCmd)
}

func runSchemaShow(cmd *cobra.Command, args []string) error {
	sess, _, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	sch := sess.Schema()
	if sch == nil {
		fmt.Println("no schema attached")
		return nil
	}

	fmt.Printf("schema: %s\n", sch.Path())
	for _, key := range sch.Keys() {
		def := sch.Field(key)
		parts := []string{key}
		if def.Type != "" {
			parts = append(parts, string(def.Type))
		}
		if def.Label != "" {
			parts = append(parts, fmt.Sprintf("%q", def.Label))
		}
		if def.Range != nil && def.Range.Min != nil && def.Range.Max != nil {
			parts = append(parts, fmt.Sprintf("[%g..%g]", *def.Range.Min, *def.Range.Max))
		}
		if len(def.Enum) > 0 {
			opts := make([]string, len(def.Enum))
			for i, o := range def.Enum {
				opts[i] = fmt.Sprint(o)
			}
			parts = append(parts, "{"+strings.Join(opts, ", ")+"}")
		}
		if def.Visible != nil && !*def.Visible {
			parts = append(parts, "(hidden)")
		}
		fmt.Println("  " + strings.Join(parts, " "))
	}
	return nil
}

func runSchemaPin(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(args[0])
	if err != nil {
		return err
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}
	schemaPath, err := filepath.Abs(args[1])
	if err != nil {
		return err
	}

	if err := env.pins.Pin(cmd.Context(), file, schemaPath); err != nil {
		return err
	}
	fmt.Printf("pinned %s -> %s\n", file, schemaPath)
	return nil
}

func runSchemaUnpin(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(args[0])
	if err != nil {
		return err
	}

	file, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	if err := env.pins.Unpin(cmd.Context(), file); err != nil {
		return err
	}
	fmt.Printf("unpinned %s\n", file)
	return nil
}
