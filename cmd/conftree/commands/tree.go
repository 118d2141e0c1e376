package commands

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conftree/conftree/internal/document"
	"github.com/conftree/conftree/internal/pathkey"
	"github.com/conftree/conftree/internal/session"
)

var treeShowHidden bool

var treeCmd = &cobra.Command{
	Use:   "tree <file> [path]",
	Short: "Print the document tree with schema labels",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runTree,
}

func init() {
	treeCmd.Flags().BoolVar(&treeShowHidden, "all", false, "Include fields the schema hides")
}

func runTree(cmd *cobra.Command, args []string) error {
	sess, _, err := openSession(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	path := ""
	if len(args) == 2 {
		path = args[1]
	}
	node, ok := sess.Get(path)
	if !ok {
		return fmt.Errorf("path not found: %s", path)
	}

	name := args[0]
	if path != "" {
		segs := pathkey.Decode(path)
		name = segmentName(segs[len(segs)-1])
	}
	printNode(os.Stdout, sess, node, path, name, 0)
	return nil
}

func segmentName(seg pathkey.Segment) string {
	if seg.IsIndex {
		return "[" + strconv.Itoa(seg.Index) + "]"
	}
	return seg.Key
}

// printNode writes one node and its visible descendants as an indented
// outline. Leaves render as "name: value", annotated with the schema's
// unit and a '*' marker when the value differs from disk.
func printNode(w io.Writer, sess *session.Session, v *document.Value, path, name string, depth int) {
	if !treeShowHidden && !sess.IsVisible(path) {
		return
	}

	indent := strings.Repeat("  ", depth)
	label := name
	var unit string
	if def := sess.Schema().Field(path); def != nil {
		if def.Label != "" {
			label = def.Label
		}
		unit = def.Unit
	}

	switch v.Kind() {
	case document.KindObject:
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		for _, key := range v.Keys() {
			member, _ := v.Member(key)
			printNode(w, sess, member, pathkey.JoinKey(path, key), key, depth+1)
		}
	case document.KindArray:
		fmt.Fprintf(w, "%s%s:\n", indent, label)
		for i, el := range v.Elements() {
			child := pathkey.Join(path, pathkey.Index(i))
			printNode(w, sess, el, child, "["+strconv.Itoa(i)+"]", depth+1)
		}
	default:
		line := fmt.Sprintf("%s%s: %s", indent, label, leafString(v))
		if unit != "" {
			line += " " + unit
		}
		if sess.IsModified(path) {
			line += " *"
		}
		fmt.Fprintln(w, line)
	}
}

func leafString(v *document.Value) string {
	return string(document.Serialize(v, 0))
}
