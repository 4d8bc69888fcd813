package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/querycompiler/cli/internal/ui"
	"github.com/satishbabariya/querycompiler/query/lookup"
	"github.com/satishbabariya/querycompiler/query/sqlgen"
)

// NewLookupsCommand creates the lookups command.
func NewLookupsCommand(o *options) *cobra.Command {
	var markdown bool

	cmd := &cobra.Command{
		Use:   "lookups",
		Short: "List the lookups and transforms usable in filter paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := o.backend()
			if err != nil {
				return err
			}
			reg := lookup.Default()
			out := cmd.OutOrStdout()

			transforms := reg.Transforms()
			if markdown {
				return ui.PrintMarkdown(out, lookupsMarkdown(reg.Lookups(), transforms, b))
			}

			ui.PrintSection(out, "Lookups")
			if _, err := fmt.Fprintln(out, strings.Join(reg.Lookups(), ", ")); err != nil {
				return err
			}

			if custom := customLookupRows(reg, b); len(custom) > 0 {
				ui.PrintSection(out, fmt.Sprintf("Custom lookups (%s)", b))
				if err := ui.PrintTable(out, []string{"Lookup", "SQL"}, custom); err != nil {
					return err
				}
			}

			ui.PrintSection(out, fmt.Sprintf("Transforms (%s)", b))
			rows := make([][]string, 0, len(transforms))
			for _, t := range transforms {
				rows = append(rows, []string{t.Name, t.Apply(`"field"`, b)})
			}
			return ui.PrintTable(out, []string{"Transform", "SQL"}, rows)
		},
	}

	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render as markdown")
	return cmd
}

// customLookupRows previews each registered template against a sample column.
func customLookupRows(reg *lookup.Registry, b sqlgen.Backend) [][]string {
	var rows [][]string
	for _, name := range reg.Lookups() {
		def, ok := reg.CustomLookup(name)
		if !ok {
			continue
		}
		rows = append(rows, []string{name, def.Compile(`"field"`, b.Placeholder(1))})
	}
	return rows
}

func lookupsMarkdown(lookups []string, transforms []lookup.Transform, b sqlgen.Backend) string {
	var sb strings.Builder
	sb.WriteString("# Lookups\n\n")
	sorted := append([]string(nil), lookups...)
	sort.Strings(sorted)
	for _, l := range sorted {
		fmt.Fprintf(&sb, "- `%s`\n", l)
	}

	fmt.Fprintf(&sb, "\n# Transforms (%s)\n\n| Transform | SQL |\n| --- | --- |\n", b)
	for _, t := range transforms {
		fmt.Fprintf(&sb, "| `%s` | `%s` |\n", t.Name, t.Apply(`"field"`, b))
	}
	return sb.String()
}
