package commands

import (
	"fmt"
	"io"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/querycompiler/cli/internal/config"
	"github.com/satishbabariya/querycompiler/cli/internal/document"
)

// documentFlags describe a single SELECT on the command line, for use
// without a document file.
type documentFlags struct {
	table   string
	where   string
	selects []string
	orderBy []string
	limit   int
	offset  int
}

func (f *documentFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.table, "table", "t", "", "Table to select from (instead of a document)")
	cmd.Flags().StringVarP(&f.where, "where", "w", "", `Filter, e.g. 'name__icontains = "al" AND age >= 18'`)
	cmd.Flags().StringSliceVar(&f.selects, "select", nil, "Columns to select")
	cmd.Flags().StringSliceVar(&f.orderBy, "order-by", nil, `Order terms; prefix with "-" for descending`)
	cmd.Flags().IntVar(&f.limit, "limit", 0, "LIMIT")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "OFFSET")
}

func (f *documentFlags) document(cmd *cobra.Command) document.Document {
	doc := document.Document{
		Version: "1",
		Table:   f.table,
		Where:   f.where,
		Select:  f.selects,
		OrderBy: f.orderBy,
	}
	if cmd.Flags().Changed("limit") {
		limit := f.limit
		doc.Limit = &limit
	}
	if cmd.Flags().Changed("offset") {
		offset := f.offset
		doc.Offset = &offset
	}
	return doc
}

// loadDocuments reads the document file at path, or stdin for "-".
func loadDocuments(cmd *cobra.Command, path string) ([]document.Document, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := config.AppFs.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open document: %w", err)
		}
		defer f.Close()
		r = f
	}

	docs, err := document.Load(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no documents", path)
	}
	return docs, nil
}

// resolveDocuments returns the documents named by args, or the one built from flags.
func resolveDocuments(cmd *cobra.Command, args []string, flags *documentFlags) ([]document.Document, error) {
	if len(args) > 0 {
		return loadDocuments(cmd, args[0])
	}
	if flags.table == "" {
		return nil, fmt.Errorf("a document file or --table is required")
	}
	return []document.Document{flags.document(cmd)}, nil
}

// fileExists reports whether path exists on the configured filesystem.
func fileExists(path string) bool {
	ok, err := afero.Exists(config.AppFs, path)
	return err == nil && ok
}
