package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"titlecluster/internal/embedding"
)

func newImportModelCmd() *cobra.Command {
	var from, to, fromType string
	cmd := &cobra.Command{
		Use:   "import-model",
		Short: "Convert a word2vec text or binary model into a sqlite or binary model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromType == "" {
				fromType = inferModelType(from)
			}
			if fromType == "sqlite" {
				return fmt.Errorf("import-model reads text or word2vec-bin models, got %s", from)
			}
			tbl, err := loadTable(fromType, from)
			if err != nil {
				return err
			}
			if err := writeTable(to, tbl); err != nil {
				return fmt.Errorf("write %s: %w", to, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d vectors of dimension %d into %s\n", tbl.Len(), tbl.Dimension(), to)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "source model (word2vec text or binary)")
	cmd.Flags().StringVar(&to, "to", "", "destination (.db/.sqlite or .bin)")
	cmd.Flags().StringVar(&fromType, "from-type", "", "source format: text or word2vec-bin (default: by extension)")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func inferModelType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bin":
		return "word2vec-bin"
	case ".db", ".sqlite":
		return "sqlite"
	default:
		return "text"
	}
}

func loadTable(modelType, path string) (*embedding.Table, error) {
	switch modelType {
	case "text":
		return embedding.LoadTextFile(path)
	case "word2vec-bin":
		return embedding.LoadBinaryFile(path)
	default:
		return nil, fmt.Errorf("unknown embedding type: %s", modelType)
	}
}

func writeTable(path string, tbl *embedding.Table) error {
	switch inferModelType(path) {
	case "sqlite":
		return embedding.WriteSQLite(path, tbl)
	case "word2vec-bin":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := embedding.WriteBinary(f, tbl); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	default:
		return fmt.Errorf("unsupported destination %q: use .db, .sqlite or .bin", path)
	}
}
