package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lazypower/prig/internal/config"
	"github.com/lazypower/prig/internal/engine"
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Bulk import contacts from a JSON file",
	Long:  "Import a JSON array of node records. Rows must already be mapped onto the node shape; bad rows are skipped, not fatal.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("parse %s: %w", args[0], err)
	}

	db, err := openDB(config.Default())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db)
	if err := eng.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	res := eng.Import(rows)
	fmt.Fprintf(os.Stderr, "imported %d, skipped %d\n", res.Imported, res.Skipped)
	return nil
}
