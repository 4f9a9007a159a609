package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lazypower/prig/internal/config"
	"github.com/lazypower/prig/internal/engine"
	"github.com/lazypower/prig/internal/query"
)

var (
	queryLimit int
	queryDays  int
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run analytic queries over the graph",
}

var underutilizedCmd = &cobra.Command{
	Use:   "underutilized",
	Short: "High-leverage contacts you aren't using",
	RunE: withGraph(func(eng *engine.Engine) (any, error) {
		return query.TopUnderutilized(eng.Index, queryLimit, time.Now()), nil
	}),
}

var reconnectCmd = &cobra.Command{
	Use:   "reconnect",
	Short: "High-leverage contacts gone quiet for 90+ days",
	RunE: withGraph(func(eng *engine.Engine) (any, error) {
		return query.ReconnectSuggestions(eng.Index, time.Now()), nil
	}),
}

var connectorsCmd = &cobra.Command{
	Use:   "connectors",
	Short: "People who can introduce you to investors",
	RunE: withGraph(func(eng *engine.Engine) (any, error) {
		return query.ConnectorsToInvestors(eng.Index), nil
	}),
}

var validatorsCmd = &cobra.Command{
	Use:   "validators",
	Short: "Fast, aligned contacts for quick feedback",
	RunE: withGraph(func(eng *engine.Engine) (any, error) {
		return query.FastValidators(eng.Index, queryDays, time.Now()), nil
	}),
}

var weakTiesCmd = &cobra.Command{
	Use:   "weak-ties",
	Short: "Underused high-value connections",
	RunE: withGraph(func(eng *engine.Engine) (any, error) {
		return query.WeakTiesHighUpside(eng.Index), nil
	}),
}

var pathCmd = &cobra.Command{
	Use:   "path [source-id] [industry]",
	Short: "Shortest path from a contact into an industry",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(eng *engine.Engine) (any, error) {
			p := query.PathToIndustry(eng.Index, args[0], args[1])
			if p == nil {
				return nil, fmt.Errorf("no path from %s into %q", args[0], args[1])
			}
			return p, nil
		})
	},
}

var industryCmd = &cobra.Command{
	Use:   "industry [term]",
	Short: "Find people by industry or company",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(eng *engine.Engine) (any, error) {
			return query.PeopleByIndustry(eng.Index, args[0]), nil
		})
	},
}

var skillCmd = &cobra.Command{
	Use:   "skill [tag]",
	Short: "Find people by skill tag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, func(eng *engine.Engine) (any, error) {
			return query.PeopleBySkill(eng.Index, args[0]), nil
		})
	},
}

func init() {
	underutilizedCmd.Flags().IntVarP(&queryLimit, "limit", "n", 5, "Maximum number of results")
	validatorsCmd.Flags().IntVarP(&queryDays, "days", "d", 48, "Reachability timeframe in days")

	queryCmd.AddCommand(underutilizedCmd)
	queryCmd.AddCommand(reconnectCmd)
	queryCmd.AddCommand(connectorsCmd)
	queryCmd.AddCommand(validatorsCmd)
	queryCmd.AddCommand(weakTiesCmd)
	queryCmd.AddCommand(pathCmd)
	queryCmd.AddCommand(industryCmd)
	queryCmd.AddCommand(skillCmd)
}

// withGraph wraps a query function into a RunE: open, load, run, print JSON.
func withGraph(fn func(*engine.Engine) (any, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return runQuery(cmd, fn)
	}
}

func runQuery(cmd *cobra.Command, fn func(*engine.Engine) (any, error)) error {
	db, err := openDB(config.Default())
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	eng := engine.New(db)
	if err := eng.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	result, err := fn(eng)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
