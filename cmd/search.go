package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kamusis/agent-scout/internal/selector"
)

var (
	flagSearchK       int
	flagSearchCatalog string
	flagSearchURLs    bool
	flagSearchDocs    bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank catalog agents against a query",
	Long: `Rank every agent in the catalog against the query with BM25 and show the
top k matches with the endpoint each one resolves to.

With --urls only the resolved endpoints are printed, one per line, in rank order.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&flagSearchK, "k", "k", 0, "Number of results (default search.k from config)")
	searchCmd.Flags().StringVar(&flagSearchCatalog, "catalog", "", "Catalog file (default catalog_path from config)")
	searchCmd.Flags().BoolVar(&flagSearchURLs, "urls", false, "Print only resolved endpoint URLs")
	searchCmd.Flags().BoolVar(&flagSearchDocs, "docs", false, "Also print the indexed text of each match")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	records, err := loadCatalog(cfg, flagSearchCatalog)
	if err != nil {
		return err
	}
	sel, err := newSelector(cfg, records)
	if err != nil {
		return err
	}

	k := flagSearchK
	if k <= 0 {
		k = cfg.Search.K
	}
	query := strings.Join(args, " ")

	if flagSearchURLs {
		for _, u := range sel.URLs(query, k) {
			fmt.Println(u)
		}
		return nil
	}
	printCandidates(query, sel, sel.Select(query, k))
	return nil
}

func printCandidates(query string, sel *selector.Selector, cands []selector.Candidate) {
	fmt.Printf("\nscout search %q\n\n", query)
	fmt.Printf("Results (%d of %d agents):\n", len(cands), sel.Len())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, c := range cands {
		url := c.URL
		if !c.Resolved {
			url = "(no http endpoint)"
		}
		fmt.Fprintf(w, "  %d.\t[%.3f]\t%s\t%s\t%s\n", c.Rank, c.Score, emptyAsNA(c.ID), c.Name, url)
	}
	_ = w.Flush()

	if flagSearchDocs {
		for _, c := range cands {
			fmt.Printf("\n  %d. %s\n", c.Rank, c.Name)
			for _, line := range strings.Split(sel.Document(c.Position), "\n") {
				fmt.Printf("     %s\n", line)
			}
		}
	}
}
