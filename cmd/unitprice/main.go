// unitprice ranks scraped product cards by normalized unit price.
//
// Usage:
//
//	unitprice evaluate --size "4 x 220g" --dollars 5 --cents 00
//	unitprice rank --input products.json --format table
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/unitprice/backend/internal/domain"
	"github.com/unitprice/backend/internal/infrastructure/retailer"
	"github.com/unitprice/backend/internal/logging"
	"github.com/unitprice/backend/internal/usecase"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "unitprice",
		Usage:   "Normalize and rank product-label prices per 100g, 100mL or item",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"UNITPRICE_LOG_LEVEL"},
			},
		},
		Commands: []*cli.Command{
			evaluateCommand(),
			rankCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newService(c *cli.Context, concurrency int) *usecase.RankingService {
	logger := logging.New(c.String("log-level"), "console", os.Stderr)
	return usecase.NewRankingService(logger, usecase.RankingServiceConfig{
		Concurrency:        concurrency,
		MaxProducts:        c.Int("max-products"),
		EnableDebugLogging: logger.GetLevel() <= zerolog.DebugLevel,
	})
}

// =============================================================================
// EVALUATE COMMAND
// =============================================================================

func evaluateCommand() *cli.Command {
	return &cli.Command{
		Name:  "evaluate",
		Usage: "Evaluate a single product card",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Product title"},
			&cli.StringFlag{Name: "size", Aliases: []string{"s"}, Usage: "Package size label, e.g. \"4 x 220g\""},
			&cli.StringFlag{Name: "cup", Usage: "Vendor comparative price, e.g. \"$0.48 / 100g\""},
			&cli.StringFlag{Name: "dollars", Aliases: []string{"d"}, Usage: "Advertised price dollars"},
			&cli.StringFlag{Name: "cents", Aliases: []string{"c"}, Usage: "Advertised price cents (may include a kg marker)"},
			&cli.StringFlag{Name: "single", Usage: "Single unit price text shown for per-kg products"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "text", Usage: "Output format (text, json)"},
		},
		Action: runEvaluate,
	}
}

func runEvaluate(c *cli.Context) error {
	card := retailer.ProductCard{
		Title:           c.String("title"),
		Size:            c.String("size"),
		CupPrice:        c.String("cup"),
		Dollars:         c.String("dollars"),
		Cents:           c.String("cents"),
		SingleUnitPrice: c.String("single"),
	}

	svc := newService(c, 1)
	result, err := svc.Evaluate(c.Context, retailer.MapToRawFields(card))
	if err != nil && !usecase.IsReportedCondition(err) {
		return err
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, map[string]any{
			"result": result,
			"issues": usecase.IssueMessages(err),
		})
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Pricing type:   %s\n", result.PricingType)
	fmt.Fprintf(w, "Variation:      %s\n", result.ProductVariation)
	fmt.Fprintf(w, "Advertised:     $%s\n", result.AdvertisedPrice.StringFixed(2))
	fmt.Fprintf(w, "Unit price:     %s\n", result.FriendlyPriceString)
	for _, issue := range usecase.IssueMessages(err) {
		fmt.Fprintf(w, "Issue:          %s\n", issue)
	}
	return nil
}

// =============================================================================
// RANK COMMAND
// =============================================================================

func rankCommand() *cli.Command {
	return &cli.Command{
		Name:  "rank",
		Usage: "Rank a JSON file of product cards by unit price",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Usage:    "Path to a JSON array of product cards, or - for stdin",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "table",
				Usage:   "Output format (table, json)",
			},
			&cli.IntFlag{
				Name:  "concurrency",
				Value: 8,
				Usage: "Products evaluated in parallel",
			},
			&cli.IntFlag{
				Name:  "max-products",
				Value: 10000,
				Usage: "Largest batch accepted",
			},
		},
		Action: runRank,
	}
}

func runRank(c *cli.Context) error {
	cards, err := readCards(c.String("input"), c.App.Reader)
	if err != nil {
		return err
	}

	svc := newService(c, c.Int("concurrency"))
	ranked, err := svc.Rank(c.Context, retailer.MapAll(cards))
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, map[string]any{"products": ranked})
	}
	return writeTable(c.App.Writer, cards, ranked)
}

// readCards accepts either a bare array or an object with a "products" array
func readCards(path string, stdin io.Reader) ([]retailer.ProductCard, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var cards []retailer.ProductCard
	if err := json.Unmarshal(data, &cards); err == nil {
		return cards, nil
	}

	var wrapped struct {
		Products []retailer.ProductCard `json:"products"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return wrapped.Products, nil
}

func writeTable(w io.Writer, cards []retailer.ProductCard, ranked []domain.RankedProduct) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tTYPE\tUNIT PRICE\tVARIATION\tTITLE\tISSUES")
	for pos, p := range ranked {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%d\n",
			pos+1,
			p.Result.PricingType,
			p.Result.FriendlyPriceString,
			p.Result.ProductVariation,
			cards[p.Index].Title,
			len(p.Issues),
		)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
