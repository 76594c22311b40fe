// Package main is the entry point for the spapi command line tool.
// It exposes common Selling Partner API calls for scripting and for
// verifying a seller account's credentials end to end.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/s-aga-r/amazon-sp-api/config"
	"github.com/s-aga-r/amazon-sp-api/spapi"
	"github.com/s-aga-r/amazon-sp-api/tokencache"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "spapi",
		Short:   "Amazon Selling Partner API client",
		Version: fmt.Sprintf("%s (built: %s, commit: %s)", Version, BuildTime, GitCommit),
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file path")

	rootCmd.AddCommand(
		newOrdersCmd(),
		newSellersCmd(),
		newCatalogCmd(),
		newReportsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a client from the configured file and environment.
func newClient(ctx context.Context) (*spapi.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger := newLogger(cfg)

	opts := spapi.Options{Logger: logger}
	switch cfg.TokenCache.Backend {
	case "memory":
		opts.TokenStore = tokencache.NewMemoryStore()
	case "redis":
		store, err := tokencache.NewRedisStore(ctx, tokencache.RedisConfig{
			Addr:     cfg.TokenCache.Redis.Addr(),
			Password: cfg.TokenCache.Redis.Password,
			DB:       cfg.TokenCache.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting token cache: %w", err)
		}
		opts.TokenStore = store
	}

	return spapi.New(ctx, cfg, opts)
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logging.Level))
	if err != nil {
		level = zerolog.InfoLevel
	}

	out := os.Stderr
	logger := zerolog.New(out)
	if cfg.Logging.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// =============================================================================
// Orders
// =============================================================================

func newOrdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Query marketplace orders",
	}

	var (
		createdAfter string
		statuses     []string
		all          bool
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders created after a given time",
		RunE: func(cmd *cobra.Command, args []string) error {
			after, err := time.Parse(time.RFC3339, createdAfter)
			if err != nil {
				return fmt.Errorf("parsing --created-after: %w", err)
			}

			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}

			params := spapi.GetOrdersParams{
				CreatedAfter:  after,
				OrderStatuses: statuses,
			}
			if all {
				orders, err := client.GetAllOrders(cmd.Context(), params)
				if err != nil {
					return err
				}
				return printJSON(orders)
			}

			page, err := client.GetOrders(cmd.Context(), params)
			if err != nil {
				return err
			}
			return printJSON(page)
		},
	}
	listCmd.Flags().StringVar(&createdAfter, "created-after", time.Now().AddDate(0, 0, -7).UTC().Format(time.RFC3339), "RFC 3339 lower bound on creation time")
	listCmd.Flags().StringSliceVar(&statuses, "status", nil, "order statuses to include (e.g. Unshipped)")
	listCmd.Flags().BoolVar(&all, "all", false, "follow pagination to exhaustion")

	getCmd := &cobra.Command{
		Use:   "get <order-id>",
		Short: "Show one order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			order, err := client.GetOrder(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(order)
		},
	}

	itemsCmd := &cobra.Command{
		Use:   "items <order-id>",
		Short: "List an order's line items",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			items, err := client.GetOrderItems(cmd.Context(), args[0], "")
			if err != nil {
				return err
			}
			return printJSON(items)
		},
	}

	cmd.AddCommand(listCmd, getCmd, itemsCmd)
	return cmd
}

// =============================================================================
// Sellers
// =============================================================================

func newSellersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sellers",
		Short: "Query the seller account",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "participations",
		Short: "List marketplace participations (connectivity check)",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			participations, err := client.GetMarketplaceParticipations(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(participations)
		},
	})
	return cmd
}

// =============================================================================
// Catalog
// =============================================================================

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Query the product catalog",
	}

	var includedData []string
	getCmd := &cobra.Command{
		Use:   "get <asin>",
		Short: "Show one catalog item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			item, err := client.GetCatalogItem(cmd.Context(), args[0], includedData)
			if err != nil {
				return err
			}
			return printJSON(item)
		},
	}
	getCmd.Flags().StringSliceVar(&includedData, "included-data", []string{"summaries"}, "data sets to include")

	cmd.AddCommand(getCmd)
	return cmd
}

// =============================================================================
// Reports
// =============================================================================

func newReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Request and download reports",
	}

	var marketplaceIDs []string
	createCmd := &cobra.Command{
		Use:   "create <report-type>",
		Short: "Request generation of a report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			reportID, err := client.CreateReport(cmd.Context(), spapi.CreateReportSpec{
				ReportType:     args[0],
				MarketplaceIDs: marketplaceIDs,
			})
			if err != nil {
				return err
			}
			fmt.Println(reportID)
			return nil
		},
	}
	createCmd.Flags().StringSliceVar(&marketplaceIDs, "marketplace", nil, "marketplace IDs (defaults to the configured marketplace)")

	getCmd := &cobra.Command{
		Use:   "get <report-id>",
		Short: "Show a report's processing status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			report, err := client.GetReport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(report)
		},
	}

	downloadCmd := &cobra.Command{
		Use:   "download <report-document-id>",
		Short: "Download a generated report document to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := client.GetReportDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			content, err := client.DownloadDocument(cmd.Context(), doc)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(content)
			return err
		},
	}

	cmd.AddCommand(createCmd, getCmd, downloadCmd)
	return cmd
}
