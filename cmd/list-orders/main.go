// Command list-orders prints recent orders through the authenticated
// client, exercising the full session path (bootstrap, bearer injection,
// 401 replay).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jsalmela/apteekki-admin/internal/api"
	"github.com/jsalmela/apteekki-admin/internal/config"
	"github.com/jsalmela/apteekki-admin/internal/session"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	status := flag.String("status", "", "filter by order status (pending, confirmed, shipped, delivered, cancelled)")
	limit := flag.Int("limit", 20, "max orders to list")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	key, err := session.DeriveKey(cfg.TokenKey)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to derive encryption key")
	}

	store, err := session.NewSQLiteStore(cfg.DBPath, key)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open session store")
	}
	defer store.Close()

	client := api.NewClient(api.ClientOpts{BaseURL: cfg.APIBaseURL})
	coord := session.NewCoordinator(store, client)
	defer coord.Stop()
	client.SetTokenSource(coord)

	ctx := context.Background()
	if err := coord.Bootstrap(ctx); err != nil {
		log.Fatal().Err(err).Msg("no valid session; run the login command first")
	}

	resp, err := client.ListOrders(ctx, api.ListParams{Limit: *limit}, *status)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list orders")
	}

	for _, order := range resp.Orders {
		fmt.Printf("%s  %-10s  %8.2f €  %s\n",
			order.CreatedAt.Format("2006-01-02 15:04"),
			order.Status,
			order.Total,
			order.ID,
		)
	}
	fmt.Printf("\n%d of %d orders\n", len(resp.Orders), resp.Pagination.TotalItems)
}
