package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"InsideX/internal/client"
	"InsideX/internal/controller"
	"InsideX/internal/di"
	"InsideX/internal/domain/models"
	"InsideX/internal/ui/render"
	"InsideX/internal/ui/table"
	"InsideX/pkg/format"
)

var (
	listPage    int
	listPerPage int
	sortKey     string
	sortDir     string

	signalWindow     int
	signalConfidence string
	signalSearch     string

	tradeTicker  string
	tradeInsider string
	tradeType    string

	scoreTicker   string
	scoreLookback int
)

func sortFlag() table.SortState {
	if sortKey == "" {
		return table.SortState{}
	}
	return table.SortState{Key: sortKey, Direction: table.ParseDirection(sortDir)}
}

func newClient() (*client.Client, int, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, 0, err
	}
	c, err := di.InitializeClient(cfg)
	if err != nil {
		return nil, 0, err
	}
	perPage := listPerPage
	if perPage <= 0 {
		perPage = cfg.Pagination.PageSize
	}
	return c, perPage, nil
}

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "Print ranked signals as a table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, perPage, err := newClient()
		if err != nil {
			return err
		}
		list := controller.NewSignalsList(c, perPage, nil)
		pg, err := list.Load(cmd.Context(), controller.SignalsQuery{
			WindowDays: signalWindow,
			Confidence: models.Confidence(strings.ToLower(signalConfidence)),
			Search:     signalSearch,
			Sort:       sortFlag(),
			Page:       listPage,
		})
		if err != nil {
			return errors.New(pg.Error)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%d of %d signals over %d days, generated %s\n",
			pg.Matched, pg.Fetched, pg.Query.WindowDays, format.Since(pg.GeneratedAt))
		if err := render.Terminal(out, &table.Table{
			Columns:  render.SignalColumns(),
			Data:     table.Rows(pg.Signals),
			Sortable: true,
			Sort:     pg.Query.Sort,
		}); err != nil {
			return err
		}
		fmt.Fprintln(out, render.PagerLine(pg.Pagination))
		return nil
	},
}

var tradesCmd = &cobra.Command{
	Use:   "trades",
	Short: "Print a page of trades as a table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, perPage, err := newClient()
		if err != nil {
			return err
		}
		list := controller.NewTradesList(c, perPage, nil)
		pg, err := list.Load(cmd.Context(), controller.TradesQuery{
			Ticker:      tradeTicker,
			InsiderName: tradeInsider,
			TradeType:   tradeType,
			Sort:        sortFlag(),
			Page:        listPage,
		})
		if err != nil {
			return errors.New(pg.Error)
		}

		out := cmd.OutOrStdout()
		if err := render.Terminal(out, &table.Table{
			Columns:  render.TradeColumns(),
			Data:     table.Rows(pg.Trades),
			Sortable: true,
			Sort:     pg.Query.Sort,
		}); err != nil {
			return err
		}
		fmt.Fprintln(out, render.PagerLine(pg.Pagination))
		return nil
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score [filings.json]",
	Short: "Score a ticker or a file of filings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filingsPath string
		if len(args) == 1 {
			filingsPath = args[0]
		}
		req, err := scoreRequest(scoreTicker, scoreLookback, filingsPath)
		if err != nil {
			return err
		}
		c, _, err := newClient()
		if err != nil {
			return err
		}

		resp, err := c.ScoreSignals(cmd.Context(), req)
		if err != nil {
			return errors.New(client.Message(err))
		}
		return render.Terminal(cmd.OutOrStdout(), &table.Table{
			Columns: render.SignalColumns(),
			Data:    table.Rows(resp.Signals),
		})
	},
}

// scoreRequest builds exactly one request shape from the flags and the
// optional filings file.
func scoreRequest(ticker string, lookback int, filingsPath string) (models.ScoreRequest, error) {
	req := models.TickerScoreRequest(ticker, lookback)
	if filingsPath != "" {
		b, err := os.ReadFile(filingsPath)
		if err != nil {
			return req, err
		}
		if err := json.Unmarshal(b, &req.Filings); err != nil {
			return req, fmt.Errorf("parse %s: %w", filingsPath, err)
		}
	}
	if err := req.Shape(); err != nil {
		return req, err
	}
	return req, nil
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the API answers",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, _, err := newClient()
		if err != nil {
			return err
		}
		ok, err := c.HealthCheck(cmd.Context())
		if err != nil {
			return errors.New(client.Message(err))
		}
		if !ok {
			return fmt.Errorf("api at %s is unhealthy", c.BaseURL())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "api at %s is healthy\n", c.BaseURL())
		return nil
	},
}

func init() {
	for _, cmd := range []*cobra.Command{signalsCmd, tradesCmd} {
		cmd.Flags().IntVar(&listPage, "page", 1, "page number")
		cmd.Flags().IntVar(&listPerPage, "per-page", 0, "rows per page (default pagination.page_size)")
		cmd.Flags().StringVar(&sortKey, "sort", "", "column key to sort by")
		cmd.Flags().StringVar(&sortDir, "dir", "asc", "sort direction: asc or desc")
	}

	signalsCmd.Flags().IntVar(&signalWindow, "window", client.DefaultWindowDays, "lookback window in days")
	signalsCmd.Flags().StringVar(&signalConfidence, "confidence", "", "only this tier: high, medium or low")
	signalsCmd.Flags().StringVar(&signalSearch, "search", "", "ticker or insider substring")

	tradesCmd.Flags().StringVar(&tradeTicker, "ticker", "", "filter by ticker")
	tradesCmd.Flags().StringVar(&tradeInsider, "insider", "", "filter by insider name")
	tradesCmd.Flags().StringVar(&tradeType, "type", "", "Buy or Sell")

	scoreCmd.Flags().StringVar(&scoreTicker, "ticker", "", "ticker to score")
	scoreCmd.Flags().IntVar(&scoreLookback, "lookback", 0, "lookback in days (default 30)")
}
