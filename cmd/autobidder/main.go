package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"site-autobidder/internal/analysis"
	"site-autobidder/internal/bidder"
	"site-autobidder/internal/config"
	"site-autobidder/internal/data"
	"site-autobidder/internal/model"
	"site-autobidder/internal/pipeline"
	"site-autobidder/internal/price"
)

// Orders for tomorrow are due once per day, at the 07:00 UTC slot.
const submitHour = 7

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to YAML config")
	once := flag.Bool("once", false, "Run a single bidding cycle immediately and exit")
	csvDir := flag.String("csv-dir", "", "Optional: also write prediction and order CSVs here")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	a, err := build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}

	if *once {
		if err := a.bid(*csvDir); err != nil {
			log.Fatalf("[Autobidder] Bidding cycle failed: %v", err)
		}
		return
	}
	a.loop(*csvDir)
}

type app struct {
	runner   *pipeline.Runner
	store    *data.FileStore
	exchange *data.ExchangeClient
}

func build(cfg *config.Config) (*app, error) {
	var cache *data.Cache
	if cfg.Cache.Enabled {
		c, err := data.NewCache(cfg.Cache.Dir)
		if err != nil {
			return nil, err
		}
		cache = c
	}

	metKey, err := data.LoadKey(cfg.Forecast.KeyFile, "METOFFICEAPI")
	if err != nil {
		return nil, fmt.Errorf("weather API key: %w", err)
	}
	met := data.NewMetOfficeClient(metKey, cfg.Forecast.BaseURL, cfg.Forecast.SiteID)
	met.Cache = cache

	marketKey, err := data.LoadKey(cfg.Market.KeyFile, "ELEXONAPI")
	if err != nil {
		return nil, fmt.Errorf("market API key: %w", err)
	}
	market := data.NewMarketClient(marketKey, cfg.Market.BaseURL)
	market.Cache = cache

	store, err := data.NewFileStore(cfg.Store.Dir)
	if err != nil {
		return nil, err
	}

	runner := &pipeline.Runner{
		Forecasts: met,
		Prices:    &price.Forecaster{Market: market},
		Store:     store,
		Site: pipeline.Site{
			Location: cfg.Site.Location(),
			Array:    cfg.Site.SolarArray(),
			Farm:     cfg.Site.WindFarm(),
			Demand:   cfg.Site.DemandModel(),
		},
	}

	return &app{
		runner:   runner,
		store:    store,
		exchange: data.NewExchangeClient(cfg.Exchange.Key, cfg.Exchange.BaseURL, cfg.Exchange.SiteID),
	}, nil
}

// loop wakes on every half-hour boundary, records live telemetry, and runs
// the daily bidding cycle in the 07:00 slot.
func (a *app) loop(csvDir string) {
	for {
		wait := untilNextHalfHour(time.Now().UTC())
		log.Printf("[Autobidder] Sleeping %s until next slot", wait.Round(time.Second))
		time.Sleep(wait)

		now := time.Now().UTC()
		a.poll(now)

		if now.Hour() == submitHour && now.Minute() < 15 {
			a.settle(now)
			if err := a.bid(csvDir); err != nil {
				log.Printf("[Autobidder] Bidding cycle failed: %v", err)
			}
		}
	}
}

// bid runs the full forecast-to-order cycle: predict tomorrow's net energy,
// build the 24 hourly orders and submit them to the exchange.
func (a *app) bid(csvDir string) error {
	pred, err := a.runner.Run()
	if err != nil {
		return err
	}

	applyingDate := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	orders, err := bidder.DayOrders(applyingDate, pred.Net, pred.Prices)
	if err != nil {
		return err
	}

	accepted, submitErr := a.exchange.SubmitOrders(orders)
	batch := data.OrderBatch{
		SubmittedAt: time.Now().UTC().Format(model.TimestampFormat),
		Accepted:    accepted,
		Orders:      orders,
	}
	if err := a.store.SaveOrders(batch); err != nil {
		log.Printf("[Autobidder] Order store write failed: %v", err)
	}

	if csvDir != "" {
		if err := os.MkdirAll(csvDir, 0o755); err != nil {
			log.Printf("[Autobidder] CSV dir: %v", err)
		} else {
			stamp := time.Now().UTC().Format("2006-01-02")
			if err := pipeline.WritePredictionCSV(filepath.Join(csvDir, "prediction-"+stamp+".csv"), pred); err != nil {
				log.Printf("[Autobidder] Prediction CSV write failed: %v", err)
			}
			if err := pipeline.WriteOrdersCSV(filepath.Join(csvDir, "orders-"+stamp+".csv"), orders); err != nil {
				log.Printf("[Autobidder] Orders CSV write failed: %v", err)
			}
		}
	}

	if submitErr != nil {
		return fmt.Errorf("submit orders: %w", submitErr)
	}
	log.Printf("[Autobidder] Submitted %d orders for %s (%d accepted)", len(orders), applyingDate, accepted)
	return nil
}

// settle values the last submitted batch against yesterday's cleared prices
// and logs the realized revenue. Purely informational; failures never block
// the bidding cycle.
func (a *app) settle(now time.Time) {
	batch, ok, err := a.store.LatestOrders()
	if err != nil || !ok {
		return
	}
	yesterday := now.AddDate(0, 0, -1).Format("2006-01-02")
	if len(batch.Orders) == 0 || batch.Orders[0].ApplyingDate != yesterday {
		return
	}
	cleared, err := a.exchange.ClearoutPrices(yesterday, yesterday)
	if err != nil {
		log.Printf("[Autobidder] Clearout price fetch failed: %v", err)
		return
	}
	s := analysis.Settle(yesterday, batch.Orders, cleared)
	log.Printf("[Autobidder] Settled %s: %d/%d hours cleared, revenue=%.2f",
		yesterday, s.ClearedHours, len(s.Lines), s.TotalRevenue)
}

// poll records one live telemetry sample. Failures are logged and skipped;
// the bidding schedule does not depend on the feed.
func (a *app) poll(now time.Time) {
	t, err := a.exchange.LiveTelemetry()
	if err != nil {
		log.Printf("[Autobidder] Telemetry read failed: %v", err)
		return
	}
	t.Timestamp = now.Format(model.TimestampFormat)
	if err := a.store.SaveTelemetry(*t); err != nil {
		log.Printf("[Autobidder] Telemetry store write failed: %v", err)
	}
	log.Printf("[Autobidder] Telemetry: solar=%.2fkW wind=%.2fkW demand=%.2fkW",
		t.SolarKW, t.WindKW, t.DemandKW)
}

// untilNextHalfHour returns the wait to the next :00 or :30 boundary.
func untilNextHalfHour(now time.Time) time.Duration {
	next := now.Truncate(30 * time.Minute).Add(30 * time.Minute)
	return next.Sub(now)
}
