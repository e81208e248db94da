package main

import (
	"flag"
	"fmt"

	"site-autobidder/internal/analysis"
	"site-autobidder/internal/bidder"
	"site-autobidder/internal/config"
	"site-autobidder/internal/data"
	"site-autobidder/internal/model"
	"site-autobidder/internal/pipeline"
	"site-autobidder/internal/price"
)

// Demo:
// - Load a raw weather report fixture from disk
// - Run the full forecast-to-order pipeline offline at a flat price
// - Print the per-slot series and the resulting day of orders
func main() {
	dataPath := flag.String("data", "sample_forecast.json", "Path to raw weather report JSON fixture")
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	flatPrice := flag.Float64("price", 90.0, "Flat system price forecast in currency/MWh")
	outCSV := flag.String("out", "", "Optional path to write the prediction CSV (e.g. results/prediction.csv)")
	flag.Parse()

	report, err := data.LoadWeatherReportJSON(*dataPath)
	if err != nil {
		panic(err)
	}

	// Defaults describe the HQ site (can be overridden via --config).
	site := pipeline.Site{
		Location: model.Location{
			Latitude:  52.1051,
			Longitude: -3.6680,
			AltitudeM: 250,
			Timezone:  "Europe/London",
		},
		Array: model.SolarArray{
			AreaM2:           2500,
			TiltDegrees:      45,
			BaseEfficiency:   0.196,
			TemperatureCoeff: -0.0037,
			MaxOutputW:       469_000,
		},
		Farm: model.WindFarm{
			Turbines:     6,
			RotorHeightM: 10,
		},
		Demand: model.DemandModel{
			DataCentreKW:      200,
			OfficeEquipmentKW: 40,
			LightingKW:        20,
		},
	}
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		site.Location = cfg.Site.Location()
		site.Array = cfg.Site.SolarArray()
		site.Farm = cfg.Site.WindFarm()
		site.Demand = cfg.Site.DemandModel()
	}

	runner := &pipeline.Runner{
		Forecasts: &data.FixtureForecastSource{Report: report},
		Prices:    &price.Fixed{PriceMWh: *flatPrice},
		Site:      site,
	}

	pred, err := runner.Run()
	if err != nil {
		panic(err)
	}

	fmt.Printf("Report dataDate=%s, %d half-hour slots from %s\n\n",
		report.SiteRep.DV.DataDate,
		pred.SlotCount(),
		pred.Times[0].Format("2006-01-02 15:04"))

	for i := 0; i < pred.SlotCount(); i++ {
		fmt.Printf("%s  solar=%8.2f  wind=%8.2f  demand=%7.2f  net=%8.2f  price=%6.2f\n",
			pred.Times[i].Format("2006-01-02 15:04"),
			pred.Solar[i],
			pred.Wind[i],
			pred.Demand[i],
			pred.Net[i],
			pred.Prices[i],
		)
	}

	s := analysis.Summarize(pred)
	fmt.Printf("\nNet kW: min=%.2f max=%.2f mean=%.2f p05=%.2f p95=%.2f\n",
		s.MinNetKW, s.MaxNetKW, s.MeanNetKW, s.P05NetKW, s.P95NetKW)
	fmt.Printf("Slots: %d surplus, %d deficit\n", s.SurplusSlots, s.DeficitSlots)

	applyingDate := pred.Times[0].AddDate(0, 0, 1).Format("2006-01-02")
	orders, err := bidder.DayOrders(applyingDate, pred.Net, pred.Prices)
	if err != nil {
		panic(err)
	}
	fmt.Printf("\nOrders for %s:\n", applyingDate)
	for _, o := range orders {
		fmt.Printf("  hour %2d  %-4s  volume=%7.3f MWh  price=%6.2f\n",
			o.HourID, o.Type, o.Volume, o.Price)
	}

	if *outCSV != "" {
		if err := pipeline.WritePredictionCSV(*outCSV, pred); err != nil {
			panic(err)
		}
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}
