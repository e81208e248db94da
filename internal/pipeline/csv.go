package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"

	"site-autobidder/internal/model"
)

// WritePredictionCSV dumps a prediction as one row per half-hour slot. This
// is the primary human-readable artifact of a run.
func WritePredictionCSV(path string, p *model.Prediction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"datetime",
		"solar_kw",
		"wind_kw",
		"demand_kw",
		"net_kw",
		"price_mwh",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range p.Times {
		price := ""
		if i < len(p.Prices) {
			price = fmtFloat(p.Prices[i])
		}
		row := []string{
			p.Times[i].Format(model.TimestampFormat),
			fmtFloat(p.Solar[i]),
			fmtFloat(p.Wind[i]),
			fmtFloat(p.Demand[i]),
			fmtFloat(p.Net[i]),
			price,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

// WriteOrdersCSV dumps a day's orders.
func WriteOrdersCSV(path string, orders []model.Order) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write([]string{"applying_date", "hour_id", "type", "volume_mwh", "price_mwh"}); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			o.ApplyingDate,
			strconv.Itoa(o.HourID),
			string(o.Type),
			strconv.FormatFloat(o.Volume, 'f', 3, 64),
			strconv.FormatFloat(o.Price, 'f', 2, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
