package model

import (
	"fmt"
	"time"
)

// TimestampFormat is the wire format used by the weather API for all
// timestamps ("2021-05-05T13:00:00Z").
const TimestampFormat = "2006-01-02T15:04:05Z"

// ReportStride is the spacing between raw forecast samples. The weather API
// guarantees a fixed 3-hour stride regardless of where the report starts.
const ReportStride = 3 * time.Hour

// WeatherReport matches the JSON shape of a raw 3-hourly site forecast.
//
// Example:
//
//	{
//	  "SiteRep": {
//	    "DV": {
//	      "dataDate": "2021-05-04T20:00:00Z",
//	      "Location": {
//	        "Period": [ {"Rep": [ {...}, {...} ]}, ... ]
//	      }
//	    }
//	  }
//	}
type WeatherReport struct {
	SiteRep SiteRep `json:"SiteRep"`
}

type SiteRep struct {
	DV DataView `json:"DV"`
}

type DataView struct {
	DataDate string         `json:"dataDate"`
	Location ReportLocation `json:"Location"`
}

type ReportLocation struct {
	ID     string         `json:"i"`
	Name   string         `json:"name"`
	Period []ReportPeriod `json:"Period"`
}

// ReportPeriod is one forecast block. Each block carries an arbitrary number
// of 3-hourly samples.
type ReportPeriod struct {
	Value string      `json:"value"`
	Rep   []RawSample `json:"Rep"`
}

// RawSample is a single coarse forecast sample, keyed by the API's short
// field names. All values arrive as strings.
//
//	D  wind direction (16-point compass)
//	F  feels-like temperature (C)
//	G  wind gust (mph)
//	H  relative humidity (%)
//	Pp precipitation probability (%)
//	S  wind speed (mph)
//	T  screen temperature (C)
//	V  visibility (categorical)
//	W  weather type code (0-30)
//	U  UV index
//	$  minutes-of-day marker, interpolated as a continuous field
type RawSample map[string]string

// DataDate parses the report's declared data date.
func (r *WeatherReport) DataDate() (time.Time, error) {
	t, err := time.Parse(TimestampFormat, r.SiteRep.DV.DataDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dataDate %q: %w", r.SiteRep.DV.DataDate, err)
	}
	return t, nil
}
