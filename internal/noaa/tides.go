// Package noaa fetches tide predictions from the CO-OPS datagetter API and
// water temperature from NDBC realtime buoy feeds.
package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/monomoy/fishcast/internal/models"
)

const coopsBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

// coopsTimeFormat is the timestamp layout the datagetter returns with
// time_zone=lst_ldt: station-local wall time, no zone designator.
const coopsTimeFormat = "2006-01-02 15:04"

// TideClient fetches tide predictions for one CO-OPS station.
type TideClient struct {
	baseURL string
	client  *http.Client
	loc     *time.Location
}

// NewTideClient returns a client that interprets prediction timestamps in loc.
func NewTideClient(client *http.Client, loc *time.Location) *TideClient {
	return &TideClient{
		baseURL: coopsBaseURL,
		client:  client,
		loc:     loc,
	}
}

type predictionsResponse struct {
	Predictions []struct {
		Time   string `json:"t"`
		Height string `json:"v"` // the API returns heights as strings
		Type   string `json:"type"`
	} `json:"predictions"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Predictions fetches the high/low tide extrema for station between start
// and end (inclusive, whole days). Entries with unparseable fields are
// skipped.
func (c *TideClient) Predictions(ctx context.Context, station string, start, end time.Time) ([]models.TidePrediction, error) {
	body, err := c.fetch(ctx, station, start, end, "hilo")
	if err != nil {
		return nil, err
	}

	var data predictionsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal predictions: %w", err)
	}
	if data.Error.Message != "" {
		return nil, fmt.Errorf("datagetter: %s", data.Error.Message)
	}

	tides := make([]models.TidePrediction, 0, len(data.Predictions))
	for _, p := range data.Predictions {
		t, err := time.ParseInLocation(coopsTimeFormat, p.Time, c.loc)
		if err != nil {
			continue
		}
		height, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}
		tideType := models.TideLow
		if p.Type == "H" {
			tideType = models.TideHigh
		}
		tides = append(tides, models.TidePrediction{Time: t, Height: height, Type: tideType})
	}
	return tides, nil
}

// HourlyPredictions fetches the predicted tide curve at hourly resolution.
func (c *TideClient) HourlyPredictions(ctx context.Context, station string, start, end time.Time) ([]models.HourlyHeight, error) {
	body, err := c.fetch(ctx, station, start, end, "h")
	if err != nil {
		return nil, err
	}

	var data predictionsResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("unmarshal hourly predictions: %w", err)
	}
	if data.Error.Message != "" {
		return nil, fmt.Errorf("datagetter: %s", data.Error.Message)
	}

	heights := make([]models.HourlyHeight, 0, len(data.Predictions))
	for _, p := range data.Predictions {
		t, err := time.ParseInLocation(coopsTimeFormat, p.Time, c.loc)
		if err != nil {
			continue
		}
		height, err := strconv.ParseFloat(p.Height, 64)
		if err != nil {
			continue
		}
		heights = append(heights, models.HourlyHeight{Time: t, Height: height})
	}
	return heights, nil
}

func (c *TideClient) fetch(ctx context.Context, station string, start, end time.Time, interval string) ([]byte, error) {
	params := url.Values{}
	params.Add("begin_date", start.Format("20060102"))
	params.Add("end_date", end.Format("20060102"))
	params.Add("station", station)
	params.Add("product", "predictions")
	params.Add("datum", "MLLW")
	params.Add("time_zone", "lst_ldt")
	params.Add("interval", interval)
	params.Add("units", "english")
	params.Add("format", "json")
	params.Add("application", "fishcast")

	requestURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch predictions: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("datagetter status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("datagetter status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 2 * time.Minute
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}
