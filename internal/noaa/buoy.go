package noaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/monomoy/fishcast/internal/models"
)

const ndbcBaseURL = "https://www.ndbc.noaa.gov/data/realtime2"

// ErrNoReading indicates the buoy feed had no usable water temperature,
// which NDBC reports as "MM". Callers treat it as a gap, not a failure.
var ErrNoReading = errors.New("noaa: no water temperature reading")

// wtmpColumn is the 0-based index of the WTMP column in the realtime2
// standard meteorological format:
// YY MM DD hh mm WDIR WSPD GST WVHT DPD APD MWD PRES ATMP WTMP DEWP VIS PTDY TIDE
const wtmpColumn = 14

// BuoyClient reads NDBC realtime2 text feeds.
type BuoyClient struct {
	baseURL string
	client  *http.Client
}

func NewBuoyClient(client *http.Client) *BuoyClient {
	return &BuoyClient{
		baseURL: ndbcBaseURL,
		client:  client,
	}
}

// LatestWaterTemp returns the most recent water temperature from the buoy,
// converted to Fahrenheit. Returns ErrNoReading when the sensor is down.
func (c *BuoyClient) LatestWaterTemp(ctx context.Context, station string) (models.WaterTemp, error) {
	requestURL := fmt.Sprintf("%s/%s.txt", c.baseURL, station)

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return fmt.Errorf("fetch buoy feed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return fmt.Errorf("ndbc status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("ndbc status %d", resp.StatusCode))
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
		return models.WaterTemp{}, err
	}

	return parseLatestWaterTemp(string(body))
}

// parseLatestWaterTemp reads the first data row of a realtime2 feed. Rows
// are newest first; the two leading lines are '#' headers.
func parseLatestWaterTemp(feed string) (models.WaterTemp, error) {
	for _, line := range strings.Split(feed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cols := strings.Fields(line)
		if len(cols) <= wtmpColumn {
			return models.WaterTemp{}, fmt.Errorf("buoy feed row has %d columns", len(cols))
		}
		if cols[wtmpColumn] == "MM" {
			return models.WaterTemp{}, ErrNoReading
		}

		tempC, err := strconv.ParseFloat(cols[wtmpColumn], 64)
		if err != nil {
			return models.WaterTemp{}, fmt.Errorf("parse WTMP %q: %w", cols[wtmpColumn], err)
		}

		observedAt, err := parseObservationTime(cols)
		if err != nil {
			return models.WaterTemp{}, err
		}

		return models.WaterTemp{
			ObservedAt: observedAt,
			TempF:      tempC*9/5 + 32,
		}, nil
	}
	return models.WaterTemp{}, ErrNoReading
}

// parseObservationTime assembles the UTC timestamp from the first five
// columns (year, month, day, hour, minute).
func parseObservationTime(cols []string) (time.Time, error) {
	var parts [5]int
	for i := 0; i < 5; i++ {
		v, err := strconv.Atoi(cols[i])
		if err != nil {
			return time.Time{}, fmt.Errorf("parse timestamp column %d: %w", i, err)
		}
		parts[i] = v
	}
	return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, time.UTC), nil
}
