package distanceclient

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

// DefaultRatePerKm is the default travel reimbursement rate in euros
const DefaultRatePerKm = 0.23

// Client resolves one-way commute distances through the Google Distance
// Matrix API. The planning engine treats the provider as optional: a missing
// API key, provider error, non-OK element status or timeout all surface as a
// failed lookup, never as an error.
type Client struct {
	maps      *maps.Client
	timeout   time.Duration
	ratePerKm float64
	logger    *zap.Logger
}

// NewClient creates a distance client. An empty API key yields a client whose
// lookups always report unavailable, so the engine degrades instead of
// refusing to start.
func NewClient(apiKey string, timeout time.Duration, ratePerKm float64, logger *zap.Logger) (*Client, error) {
	client := &Client{
		timeout:   timeout,
		ratePerKm: ratePerKm,
		logger:    logger,
	}
	if ratePerKm <= 0 {
		client.ratePerKm = DefaultRatePerKm
	}

	if apiKey == "" {
		logger.Warn("No distance API key configured, distance scoring disabled")
		return client, nil
	}

	mapsClient, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	client.maps = mapsClient
	return client, nil
}

// Resolve returns the one-way driving distance in kilometres between two
// addresses. The call is bounded by the configured timeout; any failure
// reports ok=false.
func (c *Client) Resolve(ctx context.Context, origin, destination string) (float64, bool) {
	if c.maps == nil {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.maps.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      []string{origin},
		Destinations: []string{destination},
		Units:        maps.UnitsMetric,
		Mode:         maps.TravelModeDriving,
	})
	if err != nil {
		c.logger.Warn("Distance lookup failed",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.Error(err))
		return 0, false
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return 0, false
	}

	element := resp.Rows[0].Elements[0]
	if element.Status != "OK" {
		c.logger.Debug("Distance element not resolvable",
			zap.String("origin", origin),
			zap.String("destination", destination),
			zap.String("status", element.Status))
		return 0, false
	}

	return float64(element.Distance.Meters) / 1000, true
}

// TravelCost returns the round-trip travel cost for a one-way distance at
// the client's configured rate
func (c *Client) TravelCost(km float64) float64 {
	return TravelCost(km, c.ratePerKm)
}

// TravelCost computes the round-trip travel cost for a one-way distance in
// kilometres, rounded to two decimals. Non-positive distances cost nothing.
func TravelCost(km, ratePerKm float64) float64 {
	if km <= 0 {
		return 0
	}
	return math.Round(km*2*ratePerKm*100) / 100
}
