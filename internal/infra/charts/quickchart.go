// Package charts renders line-chart images through a QuickChart-compatible
// HTTP service. The call is time-bounded; callers treat a failure as "no
// image", never as a reason to abort a report.
package charts

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/MarteDevs/seguimiento-costeos-taller-backend/internal/infra/metrics"
)

// LineChart is the one chart shape the manifests need: a single series on a
// fixed 0-100 axis.
type LineChart struct {
	Title  string
	Labels []string
	Values []int
	Color  string
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     *slog.Logger
}

func New(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		timeout: timeout,
		http:    &http.Client{},
		log:     log,
	}
}

type chartRequest struct {
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	Format          string      `json:"format"`
	BackgroundColor string      `json:"backgroundColor"`
	Chart           chartConfig `json:"chart"`
}

type chartConfig struct {
	Type    string       `json:"type"`
	Data    chartData    `json:"data"`
	Options chartOptions `json:"options"`
}

type chartData struct {
	Labels   []string  `json:"labels"`
	Datasets []dataset `json:"datasets"`
}

type dataset struct {
	Label       string `json:"label"`
	Data        []int  `json:"data"`
	BorderColor string `json:"borderColor"`
	Fill        bool   `json:"fill"`
}

type chartOptions struct {
	Scales  map[string]axis `json:"scales"`
	Plugins plugins         `json:"plugins"`
}

type axis struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type plugins struct {
	Legend legend `json:"legend"`
}

type legend struct {
	Display bool `json:"display"`
}

// Render posts the chart spec and returns the PNG bytes. The request carries
// a hard deadline so a slow chart service cannot stall workbook assembly.
func (c *Client) Render(ctx context.Context, spec LineChart) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := json.Marshal(chartRequest{
		Width:           800,
		Height:          400,
		Format:          "png",
		BackgroundColor: "white",
		Chart: chartConfig{
			Type: "line",
			Data: chartData{
				Labels: spec.Labels,
				Datasets: []dataset{{
					Label:       spec.Title,
					Data:        spec.Values,
					BorderColor: spec.Color,
					Fill:        false,
				}},
			},
			Options: chartOptions{
				Scales:  map[string]axis{"y": {Min: 0, Max: 100}},
				Plugins: plugins{Legend: legend{Display: true}},
			},
		},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chart", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ChartRenderFailures.Inc()
		c.log.Warn("chart render failed", "title", spec.Title, "err", err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.ChartRenderFailures.Inc()
		c.log.Warn("chart render failed", "title", spec.Title, "status", resp.StatusCode)
		return nil, fmt.Errorf("chart service returned %d", resp.StatusCode)
	}

	img, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ChartRenderFailures.Inc()
		return nil, err
	}
	return img, nil
}
