package charts

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(baseURL string, timeout time.Duration) *Client {
	return New(baseURL, timeout, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRenderPostsChartConfig(t *testing.T) {
	var captured []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chart" {
			t.Errorf("got %s %s, want POST /chart", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type = %q", ct)
		}
		captured, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte("\x89PNG fake"))
	}))
	defer srv.Close()

	spec := LineChart{
		Title:  "Avance Físico %",
		Labels: []string{"2024-01-01", "2024-01-02"},
		Values: []int{20, 100},
		Color:  "#2E86C1",
	}
	img, err := testClient(srv.URL, time.Second).Render(context.Background(), spec)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(img, []byte("\x89PNG")) {
		t.Errorf("unexpected image bytes %q", img)
	}

	var req struct {
		Width  int    `json:"width"`
		Height int    `json:"height"`
		Format string `json:"format"`
		Chart  struct {
			Type string `json:"type"`
			Data struct {
				Labels   []string `json:"labels"`
				Datasets []struct {
					Label string `json:"label"`
					Data  []int  `json:"data"`
				} `json:"datasets"`
			} `json:"data"`
			Options struct {
				Scales map[string]struct {
					Min int `json:"min"`
					Max int `json:"max"`
				} `json:"scales"`
			} `json:"options"`
		} `json:"chart"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}
	if req.Width != 800 || req.Height != 400 || req.Format != "png" {
		t.Errorf("canvas = %dx%d %s, want 800x400 png", req.Width, req.Height, req.Format)
	}
	if req.Chart.Type != "line" {
		t.Errorf("type = %q, want line", req.Chart.Type)
	}
	if y := req.Chart.Options.Scales["y"]; y.Min != 0 || y.Max != 100 {
		t.Errorf("y axis = [%d,%d], want [0,100]", y.Min, y.Max)
	}
	ds := req.Chart.Data.Datasets
	if len(ds) != 1 || ds[0].Label != spec.Title || len(ds[0].Data) != 2 {
		t.Errorf("datasets = %+v", ds)
	}
}

func TestRenderServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, time.Second).Render(context.Background(), LineChart{Title: "x"})
	if err == nil {
		t.Fatal("want error on non-200 response")
	}
}

func TestRenderTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := testClient(srv.URL, 50*time.Millisecond).Render(context.Background(), LineChart{Title: "x"})
	if err == nil {
		t.Fatal("want timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("render blocked %v past its deadline", elapsed)
	}
}
