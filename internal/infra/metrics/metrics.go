package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ManifestsGenerated counts successfully rendered manifests by format (pdf/xlsx).
	ManifestsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "costeo_manifests_generated_total",
		Help: "Manifests rendered, labelled by output format.",
	}, []string{"format"})

	// ChartRenderFailures counts chart service calls that returned no image.
	ChartRenderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "costeo_chart_render_failures_total",
		Help: "Chart image requests that failed or timed out.",
	})
)
