package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "swap_calldata"

// Recorder collects calldata compilation metrics
type Recorder struct {
	compilations *prometheus.CounterVec
	errors       *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// NewRecorder creates a recorder and registers its collectors with reg
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		compilations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compilations_total",
			Help:      "Number of compiled swap calldata payloads by chain and rule.",
		}, []string{"chain_id", "rule"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_errors_total",
			Help:      "Number of failed calldata compilations by chain and reason.",
		}, []string{"chain_id", "reason"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compile_duration_seconds",
			Help:      "Time spent compiling calldata by rule.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}, []string{"rule"}),
	}

	for _, c := range []prometheus.Collector{r.compilations, r.errors, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewNopRecorder returns a recorder registered with a private registry
func NewNopRecorder() *Recorder {
	r, _ := NewRecorder(prometheus.NewRegistry())
	return r
}

func (r *Recorder) ObserveCompilation(chainID, rule string, elapsed time.Duration) {
	r.compilations.WithLabelValues(chainID, rule).Inc()
	r.duration.WithLabelValues(rule).Observe(elapsed.Seconds())
}

func (r *Recorder) ObserveError(chainID, reason string) {
	r.errors.WithLabelValues(chainID, reason).Inc()
}
