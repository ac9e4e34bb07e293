// Package metrics exposes the decoder's Prometheus collectors. Kept out
// of the ft8 package so that package stays free of a Prometheus import;
// cmd/ft8decode wires an Observer implementation backed by these
// collectors into the decode loop.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Collectors bundles every metric the decode loop reports. Its method
// set matches ft8.DecodeObserver structurally, so cmd/ft8decode can
// assign a *Collectors straight into Config.Observer without this
// package importing ft8 or ft8 importing prometheus.
type Collectors struct {
	DecodesTotal      prometheus.Counter
	CandidatesTotal   prometheus.Counter
	SuccessTotal      prometheus.Counter
	SNRHistogram      prometheus.Histogram
	LDPCIterHistogram prometheus.Histogram
	CandidatesPerPassGauge prometheus.Gauge
}

// NewCollectors registers a fresh set of collectors against reg (pass
// prometheus.NewRegistry() for test isolation, or a shared registry in
// production).
func NewCollectors(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		DecodesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ft8decode",
			Name:      "decode_attempts_total",
			Help:      "Number of decode passes run (one per spectrogram-to-candidates pass).",
		}),
		CandidatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ft8decode",
			Name:      "candidates_total",
			Help:      "Number of ranked candidates produced by component C across all passes.",
		}),
		SuccessTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ft8decode",
			Name:      "decodes_total",
			Help:      "Number of CRC-valid decodes produced.",
		}),
		SNRHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ft8decode",
			Name:      "decode_snr_db",
			Help:      "Estimated SNR (dB) of successful decodes.",
			Buckets:   prometheus.LinearBuckets(-24, 4, 13),
		}),
		LDPCIterHistogram: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ft8decode",
			Name:      "ldpc_iterations",
			Help:      "Belief-propagation iterations consumed per attempt.",
			Buckets:   prometheus.LinearBuckets(0, 5, 11),
		}),
		CandidatesPerPassGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ft8decode",
			Name:      "candidates_per_pass",
			Help:      "Ranked candidate count in the most recent pass.",
		}),
	}

	reg.MustRegister(
		c.DecodesTotal,
		c.CandidatesTotal,
		c.SuccessTotal,
		c.SNRHistogram,
		c.LDPCIterHistogram,
		c.CandidatesPerPassGauge,
	)
	return c
}

func (c *Collectors) DecodeAttempt(candidates int) {
	c.DecodesTotal.Inc()
	c.CandidatesTotal.Add(float64(candidates))
}

func (c *Collectors) DecodeSuccess(snrDB int) {
	c.SuccessTotal.Inc()
	c.SNRHistogram.Observe(float64(snrDB))
}

func (c *Collectors) LDPCIterations(n int) {
	c.LDPCIterHistogram.Observe(float64(n))
}

func (c *Collectors) CandidatesPerPass(n int) {
	c.CandidatesPerPassGauge.Set(float64(n))
}
