package ft8

/*
 * Decoder configuration.
 * Field names and defaults follow the option table in the external
 * interface contract; this struct is pure data, not a generic map.
 */

// Config controls one Decode/DecodeMultipass run.
type Config struct {
	FreqMin float64 // Hz, coarse-search band lower edge
	FreqMax float64 // Hz, coarse-search band upper edge

	SyncThreshold float64 // minimum normalised sync score for a candidate
	MaxCandidates int     // cap on the ranked candidate list
	DecodeTopN    int     // how many top candidates reach the soft decoder

	MinSNRdB int // drop decodes below this estimated SNR

	EnableAP bool   // turn on a-priori hint machinery
	MyCall   string // used for AP pattern construction
	HisCall  string // used for AP pattern construction

	LDPCMaxIterations int // BP iteration cap (spec: up to 50)
	OSDOrder          int // OSD bit-flip search order, 0-4; 0 disables OSD

	BaselinePolyDegree int // baseline fit ceiling degree (adaptive 5->2->constant below this)

	ReceiverLocator string // optional grid square, enables distance/bearing enrichment

	Log Logger // optional; defaults to a no-op logger

	// Observer, if set, receives decode-loop counters without this
	// package importing a metrics library directly; cmd/ft8decode wires
	// a Prometheus-backed implementation in.
	Observer DecodeObserver
}

// DecodeObserver receives decode-loop counters. Satisfied structurally
// by internal/metrics.Collectors without this package importing it.
type DecodeObserver interface {
	DecodeAttempt(candidates int)
	DecodeSuccess(snrDB int)
	LDPCIterations(n int)
	CandidatesPerPass(n int)
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		FreqMin:            100,
		FreqMax:            3000,
		SyncThreshold:      1.5,
		MaxCandidates:      140,
		DecodeTopN:         100,
		MinSNRdB:           -24,
		EnableAP:           false,
		LDPCMaxIterations:  50,
		OSDOrder:           2,
		BaselinePolyDegree: 5,
	}
}

// Validate checks the configuration, returning a *ConfigError for any
// out-of-range field (spec §7: ConfigurationOutOfRange, fatal).
func (c *Config) Validate() error {
	if c.FreqMax <= c.FreqMin {
		return &ConfigError{Field: "freq_max", Detail: "must be greater than freq_min"}
	}
	if c.FreqMin < 0 {
		return &ConfigError{Field: "freq_min", Detail: "must be non-negative"}
	}
	if c.MaxCandidates <= 0 {
		return &ConfigError{Field: "max_candidates", Detail: "must be positive"}
	}
	if c.DecodeTopN <= 0 {
		return &ConfigError{Field: "decode_top_n", Detail: "must be positive"}
	}
	if c.OSDOrder < 0 || c.OSDOrder > 4 {
		return &ConfigError{Field: "osd_order", Detail: "must be in 0..4"}
	}
	if c.LDPCMaxIterations <= 0 || c.LDPCMaxIterations > 50 {
		return &ConfigError{Field: "ldpc_max_iterations", Detail: "must be in 1..50"}
	}
	if c.BaselinePolyDegree <= 0 {
		return &ConfigError{Field: "baseline_poly_degree", Detail: "must be positive"}
	}
	return nil
}

func (c *Config) logger() Logger {
	if c.Log != nil {
		return c.Log
	}
	return nopLogger{}
}
