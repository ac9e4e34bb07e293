package ft8

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/*
 * YAML configuration loading (ambient stack). Grounded on the teacher's
 * use of gopkg.in/yaml.v3 for its own config files: this package never
 * hand-rolls a config parser, it decodes into the same Config struct
 * Validate() already checks.
 */

// yamlConfig mirrors Config with yaml tags; kept separate from Config
// itself so Config's Go-idiomatic field order/doc comments don't have
// to carry yaml struct tags.
type yamlConfig struct {
	FreqMin            float64 `yaml:"freq_min_hz"`
	FreqMax            float64 `yaml:"freq_max_hz"`
	SyncThreshold      float64 `yaml:"sync_threshold"`
	MaxCandidates      int     `yaml:"max_candidates"`
	DecodeTopN         int     `yaml:"decode_top_n"`
	MinSNRdB           int     `yaml:"min_snr_db"`
	EnableAP           bool    `yaml:"enable_ap"`
	MyCall             string  `yaml:"my_call"`
	HisCall            string  `yaml:"his_call"`
	LDPCMaxIterations  int     `yaml:"ldpc_max_iterations"`
	OSDOrder           int     `yaml:"osd_order"`
	BaselinePolyDegree int     `yaml:"baseline_poly_degree"`
	ReceiverLocator    string  `yaml:"receiver_locator"`
}

// LoadConfig reads a YAML config file, starting from DefaultConfig and
// overriding any field the file sets, then validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("ft8: read config %s: %w", path, err)
	}

	var y yamlConfig
	fromConfig(&cfg, &y)
	if err := yaml.Unmarshal(data, &y); err != nil {
		return cfg, fmt.Errorf("ft8: parse config %s: %w", path, err)
	}
	applyYaml(&cfg, &y)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func fromConfig(cfg *Config, y *yamlConfig) {
	y.FreqMin = cfg.FreqMin
	y.FreqMax = cfg.FreqMax
	y.SyncThreshold = cfg.SyncThreshold
	y.MaxCandidates = cfg.MaxCandidates
	y.DecodeTopN = cfg.DecodeTopN
	y.MinSNRdB = cfg.MinSNRdB
	y.EnableAP = cfg.EnableAP
	y.MyCall = cfg.MyCall
	y.HisCall = cfg.HisCall
	y.LDPCMaxIterations = cfg.LDPCMaxIterations
	y.OSDOrder = cfg.OSDOrder
	y.BaselinePolyDegree = cfg.BaselinePolyDegree
	y.ReceiverLocator = cfg.ReceiverLocator
}

func applyYaml(cfg *Config, y *yamlConfig) {
	cfg.FreqMin = y.FreqMin
	cfg.FreqMax = y.FreqMax
	cfg.SyncThreshold = y.SyncThreshold
	cfg.MaxCandidates = y.MaxCandidates
	cfg.DecodeTopN = y.DecodeTopN
	cfg.MinSNRdB = y.MinSNRdB
	cfg.EnableAP = y.EnableAP
	cfg.MyCall = y.MyCall
	cfg.HisCall = y.HisCall
	cfg.LDPCMaxIterations = y.LDPCMaxIterations
	cfg.OSDOrder = y.OSDOrder
	cfg.BaselinePolyDegree = y.BaselinePolyDegree
	cfg.ReceiverLocator = y.ReceiverLocator
}
