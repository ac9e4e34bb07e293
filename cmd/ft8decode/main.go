// Command ft8decode runs the FT8 decoder over a single 15-second,
// 12 kHz, headerless little-endian float32 PCM buffer and prints any
// decoded messages. Grounded on the teacher's kiwi_wspr/main.go shape
// (flag parsing, YAML config load, log-based progress reporting) for a
// standalone batch decoder rather than its streaming receiver.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/n0ypr/ft8decode/ft8"
	"github.com/n0ypr/ft8decode/internal/metrics"
)

func main() {
	var (
		inputPath  = flag.String("in", "", "path to headerless little-endian float32 PCM audio (required)")
		configPath = flag.String("config", "", "optional YAML config file; defaults otherwise")
		passes     = flag.Int("passes", 1, "number of multipass cancellation rounds (1 disables cancellation)")
		metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics on this address (e.g. :9090) after decoding, until the process is stopped")
		myCall     = flag.String("my-call", "", "station callsign, enables a-priori pinning")
		hisCall    = flag.String("his-call", "", "QSO partner callsign for a-priori pinning (takes effect with -my-call)")
		locator    = flag.String("locator", "", "receiver grid square, enables distance/bearing enrichment")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: ft8decode -in audio.f32 [-config config.yaml] [-passes N]")
		os.Exit(2)
	}

	cfg := ft8.DefaultConfig()
	if *configPath != "" {
		loaded, err := ft8.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("ft8decode: %v", err)
		}
		cfg = loaded
	}
	if *myCall != "" {
		cfg.MyCall = *myCall
		cfg.EnableAP = true
	}
	if *hisCall != "" {
		cfg.HisCall = *hisCall
	}
	if *locator != "" {
		cfg.ReceiverLocator = *locator
	}
	cfg.Log = log.Default()

	reg := prometheus.NewRegistry()
	collectors := metrics.NewCollectors(reg)
	cfg.Observer = collectors

	audio, err := readFloat32PCM(*inputPath)
	if err != nil {
		log.Fatalf("ft8decode: %v", err)
	}

	count := 0
	accept := func(r ft8.DecodeResult) bool {
		count++
		printResult(r)
		return true
	}

	if *passes > 1 {
		if _, err := ft8.DecodeMultipass(audio, cfg, *passes, accept); err != nil {
			log.Fatalf("ft8decode: %v", err)
		}
	} else {
		if _, err := ft8.Decode(audio, cfg, accept); err != nil {
			log.Fatalf("ft8decode: %v", err)
		}
	}

	log.Printf("ft8decode: %d message(s) decoded", count)

	if *metricsAddr != "" {
		log.Printf("ft8decode: serving metrics on %s", *metricsAddr)
		http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		log.Fatal(http.ListenAndServe(*metricsAddr, nil))
	}
}

func printResult(r ft8.DecodeResult) {
	extra := ""
	if r.DistanceKm != nil {
		extra = fmt.Sprintf(" %.0fkm @ %.0f°", *r.DistanceKm, *r.BearingDeg)
	}
	fmt.Printf("%6.1f Hz  %+5.2f s  %+3d dB  %s%s\n", r.FreqHz, r.TimeOffsetS, r.SNR, r.Message, extra)
}

// readFloat32PCM reads a headerless stream of little-endian float32
// samples into a []float64 buffer suitable for ft8.Decode.
func readFloat32PCM(path string) ([]float64, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("%s: length %d is not a multiple of 4 bytes", path, len(raw))
	}

	n := len(raw) / 4
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint32(raw[i*4 : i*4+4])
		out[i] = float64(math.Float32frombits(bits))
	}
	return out, nil
}
