package ft8

import "fmt"

// InputShapeError reports an audio buffer of the wrong length. Fatal,
// surfaced to the caller per the error-kind table.
type InputShapeError struct {
	Got, Want int
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("ft8: input shape: got %d samples, want %d", e.Got, e.Want)
}

// ConfigError reports a configuration value out of range. Fatal,
// surfaced to the caller.
type ConfigError struct {
	Field  string
	Detail string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("ft8: config: %s: %s", e.Field, e.Detail)
}

// NumericalDegenerateError reports a singular fit matrix. Recovered
// locally (fallback to a lower-degree fit); never surfaced to the caller.
type NumericalDegenerateError struct {
	Detail string
}

func (e *NumericalDegenerateError) Error() string {
	return fmt.Sprintf("ft8: numerical degenerate: %s", e.Detail)
}

// CandidateRejectedError reports a candidate dropped before decoding
// (sync below threshold, non-finite LLRs). Logged and swallowed per
// candidate; never surfaced.
type CandidateRejectedError struct {
	Reason string
}

func (e *CandidateRejectedError) Error() string {
	return fmt.Sprintf("ft8: candidate rejected: %s", e.Reason)
}

// DecodeFailedError reports BP and OSD both failing, or a CRC mismatch.
// Logged and swallowed per candidate; never surfaced.
type DecodeFailedError struct {
	Reason string
}

func (e *DecodeFailedError) Error() string {
	return fmt.Sprintf("ft8: decode failed: %s", e.Reason)
}

// UnpackFailedError reports a CRC-valid codeword that does not form a
// known message type. Logged and swallowed per candidate; never surfaced.
type UnpackFailedError struct {
	Reason string
}

func (e *UnpackFailedError) Error() string {
	return fmt.Sprintf("ft8: unpack failed: %s", e.Reason)
}

// Logger is the minimal logging surface the decoder depends on,
// satisfied directly by *log.Logger.
type Logger interface {
	Printf(format string, v ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
