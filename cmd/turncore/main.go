// Package main provides the turncore CLI for subprocess-based interop.
//
// This CLI reads JSON from stdin, runs the decision engine, and writes the
// result to stdout. Designed so an orchestrator in any language can drive
// the decision core one turn at a time.
//
// Usage:
//
//	# Decide one turn: input is {"request": {...}, "state": {...}}
//	echo '{"request": {...}, "state": {}}' | turncore decide
//
//	# Validate a turn request's structural contract only
//	echo '{...request...}' | turncore validate
//
//	# Print version information
//	turncore version
//
// Environment:
//
//	TURNCORE_LOG_LEVEL      Log level (debug, info, warn, error). Default: info.
//	TURNCORE_OTLP_ENDPOINT  OTLP collector endpoint. Tracing is off when unset.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/voxhall-labs/voicecore/decisioncore/config"
	"github.com/voxhall-labs/voicecore/decisioncore/engine"
	"github.com/voxhall-labs/voicecore/decisioncore/observability"
	"github.com/voxhall-labs/voicecore/decisioncore/state"
	"github.com/voxhall-labs/voicecore/decisioncore/turn"
)

const (
	cmdDecide   = "decide"
	cmdValidate = "validate"
	cmdVersion  = "version"
)

// Version information
const (
	Version   = "1.0.0"
	BuildTime = "2026-08-30"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	logger := newLogger()

	if endpoint := os.Getenv("TURNCORE_OTLP_ENDPOINT"); endpoint != "" {
		shutdown, err := observability.InitTracer("turncore", endpoint)
		if err != nil {
			logger.Warn("tracing_disabled", "error", err.Error())
		} else {
			defer func() {
				if err := shutdown(context.Background()); err != nil {
					logger.Warn("tracer_shutdown_failed", "error", err.Error())
				}
			}()
			logger.Debug("tracing_enabled", "endpoint", endpoint)
		}
	}

	switch os.Args[1] {
	case cmdVersion:
		handleVersion()
	case cmdDecide:
		handleDecide(logger)
	case cmdValidate:
		handleValidate(logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// newLogger builds the process logger from TURNCORE_LOG_LEVEL. Logs go to
// stderr so stdout stays clean for the JSON result.
func newLogger() observability.Logger {
	level := os.Getenv("TURNCORE_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger, err := observability.NewLogger(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid TURNCORE_LOG_LEVEL %q: %v\n", level, err)
		return observability.NewNopLogger()
	}
	return logger
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: turncore <command>

Commands:
  decide    Read {"request": ..., "state": ...} from stdin, write the turn response
  validate  Validate a turn request JSON against its structural contract
  version   Print version information

Input/Output:
  All commands read JSON from stdin and write JSON to stdout.
  Errors are written to stderr.

Examples:
  echo '{"request":{"correlation_id":"c1","turn_id":"t1",...},"state":{}}' | turncore decide
  cat request.json | turncore validate`)
}

// handleVersion prints version information.
func handleVersion() {
	writeJSON(map[string]string{
		"version":    Version,
		"build_time": BuildTime,
	})
}

// decideInput is the stdin payload for the decide command.
type decideInput struct {
	Request *turn.Request  `json:"request"`
	State   state.State    `json:"state"`
	Config  map[string]any `json:"config,omitempty"`
}

// handleDecide runs one turn through the engine.
func handleDecide(logger observability.Logger) {
	input, err := readInput()
	if err != nil {
		writeError("read_error", err.Error())
		os.Exit(1)
	}

	var in decideInput
	if err := json.Unmarshal(input, &in); err != nil {
		writeError("parse_error", fmt.Sprintf("Invalid JSON: %s", err.Error()))
		os.Exit(1)
	}
	if in.Request == nil {
		writeError("contract_violation", "request is required")
		os.Exit(1)
	}

	cfg := config.DefaultEngineConfig()
	if in.Config != nil {
		cfg = config.EngineConfigFromMap(in.Config)
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		writeError("config_invalid", fmt.Sprintf("%v", problems))
		os.Exit(1)
	}

	resp, err := engine.New(cfg).Decide(in.Request, in.State)
	if err != nil {
		// Fail closed: a violation produces no directive at all.
		logger.Warn("turn_rejected",
			"conversation_id", in.Request.CorrelationID,
			"turn_id", in.Request.TurnID,
			"error", err.Error(),
		)
		writeError("contract_violation", err.Error())
		os.Exit(1)
	}

	logger.Info("turn_decided",
		"conversation_id", resp.CorrelationID,
		"turn_id", resp.TurnID,
		"directive", string(resp.Directive.Kind),
		"reason", string(resp.Reason),
	)
	writeJSON(resp)
}

// handleValidate validates a turn request's structural contract.
func handleValidate(logger observability.Logger) {
	input, err := readInput()
	if err != nil {
		writeError("read_error", err.Error())
		os.Exit(1)
	}

	var req turn.Request
	if err := json.Unmarshal(input, &req); err != nil {
		writeJSON(map[string]any{
			"valid":  false,
			"errors": []string{fmt.Sprintf("Invalid JSON: %s", err.Error())},
		})
		return
	}

	errors := []string{}
	if err := req.Validate(); err != nil {
		errors = append(errors, err.Error())
	}
	logger.Debug("request_validated",
		"conversation_id", req.CorrelationID,
		"turn_id", req.TurnID,
		"valid", len(errors) == 0,
	)
	writeJSON(map[string]any{
		"valid":          len(errors) == 0,
		"errors":         errors,
		"correlation_id": req.CorrelationID,
		"turn_id":        req.TurnID,
	})
}

// readInput reads all input from stdin.
func readInput() ([]byte, error) {
	reader := bufio.NewReader(os.Stdin)
	return io.ReadAll(reader)
}

// writeJSON writes a JSON object to stdout.
func writeJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

// writeError writes a structured error to stdout and details to stderr.
func writeError(code, message string) {
	out := map[string]string{
		"error":   code,
		"message": message,
	}
	enc := json.NewEncoder(os.Stdout)
	_ = enc.Encode(out)
	fmt.Fprintf(os.Stderr, "%s: %s\n", code, message)
}
