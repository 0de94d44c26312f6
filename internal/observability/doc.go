// Package observability provides monitoring and debugging capabilities for
// the orchestration runtime through metrics and structured logging.
//
// # Overview
//
// The observability package covers two pillars:
//
//  1. Metrics - Quantitative measurements using Prometheus
//  2. Logging - Structured logs with sensitive data redaction
//
// # Architecture
//
// The package is designed to be:
//   - Low-overhead: minimal performance impact during orchestration runs
//   - Type-safe: strongly-typed APIs reduce configuration errors
//   - Standards-based: uses Prometheus and slog
//
// # Metrics
//
// Metrics are implemented using the Prometheus client libraries and track:
//   - LLM round-trip latency and token usage per agent
//   - Tool execution counts and durations
//   - Orchestration round/iteration throughput and convergence scores
//   - Active agent counts per orchestration mode
//   - Memory Store size
//
// Example usage:
//
//	metrics := observability.NewMetrics()
//
//	start := time.Now()
//	// ... send to the LLM ...
//	metrics.RecordLLMRequest("reviewer", "claude-3-opus", "success",
//	    time.Since(start).Seconds(), promptTokens, completionTokens)
//
//	start = time.Now()
//	// ... execute tool ...
//	metrics.RecordToolExecution("web_search", "success", time.Since(start).Seconds())
//
// # Logging
//
// Logging is built on Go's slog package with enhancements for:
//   - Automatic run/agent ID correlation from context
//   - Sensitive data redaction (API keys, passwords, tokens)
//   - JSON output for production, text for development
//   - Configurable log levels
//
// Example usage:
//
//	logger := observability.NewLogger(observability.LogConfig{
//	    Level:     "info",
//	    Format:    "json",
//	    AddSource: true,
//	})
//
//	ctx := observability.AddRunID(ctx, runID)
//	ctx = observability.AddAgentID(ctx, "reviewer")
//
//	logger.Info(ctx, "agent responded",
//	    "mode", "debate",
//	    "round", round,
//	    "response_length", len(content),
//	)
//
//	logger.Error(ctx, "llm request failed",
//	    "error", err,
//	    "provider", "anthropic",
//	    "api_key", apiKey, // Automatically redacted
//	)
//
// # Context Propagation
//
// Both components integrate with Go's context for automatic correlation:
//
//	ctx = observability.AddRunID(ctx, "run-123")
//	ctx = observability.AddAgentID(ctx, "reviewer")
//	ctx = observability.AddMode(ctx, "debate")
//
//	logger.Info(ctx, "round completed") // Includes run_id, agent_id, mode
//
// # Security Considerations
//
// The logging component automatically redacts:
//   - API keys (Anthropic, OpenAI, generic)
//   - Passwords and secrets
//   - JWT tokens
//   - Bearer tokens
//   - Custom patterns via configuration
//
// Sensitive fields in maps are also redacted:
//   - password, passwd, pwd
//   - secret, api_key, apikey
//   - token, auth, authorization
//   - private_key, privatekey
//
// # Testing
//
//   - Metrics can be verified using prometheus/testutil
//   - Logging can write to bytes.Buffer for assertions
package observability
