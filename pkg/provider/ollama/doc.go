// Package ollama implements provider.Transport against the Ollama HTTP
// API: POST /api/chat for blocking and NDJSON-streamed completions,
// GET /api/tags, POST /api/show, and POST /api/pull with streamed
// download progress.
//
// Connection parameters (host, TLS verification) are injected through
// Config rather than read from ambient process state. The transport
// never retries; errors map to structured api errors and propagate to
// the caller.
package ollama
