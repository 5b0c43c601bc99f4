// Package log provides a redacting slog.Handler for pricescout.
//
// Site configurations can carry credentials (API keys, cookies, custom
// auth headers) for sources that require them. The RedactHandler makes
// sure those values never reach log output, whatever handler is
// ultimately configured underneath it.
package log
