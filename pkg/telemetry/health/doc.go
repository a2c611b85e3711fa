// Package health reports whether querygate can serve reads.
//
// A Checker runs named checks concurrently with a per-check timeout. The
// server registers a store ping and a catalog check and publishes the
// catalog version as a detail:
//
//	checker := health.New(version, 0)
//	checker.Register("store", health.PingCheck(st))
//	checker.Detail("catalog_version", func() string { return reg.Snapshot().Version() })
//	mux.Handle("/health", checker.Handler())
//
// The endpoint answers 200 with status "ok" when every check passes and
// 503 with status "unavailable" otherwise.
package health
