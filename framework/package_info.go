// Package framework contains the low-level implementation of fixture-running infrastructure
// that does not know anything about what the fixtures check.
//
// The general model is:
//
// 1. There is a notion of a test context which is similar to Go's *testing.T, allowing
// pieces of fixture logic to be associated with a test identifier and to accumulate
// success/failure results. Fixtures can be nested; each one records its own duration.
//
// 2. Results can be filtered by regex patterns, reported to a TestLogger as they happen,
// and written out afterward as a JUnit XML report for an orchestration platform to ingest.
//
// The domain-specific code is responsible for the fixtures themselves and for any API on
// top of the test context that they need.
package framework
