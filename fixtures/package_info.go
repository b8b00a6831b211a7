// Package fixtures contains the harness-validation fixtures themselves and their
// supporting API.
//
// Each fixture declares the outcome it is expected to have and how long it is expected to
// take, so that an orchestration platform running the suite can be checked against those
// declarations. Infrastructure that does not depend on what the fixtures check is in the
// lower-level framework package.
package fixtures
