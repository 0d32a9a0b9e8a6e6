// Package testutil provides shared test utilities and fixtures for integration tests.
//
// This package contains helpers used across the integration and stress suites:
//   - Waiting for many subscriptions to reach a state
//   - Checking registry invariants at quiescent points
//   - Collecting events from managed handlers
//
// Note: For NATS server setup, use the github.com/sfat/zeebe/testing package.
// This package is specifically for integration test scenarios and helper utilities.
package testutil
