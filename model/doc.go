// Package model defines the provider-agnostic abstractions for issuing
// chat-style completions inside AdHive.
//
// Core goals:
//   - One request/response shape across vendors (Request, Response, Usage)
//   - Per-provider pricing fixed at construction time (Pricing)
//   - Every fault normalized into a failure Response at the provider boundary
//   - Lightweight mocking for tests (MockModel)
//
// Providers (e.g. OpenAI, Anthropic) implement the Model interface from this
// package so higher layers (engine, workers) remain decoupled from vendor SDKs.
package model
