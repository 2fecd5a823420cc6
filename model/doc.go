// Package model defines the provider‑agnostic abstractions for interacting
// with language models, plus concrete adapters in sub-packages
// (anthropic, openai, gemini, ollama).
//
// Core goals:
//   - Hide vendor SDKs behind a single Generate interface
//   - Normalize tool / function call representation (ToolDefinition, core.FunctionCall)
//   - Carry per-request sampling (temperature / top-p) so the supervisor and
//     the capability handlers can share one provider with different settings
//   - Facilitate lightweight scripting for tests (MockModel)
package model
