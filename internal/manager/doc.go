// Package manager ties the model catalog and the estimation pipeline into
// one service consumed by the HTTP layer and the CLI. It is structured into
// small files by concern:
//
//   - manager.go: core Manager type, constructor, catalog access.
//   - config.go: ManagerConfig and package defaults; New applies defaults.
//   - errors.go: error types and helpers (IsModelNotFound).
//
// External packages should treat this package as the orchestration layer and
// use public methods only (New, Ready, ListModels, Quants, Estimate).
package manager
