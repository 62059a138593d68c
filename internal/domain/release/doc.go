// Package release contains core domain types for the release pipeline.
//
// Release models the metadata document published by the hosting API, with
// parsing, shape validation and ordered asset selection. Layout derives every
// managed filesystem path from a single runtime root.
package release
