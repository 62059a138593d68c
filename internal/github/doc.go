// Package github is a minimal client for the release-hosting API: it fetches
// the latest-release metadata document and downloads release assets.
//
// An ambient GITHUB_TOKEN is attached when talking to github.com to raise the
// anonymous rate limit; nothing else is authenticated.
package github
