// Package updater keeps the versioned winestreamproxy helper up to date.
//
// The pipeline acquires the latest release metadata (with a TTL cache and a
// stale fallback), downloads and extracts the release archive into a
// versioned install directory, and atomically promotes it to be the active
// version via a symlink swap, garbage-collecting the superseded version.
//
// Multiple independent processes may run the pipeline concurrently on the
// same machine: every guarantee rests on the atomicity of rename and symlink
// replacement, not on locks or a coordinating daemon.
package updater
