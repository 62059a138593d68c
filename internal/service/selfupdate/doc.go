// Package selfupdate replaces the running winestream-updater binary with the
// latest published release.
//
// Unlike the helper pipeline, which installs whole versioned directories, the
// updater itself is a single binary, so the swap goes through go-update's
// atomic in-place replacement with rollback.
package selfupdate
