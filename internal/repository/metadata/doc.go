// Package metadata implements persistence for the cached release metadata
// document.
//
// FileCache stores the raw bytes of the last validated document and uses the
// file's modification time as the cache timestamp. Writes go through a
// temporary file and an atomic rename so concurrent readers never observe a
// partial document.
package metadata
