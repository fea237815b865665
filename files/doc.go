// Package files implements housekeeping operations confined to a root
// directory: listing, size accounting, age-based cleanup, organizing by
// extension and directory backup.
//
// Every caller-supplied path is resolved against Manager.Root with
// SecureJoin; a path that would escape the root fails with
// ErrOutsideRoot. Absolute paths are treated as relative to the root.
package files
