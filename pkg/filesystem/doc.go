// Package filesystem provides the file access used by the merge driver.
//
// Files are reached through afero so the command can run against the OS
// filesystem in production and an in-memory filesystem in tests.
package filesystem
