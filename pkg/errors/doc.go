// Package errors provides coded, structured errors for composer-merge.
//
// Every failure the driver can report carries an ErrorCode so callers (and
// tests) can branch on the category without matching message text. The CLI
// maps codes to process exit statuses.
package errors
