// Package pkghash hashes and verifies user passwords.
package pkghash
