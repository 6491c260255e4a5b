// Package pkgerror is the error vocabulary shared by stores, usecases and the
// HTTP edge. Stores return the sentinels; usecases turn them into *Error
// values whose Code decides the response status.
package pkgerror
