// Package blob stores uploaded photos and hands back public URLs. Upload
// failures are non-fatal to callers: the lending flow records a sentinel
// reference instead of aborting the loan.
package blob

import "context"

// Uploader writes a named object and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}
