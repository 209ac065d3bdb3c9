package media

import "errors"

// ErrScanMedia is the sentinel for gallery scan failures.
var ErrScanMedia = errors.New("media scan failed")
