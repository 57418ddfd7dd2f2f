package assets

import (
	"context"
	"fmt"
)

// Options selects and configures an asset store driver.
type Options struct {
	Driver string
	Dir    string
	S3     S3Config
}

// Open returns the store named by opts.Driver.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverFS, "":
		return NewFSStore(opts.Dir)
	case DriverS3:
		return NewS3Store(ctx, opts.S3)
	}
	return nil, fmt.Errorf("unknown asset driver %q", opts.Driver)
}
