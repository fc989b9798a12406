package repository

import (
	"os"

	"github.com/okian/examprep/pkg/logger"
)

// Option applies a configuration option to a store.
type Option func(*options)

type options struct {
	fileMode os.FileMode
	dirMode  os.FileMode
	log      logger.Logger
}

func defaultOptions() options {
	return options{
		fileMode: 0o644,
		dirMode:  0o755,
	}
}

// WithFileMode sets the permission bits used when the JSON file is created.
func WithFileMode(mode os.FileMode) Option {
	return func(o *options) {
		if mode != 0 {
			o.fileMode = mode
		}
	}
}

// WithDirMode sets the permission bits for a missing parent directory.
func WithDirMode(mode os.FileMode) Option {
	return func(o *options) {
		if mode != 0 {
			o.dirMode = mode
		}
	}
}

// WithLogger sets the logger used by the store.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
