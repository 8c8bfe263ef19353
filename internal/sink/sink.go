// Package sink stores export files where the administrator can retrieve
// them: a local directory, an S3 compatible bucket, or memory.
package sink

import (
	"context"
	"fmt"
	"strings"

	"fedadmin/internal/errs"
)

// Driver identifies a sink implementation.
type Driver string

const (
	DriverFS     Driver = "fs"
	DriverS3     Driver = "s3"
	DriverMemory Driver = "memory"
)

// Sink saves a named file and returns its location.
type Sink interface {
	Save(ctx context.Context, name, contentType string, data []byte) (string, error)
	Driver() Driver
}

// Config selects and configures a sink.
type Config struct {
	Driver string
	Dir    string
	S3     S3Config
}

// Open builds the sink described by cfg. An empty driver means fs.
func Open(ctx context.Context, cfg Config) (Sink, error) {
	switch Driver(strings.ToLower(strings.TrimSpace(cfg.Driver))) {
	case "", DriverFS:
		return NewFS(cfg.Dir)
	case DriverS3:
		return NewS3(ctx, cfg.S3)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, errs.New(errs.CodeSinkInvalid, fmt.Sprintf("unknown export sink %q (fs, s3, memory)", cfg.Driver))
	}
}

func saveError(err error, driver Driver, name string) error {
	return errs.Wrap(err, errs.CodeSinkSaveFailure, "saving "+name,
		errs.Field("driver", string(driver)), errs.Field("file", name))
}
