package transport

import (
	"context"
	"os"
)

// FileOpener opens local files and file:// URIs.
type FileOpener struct{}

type fileStream struct {
	*os.File
	size int64
}

func (f *fileStream) Size() int64 { return f.size }

// Open implements Opener.
func (FileOpener) Open(ctx context.Context, uri string, opts Options) (Stream, error) {
	path, err := localPath(uri)
	if err != nil {
		return nil, err
	}

	file, err := OpenWithRetry(ctx, path, retryConfig(opts), opts.Logger)
	if err != nil {
		return nil, err
	}

	size := int64(-1)
	if info, err := file.Stat(); err == nil && info.Mode().IsRegular() {
		size = info.Size()
	}
	return &fileStream{File: file, size: size}, nil
}

// Stat implements Opener.
func (FileOpener) Stat(ctx context.Context, uri string, opts Options) (Info, error) {
	path, err := localPath(uri)
	if err != nil {
		return Info{}, err
	}
	info, err := StatWithRetry(ctx, path, retryConfig(opts), opts.Logger)
	if err != nil {
		return Info{}, err
	}
	return Info{Size: info.Size(), ModTime: info.ModTime()}, nil
}

func retryConfig(opts Options) RetryConfig {
	if opts.Retry == (RetryConfig{}) {
		return DefaultRetryConfig()
	}
	return opts.Retry
}
