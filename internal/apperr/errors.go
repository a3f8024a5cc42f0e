// Package apperr holds the error kinds shared across the download pipeline.
//
// Structural failures (ParseError, RequestError while listing, FilesystemError)
// abort a run. Page-level failures (RequestError, ImageCodecError while
// downloading a page) are recorded and turn into gaps in the output document.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNoHost is wrapped by RequestError when a URL lacks a scheme or a host.
var ErrNoHost = errors.New("url has no scheme or host")

// ParseError reports a page whose structure does not match what the scraper
// expects.
type ParseError struct {
	URL  string
	What string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.URL, e.What)
}

// RequestError reports an unusable URL, a transport failure or, at call sites
// that treat it as fatal, a non-2xx status.
type RequestError struct {
	URL    string
	Status int
	Err    error
}

func (e *RequestError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("request %s: HTTP %d", e.URL, e.Status)
	}

	return fmt.Sprintf("request %s: %v", e.URL, e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

type FilesystemError struct {
	Op   string
	Path string
	Err  error
}

func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FilesystemError) Unwrap() error { return e.Err }

// ImageCodecError reports a downloaded page that could not be decoded or
// re-encoded. Format is the sniffed MIME type of the served bytes.
type ImageCodecError struct {
	Path   string
	Format string
	Err    error
}

func (e *ImageCodecError) Error() string {
	if e.Format != "" {
		return fmt.Sprintf("image %s (%s): %v", e.Path, e.Format, e.Err)
	}

	return fmt.Sprintf("image %s: %v", e.Path, e.Err)
}

func (e *ImageCodecError) Unwrap() error { return e.Err }
