package util

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// CopyFile copies src to dst, replacing dst if it exists.
func CopyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		_ = in.Close()
	}()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()

	_, err = io.Copy(out, in)
	return err
}

// SafeFileName makes a display name usable as a single path element. Only
// path separators and surrounding whitespace are touched.
func SafeFileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.NewReplacer("/", "_", "\\", "_", "\x00", "").Replace(name)

	switch name {
	case "", ".", "..":
		return "_"
	}

	return name
}
