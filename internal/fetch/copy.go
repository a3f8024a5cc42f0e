package fetch

import "io"

// progressWriter reports the running byte count after every write.
type progressWriter struct {
	w     io.Writer
	n     int64
	onAdd func(done int64)
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	if n > 0 {
		p.n += int64(n)
		if p.onAdd != nil {
			p.onAdd(p.n)
		}
	}

	return n, err
}

func copyWithProgress(dst io.Writer, src io.Reader, progress func(done int64)) (int64, error) {
	pw := &progressWriter{w: dst, onAdd: progress}
	buf := make([]byte, 32*1024)

	return io.CopyBuffer(pw, src, buf)
}
