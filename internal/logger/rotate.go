package logger

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/compress/gzip"
)

// maxLogSize triggers rotation. The live file is renamed, compressed to a
// timestamped .jsonl.gz sibling, and a fresh file is opened.
const maxLogSize = 5 << 20

func (l *AuditLogger) rotateIfNeeded() error {
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < maxLogSize {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return err
	}

	stamp := time.Now().Format("20060102-150405")
	rotated := fmt.Sprintf("%s.%s", l.path, stamp)
	if err := os.Rename(l.path, rotated); err != nil {
		return err
	}

	// Compression failure keeps the uncompressed rotated file; losing
	// audit history would be worse than losing disk space.
	if err := compressFile(rotated); err == nil {
		os.Remove(rotated)
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	l.file = file
	return nil
}

func compressFile(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(path+".gz", os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer dst.Close()

	zw := gzip.NewWriter(dst)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}
