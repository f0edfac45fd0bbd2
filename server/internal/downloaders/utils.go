package downloaders

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
)

const maxChunkSize = 1 << 20

// splitProgress splits on either \r or \n. yt-dlp rewrites the progress
// line in place with \r when --newline is not honoured.
func splitProgress(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// produceLogs forwards every non empty chunk of r until EOF or the process
// being killed. After a read error, such as an oversized chunk, the rest of r
// is discarded.
func (p *process) produceLogs(r io.Reader, stream Stream, split bufio.SplitFunc, prefix string) {
	defer p.readers.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxChunkSize)
	scanner.Split(split)

	for scanner.Scan() {
		if len(scanner.Bytes()) == 0 {
			continue
		}

		select {
		case p.out <- Output{Tag: p.tag, Stream: stream, Text: prefix + scanner.Text()}:
		case <-p.killed:
			return
		}
	}

	err := scanner.Err()
	if err == nil || errors.Is(err, os.ErrClosed) {
		return
	}

	slog.Warn("stopped reading yt-dlp output",
		slog.String("id", p.tag),
		slog.String("stream", stream.String()),
		slog.Any("err", err),
	)

	// the child blocks on a full pipe unless the rest is consumed
	io.Copy(io.Discard, r)
}
