package rewrite

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/0rca-network/opskit/internal/logger"
)

// UpdateLinePrefix replaces every line of path that starts with prefix by line. Other lines
// are kept byte for byte and each line keeps its original terminator. It returns the number
// of lines replaced; when nothing matches the file is not written.
func UpdateLinePrefix(ctx context.Context, path, prefix, line string) (int, error) {
	if prefix == "" {
		return 0, NewEmptyValueError("prefix")
	}
	if err := validateLine(line); err != nil {
		return 0, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var (
		out      bytes.Buffer
		replaced int
	)
	out.Grow(len(content))
	for _, l := range splitLines(content) {
		body, term := trimTerminator(l)
		if bytes.HasPrefix(body, []byte(prefix)) {
			out.WriteString(line)
			out.Write(term)
			replaced++

			continue
		}
		out.Write(l)
	}

	if replaced == 0 {
		logger.LoggerFrom(ctx).Warnf("no line starting with %q in %s", prefix, path)
		return 0, nil
	}

	if err := writeFile(path, out.Bytes()); err != nil {
		return 0, err
	}

	return replaced, nil
}

// SetEnvValue sets KEY=value in a dotenv style file by replacing the line starting with "KEY=".
func SetEnvValue(ctx context.Context, path, key, value string) (int, error) {
	if key == "" {
		return 0, NewEmptyValueError("key")
	}

	n, err := UpdateLinePrefix(ctx, path, key+"=", key+"="+value)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		logger.LoggerFrom(ctx).Infof("Updated %s in %s", key, path)
	}

	return n, nil
}

// splitLines splits content after each '\n', keeping the terminators. A final line without a
// terminator is returned as is.
func splitLines(content []byte) [][]byte {
	return bytes.SplitAfter(content, []byte("\n"))
}

func trimTerminator(l []byte) (body, term []byte) {
	switch {
	case bytes.HasSuffix(l, []byte("\r\n")):
		return l[:len(l)-2], l[len(l)-2:]
	case bytes.HasSuffix(l, []byte("\n")):
		return l[:len(l)-1], l[len(l)-1:]
	default:
		return l, nil
	}
}
