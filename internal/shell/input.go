package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// promptLine prints a prompt to w and reads a single trimmed line from
// reader. If EOF occurs after some input was read, the partial line is
// returned.
func promptLine(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptAmount reads a monetary amount, e.g. "12.34".
func promptAmount(reader *bufio.Reader, prompt string, w io.Writer) (core.Money, error) {
	line, err := promptLine(reader, prompt, w)
	if err != nil {
		return core.Money{}, err
	}
	return core.ParseMoney(line)
}

// promptIndex reads a non-negative record index.
func promptIndex(reader *bufio.Reader, prompt string, w io.Writer) (int, error) {
	line, err := promptLine(reader, prompt, w)
	if err != nil {
		return 0, err
	}
	idx, err := strconv.Atoi(line)
	if err != nil {
		return 0, fmt.Errorf("invalid index %q", line)
	}
	return idx, nil
}
