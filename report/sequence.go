package report

// This file contains the sequence counter used to order reports within one
// storage context.

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// NextSequence reads, increments and persists the counter file of ctx and
// returns the new value.
//
// A missing or unparseable counter file never fails the run: the counter
// falls back to a coarse clock-derived number so later reports still sort
// after earlier ones. Concurrent callers perform an unsynchronized
// read-modify-write; the last writer wins (see storage.UpdateIndex for the
// same accepted trade-off on the index).
func NextSequence(logger zerolog.Logger, ctx Context) int64 {
	path := ctx.SequenceFile()

	var next int64
	data, err := os.ReadFile(path)
	if err == nil {
		current, parseErr := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
		if parseErr != nil {
			logger.Warn().Err(parseErr).Str("path", path).Msg("Unparseable sequence counter, falling back to clock")
			next = time.Now().Unix()
		} else {
			next = current + 1
		}
	} else if os.IsNotExist(err) {
		next = 1
	} else {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to read sequence counter, falling back to clock")
		next = time.Now().Unix()
	}

	if err := os.MkdirAll(ctx.Dir, 0755); err != nil {
		logger.Warn().Err(err).Str("dir", ctx.Dir).Msg("Failed to create state directory")
		return next
	}
	if err := os.WriteFile(path, []byte(strconv.FormatInt(next, 10)+"\n"), 0644); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Failed to persist sequence counter")
	}

	return next
}
