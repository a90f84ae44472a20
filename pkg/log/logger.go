package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

func NewContextWithLogger(ctx context.Context, debug bool) (context.Context, func()) {
	zerolog.CallerMarshalFunc = func(pc uintptr, file string, line int) string {
		return ""
	}

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Use a diode (ring buffer) for non-blocking logging
	wr := diode.NewWriter(os.Stdout, 1000, 5*time.Millisecond, func(missed int) {
		fmt.Printf("Logger Dropped %d messages\n", missed)
	})

	logger := newLogger(wr, false)
	log.Logger = logger

	return logger.WithContext(ctx), func() {
		wr.Close()
	}
}

// NewContextWithWriter attaches a plain logger writing to w. Used by tests and
// one-shot commands that must not leave a background writer behind.
func NewContextWithWriter(ctx context.Context, w io.Writer) context.Context {
	logger := newLogger(w, true)
	return logger.WithContext(ctx)
}

func newLogger(w io.Writer, noColor bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    noColor,
		TimeFormat: time.DateTime,
		PartsOrder: []string{
			zerolog.LevelFieldName,
			zerolog.TimestampFieldName,
			zerolog.CallerFieldName,
			zerolog.MessageFieldName,
		},
	}

	return zerolog.New(output).
		With().
		Timestamp().
		CallerWithSkipFrameCount(2).
		Logger()
}

func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}

// WithRequest returns a context whose logger carries the request and user ids.
func WithRequest(ctx context.Context, requestID, userID string) context.Context {
	return FromCtx(ctx).With().
		Str("request_id", requestID).
		Str("user_id", userID).
		Logger().
		WithContext(ctx)
}
