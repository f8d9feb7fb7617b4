package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Options selects the log format and the optional Sentry sink.
type Options struct {
	AppName   string
	AppEnv    string
	IsDev     bool
	SentryDSN string
}

// Init installs the global slog logger.
// Development: Text format with Debug level
// Production: JSON format with Info level
// Errors also go to Sentry when a DSN is configured.
func Init(opts Options) *slog.Logger {
	var handlers []slog.Handler

	if opts.IsDev {
		handlers = append(handlers, slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if opts.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         opts.SentryDSN,
			Environment: opts.AppEnv,
		})
		if err != nil {
			slog.Warn("sentry disabled", "error", err)
		} else {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	log := slog.New(handler)
	if opts.AppName != "" {
		log = log.With("app", opts.AppName)
	}
	slog.SetDefault(log)
	return log
}

// Flush waits for buffered Sentry events. Call it before the process exits.
func Flush() {
	sentry.Flush(2 * time.Second)
}
