package util

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// ConfigureSlog installs a tint handler writing to writeTo as the default logger.
// Source locations are printed relative to the working directory so the IDE can pick them up.
func ConfigureSlog(writeTo io.Writer, level slog.Leveler, noColor bool) {
	opts := &tint.Options{
		AddSource:  true,
		Level:      level,
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
	}
	if wd, err := os.Getwd(); err == nil {
		opts.ReplaceAttr = relativeSource(filepath.ToSlash(wd))
	}
	slog.SetDefault(slog.New(tint.NewHandler(writeTo, opts)))
}

func relativeSource(wd string) func([]string, slog.Attr) slog.Attr {
	return func(_ []string, attr slog.Attr) slog.Attr {
		if attr.Key != slog.SourceKey {
			return attr
		}
		source, ok := attr.Value.Any().(*slog.Source)
		if !ok {
			return attr
		}
		file := filepath.ToSlash(source.File)
		if rel, found := strings.CutPrefix(file, wd); found {
			file = "." + rel
		}
		return slog.String(attr.Key, file+":"+strconv.Itoa(source.Line))
	}
}
