package graphdb

import (
	"fmt"
	"log/slog"

	neo4jlog "github.com/neo4j/neo4j-go-driver/v5/neo4j/log"
)

// driverLogger bridges the neo4j driver log interface to slog.
type driverLogger struct {
	log *slog.Logger
}

var _ neo4jlog.Logger = driverLogger{}

func newDriverLogger(log *slog.Logger) neo4jlog.Logger {
	return driverLogger{log: log.With(slog.String("component", "neo4j"))}
}

func (l driverLogger) Error(name, id string, err error) {
	l.log.Error("neo4j driver error", slog.String("name", name), slog.String("id", id), slog.Any("error", err))
}

func (l driverLogger) Warnf(name, id string, msg string, args ...any) {
	l.log.Warn(fmt.Sprintf(msg, args...), slog.String("name", name), slog.String("id", id))
}

func (l driverLogger) Infof(name, id string, msg string, args ...any) {
	l.log.Info(fmt.Sprintf(msg, args...), slog.String("name", name), slog.String("id", id))
}

func (l driverLogger) Debugf(name, id string, msg string, args ...any) {
	l.log.Debug(fmt.Sprintf(msg, args...), slog.String("name", name), slog.String("id", id))
}
