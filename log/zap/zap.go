package zap

import (
	"go.uber.org/zap"

	"github.com/unkn0wn-root/metacache"
)

// Logger adapts a *zap.Logger to metacache.Logger.
type Logger struct{ L *zap.Logger }

var _ metacache.Logger = Logger{}

func (z Logger) Debug(msg string, f metacache.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f metacache.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f metacache.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f metacache.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f metacache.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		out = append(out, zap.Any(k, v))
	}
	return out
}
