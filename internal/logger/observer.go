package logger

import (
	"go.uber.org/zap"

	"github.com/Faultbox/colkit/pkg/col"
)

// DecodeObserver logs archive scan events.
//
// Signatures and models are logged at debug level, warnings at warn and
// errors at error. The file name, if any, is attached to every entry.
type DecodeObserver struct {
	log *zap.Logger
}

// NewDecodeObserver returns an observer writing to l. A nil l uses the
// global logger at the time of the call.
func NewDecodeObserver(l *zap.Logger, file string) *DecodeObserver {
	if l == nil {
		l = Log
	}
	if file != "" {
		l = l.With(zap.String("file", file))
	}
	return &DecodeObserver{log: l}
}

func (o *DecodeObserver) OnSignature(offset int, version col.Version) {
	o.log.Debug("signature found",
		zap.Int("offset", offset),
		zap.Stringer("version", version))
}

func (o *DecodeObserver) OnModel(offset int, model *col.Model, consumed int) {
	o.log.Debug("model decoded",
		zap.Int("offset", offset),
		zap.Int("size", consumed),
		zap.Stringer("model", model))
}

func (o *DecodeObserver) OnDiagnostic(d col.Diagnostic) {
	fields := []zap.Field{
		zap.Stringer("kind", d.Kind),
		zap.String("detail", d.Message),
	}
	if d.Offset >= 0 {
		fields = append(fields, zap.Int("offset", d.Offset))
	}

	if d.Severity == col.SeverityError {
		o.log.Error("decode error", fields...)
	} else {
		o.log.Warn("decode warning", fields...)
	}
}

var _ col.Observer = (*DecodeObserver)(nil)
