package mirror

import (
	"context"

	"go.uber.org/zap"

	"scenariokeeper/internal/logging"
	"scenariokeeper/internal/metrics"
	"scenariokeeper/pkg/scenario"
)

type instrumented struct {
	Mirror
	rec    metrics.Recorder
	logger *zap.Logger
}

// Instrument wraps m so that every Publish is logged and recorded.
func Instrument(m Mirror, rec metrics.Recorder, logger *zap.Logger) Mirror {
	return &instrumented{Mirror: m, rec: metrics.OrNop(rec), logger: logging.OrNop(logger)}
}

func (i *instrumented) Publish(ctx context.Context, setID string, doc scenario.Document) (err error) {
	defer metrics.Track(i.rec, metrics.OpMirrorPublish)(&err)
	if err = i.Mirror.Publish(ctx, setID, doc); err != nil {
		i.logger.Warn("mirror publish failed", zap.String("set", setID), zap.String("driver", string(i.Driver())), zap.Error(err))
		return err
	}
	i.logger.Info("mirror published", zap.String("set", setID), zap.String("driver", string(i.Driver())), zap.Int("records", len(doc)))
	return nil
}
