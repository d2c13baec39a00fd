package usecase

import (
	"context"
	"strings"

	"paratour-service/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// stubAggregator routes each pipeline to canned rows, round-tripping
// them through bson so the reporters decode exactly what the store
// driver would hand them.
type stubAggregator struct {
	respond func(pipeline mongo.Pipeline) (interface{}, error)
}

func (s *stubAggregator) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results interface{}) error {
	rows, err := s.respond(pipeline)
	if err != nil || rows == nil {
		return err
	}
	t, data, err := bson.MarshalValue(rows)
	if err != nil {
		return err
	}
	return bson.UnmarshalValue(t, data, results)
}

// pipelineMentions reports whether any stage of the pipeline names the
// given field or operator.
func pipelineMentions(pipeline mongo.Pipeline, needle string) bool {
	for _, stage := range pipeline {
		raw, err := bson.MarshalExtJSON(stage, false, false)
		if err != nil {
			continue
		}
		if strings.Contains(string(raw), needle) {
			return true
		}
	}
	return false
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
func (nopLogger) Fatal(msg string, keysAndValues ...interface{}) {}
func (nopLogger) With(keysAndValues ...interface{}) logger.Logger {
	return nopLogger{}
}
