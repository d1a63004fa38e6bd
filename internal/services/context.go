package services

import "context"

type contextKey string

const (
	eventIDKey    contextKey = "event_id"
	sourcePathKey contextKey = "source_path"
)

// WithEventID annotates context with the watch event correlation identifier.
func WithEventID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, eventIDKey, id)
}

// EventIDFromContext extracts the event correlation identifier if present.
func EventIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(eventIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSourcePath annotates context with the file a pipeline run is handling.
func WithSourcePath(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, sourcePathKey, path)
}

// SourcePathFromContext returns the in-flight source path if present.
func SourcePathFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(sourcePathKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
