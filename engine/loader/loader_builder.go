package loader

import "log/slog"

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithLogger is an option builder that sets the structured logger used by the Loader
// and by the graphs and scenes it builds. A nil logger is ignored.
//
// Parameters:
//   - logger: the logger
//
// Returns:
//   - LoaderBuilderOption: a function that applies the logger option to a loader
func WithLogger(logger *slog.Logger) LoaderBuilderOption {
	return func(l *loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithSceneFile is an option builder that pre-populates the scene cache.
//
// Parameters:
//   - key: the cache key, normally the file path
//   - sf: the parsed description
//
// Returns:
//   - LoaderBuilderOption: a function that applies the scene option to a loader
func WithSceneFile(key string, sf *SceneFile) LoaderBuilderOption {
	return func(l *loader) {
		l.sceneCache[key] = sf
	}
}

// WithModel is an option builder that pre-populates the model cache with a
// flattened hierarchy.
//
// Parameters:
//   - key: the cache key, normally the file path
//   - nodes: the flattened nodes
//
// Returns:
//   - LoaderBuilderOption: a function that applies the model option to a loader
func WithModel(key string, nodes []NodeDesc) LoaderBuilderOption {
	return func(l *loader) {
		l.modelCache[key] = nodes
	}
}
