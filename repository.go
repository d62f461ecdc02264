package metacache

import "context"

// Repositories are the backing stores the cache shields. Every method is a
// bulk "fetch by key set": the returned map holds only the requested keys
// that exist; keys missing upstream are simply absent from the result.
// Implementations own their own retry, timeout, and backoff policy.

// ExperimentRepository serves experiment definitions and their buckets.
type ExperimentRepository interface {
	ExperimentsByApp(ctx context.Context, apps []AppName) (map[AppName][]Experiment, error)
	ExperimentsByID(ctx context.Context, ids []ExperimentID) (map[ExperimentID]Experiment, error)
	BucketsByExperiment(ctx context.Context, ids []ExperimentID) (map[ExperimentID][]Bucket, error)
}

// PrioritiesRepository serves per-application assignment precedence lists.
type PrioritiesRepository interface {
	PrioritiesByApp(ctx context.Context, apps []AppName) (map[AppName][]PrioritizedExperiment, error)
}

// MutexRepository serves mutual-exclusion relationships between experiments.
type MutexRepository interface {
	ExclusionsByExperiment(ctx context.Context, ids []ExperimentID) (map[ExperimentID][]ExperimentID, error)
}

// PagesRepository serves page-scoped experiment associations.
type PagesRepository interface {
	ExperimentsByAppPage(ctx context.Context, pages []AppPage) (map[AppPage][]PageExperiment, error)
}
