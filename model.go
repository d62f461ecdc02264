package metacache

import (
	"fmt"
	"strings"
	"time"
)

// AppName identifies an application: a named grouping of experiments.
type AppName string

// ExperimentID identifies a single experiment definition.
type ExperimentID string

// PageName identifies a surface within an application on which a subset
// of its experiments is active.
type PageName string

// AppPage is the composite key of the page-experiments region.
type AppPage struct {
	App  AppName  `msgpack:"app" json:"app"`
	Page PageName `msgpack:"page" json:"page"`
}

// keySep joins AppPage members into a region key. US (unit separator)
// cannot appear in application or page names.
const keySep = "\x1f"

func (p AppPage) regionKey() string {
	return string(p.App) + keySep + string(p.Page)
}

func appPageFromKey(s string) (AppPage, error) {
	app, page, ok := strings.Cut(s, keySep)
	if !ok {
		return AppPage{}, fmt.Errorf("metacache: malformed app/page key %q", s)
	}
	return AppPage{App: AppName(app), Page: PageName(page)}, nil
}

// State is the lifecycle state of an experiment.
type State string

const (
	StateDraft      State = "DRAFT"
	StateRunning    State = "RUNNING"
	StatePaused     State = "PAUSED"
	StateTerminated State = "TERMINATED"
	StateDeleted    State = "DELETED"
)

// Experiment is an A/B test definition belonging to an application.
type Experiment struct {
	ID              ExperimentID `msgpack:"id" json:"id"`
	Label           string       `msgpack:"label" json:"label"`
	App             AppName      `msgpack:"app" json:"app"`
	State           State        `msgpack:"state" json:"state"`
	SamplingPercent float64      `msgpack:"sampling_percent" json:"sampling_percent"`
	StartTime       time.Time    `msgpack:"start_time" json:"start_time"`
	EndTime         time.Time    `msgpack:"end_time" json:"end_time"`
}

// Active reports whether the experiment accepts assignments at the given
// instant: running state and inside the [StartTime, EndTime) window.
func (e Experiment) Active(at time.Time) bool {
	if e.State != StateRunning {
		return false
	}
	if at.Before(e.StartTime) {
		return false
	}
	return e.EndTime.IsZero() || at.Before(e.EndTime)
}

// Deleted reports whether the experiment was removed upstream and must be
// skipped by assignment even if still cached.
func (e Experiment) Deleted() bool { return e.State == StateDeleted }

// Bucket is one variant (arm) of an experiment.
type Bucket struct {
	Label        string       `msgpack:"label" json:"label"`
	ExperimentID ExperimentID `msgpack:"experiment_id" json:"experiment_id"`
	Allocation   float64      `msgpack:"allocation" json:"allocation"`
	IsControl    bool         `msgpack:"is_control" json:"is_control"`
	Payload      string       `msgpack:"payload,omitempty" json:"payload,omitempty"`
}

// PrioritizedExperiment is an experiment with its rank in the application's
// assignment precedence order. Lower Priority wins.
type PrioritizedExperiment struct {
	Experiment
	Priority int `msgpack:"priority" json:"priority"`
}

// PageExperiment associates an experiment with a page.
type PageExperiment struct {
	ID                 ExperimentID `msgpack:"id" json:"id"`
	Label              string       `msgpack:"label" json:"label"`
	AllowNewAssignment bool         `msgpack:"allow_new_assignment" json:"allow_new_assignment"`
}
