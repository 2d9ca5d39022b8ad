package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

type fakeStore struct {
	due      []PeriodRef
	dueErr   error
	started  []string
	finished map[string]string
	details  map[string]string
}

func newFakeStore(due ...PeriodRef) *fakeStore {
	return &fakeStore{due: due, finished: map[string]string{}, details: map[string]string{}}
}

func (f *fakeStore) ListPeriodsDue(context.Context, time.Time) ([]PeriodRef, error) {
	return f.due, f.dueErr
}

func (f *fakeStore) StartRun(_ context.Context, orgID, jobType string) (string, error) {
	id := jobType + "/" + orgID
	f.started = append(f.started, id)
	return id, nil
}

func (f *fakeStore) FinishRun(_ context.Context, runID, status string, details []byte) error {
	f.finished[runID] = status
	f.details[runID] = string(details)
	return nil
}

func TestRunNow(t *testing.T) {
	ctx := context.Background()

	Convey("Given a job service", t, func() {
		store := newFakeStore()
		svc := New(store, nil, 0)

		Convey("A successful job is recorded as completed", func() {
			out, err := svc.RunNow(ctx, JobPeriodSnapshot, "acme", func(context.Context) (any, error) {
				return map[string]string{"periodId": "p1"}, nil
			})
			So(err, ShouldBeNil)
			So(out, ShouldNotBeNil)
			So(store.finished["period_snapshot/acme"], ShouldEqual, statusCompleted)
			So(store.details["period_snapshot/acme"], ShouldContainSubstring, "p1")
		})

		Convey("A failing job is recorded with its error", func() {
			_, err := svc.RunNow(ctx, JobPeriodSnapshot, "acme", func(context.Context) (any, error) {
				return nil, errors.New("period locked")
			})
			So(err, ShouldNotBeNil)
			So(store.finished["period_snapshot/acme"], ShouldEqual, statusFailed)
			So(store.details["period_snapshot/acme"], ShouldContainSubstring, "period locked")
		})
	})
}

func TestEnqueueDue(t *testing.T) {
	Convey("Given two ended periods without snapshots", t, func() {
		store := newFakeStore(
			PeriodRef{OrganizationID: "acme", PeriodID: "p1"},
			PeriodRef{OrganizationID: "globex", PeriodID: "p9"},
		)
		var frozen []string
		svc := New(store, SnapshotFunc(func(_ context.Context, orgID, periodID string) (any, error) {
			frozen = append(frozen, orgID+"/"+periodID)
			return nil, nil
		}), 0)

		queued, err := svc.EnqueueDue(context.Background())
		So(err, ShouldBeNil)
		So(queued, ShouldEqual, 2)

		Convey("When the queue drains, each period is snapshotted once", func() {
			for i := 0; i < queued; i++ {
				j := <-svc.queue
				_, err := svc.runJob(context.Background(), j)
				So(err, ShouldBeNil)
			}
			So(frozen, ShouldResemble, []string{"acme/p1", "globex/p9"})
			So(store.started, ShouldHaveLength, 2)
		})
	})

	Convey("Given the period lookup fails", t, func() {
		store := newFakeStore()
		store.dueErr = errors.New("relation evaluation_periods does not exist")
		queued, err := New(store, nil, 0).EnqueueDue(context.Background())
		So(err, ShouldNotBeNil)
		So(queued, ShouldEqual, 0)
	})

	Convey("Given a full queue", t, func() {
		svc := New(newFakeStore(), nil, 0)
		svc.queue = make(chan job, 1)
		So(svc.Enqueue(JobPeriodSnapshot, "acme", nil), ShouldBeTrue)
		So(svc.Enqueue(JobPeriodSnapshot, "acme", nil), ShouldBeFalse)
	})
}
