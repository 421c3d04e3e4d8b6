package service

import (
	"sync"
	"testing"
	"time"

	"discord-strada/internal/model"
	"discord-strada/internal/testdata/mockactivities"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ActivityWorkerTestSuite struct {
	suite.Suite
	repo *mockactivities.Repository
}

func TestActivityWorkerSuite(t *testing.T) {
	suite.Run(t, new(ActivityWorkerTestSuite))
}

func (s *ActivityWorkerTestSuite) SetupTest() {
	s.repo = &mockactivities.Repository{}
}

func (s *ActivityWorkerTestSuite) TearDownTest() {
	s.repo.AssertExpectations(s.T())
}

func (s *ActivityWorkerTestSuite) TestBatchSizeTrigger() {
	batchSize := 5

	var wg sync.WaitGroup
	wg.Add(1)
	s.repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(activities []model.Activity) bool {
		return len(activities) == batchSize
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil).Once()

	// Long interval so only the batch size can trigger the flush.
	worker := NewBatchActivityWorker(s.repo, 10, batchSize, time.Hour)
	defer worker.Shutdown()

	for i := 0; i < batchSize; i++ {
		worker.Enqueue(model.Activity{ActivityID: "a1", TeamID: "t1"})
	}
	wg.Wait()
}

func (s *ActivityWorkerTestSuite) TestFlushIntervalTrigger() {
	var wg sync.WaitGroup
	wg.Add(1)
	s.repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(activities []model.Activity) bool {
		return len(activities) == 2
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil).Once()

	// Batch size high enough that only the ticker can flush.
	worker := NewBatchActivityWorker(s.repo, 10, 100, 20*time.Millisecond)
	defer worker.Shutdown()

	worker.Enqueue(model.Activity{ActivityID: "a1", TeamID: "t1"})
	worker.Enqueue(model.Activity{ActivityID: "a2", TeamID: "t1"})
	wg.Wait()
}

func (s *ActivityWorkerTestSuite) TestShutdownDrainsPartialBatch() {
	var wg sync.WaitGroup
	wg.Add(1)
	s.repo.On("CreateBatch", mock.Anything, mock.MatchedBy(func(activities []model.Activity) bool {
		return len(activities) == 3
	})).Run(func(args mock.Arguments) {
		wg.Done()
	}).Return(nil).Once()

	worker := NewBatchActivityWorker(s.repo, 10, 100, time.Hour)
	worker.Enqueue(model.Activity{ActivityID: "a1", TeamID: "t1"})
	worker.Enqueue(model.Activity{ActivityID: "a2", TeamID: "t1"})
	worker.Enqueue(model.Activity{ActivityID: "a3", TeamID: "t1"})

	worker.Shutdown()
	wg.Wait()
}
