package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"discord-strada/internal/model"
	"discord-strada/internal/testdata/mockclickhousebatch"
	"discord-strada/internal/testdata/mockclickhouseconnection"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ActivityRepositoryTestSuite struct {
	suite.Suite

	repository *activityRepository
	connMock   *mockclickhouseconnection.Connection
	batchMock  *mockclickhousebatch.Batch
}

func TestActivityRepository(t *testing.T) {
	suite.Run(t, new(ActivityRepositoryTestSuite))
}

func (s *ActivityRepositoryTestSuite) SetupTest() {
	s.connMock = &mockclickhouseconnection.Connection{}
	s.batchMock = &mockclickhousebatch.Batch{}
	s.repository = &activityRepository{conn: s.connMock}
}

func (s *ActivityRepositoryTestSuite) TearDownTest() {
	s.connMock.AssertExpectations(s.T())
	s.batchMock.AssertExpectations(s.T())
}

func (s *ActivityRepositoryTestSuite) activity() model.Activity {
	return model.Activity{
		IdempotencyKey: "key-1",
		ActivityID:     "a1",
		TeamID:         "t1",
		UserID:         "u1",
		ChannelID:      "c1",
		Type:           "Run",
		Name:           "Morning Run",
		Distance:       5000,
		MovingTime:     1500,
		ElapsedTime:    1600,
		StartDate:      time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (s *ActivityRepositoryTestSuite) TestCreateBatch_EmptySlice_NoOp() {
	ctx := context.Background()

	s.NoError(s.repository.CreateBatch(ctx, nil))
	s.NoError(s.repository.CreateBatch(ctx, []model.Activity{}))

	s.connMock.AssertNotCalled(s.T(), "PrepareBatch", mock.Anything, insertActivityQuery)
}

func (s *ActivityRepositoryTestSuite) TestCreateBatch_Success() {
	ctx := context.Background()
	a := s.activity()

	s.connMock.On("PrepareBatch", mock.Anything, insertActivityQuery).Return(s.batchMock, nil).Once()
	s.batchMock.On("Append",
		a.IdempotencyKey, a.ActivityID, a.TeamID, a.UserID, a.ChannelID,
		a.Type, a.Name, a.Distance, a.MovingTime, a.ElapsedTime,
		a.TotalElevationGain, a.PRCount, a.Calories, a.Private, a.Visibility, a.StartDate,
	).Return(nil).Once()
	s.batchMock.On("Send").Return(nil).Once()

	s.NoError(s.repository.CreateBatch(ctx, []model.Activity{a}))
}

func (s *ActivityRepositoryTestSuite) TestCreateBatch_PrepareBatchError() {
	expectedErr := errors.New("prepare batch error")
	s.connMock.On("PrepareBatch", mock.Anything, insertActivityQuery).Return(nil, expectedErr).Once()

	err := s.repository.CreateBatch(context.Background(), []model.Activity{s.activity()})

	s.ErrorIs(err, expectedErr)
	s.ErrorContains(err, "prepare batch")
	s.batchMock.AssertNotCalled(s.T(), "Send")
}

func (s *ActivityRepositoryTestSuite) TestCreateBatch_AppendError() {
	expectedErr := errors.New("append error")
	s.connMock.On("PrepareBatch", mock.Anything, insertActivityQuery).Return(s.batchMock, nil).Once()
	s.batchMock.On("Append",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
	).Return(expectedErr).Once()

	err := s.repository.CreateBatch(context.Background(), []model.Activity{s.activity()})

	s.ErrorIs(err, expectedErr)
	s.ErrorContains(err, "append activity a1")
	s.batchMock.AssertNotCalled(s.T(), "Send")
}

func (s *ActivityRepositoryTestSuite) TestSumByUserAndType_QueryShape() {
	queryErr := errors.New("query error")
	var captured string
	var capturedArgs []interface{}

	s.connMock.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.String(1)
			capturedArgs = args.Get(2).([]interface{})
		}).
		Return(nil, queryErr).Once()

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	_, err := s.repository.SumByUserAndType(context.Background(), "t1", model.LeaderboardFilter{
		Metric:    model.MetricDistance,
		ChannelID: "c1",
		StartDate: &start,
		EndDate:   &end,
	})

	s.ErrorIs(err, queryErr)
	s.Contains(captured, "sum(distance)")
	s.Contains(captured, "team_id = ?")
	s.Contains(captured, "channel_id = ?")
	s.Contains(captured, "start_date >= ?")
	s.Contains(captured, "start_date <= ?")
	s.True(strings.HasSuffix(strings.TrimSpace(captured), "GROUP BY user_id, type"))
	s.Equal([]interface{}{"t1", "c1", start, end}, capturedArgs)
}

func (s *ActivityRepositoryTestSuite) TestSumByUserAndType_NoBoundsOmitsClauses() {
	queryErr := errors.New("query error")
	var captured string
	var capturedArgs []interface{}

	s.connMock.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.String(1)
			capturedArgs = args.Get(2).([]interface{})
		}).
		Return(nil, queryErr).Once()

	_, err := s.repository.SumByUserAndType(context.Background(), "t1", model.LeaderboardFilter{
		Metric: model.MetricCount,
	})

	s.ErrorIs(err, queryErr)
	s.Contains(captured, "toFloat64(count())")
	s.NotContains(captured, "channel_id")
	s.NotContains(captured, "start_date")
	s.Equal([]interface{}{"t1"}, capturedArgs)
}

func (s *ActivityRepositoryTestSuite) TestSumByUserAndType_UnsupportedMetric() {
	_, err := s.repository.SumByUserAndType(context.Background(), "t1", model.LeaderboardFilter{
		Metric: "watts",
	})
	s.ErrorContains(err, "unsupported metric")
	s.connMock.AssertNotCalled(s.T(), "Query", mock.Anything, mock.Anything, mock.Anything)
}

func (s *ActivityRepositoryTestSuite) TestSumByType_ChannelScoping() {
	queryErr := errors.New("query error")
	var captured string
	var capturedArgs []interface{}

	s.connMock.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			captured = args.String(1)
			capturedArgs = args.Get(2).([]interface{})
		}).
		Return(nil, queryErr).Once()

	_, err := s.repository.SumByType(context.Background(), "t1", "c1")

	s.ErrorIs(err, queryErr)
	s.Contains(captured, "uniqExact(user_id)")
	s.Contains(captured, "AND channel_id = ?")
	s.Contains(captured, "ORDER BY count DESC")
	s.Equal([]interface{}{"t1", "c1"}, capturedArgs)
}
