package mockworker

import (
	"discord-strada/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(activity model.Activity) {
	m.Called(activity)
}

func (m *Worker) Shutdown() {
	m.Called()
}
