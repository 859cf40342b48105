package supervisor_test

import (
	"sync"
	"testing"

	"go.trai.ch/genie/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

type update[P any] struct {
	iteration uint64
	payload   P
}

// recorder is a ports.Publisher that keeps every update.
type recorder[P any] struct {
	mu      sync.Mutex
	updates []update[P]
}

func (r *recorder[P]) Update(iteration uint64, payload P) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, update[P]{iteration: iteration, payload: payload})
}

func (r *recorder[P]) snapshot() []update[P] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]update[P](nil), r.updates...)
}

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	logger := mocks.NewMockLogger(gomock.NewController(t))
	logger.EXPECT().Debug(gomock.Any()).AnyTimes()
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()
	return logger
}
