package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakec/hms-backend/internal/config"
	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/repository"
	"github.com/sakec/hms-backend/internal/service"
)

type fixture struct {
	mr       *miniredis.Miniredis
	rdb      *redis.Client
	students *repository.MemoryStudentRepository
	worker   *PaymentWorker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	students := repository.NewMemoryStudentRepository()
	svc := service.NewStudentService(students, rdb, time.Second, zerolog.Nop())
	w := NewPaymentWorker(svc, rdb, zerolog.Nop())
	w.retryDelay = time.Millisecond
	return &fixture{mr: mr, rdb: rdb, students: students, worker: w}
}

func (f *fixture) seedStudent(t *testing.T) *model.Student {
	t.Helper()
	s := &model.Student{
		UserID: uuid.New(), RollNumber: "R100", Email: "r100@x.test", RoomNumber: "101",
		Status: model.StatusApproved, FeeStatus: model.FeeUnpaid,
	}
	require.NoError(t, f.students.Create(context.Background(), s))
	return s
}

func (f *fixture) enqueue(t *testing.T, event model.PaymentEvent) {
	t.Helper()
	raw, err := json.Marshal(event)
	require.NoError(t, err)
	require.NoError(t, f.rdb.RPush(context.Background(), config.WorkerKey.PaymentEventsQueue, raw).Err())
}

func TestPaymentWorkerMarksFeePaidAndDropsIntent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	student := f.seedStudent(t)

	intentKey := config.CacheKey.PaymentIntentKey("pi_1")
	require.NoError(t, f.rdb.HSet(ctx, intentKey, "student_id", student.ID.String()).Err())
	f.enqueue(t, model.PaymentEvent{IntentID: "pi_1", StudentID: student.ID, AmountInPaise: 850000})

	f.worker.processNext(ctx)

	got, err := f.students.GetByID(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FeePaid, got.FeeStatus)
	assert.False(t, f.mr.Exists(intentKey))
}

func TestPaymentWorkerDropsUnknownStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.enqueue(t, model.PaymentEvent{IntentID: "pi_2", StudentID: uuid.New()})

	f.worker.processNext(ctx)

	n, err := f.rdb.LLen(ctx, config.WorkerKey.PaymentEventsQueue).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPaymentWorkerDrainsOnShutdown(t *testing.T) {
	f := newFixture(t)
	student := f.seedStudent(t)
	f.enqueue(t, model.PaymentEvent{IntentID: "pi_3", StudentID: student.ID})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.worker.Start(ctx)

	got, err := f.students.GetByID(context.Background(), student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.FeePaid, got.FeeStatus)
}
