package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"
	"gorm.io/gorm"
)

// roomLockNamespace is hashed with the room id as seed into one 64-bit advisory lock
// key, so room ids do not collide with advisory locks taken by other components and
// no id is truncated.
const roomLockNamespace = "bookings.room"

const advisoryRoomLockSQL = "SELECT pg_advisory_xact_lock(hashtextextended(?, ?))"

// RoomLocker serializes check-then-write sequences per room. Acquire runs before the
// transaction opens and LockInTx runs as its first statement; an implementation
// normally does its work in only one of the two. Rooms are always locked in
// ascending id order.
type RoomLocker interface {
	Acquire(ctx context.Context, roomIDs ...int64) (release func(), err error)
	LockInTx(tx *gorm.DB, roomIDs ...int64) error
}

// NewRoomLocker picks the locker for db's dialect: transaction-scoped advisory locks
// on Postgres, an in-process semaphore per room everywhere else.
func NewRoomLocker(db *gorm.DB) RoomLocker {
	if db.Dialector.Name() == "postgres" {
		return AdvisoryRoomLocker{}
	}
	return NewSemaphoreRoomLocker()
}

// AdvisoryRoomLocker takes pg_advisory_xact_lock per room. The locks are released by
// Postgres at commit or rollback, so they also serialize writers in other processes.
type AdvisoryRoomLocker struct{}

// Acquire is a no-op; the lock is taken inside the transaction.
func (AdvisoryRoomLocker) Acquire(context.Context, ...int64) (func(), error) {
	return func() {}, nil
}

// LockInTx blocks until every room's advisory lock is held by tx.
func (AdvisoryRoomLocker) LockInTx(tx *gorm.DB, roomIDs ...int64) error {
	for _, id := range sortedRoomIDs(roomIDs) {
		if err := tx.Exec(advisoryRoomLockSQL, roomLockNamespace, id).Error; err != nil {
			return fmt.Errorf("failed to lock room %d: %w", id, err)
		}
	}
	return nil
}

// SemaphoreRoomLocker holds one weighted semaphore per room. It only serializes
// writers sharing this process, which is all a single-file database ever has.
type SemaphoreRoomLocker struct {
	mu    sync.Mutex
	rooms map[int64]*semaphore.Weighted
}

// NewSemaphoreRoomLocker creates an empty SemaphoreRoomLocker.
func NewSemaphoreRoomLocker() *SemaphoreRoomLocker {
	return &SemaphoreRoomLocker{rooms: make(map[int64]*semaphore.Weighted)}
}

func (l *SemaphoreRoomLocker) room(id int64) *semaphore.Weighted {
	l.mu.Lock()
	defer l.mu.Unlock()
	sem, ok := l.rooms[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		l.rooms[id] = sem
	}
	return sem
}

// Acquire waits for every room in ascending order. On error nothing stays held.
func (l *SemaphoreRoomLocker) Acquire(ctx context.Context, roomIDs ...int64) (func(), error) {
	ids := sortedRoomIDs(roomIDs)
	held := make([]*semaphore.Weighted, 0, len(ids))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Release(1)
		}
	}
	for _, id := range ids {
		sem := l.room(id)
		if err := sem.Acquire(ctx, 1); err != nil {
			release()
			return nil, fmt.Errorf("failed to lock room %d: %w", id, err)
		}
		held = append(held, sem)
	}
	return release, nil
}

// LockInTx is a no-op; Acquire already holds the rooms.
func (l *SemaphoreRoomLocker) LockInTx(*gorm.DB, ...int64) error {
	return nil
}

func sortedRoomIDs(roomIDs []int64) []int64 {
	ids := make([]int64, 0, len(roomIDs))
	seen := make(map[int64]struct{}, len(roomIDs))
	for _, id := range roomIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
