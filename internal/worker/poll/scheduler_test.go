package poll

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hitoshi/clubcast/internal/model"
)

type mockChecker struct {
	checkFunc func(ctx context.Context, club model.Club, initial bool) error
}

func (m *mockChecker) CheckClub(ctx context.Context, club model.Club, initial bool) error {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, club, initial)
	}
	return nil
}

func testClubs(n int) []model.Club {
	clubs := make([]model.Club, 0, n)
	for i := 0; i < n; i++ {
		clubs = append(clubs, model.Club{ID: int64(i + 1), Webhook: "https://hooks.example.com/x"})
	}
	return clubs
}

func TestNewScheduler_DefaultConcurrency(t *testing.T) {
	var buf bytes.Buffer

	// 0以下の場合はデフォルトの5を使用する
	s := NewScheduler(testClubs(1), &mockChecker{}, nopCollector{}, newTestLogger(&buf), 0)
	if s.maxConcurrency != 5 {
		t.Errorf("maxConcurrency = %d, want 5 (default)", s.maxConcurrency)
	}
}

func TestScheduler_RunOnce_ChecksAllClubs(t *testing.T) {
	var buf bytes.Buffer

	var checkedIDs []int64
	var mu sync.Mutex

	checker := &mockChecker{
		checkFunc: func(ctx context.Context, club model.Club, initial bool) error {
			mu.Lock()
			checkedIDs = append(checkedIDs, club.ID)
			mu.Unlock()
			return nil
		},
	}

	s := NewScheduler(testClubs(3), checker, nopCollector{}, newTestLogger(&buf), 10)
	s.RunOnce(context.Background(), false)

	if len(checkedIDs) != 3 {
		t.Errorf("チェックされたクラブ数 = %d, want 3", len(checkedIDs))
	}
}

func TestScheduler_RunOnce_PassesInitialFlag(t *testing.T) {
	var buf bytes.Buffer

	var sawInitial atomic.Bool
	checker := &mockChecker{
		checkFunc: func(ctx context.Context, club model.Club, initial bool) error {
			sawInitial.Store(initial)
			return nil
		},
	}

	s := NewScheduler(testClubs(1), checker, nopCollector{}, newTestLogger(&buf), 10)

	s.RunOnce(context.Background(), true)
	if !sawInitial.Load() {
		t.Error("initial=true が伝播していない")
	}

	s.RunOnce(context.Background(), false)
	if sawInitial.Load() {
		t.Error("initial=false が伝播していない")
	}
}

func TestScheduler_RunOnce_ClubErrorDoesNotStopOthers(t *testing.T) {
	var buf bytes.Buffer

	var checkCount int32
	checker := &mockChecker{
		checkFunc: func(ctx context.Context, club model.Club, initial bool) error {
			atomic.AddInt32(&checkCount, 1)
			if club.ID == 2 {
				return errors.New("list failed")
			}
			return nil
		},
	}

	s := NewScheduler(testClubs(3), checker, nopCollector{}, newTestLogger(&buf), 10)
	s.RunOnce(context.Background(), false)

	if atomic.LoadInt32(&checkCount) != 3 {
		t.Errorf("全クラブのチェックが試行されるべき: got %d, want 3", atomic.LoadInt32(&checkCount))
	}
}

func TestScheduler_RunOnce_ConcurrencyLimit(t *testing.T) {
	var buf bytes.Buffer

	var maxConcurrent int32
	var currentConcurrent int32
	var checkCount int32

	checker := &mockChecker{
		checkFunc: func(ctx context.Context, club model.Club, initial bool) error {
			current := atomic.AddInt32(&currentConcurrent, 1)
			defer atomic.AddInt32(&currentConcurrent, -1)
			atomic.AddInt32(&checkCount, 1)

			// 最大同時実行数を記録
			for {
				old := atomic.LoadInt32(&maxConcurrent)
				if current <= old {
					break
				}
				if atomic.CompareAndSwapInt32(&maxConcurrent, old, current) {
					break
				}
			}

			// 少し待つことで並列実行を促す
			time.Sleep(10 * time.Millisecond)
			return nil
		},
	}

	s := NewScheduler(testClubs(20), checker, nopCollector{}, newTestLogger(&buf), 3)
	s.RunOnce(context.Background(), false)

	if atomic.LoadInt32(&checkCount) != 20 {
		t.Errorf("チェック回数 = %d, want 20", atomic.LoadInt32(&checkCount))
	}
	if atomic.LoadInt32(&maxConcurrent) > 3 {
		t.Errorf("最大同時実行数 = %d, 3以下であるべき", atomic.LoadInt32(&maxConcurrent))
	}
}

func TestScheduler_LastCycle(t *testing.T) {
	var buf bytes.Buffer

	s := NewScheduler(testClubs(2), &mockChecker{}, nopCollector{}, newTestLogger(&buf), 10)

	if got := s.LastCycle(); !got.RanAt.IsZero() {
		t.Errorf("実行前のLastCycleはゼロ値であるべき: %+v", got)
	}

	before := time.Now()
	s.RunOnce(context.Background(), false)

	info := s.LastCycle()
	if info.RanAt.Before(before) {
		t.Errorf("RanAt = %v, 実行開始以降であるべき", info.RanAt)
	}
	if info.ClubsChecked != 2 {
		t.Errorf("ClubsChecked = %d, want 2", info.ClubsChecked)
	}
}

func TestScheduler_Start_StopsOnContextCancel(t *testing.T) {
	var buf bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())

	s := NewScheduler(testClubs(1), &mockChecker{}, nopCollector{}, newTestLogger(&buf), 10)

	done := make(chan struct{})
	go func() {
		s.Start(ctx, time.Hour)
		close(done)
	}()

	// 初回サイクルが完了するのを待ってからキャンセル
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("コンテキストキャンセル後もStartが停止しない")
	}
}

func TestScheduler_Start_RunsInitialCycleImmediately(t *testing.T) {
	var buf bytes.Buffer

	var initialRuns int32
	checker := &mockChecker{
		checkFunc: func(ctx context.Context, club model.Club, initial bool) error {
			if initial {
				atomic.AddInt32(&initialRuns, 1)
			}
			return nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(testClubs(1), checker, nopCollector{}, newTestLogger(&buf), 10)

	done := make(chan struct{})
	go func() {
		s.Start(ctx, time.Hour)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	if atomic.LoadInt32(&initialRuns) != 1 {
		t.Errorf("起動直後に初回サイクルが1回実行されるべき: got %d", atomic.LoadInt32(&initialRuns))
	}
}
