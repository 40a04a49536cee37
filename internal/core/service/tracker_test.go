package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"artify/internal/core/domain"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve(t *testing.T) {
	tests := []struct {
		name          string
		used          int
		limit         int
		sendErr       error
		wantAllowed   bool
		wantUsed      int
		expectMessage bool
	}{
		{name: "first transformation", used: 0, limit: 5, wantAllowed: true, wantUsed: 1},
		{name: "last one below limit", used: 4, limit: 5, wantAllowed: true, wantUsed: 5},
		{name: "at limit", used: 5, limit: 5, wantAllowed: false, wantUsed: 5, expectMessage: true},
		{
			name:          "above limit with send error",
			used:          7,
			limit:         5,
			sendErr:       assert.AnError,
			wantAllowed:   false,
			wantUsed:      7,
			expectMessage: true,
		},
		{name: "no limit configured still counts", used: 1000, limit: 0, wantAllowed: true, wantUsed: 1001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			const chatID = int64(42)
			sender := &mockTextSender{err: tt.sendErr}
			tracker := &UsageTracker{
				chats:      map[int64]int{chatID: tt.used},
				dailyLimit: tt.limit,
				sender:     sender,
			}

			assert.Equal(t, tt.wantAllowed, tracker.Reserve(t.Context(), chatID))
			assert.Equal(t, tt.wantUsed, tracker.chats[chatID])

			if !tt.expectMessage {
				assert.Empty(t, sender.replies)
				return
			}

			require.Len(t, sender.replies, 1)
			expectedText := fmt.Sprintf(overLimit,
				tracker.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second))
			assert.Equal(t, chatID, sender.replies[0].chatID)
			assert.Equal(t, expectedText[:40], sender.replies[0].text[:40])
		})
	}
}

func TestReserveConcurrentNeverExceedsLimit(t *testing.T) {
	tracker := &UsageTracker{
		chats:      make(map[int64]int),
		dailyLimit: 3,
		sender:     &syncTextSender{},
	}

	var wg sync.WaitGroup
	var granted atomic.Int32
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tracker.Reserve(t.Context(), 7) {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(3), granted.Load())
	assert.Equal(t, 3, tracker.chats[7])
}

func TestRelease(t *testing.T) {
	tracker := &UsageTracker{
		chats:      map[int64]int{1: 2},
		dailyLimit: 2,
		sender:     &mockTextSender{},
	}

	tracker.Release(1)
	assert.Equal(t, 1, tracker.chats[1])
	assert.True(t, tracker.Reserve(t.Context(), 1), "released claim can be used again")

	tracker.Release(9)
	assert.Zero(t, tracker.chats[9], "release without a claim does not go negative")
}

func TestNewUsageTracker(t *testing.T) {
	viper.Set("telegram.daily_transform_limit", 10)
	t.Cleanup(viper.Reset)

	mockSender := &mockTextSender{}
	tracker := NewUsageTracker(t.Context(), mockSender)

	assert.NotNil(t, tracker.chats)
	assert.Equal(t, 10, tracker.dailyLimit)
	assert.Equal(t, mockSender, tracker.sender)
}

func TestGetNextResetTime(t *testing.T) {
	now := time.Now()
	reset := getNextResetTime()
	assert.Equal(t, 0, reset.Hour())
	assert.Equal(t, 0, reset.Minute())
	assert.Equal(t, 0, reset.Second())
	assert.Equal(t, now.AddDate(0, 0, 1).Day(), reset.Day())
	assert.True(t, reset.After(now))
}

// syncTextSender is safe for the concurrent tests.
type syncTextSender struct {
	mu    sync.Mutex
	count int
}

func (s *syncTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

func (s *syncTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	return err
}

func (s *syncTextSender) SendMessageReply(_ context.Context, _ *domain.Message, _ string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++
	return s.count, nil
}
