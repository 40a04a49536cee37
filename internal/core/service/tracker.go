package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"artify/internal/core/domain"
	"artify/internal/core/port"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Tracker enforces a per-chat daily transformation quota.
type Tracker interface {
	// Reserve claims one transformation for the chat. When the quota is used
	// up it tells the chat and returns false.
	Reserve(ctx context.Context, chatID int64) bool
	// Release gives back a claim whose transformation did not complete.
	Release(chatID int64)
}

// UsageTracker counts transformations per chat and enforces a daily limit.
// A limit of zero disables the check.
type UsageTracker struct {
	chats      map[int64]int
	dailyLimit int
	mutex      sync.Mutex
	sender     port.TextSender
}

func NewUsageTracker(ctx context.Context, sender port.TextSender) *UsageTracker {
	ut := &UsageTracker{
		chats:      make(map[int64]int),
		sender:     sender,
		dailyLimit: viper.GetInt("telegram.daily_transform_limit"),
	}

	go ut.ResetDailyLimit(ctx)

	return ut
}

const overLimit = "You have used all %d transformations for today. The limit will reset in %s."

// Reserve checks and counts in one step, so concurrent requests from the same
// chat cannot overrun the limit.
func (t *UsageTracker) Reserve(ctx context.Context, chatID int64) bool {
	t.mutex.Lock()
	if t.dailyLimit > 0 && t.chats[chatID] >= t.dailyLimit {
		t.mutex.Unlock()
		t.notifyLimit(ctx, chatID)
		return false
	}
	t.chats[chatID]++
	t.mutex.Unlock()

	return true
}

func (t *UsageTracker) Release(chatID int64) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	if t.chats[chatID] > 0 {
		t.chats[chatID]--
	}
}

func (t *UsageTracker) notifyLimit(ctx context.Context, chatID int64) {
	log.Debug().Int64("chatId", chatID).Int("limit", t.dailyLimit).Msg("daily limit reached")

	_, err := t.sender.SendMessageReply(ctx,
		&domain.Message{ChatID: chatID},
		fmt.Sprintf(overLimit, t.dailyLimit, time.Until(getNextResetTime()).Truncate(time.Second)))
	if err != nil {
		log.Warn().Err(err).Msg("failed to send daily limit exceeded warning")
	}
}

func (t *UsageTracker) ResetDailyLimit(ctx context.Context) {
	reset := getNextResetTime()

	for {
		log.Debug().Time("reset", reset).Msg("running reset timer")
		select {
		case <-time.After(time.Until(reset)):
			log.Debug().Msg("resetting daily limit")
			t.mutex.Lock()
			t.chats = make(map[int64]int)
			t.mutex.Unlock()
			time.Sleep(time.Second)
			reset = getNextResetTime()
		case <-ctx.Done():
			log.Debug().Msg("stopping daily limit reset")
			return
		}
	}
}

func getNextResetTime() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
}
