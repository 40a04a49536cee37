package command

import (
	"context"
	"sync"

	"artify/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockTextSender struct {
	mu      sync.Mutex
	err     error
	Message string
}

func (m *MockTextSender) SendMessageReply(_ context.Context, _ *domain.Message, message string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = message
	return 0, m.err
}

func (m *MockTextSender) NotifyAndReturnError(_ context.Context, err error, _ *domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Message = err.Error()
	if m.err != nil {
		return m.err
	}
	return err
}

func (m *MockTextSender) SendChatAction(_ context.Context, _ int64, _ domain.Action) {}

func (m *MockTextSender) LastMessage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Message
}

type MockImageSender struct {
	calledURL string
	called    bool
	err       error
}

func (m *MockImageSender) SendImageURLReply(_ context.Context, _ *domain.Message, imageURL string) error {
	m.calledURL = imageURL
	m.called = true
	return m.err
}

type MockTransformer struct{ mock.Mock }

func (m *MockTransformer) Transform(ctx context.Context, req domain.TransformRequest) (domain.TransformResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.TransformResult), args.Error(1)
}

type MockCompressor struct{ mock.Mock }

func (m *MockCompressor) Shrink(ctx context.Context, img domain.EncodedImage, maxMB float64) (domain.ShrinkResult, error) {
	args := m.Called(ctx, img, maxMB)
	return args.Get(0).(domain.ShrinkResult), args.Error(1)
}

type MockFetcher struct {
	image domain.EncodedImage
	err   error
	url   string
}

func (m *MockFetcher) Fetch(_ context.Context, url string) (domain.EncodedImage, error) {
	m.url = url
	return m.image, m.err
}

type MockAuthorizer struct {
	allowed bool
}

func (m *MockAuthorizer) IsAuthorized(_ context.Context, _ int64) bool {
	return m.allowed
}

type MockTracker struct {
	limitReached bool
	reserved     int
	released     int
}

func (m *MockTracker) Reserve(_ context.Context, _ int64) bool {
	if m.limitReached {
		return false
	}
	m.reserved++
	return true
}

func (m *MockTracker) Release(_ int64) {
	m.released++
}
