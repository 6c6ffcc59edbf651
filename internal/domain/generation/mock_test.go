package generation

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/quickai/server/internal/model"
	"github.com/quickai/server/internal/port/inbound"
	"github.com/quickai/server/internal/port/outbound"
)

// --- Mock implementations ---

type MockText struct {
	mock.Mock
}

func (m *MockText) Complete(ctx context.Context, req *outbound.TextRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockImage struct {
	mock.Mock
}

func (m *MockImage) Generate(ctx context.Context, prompt string) (*outbound.Image, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.Image), args.Error(1)
}

func (m *MockImage) Edit(ctx context.Context, source *outbound.Image, prompt string) (*outbound.Image, error) {
	args := m.Called(ctx, source, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.Image), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Store(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, key, data, contentType)
	return args.String(0), args.Error(1)
}

type MockImageProcessor struct {
	mock.Mock
}

func (m *MockImageProcessor) Normalize(data []byte) (*outbound.Image, error) {
	args := m.Called(data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outbound.Image), args.Error(1)
}

type MockDocuments struct {
	mock.Mock
}

func (m *MockDocuments) ExtractText(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

// --- Fakes ---

var errUnknownToken = errors.New("unknown token")

// memoryIdentity is an identity provider backed by maps. Tokens map to
// user ids; metadata writes replace only the given keys.
type memoryIdentity struct {
	mu       sync.Mutex
	tokens   map[string]string
	premium  map[string]bool
	meta     map[string]map[string]any
	setErr   error
	setCalls int
}

func newMemoryIdentity() *memoryIdentity {
	return &memoryIdentity{
		tokens:  make(map[string]string),
		premium: make(map[string]bool),
		meta:    make(map[string]map[string]any),
	}
}

func (f *memoryIdentity) addUser(token, userID string, premium bool) {
	f.tokens[token] = userID
	f.premium[userID] = premium
}

func (f *memoryIdentity) VerifyCredential(_ context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.tokens[token]
	if !ok {
		return "", errors.Join(outbound.ErrInvalidCredential, errUnknownToken)
	}
	return id, nil
}

func (f *memoryIdentity) HasEntitlement(_ context.Context, userID, plan string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return plan == "premium" && f.premium[userID], nil
}

func (f *memoryIdentity) GetMetadata(_ context.Context, userID string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]any)
	for k, v := range f.meta[userID] {
		out[k] = v
	}
	return out, nil
}

func (f *memoryIdentity) SetMetadata(_ context.Context, userID string, values map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.setCalls++
	if f.setErr != nil {
		return f.setErr
	}
	if f.meta[userID] == nil {
		f.meta[userID] = make(map[string]any)
	}
	for k, v := range values {
		f.meta[userID][k] = v
	}
	return nil
}

func (f *memoryIdentity) usage(userID string) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, _ := f.meta[userID]["free_usage"].(int64)
	return v
}

// countingIdentity adds the atomic conditional increment.
type countingIdentity struct {
	*memoryIdentity
}

func (f countingIdentity) IncrementUsage(_ context.Context, userID string, delta, ceiling int64) (int64, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.meta[userID] == nil {
		f.meta[userID] = make(map[string]any)
	}
	cur, _ := f.meta[userID]["free_usage"].(int64)
	if cur >= ceiling {
		return cur, false, nil
	}
	f.meta[userID]["free_usage"] = cur + delta
	return cur + delta, true, nil
}

// stubLedger records appends in memory.
type stubLedger struct {
	mu        sync.Mutex
	appended  []inbound.CreationAppendInput
	appendErr error
}

func (l *stubLedger) Append(_ context.Context, in inbound.CreationAppendInput) (*model.Creation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appendErr != nil {
		return nil, l.appendErr
	}
	l.appended = append(l.appended, in)
	return &model.Creation{
		ID:      uuid.New(),
		UserID:  in.UserID,
		Prompt:  in.Prompt,
		Content: in.Content,
		Type:    in.Type,
		Publish: in.Publish,
		Likes:   []model.CreationLike{},
	}, nil
}

func (l *stubLedger) ToggleLike(context.Context, string, string) (bool, error) {
	return false, nil
}

func (l *stubLedger) Get(context.Context, string) (*model.Creation, error) {
	return nil, nil
}

func (l *stubLedger) ListOwn(context.Context, string) ([]*model.Creation, error) {
	return nil, nil
}

func (l *stubLedger) ListPublished(context.Context) ([]*model.Creation, error) {
	return nil, nil
}

func (l *stubLedger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.appended)
}
