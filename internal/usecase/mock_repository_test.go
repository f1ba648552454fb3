package usecase

import (
	"sync"
	"time"

	"freeland/internal/entity"
	"freeland/internal/realtime"
	"freeland/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
)

type MockEconomyRepository struct {
	mock.Mock
}

// Transaction runs the callback against the mock itself; expectations set on
// the mock cover both top-level and transactional calls.
func (m *MockEconomyRepository) Transaction(fn func(persistent.EconomyRepository) error) error {
	return fn(m)
}

func (m *MockEconomyRepository) GetUser(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockEconomyRepository) GetUserByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockEconomyRepository) GetCoins(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

func (m *MockEconomyRepository) AdjustCoins(userID string, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockEconomyRepository) SetDMAccess(userID string, until time.Time) error {
	args := m.Called(userID, until)
	return args.Error(0)
}

func (m *MockEconomyRepository) SetLastClaim(userID string, at time.Time) error {
	args := m.Called(userID, at)
	return args.Error(0)
}

func (m *MockEconomyRepository) CreatePost(post *entity.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockEconomyRepository) GetPost(id string) (*entity.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockEconomyRepository) UpdatePostLikes(postID string, likes int) error {
	args := m.Called(postID, likes)
	return args.Error(0)
}

func (m *MockEconomyRepository) UpdatePostReshares(postID string, reshares, value int) error {
	args := m.Called(postID, reshares, value)
	return args.Error(0)
}

func (m *MockEconomyRepository) SoftDeletePost(postID string) error {
	args := m.Called(postID)
	return args.Error(0)
}

func (m *MockEconomyRepository) HasLike(userID, postID string) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEconomyRepository) CreateLike(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyRepository) DeleteLike(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyRepository) CountLikes(postID string) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockEconomyRepository) HasReshare(userID, postID string) (bool, error) {
	args := m.Called(userID, postID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEconomyRepository) CreateReshare(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyRepository) DeleteReshare(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyRepository) CountReshares(postID string) (int, error) {
	args := m.Called(postID)
	return args.Int(0), args.Error(1)
}

func (m *MockEconomyRepository) GetWrapperPost(userID, originalPostID string) (*entity.Post, error) {
	args := m.Called(userID, originalPostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockEconomyRepository) GetOwner(postID string) (*entity.PortfolioEntry, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PortfolioEntry), args.Error(1)
}

func (m *MockEconomyRepository) GetPortfolioEntry(userID, postID string) (*entity.PortfolioEntry, error) {
	args := m.Called(userID, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PortfolioEntry), args.Error(1)
}

func (m *MockEconomyRepository) CreatePortfolioEntry(e *entity.PortfolioEntry) error {
	args := m.Called(e)
	return args.Error(0)
}

func (m *MockEconomyRepository) DeletePortfolioEntry(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyRepository) CreateListing(l *entity.Listing) error {
	args := m.Called(l)
	return args.Error(0)
}

func (m *MockEconomyRepository) CreateMessage(msg *entity.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockEconomyRepository) CreateTransfer(t *entity.Transfer) error {
	args := m.Called(t)
	return args.Error(0)
}

type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Transaction(fn func(persistent.TransferRepository) error) error {
	return fn(m)
}

func (m *MockTransferRepository) GetTransfer(id string) (*entity.Transfer, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transfer), args.Error(1)
}

func (m *MockTransferRepository) UpdateProgress(id string, progress int) error {
	args := m.Called(id, progress)
	return args.Error(0)
}

func (m *MockTransferRepository) CompleteTransfer(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockTransferRepository) ListPending() ([]*entity.Transfer, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transfer), args.Error(1)
}

func (m *MockTransferRepository) AdjustCoins(userID string, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockTransferRepository) GetCoins(userID string) (int, error) {
	args := m.Called(userID)
	return args.Int(0), args.Error(1)
}

// recordingSender captures emitted events for assertions.
type recordingSender struct {
	mu         sync.Mutex
	broadcasts []realtime.Event
	direct     map[string][]realtime.Event
}

func newRecordingSender() *recordingSender {
	return &recordingSender{direct: make(map[string][]realtime.Event)}
}

func (s *recordingSender) Broadcast(event realtime.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcasts = append(s.broadcasts, event)
}

func (s *recordingSender) SendToUser(userID string, event realtime.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.direct[userID] = append(s.direct[userID], event)
}

func (s *recordingSender) sentTo(userID string) []realtime.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]realtime.Event(nil), s.direct[userID]...)
}

func (s *recordingSender) broadcastKinds() []realtime.EventKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	kinds := make([]realtime.EventKind, len(s.broadcasts))
	for i, e := range s.broadcasts {
		kinds[i] = e.T
	}
	return kinds
}
