package http

import (
	"io"

	"freeland/internal/entity"

	"github.com/stretchr/testify/mock"
)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) Register(username, password string) (*entity.User, string, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) Login(username, password string) (*entity.User, string, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*entity.User), args.String(1), args.Error(2)
}

func (m *MockAuthUseCase) GetUser(id string) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) UploadAvatar(userID string, file io.Reader, contentType string) (string, error) {
	args := m.Called(userID, file, contentType)
	return args.String(0), args.Error(1)
}

type MockEconomyUseCase struct {
	mock.Mock
}

func (m *MockEconomyUseCase) CreatePost(userID, text string) error {
	args := m.Called(userID, text)
	return args.Error(0)
}

func (m *MockEconomyUseCase) ToggleLike(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyUseCase) ToggleReshare(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyUseCase) BuyPost(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyUseCase) SellPost(userID, postID string) error {
	args := m.Called(userID, postID)
	return args.Error(0)
}

func (m *MockEconomyUseCase) BuyDMAccess(userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockEconomyUseCase) SendDirectMessage(fromID, toID, text string) error {
	args := m.Called(fromID, toID, text)
	return args.Error(0)
}

func (m *MockEconomyUseCase) SendTransfer(fromID, toID string, amount int) error {
	args := m.Called(fromID, toID, amount)
	return args.Error(0)
}

func (m *MockEconomyUseCase) ClaimDaily(userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

type MockQueryUseCase struct {
	mock.Mock
}

func (m *MockQueryUseCase) Feed(viewerID string) ([]*entity.FeedPost, error) {
	args := m.Called(viewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.FeedPost), args.Error(1)
}

func (m *MockQueryUseCase) Stats(userID string) (*entity.UserStats, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserStats), args.Error(1)
}

func (m *MockQueryUseCase) Portfolio(userID string) ([]*entity.Holding, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Holding), args.Error(1)
}

func (m *MockQueryUseCase) Leaderboard() (*entity.Leaderboard, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Leaderboard), args.Error(1)
}

func (m *MockQueryUseCase) Messages(userID, otherID string) ([]*entity.Message, error) {
	args := m.Called(userID, otherID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Message), args.Error(1)
}

func (m *MockQueryUseCase) UserByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}
