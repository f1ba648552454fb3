package usecase

import (
	"strings"
	"sync"
	"testing"
	"time"

	"freeland/internal/entity"
	"freeland/internal/realtime"
	"freeland/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestEconomy(repo *MockEconomyRepository, sender *recordingSender) EconomyUseCase {
	mu := &sync.Mutex{}
	// Launched transfers see a completed row so the background tick exits
	// without touching balances; settlement itself is covered separately.
	transferRepo := new(MockTransferRepository)
	transferRepo.On("GetTransfer", mock.Anything).
		Return(&entity.Transfer{ID: "t1", Status: entity.TransferComplete}, nil).Maybe()
	sim := NewTransferSimulator(transferRepo, sender, logger.New(), time.Millisecond, mu)
	return NewEconomyUseCase(repo, sender, sim, nil, logger.New(), EconomyParams{
		DMAccessPrice:    50,
		DMAccessDuration: time.Hour,
		DailyClaimAmount: 25,
	}, mu)
}

func TestCreatePost_RewardsAuthor(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", Username: "alice", Coins: 100}, nil)
	repo.On("CreatePost", mock.AnythingOfType("*entity.Post")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Post).ID = "p1"
	}).Return(nil)
	repo.On("AdjustCoins", "u1", 10).Return(nil)
	repo.On("GetCoins", "u1").Return(110, nil)

	err := uc.CreatePost("u1", "hello world")
	assert.NoError(t, err)

	assert.Equal(t, []realtime.EventKind{realtime.EventNew}, sender.broadcastKinds())
	post := sender.broadcasts[0].D.(*entity.Post)
	assert.Equal(t, "alice", post.Username)
	assert.Equal(t, 10, post.Value)

	sent := sender.sentTo("u1")
	assert.Len(t, sent, 1)
	assert.Equal(t, realtime.EventBalance, sent[0].T)
	assert.Equal(t, 110, sent[0].D.(map[string]interface{})["coins"])
	repo.AssertExpectations(t)
}

func TestCreatePost_RejectsBadText(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	assert.Error(t, uc.CreatePost("u1", ""))
	assert.Error(t, uc.CreatePost("u1", strings.Repeat("x", 281)))

	// Rejections perform zero writes.
	repo.AssertNotCalled(t, "CreatePost", mock.Anything)
	repo.AssertNotCalled(t, "AdjustCoins", mock.Anything, mock.Anything)

	sent := sender.sentTo("u1")
	assert.Len(t, sent, 2)
	assert.Equal(t, realtime.EventError, sent[0].T)
}

func TestToggleLike_SetsAbsoluteCount(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "u2"}, nil)
	repo.On("HasLike", "u1", "p1").Return(false, nil)
	repo.On("CreateLike", "u1", "p1").Return(nil)
	repo.On("CountLikes", "p1").Return(3, nil)
	repo.On("UpdatePostLikes", "p1", 3).Return(nil)

	assert.NoError(t, uc.ToggleLike("u1", "p1"))

	assert.Equal(t, []realtime.EventKind{realtime.EventUpdate}, sender.broadcastKinds())
	patch := sender.broadcasts[0].D.(map[string]interface{})
	assert.Equal(t, 3, patch["likes"])
	repo.AssertExpectations(t)
}

func TestToggleReshare_CreatesWrapperAndPaysBoth(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 10}, nil)
	repo.On("GetUser", "bob").Return(&entity.User{ID: "bob", Username: "bob", Coins: 100}, nil)
	repo.On("HasReshare", "bob", "p1").Return(false, nil)
	repo.On("CreateReshare", "bob", "p1").Return(nil)
	repo.On("CreatePost", mock.AnythingOfType("*entity.Post")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Post).ID = "w1"
	}).Return(nil)
	repo.On("AdjustCoins", "bob", 2).Return(nil)
	repo.On("AdjustCoins", "alice", 5).Return(nil)
	repo.On("CountReshares", "p1").Return(1, nil)
	repo.On("UpdatePostReshares", "p1", 1, 15).Return(nil)
	repo.On("GetCoins", "bob").Return(102, nil)
	repo.On("GetCoins", "alice").Return(115, nil)

	assert.NoError(t, uc.ToggleReshare("bob", "p1"))

	assert.Equal(t, []realtime.EventKind{realtime.EventNew, realtime.EventUpdate}, sender.broadcastKinds())
	wrapper := sender.broadcasts[0].D.(*entity.Post)
	assert.Equal(t, "p1", wrapper.OriginalPostID)
	assert.Empty(t, wrapper.Text)

	patch := sender.broadcasts[1].D.(map[string]interface{})
	assert.Equal(t, 1, patch["reshares"])
	assert.Equal(t, 15, patch["value"])

	assert.Equal(t, 102, sender.sentTo("bob")[0].D.(map[string]interface{})["coins"])
	assert.Equal(t, 115, sender.sentTo("alice")[0].D.(map[string]interface{})["coins"])
	repo.AssertExpectations(t)
}

func TestToggleReshare_OfWrapperFlattensToOriginal(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "w1").Return(&entity.Post{ID: "w1", UserID: "bob", OriginalPostID: "p1"}, nil)
	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 15}, nil)
	repo.On("GetUser", "carol").Return(&entity.User{ID: "carol", Username: "carol"}, nil)
	repo.On("HasReshare", "carol", "p1").Return(false, nil)
	repo.On("CreateReshare", "carol", "p1").Return(nil)
	repo.On("CreatePost", mock.AnythingOfType("*entity.Post")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Post).ID = "w2"
	}).Return(nil)
	repo.On("AdjustCoins", "carol", 2).Return(nil)
	repo.On("AdjustCoins", "alice", 5).Return(nil)
	repo.On("CountReshares", "p1").Return(2, nil)
	repo.On("UpdatePostReshares", "p1", 2, 19).Return(nil)
	repo.On("GetCoins", "carol").Return(102, nil)
	repo.On("GetCoins", "alice").Return(120, nil)

	assert.NoError(t, uc.ToggleReshare("carol", "w1"))

	// The new wrapper points at the original, never at another wrapper.
	wrapper := sender.broadcasts[0].D.(*entity.Post)
	assert.Equal(t, "p1", wrapper.OriginalPostID)
	repo.AssertExpectations(t)
}

func TestToggleReshare_UndoDebitsWithoutFloor(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 15}, nil)
	repo.On("GetUser", "bob").Return(&entity.User{ID: "bob", Username: "bob", Coins: 1}, nil)
	repo.On("HasReshare", "bob", "p1").Return(true, nil)
	repo.On("GetWrapperPost", "bob", "p1").Return(&entity.Post{ID: "w1", UserID: "bob", OriginalPostID: "p1"}, nil)
	repo.On("DeleteReshare", "bob", "p1").Return(nil)
	repo.On("SoftDeletePost", "w1").Return(nil)
	repo.On("AdjustCoins", "bob", -2).Return(nil)
	repo.On("AdjustCoins", "alice", -5).Return(nil)
	repo.On("CountReshares", "p1").Return(0, nil)
	repo.On("UpdatePostReshares", "p1", 0, 10).Return(nil)
	repo.On("GetCoins", "bob").Return(-1, nil)
	repo.On("GetCoins", "alice").Return(95, nil)

	assert.NoError(t, uc.ToggleReshare("bob", "p1"))

	assert.Equal(t, []realtime.EventKind{realtime.EventUpdate, realtime.EventRemove}, sender.broadcastKinds())
	// Balances can go negative on unreshare; there is no floor.
	assert.Equal(t, -1, sender.sentTo("bob")[0].D.(map[string]interface{})["coins"])
	repo.AssertExpectations(t)
}

func TestBuyPost_BurnsTwentyPercent(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 100}, nil)
	repo.On("GetUser", "bob").Return(&entity.User{ID: "bob", Coins: 150}, nil)
	repo.On("GetOwner", "p1").Return(nil, nil)
	repo.On("CreatePortfolioEntry", mock.AnythingOfType("*entity.PortfolioEntry")).Return(nil)
	repo.On("AdjustCoins", "bob", -100).Return(nil)
	repo.On("AdjustCoins", "alice", 80).Return(nil)
	repo.On("GetCoins", "bob").Return(50, nil)
	repo.On("GetCoins", "alice").Return(180, nil)

	assert.NoError(t, uc.BuyPost("bob", "p1"))

	patch := sender.broadcasts[0].D.(map[string]interface{})
	assert.Equal(t, "bob", patch["owner_id"])
	repo.AssertExpectations(t)
}

func TestBuyPost_RejectsWithoutWrites(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 10}, nil)
	repo.On("GetUser", "carol").Return(&entity.User{ID: "carol", Coins: 5}, nil)

	assert.Error(t, uc.BuyPost("carol", "p1"))

	repo.AssertNotCalled(t, "CreatePortfolioEntry", mock.Anything)
	repo.AssertNotCalled(t, "AdjustCoins", mock.Anything, mock.Anything)
	assert.Equal(t, realtime.EventError, sender.sentTo("carol")[0].T)
	assert.Empty(t, sender.broadcasts)
}

func TestBuyPost_RejectsOwnPostAndOwnedPost(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 10}, nil)
	assert.Error(t, uc.BuyPost("alice", "p1"))

	repo.On("GetPost", "p2").Return(&entity.Post{ID: "p2", UserID: "alice", Value: 10}, nil)
	repo.On("GetUser", "bob").Return(&entity.User{ID: "bob", Coins: 100}, nil)
	repo.On("GetOwner", "p2").Return(&entity.PortfolioEntry{UserID: "carol", PostID: "p2"}, nil)
	assert.Error(t, uc.BuyPost("bob", "p2"))

	repo.AssertNotCalled(t, "CreatePortfolioEntry", mock.Anything)
}

func TestSellPost_DirectSaleAtCurrentValue(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPortfolioEntry", "bob", "p1").Return(&entity.PortfolioEntry{UserID: "bob", PostID: "p1", BuyPrice: 10}, nil)
	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 19, ShowOriginal: true}, nil)
	repo.On("DeletePortfolioEntry", "bob", "p1").Return(nil)
	repo.On("AdjustCoins", "bob", 19).Return(nil)
	repo.On("GetCoins", "bob").Return(119, nil)

	assert.NoError(t, uc.SellPost("bob", "p1"))

	patch := sender.broadcasts[0].D.(map[string]interface{})
	assert.Equal(t, "", patch["owner_id"])
	repo.AssertExpectations(t)
}

func TestSellPost_ListsWhenDisplayFlagCleared(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetPortfolioEntry", "bob", "p1").Return(&entity.PortfolioEntry{UserID: "bob", PostID: "p1"}, nil)
	repo.On("GetPost", "p1").Return(&entity.Post{ID: "p1", UserID: "alice", Value: 19, ShowOriginal: false}, nil)
	repo.On("CreateListing", mock.AnythingOfType("*entity.Listing")).Return(nil)

	assert.NoError(t, uc.SellPost("bob", "p1"))

	// Listing is terminal: no ownership change broadcast, no payout.
	assert.Empty(t, sender.broadcasts)
	repo.AssertNotCalled(t, "DeletePortfolioEntry", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "AdjustCoins", mock.Anything, mock.Anything)
	assert.Equal(t, realtime.EventSuccess, sender.sentTo("bob")[0].T)
}

func TestBuyDMAccess(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", Coins: 60}, nil)
	repo.On("AdjustCoins", "u1", -50).Return(nil)
	repo.On("SetDMAccess", "u1", mock.AnythingOfType("time.Time")).Return(nil)

	assert.NoError(t, uc.BuyDMAccess("u1"))
	assert.Equal(t, realtime.EventDMActive, sender.sentTo("u1")[0].T)

	repo2 := new(MockEconomyRepository)
	sender2 := newRecordingSender()
	uc2 := newTestEconomy(repo2, sender2)
	repo2.On("GetUser", "u2").Return(&entity.User{ID: "u2", Coins: 49}, nil)
	assert.Error(t, uc2.BuyDMAccess("u2"))
	repo2.AssertNotCalled(t, "AdjustCoins", mock.Anything, mock.Anything)
}

func TestSendDirectMessage_RequiresActiveAccess(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", DMAccessUntil: time.Now().Add(-time.Minute)}, nil)

	assert.Error(t, uc.SendDirectMessage("u1", "u2", "hi"))
	repo.AssertNotCalled(t, "CreateMessage", mock.Anything)
	assert.Equal(t, realtime.EventError, sender.sentTo("u1")[0].T)
}

func TestSendDirectMessage_DeliversToBothParties(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", DMAccessUntil: time.Now().Add(time.Hour)}, nil)
	repo.On("GetUser", "u2").Return(&entity.User{ID: "u2"}, nil)
	repo.On("CreateMessage", mock.AnythingOfType("*entity.Message")).Return(nil)

	assert.NoError(t, uc.SendDirectMessage("u1", "u2", "hi"))

	assert.Equal(t, realtime.EventMessage, sender.sentTo("u1")[0].T)
	assert.Equal(t, realtime.EventMessage, sender.sentTo("u2")[0].T)
}

func TestSendTransfer_AcceptanceMovesNoCoins(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", Coins: 100}, nil)
	repo.On("CreateTransfer", mock.AnythingOfType("*entity.Transfer")).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.Transfer).ID = "t1"
	}).Return(nil)

	assert.NoError(t, uc.SendTransfer("u1", "u2", 40))

	// Balances move only when the simulator settles.
	repo.AssertNotCalled(t, "AdjustCoins", mock.Anything, mock.Anything)
}

func TestSendTransfer_Rejections(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	assert.Error(t, uc.SendTransfer("u1", "u2", 0))
	assert.Error(t, uc.SendTransfer("u1", "u2", -5))

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", Coins: 10}, nil)
	assert.Error(t, uc.SendTransfer("u1", "u2", 40))

	repo.AssertNotCalled(t, "CreateTransfer", mock.Anything)
}

func TestClaimDaily(t *testing.T) {
	repo := new(MockEconomyRepository)
	sender := newRecordingSender()
	uc := newTestEconomy(repo, sender)

	repo.On("GetUser", "u1").Return(&entity.User{ID: "u1", Coins: 100, LastClaim: time.Now().Add(-25 * time.Hour)}, nil)
	repo.On("AdjustCoins", "u1", 25).Return(nil)
	repo.On("SetLastClaim", "u1", mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("GetCoins", "u1").Return(125, nil)

	user, err := uc.ClaimDaily("u1")
	assert.NoError(t, err)
	assert.Equal(t, 125, user.Coins)

	repo2 := new(MockEconomyRepository)
	uc2 := newTestEconomy(repo2, newRecordingSender())
	repo2.On("GetUser", "u1").Return(&entity.User{ID: "u1", LastClaim: time.Now().Add(-time.Hour)}, nil)
	_, err = uc2.ClaimDaily("u1")
	assert.Error(t, err)
	repo2.AssertNotCalled(t, "AdjustCoins", mock.Anything, mock.Anything)
}
