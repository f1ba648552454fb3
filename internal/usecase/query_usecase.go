package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"freeland/internal/entity"
	"freeland/internal/repo/persistent"
	"freeland/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const (
	feedLimit        = 100
	leaderboardLimit = 10
	messagesLimit    = 100

	leaderboardCacheKey = "leaderboard"
	leaderboardCacheTTL = 30 * time.Second
)

var ErrDMAccessRequired = errors.New("dm access required")

// QueryUseCase serves the read-only HTTP surface. It never mutates economic
// state and never emits live events.
type QueryUseCase interface {
	Feed(viewerID string) ([]*entity.FeedPost, error)
	Stats(userID string) (*entity.UserStats, error)
	Portfolio(userID string) ([]*entity.Holding, error)
	Leaderboard() (*entity.Leaderboard, error)
	Messages(userID, otherID string) ([]*entity.Message, error)
	UserByUsername(username string) (*entity.User, error)
}

type queryUseCase struct {
	queryRepo   persistent.QueryRepository
	userRepo    persistent.UserRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewQueryUseCase(
	queryRepo persistent.QueryRepository,
	userRepo persistent.UserRepository,
	redisClient *redis.Client,
	log *logger.Logger,
) QueryUseCase {
	return &queryUseCase{
		queryRepo:   queryRepo,
		userRepo:    userRepo,
		redisClient: redisClient,
		logger:      log,
	}
}

// Feed returns the most recent posts, newest first. When viewerID is set,
// each post carries the viewer's liked/reshared/owned flags.
func (uc *queryUseCase) Feed(viewerID string) ([]*entity.FeedPost, error) {
	posts, err := uc.queryRepo.RecentPosts(feedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}

	var liked, reshared, owned map[string]bool
	if viewerID != "" {
		ids := make([]string, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
			// Viewer flags on a wrapper reflect the wrapped post.
			if p.IsWrapper() {
				ids = append(ids, p.OriginalPostID)
			}
		}
		if liked, err = uc.queryRepo.LikedPostIDs(viewerID, ids); err != nil {
			return nil, err
		}
		if reshared, err = uc.queryRepo.ResharedPostIDs(viewerID, ids); err != nil {
			return nil, err
		}
		if owned, err = uc.queryRepo.OwnedPostIDs(viewerID, ids); err != nil {
			return nil, err
		}
	}

	feed := make([]*entity.FeedPost, len(posts))
	for i, p := range posts {
		flagID := p.ID
		if p.IsWrapper() {
			flagID = p.OriginalPostID
		}
		feed[i] = &entity.FeedPost{
			Post:     *p,
			Liked:    liked[flagID],
			Reshared: reshared[flagID],
			Owned:    owned[p.ID],
		}
	}
	return feed, nil
}

func (uc *queryUseCase) Stats(userID string) (*entity.UserStats, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}

	postCount, err := uc.queryRepo.CountPosts(userID)
	if err != nil {
		return nil, err
	}

	value, invested, err := uc.queryRepo.PortfolioTotals(userID)
	if err != nil {
		return nil, err
	}
	// Avoid dividing by zero on an empty portfolio.
	if invested == 0 {
		invested = 1
	}
	roi := int(math.Round(float64(value-invested) / float64(invested) * 100))

	return &entity.UserStats{
		Coins:          user.Coins,
		PostCount:      postCount,
		PortfolioValue: value,
		ROI:            roi,
		DMActive:       user.DMActive(time.Now()),
	}, nil
}

func (uc *queryUseCase) Portfolio(userID string) ([]*entity.Holding, error) {
	return uc.queryRepo.Portfolio(userID)
}

// Leaderboard computes the three top-ten rankings, cached briefly in redis.
func (uc *queryUseCase) Leaderboard() (*entity.Leaderboard, error) {
	ctx := context.Background()

	if uc.redisClient != nil {
		cached, err := uc.redisClient.Get(ctx, leaderboardCacheKey).Result()
		if err == nil {
			var board entity.Leaderboard
			if err := json.Unmarshal([]byte(cached), &board); err == nil {
				return &board, nil
			}
		}
	}

	richest, err := uc.queryRepo.TopByCoins(leaderboardLimit)
	if err != nil {
		return nil, err
	}
	valuable, err := uc.queryRepo.TopPostsByValue(leaderboardLimit)
	if err != nil {
		return nil, err
	}
	traders, err := uc.queryRepo.TopTraders(leaderboardLimit)
	if err != nil {
		return nil, err
	}

	board := &entity.Leaderboard{
		Richest:  richest,
		Valuable: valuable,
		Traders:  traders,
	}

	if uc.redisClient != nil {
		if data, err := json.Marshal(board); err == nil {
			if err := uc.redisClient.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
				uc.logger.Warn("Failed to cache leaderboard: %v", err)
			}
		}
	}
	return board, nil
}

// Messages returns the conversation between two users. The requester must
// hold active DM access; the other party reads for free only through their
// own active window.
func (uc *queryUseCase) Messages(userID, otherID string) ([]*entity.Message, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("user not found: %w", err)
	}
	if !user.DMActive(time.Now()) {
		return nil, ErrDMAccessRequired
	}
	return uc.queryRepo.MessagesBetween(userID, otherID, messagesLimit)
}

func (uc *queryUseCase) UserByUsername(username string) (*entity.User, error) {
	return uc.userRepo.GetByUsername(username)
}
