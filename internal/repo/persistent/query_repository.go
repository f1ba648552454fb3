package persistent

import (
	"freeland/internal/entity"
	"freeland/internal/model"

	"gorm.io/gorm"
)

// QueryRepository serves the read-only projections of the query surface:
// feed, stats, leaderboard, portfolio and message history.
type QueryRepository interface {
	RecentPosts(limit int) ([]*entity.Post, error)
	LikedPostIDs(userID string, postIDs []string) (map[string]bool, error)
	ResharedPostIDs(userID string, postIDs []string) (map[string]bool, error)
	OwnedPostIDs(userID string, postIDs []string) (map[string]bool, error)

	CountPosts(userID string) (int, error)
	PortfolioTotals(userID string) (value int, invested int, err error)
	Portfolio(userID string) ([]*entity.Holding, error)

	TopByCoins(limit int) ([]entity.RichUser, error)
	TopPostsByValue(limit int) ([]entity.ValuablePost, error)
	TopTraders(limit int) ([]entity.Trader, error)

	MessagesBetween(userID, otherID string, limit int) ([]*entity.Message, error)
}

type queryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

func (r *queryRepository) RecentPosts(limit int) ([]*entity.Post, error) {
	var postModels []model.PostModel
	err := r.db.Order("created_at DESC").Limit(limit).Find(&postModels).Error
	if err != nil {
		return nil, err
	}

	posts := make([]*entity.Post, len(postModels))
	for i := range postModels {
		posts[i] = ToPostEntity(&postModels[i])
	}
	return posts, nil
}

func (r *queryRepository) LikedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	return r.collectIDs(&model.LikeModel{}, userID, postIDs)
}

func (r *queryRepository) ResharedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	return r.collectIDs(&model.ReshareModel{}, userID, postIDs)
}

func (r *queryRepository) OwnedPostIDs(userID string, postIDs []string) (map[string]bool, error) {
	return r.collectIDs(&model.PortfolioModel{}, userID, postIDs)
}

func (r *queryRepository) collectIDs(table interface{}, userID string, postIDs []string) (map[string]bool, error) {
	result := make(map[string]bool, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	var ids []string
	err := r.db.Model(table).Select("post_id").
		Where("user_id = ? AND post_id IN ?", userID, postIDs).Scan(&ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *queryRepository) CountPosts(userID string) (int, error) {
	var count int64
	err := r.db.Model(&model.PostModel{}).Where("user_id = ?", userID).Count(&count).Error
	return int(count), err
}

func (r *queryRepository) PortfolioTotals(userID string) (int, int, error) {
	var totals struct {
		Total    int
		Invested int
	}
	err := r.db.Table("portfolio").
		Select("COALESCE(SUM(posts.value), 0) AS total, COALESCE(SUM(portfolio.buy_price), 0) AS invested").
		Joins("JOIN posts ON portfolio.post_id = posts.id").
		Where("portfolio.user_id = ?", userID).
		Scan(&totals).Error
	if err != nil {
		return 0, 0, err
	}
	return totals.Total, totals.Invested, nil
}

func (r *queryRepository) Portfolio(userID string) ([]*entity.Holding, error) {
	var portfolioModels []model.PortfolioModel
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&portfolioModels).Error
	if err != nil {
		return nil, err
	}

	holdings := make([]*entity.Holding, 0, len(portfolioModels))
	for i := range portfolioModels {
		var postModel model.PostModel
		// Unscoped: a held wrapper may have been soft-deleted by an unreshare.
		if err := r.db.Unscoped().Where("id = ?", portfolioModels[i].PostID).First(&postModel).Error; err != nil {
			continue
		}
		holdings = append(holdings, &entity.Holding{
			Post:     *ToPostEntity(&postModel),
			BuyPrice: portfolioModels[i].BuyPrice,
			BoughtAt: portfolioModels[i].CreatedAt,
		})
	}
	return holdings, nil
}

func (r *queryRepository) TopByCoins(limit int) ([]entity.RichUser, error) {
	var rows []entity.RichUser
	err := r.db.Model(&model.UserModel{}).Select("username, coins").
		Order("coins DESC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *queryRepository) TopPostsByValue(limit int) ([]entity.ValuablePost, error) {
	var rows []entity.ValuablePost
	err := r.db.Model(&model.PostModel{}).Select("text, value").
		Order("value DESC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *queryRepository) TopTraders(limit int) ([]entity.Trader, error) {
	var rows []entity.Trader
	err := r.db.Table("portfolio").
		Select("users.username, COUNT(*) AS trades").
		Joins("JOIN users ON portfolio.user_id = users.id").
		Group("portfolio.user_id, users.username").
		Order("trades DESC").Limit(limit).Scan(&rows).Error
	return rows, err
}

func (r *queryRepository) MessagesBetween(userID, otherID string, limit int) ([]*entity.Message, error) {
	var messageModels []model.MessageModel
	err := r.db.Where(
		"(from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)",
		userID, otherID, otherID, userID,
	).Order("created_at ASC").Limit(limit).Find(&messageModels).Error
	if err != nil {
		return nil, err
	}

	messages := make([]*entity.Message, len(messageModels))
	for i := range messageModels {
		messages[i] = ToMessageEntity(&messageModels[i])
	}
	return messages, nil
}
