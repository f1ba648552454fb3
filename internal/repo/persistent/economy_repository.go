package persistent

import (
	"errors"
	"time"

	"freeland/internal/entity"
	"freeland/internal/model"

	"gorm.io/gorm"
)

// EconomyRepository is the store surface of the economic state machine. Each
// action wraps its reads and writes in one Transaction call so a rejected or
// failed action leaves no partial state behind.
type EconomyRepository interface {
	Transaction(fn func(EconomyRepository) error) error

	GetUser(id string) (*entity.User, error)
	GetUserByUsername(username string) (*entity.User, error)
	GetCoins(userID string) (int, error)
	AdjustCoins(userID string, delta int) error
	SetDMAccess(userID string, until time.Time) error
	SetLastClaim(userID string, at time.Time) error

	CreatePost(post *entity.Post) error
	GetPost(id string) (*entity.Post, error)
	UpdatePostLikes(postID string, likes int) error
	UpdatePostReshares(postID string, reshares, value int) error
	SoftDeletePost(postID string) error

	HasLike(userID, postID string) (bool, error)
	CreateLike(userID, postID string) error
	DeleteLike(userID, postID string) error
	CountLikes(postID string) (int, error)

	HasReshare(userID, postID string) (bool, error)
	CreateReshare(userID, postID string) error
	DeleteReshare(userID, postID string) error
	CountReshares(postID string) (int, error)
	GetWrapperPost(userID, originalPostID string) (*entity.Post, error)

	GetOwner(postID string) (*entity.PortfolioEntry, error)
	GetPortfolioEntry(userID, postID string) (*entity.PortfolioEntry, error)
	CreatePortfolioEntry(e *entity.PortfolioEntry) error
	DeletePortfolioEntry(userID, postID string) error
	CreateListing(l *entity.Listing) error

	CreateMessage(m *entity.Message) error
	CreateTransfer(t *entity.Transfer) error
}

type economyRepository struct {
	db *gorm.DB
}

func NewEconomyRepository(db *gorm.DB) EconomyRepository {
	return &economyRepository{db: db}
}

func (r *economyRepository) Transaction(fn func(EconomyRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&economyRepository{db: tx})
	})
}

func (r *economyRepository) GetUser(id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *economyRepository) GetUserByUsername(username string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("username = ?", username).First(&userModel).Error; err != nil {
		return nil, err
	}
	return ToUserEntity(&userModel), nil
}

func (r *economyRepository) GetCoins(userID string) (int, error) {
	var coins int
	err := r.db.Model(&model.UserModel{}).Select("coins").Where("id = ?", userID).Scan(&coins).Error
	return coins, err
}

func (r *economyRepository) AdjustCoins(userID string, delta int) error {
	return r.db.Model(&model.UserModel{}).Where("id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", delta)).Error
}

func (r *economyRepository) SetDMAccess(userID string, until time.Time) error {
	return r.db.Model(&model.UserModel{}).Where("id = ?", userID).
		UpdateColumn("dm_access_until", until).Error
}

func (r *economyRepository) SetLastClaim(userID string, at time.Time) error {
	return r.db.Model(&model.UserModel{}).Where("id = ?", userID).
		UpdateColumn("last_claim", at).Error
}

func (r *economyRepository) CreatePost(post *entity.Post) error {
	postModel := ToPostModel(post)
	if err := r.db.Create(postModel).Error; err != nil {
		return err
	}
	post.ID = postModel.ID
	post.CreatedAt = postModel.CreatedAt
	return nil
}

func (r *economyRepository) GetPost(id string) (*entity.Post, error) {
	var postModel model.PostModel
	if err := r.db.Where("id = ?", id).First(&postModel).Error; err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *economyRepository) UpdatePostLikes(postID string, likes int) error {
	return r.db.Model(&model.PostModel{}).Where("id = ?", postID).
		UpdateColumn("likes", likes).Error
}

func (r *economyRepository) UpdatePostReshares(postID string, reshares, value int) error {
	return r.db.Model(&model.PostModel{}).Where("id = ?", postID).
		UpdateColumns(map[string]interface{}{"reshares": reshares, "value": value}).Error
}

func (r *economyRepository) SoftDeletePost(postID string) error {
	return r.db.Where("id = ?", postID).Delete(&model.PostModel{}).Error
}

func (r *economyRepository) HasLike(userID, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.LikeModel{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *economyRepository) CreateLike(userID, postID string) error {
	return r.db.Create(&model.LikeModel{UserID: userID, PostID: postID}).Error
}

func (r *economyRepository) DeleteLike(userID, postID string) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.LikeModel{}).Error
}

func (r *economyRepository) CountLikes(postID string) (int, error) {
	var count int64
	err := r.db.Model(&model.LikeModel{}).Where("post_id = ?", postID).Count(&count).Error
	return int(count), err
}

func (r *economyRepository) HasReshare(userID, postID string) (bool, error) {
	var count int64
	err := r.db.Model(&model.ReshareModel{}).
		Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *economyRepository) CreateReshare(userID, postID string) error {
	return r.db.Create(&model.ReshareModel{UserID: userID, PostID: postID}).Error
}

func (r *economyRepository) DeleteReshare(userID, postID string) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.ReshareModel{}).Error
}

func (r *economyRepository) CountReshares(postID string) (int, error) {
	var count int64
	err := r.db.Model(&model.ReshareModel{}).Where("post_id = ?", postID).Count(&count).Error
	return int(count), err
}

func (r *economyRepository) GetWrapperPost(userID, originalPostID string) (*entity.Post, error) {
	var postModel model.PostModel
	err := r.db.Where("user_id = ? AND original_post_id = ?", userID, originalPostID).
		First(&postModel).Error
	if err != nil {
		return nil, err
	}
	return ToPostEntity(&postModel), nil
}

func (r *economyRepository) GetOwner(postID string) (*entity.PortfolioEntry, error) {
	var portfolioModel model.PortfolioModel
	err := r.db.Where("post_id = ?", postID).First(&portfolioModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return ToPortfolioEntity(&portfolioModel), nil
}

func (r *economyRepository) GetPortfolioEntry(userID, postID string) (*entity.PortfolioEntry, error) {
	var portfolioModel model.PortfolioModel
	err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&portfolioModel).Error
	if err != nil {
		return nil, err
	}
	return ToPortfolioEntity(&portfolioModel), nil
}

func (r *economyRepository) CreatePortfolioEntry(e *entity.PortfolioEntry) error {
	return r.db.Create(&model.PortfolioModel{
		UserID:   e.UserID,
		PostID:   e.PostID,
		BuyPrice: e.BuyPrice,
	}).Error
}

func (r *economyRepository) DeletePortfolioEntry(userID, postID string) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.PortfolioModel{}).Error
}

func (r *economyRepository) CreateListing(l *entity.Listing) error {
	return r.db.Create(&model.ListingModel{
		UserID: l.UserID,
		PostID: l.PostID,
		Price:  l.Price,
	}).Error
}

func (r *economyRepository) CreateMessage(m *entity.Message) error {
	messageModel := &model.MessageModel{
		FromID: m.FromID,
		ToID:   m.ToID,
		Text:   m.Text,
	}
	if err := r.db.Create(messageModel).Error; err != nil {
		return err
	}
	m.ID = messageModel.ID
	m.CreatedAt = messageModel.CreatedAt
	return nil
}

func (r *economyRepository) CreateTransfer(t *entity.Transfer) error {
	transferModel := &model.TransferModel{
		FromID:   t.FromID,
		ToID:     t.ToID,
		Amount:   t.Amount,
		Progress: 0,
		Status:   string(entity.TransferPending),
	}
	if err := r.db.Create(transferModel).Error; err != nil {
		return err
	}
	t.ID = transferModel.ID
	t.Progress = 0
	t.Status = entity.TransferPending
	t.CreatedAt = transferModel.CreatedAt
	return nil
}
