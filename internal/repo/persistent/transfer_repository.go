package persistent

import (
	"freeland/internal/entity"
	"freeland/internal/model"

	"gorm.io/gorm"
)

// TransferRepository is the store surface of the transfer simulator. Ticks
// re-fetch the transfer row rather than trusting in-memory progress, and the
// settlement happens inside one Transaction call.
type TransferRepository interface {
	Transaction(fn func(TransferRepository) error) error

	GetTransfer(id string) (*entity.Transfer, error)
	UpdateProgress(id string, progress int) error
	CompleteTransfer(id string) error
	ListPending() ([]*entity.Transfer, error)

	AdjustCoins(userID string, delta int) error
	GetCoins(userID string) (int, error)
}

type transferRepository struct {
	db *gorm.DB
}

func NewTransferRepository(db *gorm.DB) TransferRepository {
	return &transferRepository{db: db}
}

func (r *transferRepository) Transaction(fn func(TransferRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&transferRepository{db: tx})
	})
}

func (r *transferRepository) GetTransfer(id string) (*entity.Transfer, error) {
	var transferModel model.TransferModel
	if err := r.db.Where("id = ?", id).First(&transferModel).Error; err != nil {
		return nil, err
	}
	return ToTransferEntity(&transferModel), nil
}

func (r *transferRepository) UpdateProgress(id string, progress int) error {
	return r.db.Model(&model.TransferModel{}).Where("id = ?", id).
		UpdateColumn("progress", progress).Error
}

func (r *transferRepository) CompleteTransfer(id string) error {
	return r.db.Model(&model.TransferModel{}).Where("id = ?", id).
		UpdateColumn("status", string(entity.TransferComplete)).Error
}

func (r *transferRepository) ListPending() ([]*entity.Transfer, error) {
	var transferModels []model.TransferModel
	err := r.db.Where("status = ?", string(entity.TransferPending)).
		Order("created_at ASC").Find(&transferModels).Error
	if err != nil {
		return nil, err
	}

	transfers := make([]*entity.Transfer, len(transferModels))
	for i := range transferModels {
		transfers[i] = ToTransferEntity(&transferModels[i])
	}
	return transfers, nil
}

func (r *transferRepository) AdjustCoins(userID string, delta int) error {
	return r.db.Model(&model.UserModel{}).Where("id = ?", userID).
		UpdateColumn("coins", gorm.Expr("coins + ?", delta)).Error
}

func (r *transferRepository) GetCoins(userID string) (int, error) {
	var coins int
	err := r.db.Model(&model.UserModel{}).Select("coins").Where("id = ?", userID).Scan(&coins).Error
	return coins, err
}
