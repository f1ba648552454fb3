package persistent

import (
	"freeland/internal/entity"
	"freeland/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}
	return &entity.User{
		ID:            m.ID,
		Username:      m.Username,
		Password:      m.Password,
		Coins:         m.Coins,
		AvatarURL:     m.AvatarURL,
		DMAccessUntil: m.DMAccessUntil,
		LastClaim:     m.LastClaim,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}
	return &model.UserModel{
		ID:            e.ID,
		Username:      e.Username,
		Password:      e.Password,
		Coins:         e.Coins,
		AvatarURL:     e.AvatarURL,
		DMAccessUntil: e.DMAccessUntil,
		LastClaim:     e.LastClaim,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ToPostEntity(m *model.PostModel) *entity.Post {
	if m == nil {
		return nil
	}
	originalID := ""
	if m.OriginalPostID != nil {
		originalID = *m.OriginalPostID
	}
	return &entity.Post{
		ID:             m.ID,
		UserID:         m.UserID,
		Username:       m.Username,
		Text:           m.Text,
		Value:          m.Value,
		Likes:          m.Likes,
		Reshares:       m.Reshares,
		OriginalPostID: originalID,
		ShowOriginal:   m.ShowOriginal,
		CreatedAt:      m.CreatedAt,
	}
}

func ToPostModel(e *entity.Post) *model.PostModel {
	if e == nil {
		return nil
	}
	var originalID *string
	if e.OriginalPostID != "" {
		id := e.OriginalPostID
		originalID = &id
	}
	return &model.PostModel{
		ID:             e.ID,
		UserID:         e.UserID,
		Username:       e.Username,
		Text:           e.Text,
		Value:          e.Value,
		Likes:          e.Likes,
		Reshares:       e.Reshares,
		OriginalPostID: originalID,
		ShowOriginal:   e.ShowOriginal,
		CreatedAt:      e.CreatedAt,
	}
}

func ToPortfolioEntity(m *model.PortfolioModel) *entity.PortfolioEntry {
	if m == nil {
		return nil
	}
	return &entity.PortfolioEntry{
		UserID:   m.UserID,
		PostID:   m.PostID,
		BuyPrice: m.BuyPrice,
		BoughtAt: m.CreatedAt,
	}
}

func ToMessageEntity(m *model.MessageModel) *entity.Message {
	if m == nil {
		return nil
	}
	return &entity.Message{
		ID:        m.ID,
		FromID:    m.FromID,
		ToID:      m.ToID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

func ToTransferEntity(m *model.TransferModel) *entity.Transfer {
	if m == nil {
		return nil
	}
	return &entity.Transfer{
		ID:        m.ID,
		FromID:    m.FromID,
		ToID:      m.ToID,
		Amount:    m.Amount,
		Progress:  m.Progress,
		Status:    entity.TransferStatus(m.Status),
		CreatedAt: m.CreatedAt,
	}
}
