package usecase

import (
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf16"

	"freeland/internal/entity"
	"freeland/internal/realtime"
	"freeland/internal/repo/persistent"
	"freeland/internal/valuation"
	"freeland/pkg/logger"
	"freeland/pkg/queue"
)

const (
	maxPostTextLen    = 280
	maxMessageTextLen = 500

	postReward          = 10
	reshareActorReward  = 2
	reshareAuthorReward = 5
)

// EventSender is the fan-out surface the engine emits through. The realtime
// hub implements it; tests substitute a recorder.
type EventSender interface {
	Broadcast(event realtime.Event)
	SendToUser(userID string, event realtime.Event)
}

type EconomyParams struct {
	DMAccessPrice    int
	DMAccessDuration time.Duration
	DailyClaimAmount int
}

// EconomyUseCase is the economic state machine. Every method handles one
// client action end to end: validate, mutate the store inside one
// transaction, then emit fan-out events. A rejected action performs zero
// writes and yields a targeted error event.
type EconomyUseCase interface {
	CreatePost(userID, text string) error
	ToggleLike(userID, postID string) error
	ToggleReshare(userID, postID string) error
	BuyPost(userID, postID string) error
	SellPost(userID, postID string) error
	BuyDMAccess(userID string) error
	SendDirectMessage(fromID, toID, text string) error
	SendTransfer(fromID, toID string, amount int) error
	ClaimDaily(userID string) (*entity.User, error)
}

type economyUseCase struct {
	repo        persistent.EconomyRepository
	sender      EventSender
	simulator   *TransferSimulator
	queueClient *queue.Client
	logger      *logger.Logger
	params      EconomyParams

	// mu serializes all engine actions and transfer ticks; the simulator
	// shares it. The original ran on a single-threaded event loop and the
	// economic invariants depend on that granularity.
	mu *sync.Mutex
}

func NewEconomyUseCase(
	repo persistent.EconomyRepository,
	sender EventSender,
	simulator *TransferSimulator,
	queueClient *queue.Client,
	log *logger.Logger,
	params EconomyParams,
	mu *sync.Mutex,
) EconomyUseCase {
	return &economyUseCase{
		repo:        repo,
		sender:      sender,
		simulator:   simulator,
		queueClient: queueClient,
		logger:      log,
		params:      params,
		mu:          mu,
	}
}

// textLen counts UTF-16 code units, matching the length the web client sees.
func textLen(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// reject emits a targeted error event and returns the same reason as an
// error for the caller's log.
func (uc *economyUseCase) reject(userID, msg string) error {
	uc.sender.SendToUser(userID, realtime.ErrorEvent(msg))
	return errors.New(msg)
}

func (uc *economyUseCase) CreatePost(userID, text string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if text == "" || textLen(text) > maxPostTextLen {
		return uc.reject(userID, "Post text must be 1-280 characters")
	}

	var post *entity.Post
	var coins int
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		user, err := r.GetUser(userID)
		if err != nil {
			return fmt.Errorf("user not found")
		}

		post = &entity.Post{
			UserID:       userID,
			Username:     user.Username,
			Text:         text,
			Value:        valuation.BaseValue,
			ShowOriginal: true,
		}
		if err := r.CreatePost(post); err != nil {
			return err
		}
		if err := r.AdjustCoins(userID, postReward); err != nil {
			return err
		}
		coins, err = r.GetCoins(userID)
		return err
	})
	if err != nil {
		uc.logger.Error("Failed to create post for %s: %v", userID, err)
		return uc.reject(userID, "Could not create post")
	}

	uc.sender.Broadcast(realtime.NewEvent(realtime.EventNew, post))
	uc.sender.SendToUser(userID, realtime.BalanceEvent(coins, fmt.Sprintf("+%d coins for posting!", postReward)))
	return nil
}

func (uc *economyUseCase) ToggleLike(userID, postID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var likes int
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		if _, err := r.GetPost(postID); err != nil {
			return fmt.Errorf("post not found")
		}

		liked, err := r.HasLike(userID, postID)
		if err != nil {
			return err
		}
		if liked {
			if err := r.DeleteLike(userID, postID); err != nil {
				return err
			}
		} else {
			if err := r.CreateLike(userID, postID); err != nil {
				return err
			}
		}

		likes, err = r.CountLikes(postID)
		if err != nil {
			return err
		}
		return r.UpdatePostLikes(postID, likes)
	})
	if err != nil {
		return uc.reject(userID, "Post not found")
	}

	uc.sender.Broadcast(realtime.NewEvent(realtime.EventUpdate, map[string]interface{}{
		"id":    postID,
		"likes": likes,
	}))
	return nil
}

func (uc *economyUseCase) ToggleReshare(userID, postID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var (
		original    *entity.Post
		wrapper     *entity.Post
		removed     bool
		reshares    int
		value       int
		actorCoins  int
		authorCoins int
	)
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		target, err := r.GetPost(postID)
		if err != nil {
			return fmt.Errorf("post not found")
		}
		// Resharing a wrapper reshares the post it wraps, so wrappers never
		// chain.
		original = target
		if target.IsWrapper() {
			original, err = r.GetPost(target.OriginalPostID)
			if err != nil {
				return fmt.Errorf("post not found")
			}
		}

		actor, err := r.GetUser(userID)
		if err != nil {
			return fmt.Errorf("user not found")
		}

		active, err := r.HasReshare(userID, original.ID)
		if err != nil {
			return err
		}

		if active {
			removed = true
			wrapper, err = r.GetWrapperPost(userID, original.ID)
			if err != nil {
				return fmt.Errorf("reshare not found")
			}
			if err := r.DeleteReshare(userID, original.ID); err != nil {
				return err
			}
			if err := r.SoftDeletePost(wrapper.ID); err != nil {
				return err
			}
			// No floor check: the unreshare debit can push a balance
			// negative, matching the original economy.
			if err := r.AdjustCoins(userID, -reshareActorReward); err != nil {
				return err
			}
			if err := r.AdjustCoins(original.UserID, -reshareAuthorReward); err != nil {
				return err
			}
		} else {
			if err := r.CreateReshare(userID, original.ID); err != nil {
				return err
			}
			wrapper = &entity.Post{
				UserID:         userID,
				Username:       actor.Username,
				Value:          original.Value,
				OriginalPostID: original.ID,
				ShowOriginal:   true,
			}
			if err := r.CreatePost(wrapper); err != nil {
				return err
			}
			if err := r.AdjustCoins(userID, reshareActorReward); err != nil {
				return err
			}
			if err := r.AdjustCoins(original.UserID, reshareAuthorReward); err != nil {
				return err
			}
		}

		reshares, err = r.CountReshares(original.ID)
		if err != nil {
			return err
		}
		value = valuation.Value(reshares)
		if err := r.UpdatePostReshares(original.ID, reshares, value); err != nil {
			return err
		}

		if actorCoins, err = r.GetCoins(userID); err != nil {
			return err
		}
		authorCoins, err = r.GetCoins(original.UserID)
		return err
	})
	if err != nil {
		return uc.reject(userID, "Cannot reshare this post")
	}

	update := realtime.NewEvent(realtime.EventUpdate, map[string]interface{}{
		"id":       original.ID,
		"reshares": reshares,
		"value":    value,
	})

	if removed {
		uc.sender.Broadcast(update)
		uc.sender.Broadcast(realtime.NewEvent(realtime.EventRemove, map[string]string{"id": wrapper.ID}))
		uc.sender.SendToUser(userID, realtime.BalanceEvent(actorCoins, fmt.Sprintf("-%d coins for unresharing", reshareActorReward)))
	} else {
		uc.sender.Broadcast(realtime.NewEvent(realtime.EventNew, wrapper))
		uc.sender.Broadcast(update)
		uc.sender.SendToUser(userID, realtime.BalanceEvent(actorCoins, fmt.Sprintf("+%d coins for reshare!", reshareActorReward)))
		uc.sender.SendToUser(original.UserID, realtime.BalanceEvent(authorCoins, fmt.Sprintf("+%d coins from reshare!", reshareAuthorReward)))
	}
	return nil
}

func (uc *economyUseCase) BuyPost(userID, postID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var (
		post        *entity.Post
		payout      int
		buyerCoins  int
		authorCoins int
	)
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		var err error
		post, err = r.GetPost(postID)
		if err != nil {
			return fmt.Errorf("cannot buy")
		}
		if post.UserID == userID {
			return fmt.Errorf("cannot buy")
		}

		buyer, err := r.GetUser(userID)
		if err != nil || buyer.Coins < post.Value {
			return fmt.Errorf("cannot buy")
		}

		owner, err := r.GetOwner(postID)
		if err != nil {
			return err
		}
		if owner != nil {
			if owner.UserID == userID {
				return fmt.Errorf("already owned")
			}
			return fmt.Errorf("cannot buy")
		}

		if err := r.CreatePortfolioEntry(&entity.PortfolioEntry{
			UserID:   userID,
			PostID:   postID,
			BuyPrice: post.Value,
		}); err != nil {
			return err
		}
		if err := r.AdjustCoins(userID, -post.Value); err != nil {
			return err
		}
		// The author receives 80%; the remaining 20% is burned.
		payout = post.Value * 4 / 5
		if err := r.AdjustCoins(post.UserID, payout); err != nil {
			return err
		}

		if buyerCoins, err = r.GetCoins(userID); err != nil {
			return err
		}
		authorCoins, err = r.GetCoins(post.UserID)
		return err
	})
	if err != nil {
		if err.Error() == "already owned" {
			return uc.reject(userID, "Already own this post")
		}
		return uc.reject(userID, "Cannot buy this post")
	}

	uc.sender.Broadcast(realtime.NewEvent(realtime.EventUpdate, map[string]interface{}{
		"id":       postID,
		"owner_id": userID,
	}))
	uc.sender.SendToUser(userID, realtime.BalanceEvent(buyerCoins, fmt.Sprintf("Bought post for %d coins!", post.Value)))
	uc.sender.SendToUser(post.UserID, realtime.BalanceEvent(authorCoins, fmt.Sprintf("Post sold for %d coins!", payout)))

	uc.publishTradeEvent(map[string]interface{}{
		"type":      "buy",
		"post_id":   postID,
		"buyer_id":  userID,
		"seller_id": post.UserID,
		"price":     post.Value,
	})
	return nil
}

func (uc *economyUseCase) SellPost(userID, postID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var (
		post        *entity.Post
		listed      bool
		sellerCoins int
	)
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		if _, err := r.GetPortfolioEntry(userID, postID); err != nil {
			return fmt.Errorf("not owned")
		}

		var err error
		post, err = r.GetPost(postID)
		if err != nil {
			return fmt.Errorf("not owned")
		}

		if !post.ShowOriginal {
			// No buyer-matching process exists; a listing just waits.
			listed = true
			return r.CreateListing(&entity.Listing{
				UserID: userID,
				PostID: postID,
				Price:  post.Value,
			})
		}

		if err := r.DeletePortfolioEntry(userID, postID); err != nil {
			return err
		}
		if err := r.AdjustCoins(userID, post.Value); err != nil {
			return err
		}
		sellerCoins, err = r.GetCoins(userID)
		return err
	})
	if err != nil {
		return uc.reject(userID, "You don't own this post")
	}

	if listed {
		uc.sender.SendToUser(userID, realtime.SuccessEvent("Post listed for sale"))
		return nil
	}

	uc.sender.Broadcast(realtime.NewEvent(realtime.EventUpdate, map[string]interface{}{
		"id":       postID,
		"owner_id": "",
	}))
	uc.sender.SendToUser(userID, realtime.BalanceEvent(sellerCoins, fmt.Sprintf("Sold post for %d coins!", post.Value)))

	uc.publishTradeEvent(map[string]interface{}{
		"type":      "sell",
		"post_id":   postID,
		"seller_id": userID,
		"price":     post.Value,
	})
	return nil
}

func (uc *economyUseCase) BuyDMAccess(userID string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var until time.Time
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		user, err := r.GetUser(userID)
		if err != nil || user.Coins < uc.params.DMAccessPrice {
			return fmt.Errorf("insufficient balance")
		}
		if err := r.AdjustCoins(userID, -uc.params.DMAccessPrice); err != nil {
			return err
		}
		until = time.Now().Add(uc.params.DMAccessDuration)
		return r.SetDMAccess(userID, until)
	})
	if err != nil {
		return uc.reject(userID, "Insufficient balance")
	}

	uc.sender.SendToUser(userID, realtime.NewEvent(realtime.EventDMActive, map[string]interface{}{
		"until": until,
	}))
	return nil
}

func (uc *economyUseCase) SendDirectMessage(fromID, toID, text string) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if text == "" || textLen(text) > maxMessageTextLen {
		return uc.reject(fromID, "Message text must be 1-500 characters")
	}

	var message *entity.Message
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		sender, err := r.GetUser(fromID)
		if err != nil {
			return fmt.Errorf("user not found")
		}
		if !sender.DMActive(time.Now()) {
			return fmt.Errorf("dm access expired")
		}
		if _, err := r.GetUser(toID); err != nil {
			return fmt.Errorf("recipient not found")
		}

		message = &entity.Message{FromID: fromID, ToID: toID, Text: text}
		return r.CreateMessage(message)
	})
	if err != nil {
		if err.Error() == "dm access expired" {
			return uc.reject(fromID, "DM access expired")
		}
		return uc.reject(fromID, "Cannot send message")
	}

	event := realtime.NewEvent(realtime.EventMessage, message)
	uc.sender.SendToUser(fromID, event)
	uc.sender.SendToUser(toID, event)
	return nil
}

func (uc *economyUseCase) SendTransfer(fromID, toID string, amount int) error {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if amount <= 0 {
		return uc.reject(fromID, "Insufficient balance")
	}

	var transfer *entity.Transfer
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		sender, err := r.GetUser(fromID)
		if err != nil || sender.Coins < amount {
			return fmt.Errorf("insufficient balance")
		}

		transfer = &entity.Transfer{FromID: fromID, ToID: toID, Amount: amount}
		return r.CreateTransfer(transfer)
	})
	if err != nil {
		return uc.reject(fromID, "Insufficient balance")
	}

	// Balances stay untouched until the simulator settles the transfer.
	uc.simulator.Launch(transfer.ID)

	uc.publishTradeEvent(map[string]interface{}{
		"type":    "transfer",
		"id":      transfer.ID,
		"from_id": fromID,
		"to_id":   toID,
		"amount":  amount,
	})
	return nil
}

func (uc *economyUseCase) ClaimDaily(userID string) (*entity.User, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var user *entity.User
	err := uc.repo.Transaction(func(r persistent.EconomyRepository) error {
		var err error
		user, err = r.GetUser(userID)
		if err != nil {
			return fmt.Errorf("user not found")
		}

		now := time.Now()
		if !user.LastClaim.IsZero() && now.Sub(user.LastClaim) < 24*time.Hour {
			return fmt.Errorf("daily claim not ready")
		}

		if err := r.AdjustCoins(userID, uc.params.DailyClaimAmount); err != nil {
			return err
		}
		if err := r.SetLastClaim(userID, now); err != nil {
			return err
		}

		user.Coins, err = r.GetCoins(userID)
		user.LastClaim = now
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.sender.SendToUser(userID, realtime.BalanceEvent(user.Coins, fmt.Sprintf("+%d coins daily claim!", uc.params.DailyClaimAmount)))
	return user, nil
}

func (uc *economyUseCase) publishTradeEvent(event map[string]interface{}) {
	if uc.queueClient == nil {
		return
	}
	go func() {
		if err := uc.queueClient.PublishTradeEvent(event); err != nil {
			uc.logger.Error("Failed to publish trade event: %v", err)
		}
	}()
}
