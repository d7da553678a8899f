package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/VladimirMalevanik/discy/internal/ladder"
)

const usersKey = "users"

func userKey(chatID int64) string { return fmt.Sprintf("u:%d", chatID) }

func dayLogKey(chatID int64, date string) string { return fmt.Sprintf("log:%d:%s", chatID, date) }

// Repository maps ladder records onto the key/value store.
type Repository struct {
	store Store
}

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// LoadUser returns the stored record, or a new unsaved user starting today.
func (r *Repository) LoadUser(ctx context.Context, chatID int64, today string) (*ladder.User, error) {
	raw, err := r.store.Get(ctx, userKey(chatID))
	if errors.Is(err, ErrNotFound) {
		return ladder.NewUser(chatID, today), nil
	}
	if err != nil {
		return nil, err
	}
	u, err := decodeUser(raw)
	if err != nil {
		return nil, err
	}
	u.ChatID = chatID
	return u, nil
}

func (r *Repository) SaveUser(ctx context.Context, u *ladder.User) error {
	raw, err := encodeUser(u)
	if err != nil {
		return fmt.Errorf("db: encode user %d: %w", u.ChatID, err)
	}
	return r.store.Put(ctx, userKey(u.ChatID), raw)
}

// ListUsers returns every registered chat id in registration order.
func (r *Repository) ListUsers(ctx context.Context) ([]int64, error) {
	raw, err := r.store.Get(ctx, usersKey)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("db: decode users: %w", err)
	}
	return ids, nil
}

// AddUser appends chatID to the registry unless it is already there.
func (r *Repository) AddUser(ctx context.Context, chatID int64) error {
	ids, err := r.ListUsers(ctx)
	if err != nil {
		return err
	}
	if slices.Contains(ids, chatID) {
		return nil
	}
	raw, err := json.Marshal(append(ids, chatID))
	if err != nil {
		return err
	}
	return r.store.Put(ctx, usersKey, raw)
}

func (r *Repository) SaveDayLog(ctx context.Context, chatID int64, res ladder.DayResult) error {
	raw, err := json.Marshal(DayLog{Version: recordVersion, ChatID: chatID, DayResult: res})
	if err != nil {
		return fmt.Errorf("db: encode day log: %w", err)
	}
	return r.store.Put(ctx, dayLogKey(chatID, res.Date), raw)
}

// LoadDayLog returns ErrNotFound when the day was never finalized.
func (r *Repository) LoadDayLog(ctx context.Context, chatID int64, date string) (*DayLog, error) {
	raw, err := r.store.Get(ctx, dayLogKey(chatID, date))
	if err != nil {
		return nil, err
	}
	var l DayLog
	if err := json.Unmarshal(raw, &l); err != nil {
		return nil, fmt.Errorf("db: decode day log: %w", err)
	}
	return &l, nil
}
