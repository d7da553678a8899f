package db

import (
	"encoding/json"
	"fmt"

	"github.com/VladimirMalevanik/discy/internal/clock"
	"github.com/VladimirMalevanik/discy/internal/ladder"
)

// recordVersion 1 stores messaging under "messaging" and sleep on the night
// scale. Version 0 (no field) is the layout written by the first worker.
const recordVersion = 1

type userRecord struct {
	Version int `json:"version"`
	ladder.User
}

// legacyFields holds the version 0 names that no longer map onto ladder.User.
type legacyFields struct {
	Targets struct {
		TG *float64 `json:"tg"`
	} `json:"targets"`
	Deltas struct {
		TG *float64 `json:"tg"`
	} `json:"deltas"`
	Survey struct {
		Tmp struct {
			TG *int `json:"tg"`
		} `json:"tmp"`
	} `json:"survey"`
}

func encodeUser(u *ladder.User) ([]byte, error) {
	return json.Marshal(userRecord{Version: recordVersion, User: *u})
}

func decodeUser(raw []byte) (*ladder.User, error) {
	var rec userRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("db: decode user: %w", err)
	}
	if rec.Version < 1 {
		var legacy legacyFields
		if err := json.Unmarshal(raw, &legacy); err != nil {
			return nil, fmt.Errorf("db: decode legacy user: %w", err)
		}
		migrateV0(&rec.User, legacy)
	}
	fillDefaults(&rec.User)
	return &rec.User, nil
}

func migrateV0(u *ladder.User, legacy legacyFields) {
	if legacy.Targets.TG != nil {
		u.Targets.Messaging = *legacy.Targets.TG
	}
	if legacy.Deltas.TG != nil {
		u.Deltas.Messaging = *legacy.Deltas.TG
	}
	if legacy.Survey.Tmp.TG != nil {
		u.Survey.Tmp.Set(ladder.Messaging, *legacy.Survey.Tmp.TG)
	}
	// v0 kept bedtime as a plain minute-of-day and walked it forward.
	if !u.Targets.IsZero() && u.Targets.Sleep < clock.MinutesPerDay/2 {
		u.Targets.Sleep += clock.MinutesPerDay
	}
	if !u.Deltas.IsZero() {
		u.Deltas.Sleep = ladder.BoundOf(ladder.Sleep).Delta()
	}
}

func fillDefaults(u *ladder.User) {
	targets, deltas := ladder.DefaultTargets()
	if u.Targets.IsZero() {
		u.Targets = targets
	}
	if u.Deltas.IsZero() {
		u.Deltas = deltas
	}
	if u.Survey.Step != nil && (*u.Survey.Step < 0 || *u.Survey.Step >= len(ladder.Metrics)) {
		u.Survey.Reset()
	}
	u.DayIndex = min(max(u.DayIndex, 0), ladder.ProgramDays)
	u.Points = max(u.Points, 0)
}

// DayLog is the stored outcome of one finalized day.
type DayLog struct {
	Version int   `json:"version"`
	ChatID  int64 `json:"chatId"`
	ladder.DayResult
}
