// internal/settings/settings.go
//
// Player settings stored under the "settings" key.
// Missing fields take their defaults; updates are partial and validated.

package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
	"github.com/robalobadob/worldle/apps/go-server/internal/store"
)

// ErrInvalid wraps every validation failure of Update.
var ErrInvalid = errors.New("invalid settings")

type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Data is the settings document.
type Data struct {
	Theme            Theme    `json:"theme"`
	DistanceUnit     geo.Unit `json:"distanceUnit"`
	CountryListOnly  bool     `json:"countryListOnly"`
	NoImageMode      bool     `json:"noImageMode"`
	RotationMode     bool     `json:"rotationMode"`
	AllowShiftingDay bool     `json:"allowShiftingDay"`
	ShiftDayCount    int      `json:"shiftDayCount"`
}

// Default returns the settings of a new player.
func Default() Data {
	return Data{
		Theme:           Light,
		DistanceUnit:    geo.Kilometers,
		CountryListOnly: true,
	}
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Theme            *Theme    `json:"theme,omitempty"`
	DistanceUnit     *geo.Unit `json:"distanceUnit,omitempty"`
	CountryListOnly  *bool     `json:"countryListOnly,omitempty"`
	NoImageMode      *bool     `json:"noImageMode,omitempty"`
	RotationMode     *bool     `json:"rotationMode,omitempty"`
	AllowShiftingDay *bool     `json:"allowShiftingDay,omitempty"`
	ShiftDayCount    *int      `json:"shiftDayCount,omitempty"`
}

// Apply validates p and returns d with p's fields applied.
// Shift counts are clamped to [0, daily.MaxShiftDays].
func (d Data) Apply(p Patch) (Data, error) {
	if p.Theme != nil {
		if *p.Theme != Light && *p.Theme != Dark {
			return d, fmt.Errorf("%w: theme %q", ErrInvalid, *p.Theme)
		}
		d.Theme = *p.Theme
	}
	if p.DistanceUnit != nil {
		if *p.DistanceUnit != geo.Kilometers && *p.DistanceUnit != geo.Miles {
			return d, fmt.Errorf("%w: distanceUnit %q", ErrInvalid, *p.DistanceUnit)
		}
		d.DistanceUnit = *p.DistanceUnit
	}
	if p.CountryListOnly != nil {
		d.CountryListOnly = *p.CountryListOnly
	}
	if p.NoImageMode != nil {
		d.NoImageMode = *p.NoImageMode
	}
	if p.RotationMode != nil {
		d.RotationMode = *p.RotationMode
	}
	if p.AllowShiftingDay != nil {
		d.AllowShiftingDay = *p.AllowShiftingDay
	}
	if p.ShiftDayCount != nil {
		d.ShiftDayCount = daily.ClampShift(*p.ShiftDayCount)
	}
	return d, nil
}

// EffectiveShift is the day shift actually applied to the daily puzzle.
func (d Data) EffectiveShift() int {
	if !d.AllowShiftingDay {
		return 0
	}
	return daily.ClampShift(d.ShiftDayCount)
}

// Service loads and stores settings.
type Service struct{ st store.Store }

func NewService(st store.Store) *Service { return &Service{st: st} }

// Load returns the player's settings, defaults filled in.
func (s *Service) Load(ctx context.Context, player string) (Data, error) {
	d := Default()
	raw, err := s.st.Get(ctx, player, store.KeySettings)
	if errors.Is(err, store.ErrNotFound) {
		return d, nil
	}
	if err != nil {
		return d, err
	}
	// unmarshal over the defaults so absent fields keep them
	if err := json.Unmarshal(raw, &d); err != nil {
		log.Warn().Err(err).Str("player", player).Msg("discarding unreadable settings")
		return Default(), nil
	}
	return d, nil
}

// Update applies p to the stored settings and persists the result.
func (s *Service) Update(ctx context.Context, player string, p Patch) (Data, error) {
	cur, err := s.Load(ctx, player)
	if err != nil {
		return cur, err
	}
	next, err := cur.Apply(p)
	if err != nil {
		return cur, err
	}
	raw, err := json.Marshal(next)
	if err != nil {
		return cur, fmt.Errorf("encode settings: %w", err)
	}
	if err := s.st.Set(ctx, player, store.KeySettings, raw); err != nil {
		return cur, err
	}
	return next, nil
}
