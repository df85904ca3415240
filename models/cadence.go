package models

import (
	"errors"
	"strings"
	"time"
)

type PeriodType string

const (
	PeriodTypeDaily    PeriodType = "daily"
	PeriodTypeWeekly   PeriodType = "weekly"
	PeriodTypeBiweekly PeriodType = "biweekly"
	PeriodTypeMonthly  PeriodType = "monthly"
	PeriodTypeYearly   PeriodType = "yearly"
)

type CalendarUnit string

const (
	CalendarUnitDay   CalendarUnit = "day"
	CalendarUnitWeek  CalendarUnit = "week"
	CalendarUnitMonth CalendarUnit = "month"
	CalendarUnitYear  CalendarUnit = "year"
)

// Cadence is the recurrence rule for generating budget periods. It carries its
// calendar unit and multiplier together so the two can never drift apart.
type Cadence struct {
	Type       PeriodType
	Multiplier int
	Unit       CalendarUnit
}

var (
	CadenceDaily    = Cadence{Type: PeriodTypeDaily, Multiplier: 1, Unit: CalendarUnitDay}
	CadenceWeekly   = Cadence{Type: PeriodTypeWeekly, Multiplier: 1, Unit: CalendarUnitWeek}
	CadenceBiweekly = Cadence{Type: PeriodTypeBiweekly, Multiplier: 2, Unit: CalendarUnitWeek}
	CadenceMonthly  = Cadence{Type: PeriodTypeMonthly, Multiplier: 1, Unit: CalendarUnitMonth}
	CadenceYearly   = Cadence{Type: PeriodTypeYearly, Multiplier: 1, Unit: CalendarUnitYear}
)

var ErrInvalidPeriodType = errors.New("invalid budget period type")

// ParseCadence maps a user-supplied period type string to its cadence.
// Matching is case-insensitive, like the original API.
func ParseCadence(periodType string) (Cadence, error) {
	switch PeriodType(strings.ToLower(periodType)) {
	case PeriodTypeDaily:
		return CadenceDaily, nil
	case PeriodTypeWeekly:
		return CadenceWeekly, nil
	case PeriodTypeBiweekly:
		return CadenceBiweekly, nil
	case PeriodTypeMonthly:
		return CadenceMonthly, nil
	case PeriodTypeYearly:
		return CadenceYearly, nil
	default:
		return Cadence{}, ErrInvalidPeriodType
	}
}

func (c Cadence) IsValid() bool {
	return c.Multiplier > 0
}

// Advance adds the cadence's calendar offset to date. Month and year steps use
// calendar semantics (variable-length months), not fixed-size increments.
func (c Cadence) Advance(date time.Time) time.Time {
	switch c.Unit {
	case CalendarUnitDay:
		return date.AddDate(0, 0, c.Multiplier)
	case CalendarUnitWeek:
		return date.AddDate(0, 0, 7*c.Multiplier)
	case CalendarUnitMonth:
		return date.AddDate(0, c.Multiplier, 0)
	case CalendarUnitYear:
		return date.AddDate(c.Multiplier, 0, 0)
	}
	return date
}

// HorizonEnd returns the boundary up to which periods are pre-generated from
// anchor. Short cadences get short horizons so a daily budgeter is not handed
// hundreds of rows up front.
func (c Cadence) HorizonEnd(anchor time.Time) time.Time {
	switch c.Type {
	case PeriodTypeDaily:
		return anchor.AddDate(0, 1, 0)
	case PeriodTypeWeekly, PeriodTypeBiweekly:
		return anchor.AddDate(0, 3, 0)
	default:
		return anchor.AddDate(1, 0, 0)
	}
}
