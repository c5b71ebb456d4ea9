package domain

import "github.com/shopspring/decimal"

// GeneralSettingsID is the settings document holding checkout parameters.
const GeneralSettingsID = "general"

// Settings gates and scores order construction.
type Settings struct {
	MinOrderPrice   decimal.Decimal `json:"minOrderPrice"`
	PointsAwardRate float64         `json:"pointsAwardRate"`
}
