package models

import "time"

// Progress holds a user's running statistics, one row per user. Every
// accuracy field is an incrementally maintained mean in [0,100]; each mean is
// weighted by its own sample counter so the gto and icm series stay
// independent of each other.
type Progress struct {
	UserID              string    `json:"userId" db:"user_id"`
	GtoAccuracy         float64   `json:"gtoAccuracy" db:"gto_accuracy"`
	IcmScore            float64   `json:"icmScore" db:"icm_score"`
	WinRate             float64   `json:"winRate" db:"win_rate"`
	PreflopAccuracy     float64   `json:"preflopAccuracy" db:"preflop_accuracy"`
	PostflopAccuracy    float64   `json:"postflopAccuracy" db:"postflop_accuracy"`
	BettingSizeAccuracy float64   `json:"bettingSizeAccuracy" db:"betting_size_accuracy"`
	GtoSessions         int       `json:"gtoSessions" db:"gto_sessions"`
	IcmSessions         int       `json:"icmSessions" db:"icm_sessions"`
	BotSessions         int       `json:"botSessions" db:"bot_sessions"`
	TotalSessions       int       `json:"totalSessions" db:"total_sessions"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}
