package models

// Entrant represents one horse registered to run in a race
type Entrant struct {
	GateNumber  string `db:"wakuban" json:"wakuban"`
	HorseNumber string `db:"umaban" json:"umaban"`
	HorseID     string `db:"ketto_num" json:"ketto_num"`
	HorseName   string `db:"bamei" json:"bamei"`
}
