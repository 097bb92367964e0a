package models

import "time"

// SpeedIndexRecord is one row of the speed index reference table
type SpeedIndexRecord struct {
	HorseKey            string  `db:"horse_key" json:"horse_key"`
	HorseNameNormalized string  `db:"horse_name_norm" json:"horse_name_norm"`
	Surface             string  `db:"surface" json:"surface"`
	SpeedIndex          float64 `db:"speed_index" json:"speed_index"`
	RunCount            int     `db:"run_count" json:"run_count"`
}

// SpeedIndexTable is the reference table as seen by one analysis run.
// Available is false when the table does not exist or could not be read.
type SpeedIndexTable struct {
	Available bool
	Records   []SpeedIndexRecord
}

// SpeedIndexEntry is a built speed index row ready to be persisted
type SpeedIndexEntry struct {
	HorseKey   string    `db:"horse_key" json:"horse_key"`
	HorseName  string    `db:"horse_name" json:"horse_name"`
	Surface    string    `db:"surface" json:"surface"`
	UHat       float64   `db:"u_hat" json:"u_hat"`
	SpeedZ     float64   `db:"speed_z" json:"speed_z"`
	SpeedIndex float64   `db:"speed_index" json:"speed_index"`
	RunCount   int       `db:"run_count" json:"run_count"`
	AsOfDate   time.Time `db:"asof_date" json:"asof_date"`
}

// SpeedIndexBaseline summarizes the ability distribution of one surface
type SpeedIndexBaseline struct {
	Surface  string    `db:"surface" json:"surface"`
	Period   string    `db:"period" json:"period"`
	MeanU    float64   `db:"mean_u" json:"mean_u"`
	SdU      float64   `db:"sd_u" json:"sd_u"`
	NHorses  int       `db:"n_horses" json:"n_horses"`
	AsOfDate time.Time `db:"asof_date" json:"asof_date"`
}

// SourceRun is one historical run used to fit the speed index
type SourceRun struct {
	HorseKey       string   `db:"horse_key"`
	HorseName      string   `db:"horse_name"`
	Surface        string   `db:"surface"`
	TimeSeconds    *float64 `db:"time_sec"`
	Distance       *float64 `db:"distance"`
	Weight         *float64 `db:"weight"`
	NumHorses      *float64 `db:"num_horses"`
	Age            *float64 `db:"age"`
	Sex            string   `db:"sex"`
	TrackCondition string   `db:"track_condition"`
	Venue          string   `db:"venue"`
	ClassName      string   `db:"class_name"`
}
