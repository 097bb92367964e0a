package models

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// RaceHeader is the display header of a race as stored in the serving schema
type RaceHeader struct {
	RaceID      string `db:"race_id" json:"race_id"`
	RaceName    string `db:"race_name" json:"race_name"`
	KaisaiDate  string `db:"kaisai_date" json:"kaisai_date"`
	KaisaiBasho string `db:"kaisai_basho" json:"kaisai_basho"`
	RaceNo      *int   `db:"race_no" json:"-"`
	Kyori       *int   `db:"kyori" json:"-"`
	Course      string `db:"course" json:"course"`
}

// DisplayName returns the race name, or "<n>R" when the race is unnamed
func (h *RaceHeader) DisplayName() string {
	if name := strings.TrimSpace(h.RaceName); name != "" {
		return name
	}
	return h.RaceNoString() + "R"
}

// RaceNoString returns the race number as a string, "0" when unknown
func (h *RaceHeader) RaceNoString() string {
	if h.RaceNo == nil {
		return "0"
	}
	return strconv.Itoa(*h.RaceNo)
}

// KyoriString returns the distance as a string, empty when unknown
func (h *RaceHeader) KyoriString() string {
	if h.Kyori == nil || *h.Kyori == 0 {
		return ""
	}
	return strconv.Itoa(*h.Kyori)
}

// Target derives the analysis target conditions from the header
func (h *RaceHeader) Target() *RaceTarget {
	target := &RaceTarget{}
	if h.Kyori != nil && *h.Kyori > 0 {
		distance := *h.Kyori
		target.Distance = &distance
	}
	target.Surface = SurfaceCode(h.Course)
	return target
}

// RaceTarget holds the conditions history is compared against
type RaceTarget struct {
	Distance *int    `json:"distance"`
	Surface  *string `json:"surface"`
}

// SurfaceCode returns the first character of a trimmed course description, or nil if blank
func SurfaceCode(course string) *string {
	trimmed := strings.TrimSpace(course)
	if trimmed == "" {
		return nil
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	code := string(r)
	return &code
}
