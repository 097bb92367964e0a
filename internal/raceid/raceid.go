// Package raceid decodes and builds the 16-digit JRA race identifier.
package raceid

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/yourusername/jra-analyzer/internal/models"
)

const idLength = 16

var (
	idPattern      = regexp.MustCompile(`^\d{16}$`)
	leadingDigits  = regexp.MustCompile(`^(\d+)`)
	trailingDigits = regexp.MustCompile(`(\d+)$`)
)

// venueNames maps JRA venue codes to venue names
var venueNames = map[string]string{
	"01": "札幌",
	"02": "函館",
	"03": "福島",
	"04": "新潟",
	"05": "東京",
	"06": "中山",
	"07": "中京",
	"08": "京都",
	"09": "阪神",
	"10": "小倉",
}

// trackNames maps track codes to course descriptions
var trackNames = map[string]string{
	"10": "芝・左",
	"11": "芝・左外",
	"12": "芝・左内",
	"17": "芝・右",
	"18": "芝・右外",
	"19": "芝・右内",
	"20": "芝・直線",
	"23": "ダ・右",
	"24": "ダ・左",
	"29": "芝→ダ",
}

// Key is the structured form of a race identifier
type Key struct {
	Year     string `json:"year"`
	MonthDay string `json:"month_day"`
	JyoCode  string `json:"jyo_code"`
	Kaiji    string `json:"kaiji"`
	Nichiji  string `json:"nichiji"`
	RaceNum  string `json:"race_num"`
}

// Parse decodes a race identifier: YYYY MMDD venue meeting day race, two digits each after the year
func Parse(id string) (Key, error) {
	if !idPattern.MatchString(id) {
		return Key{}, fmt.Errorf("%w: %q", models.ErrInvalidRaceID, id)
	}
	return Key{
		Year:     id[0:4],
		MonthDay: id[4:8],
		JyoCode:  id[8:10],
		Kaiji:    id[10:12],
		Nichiji:  id[12:14],
		RaceNum:  id[14:16],
	}, nil
}

// Valid reports whether id is a well-formed race identifier
func Valid(id string) bool {
	return len(id) == idLength && idPattern.MatchString(id)
}

// String rebuilds the race identifier
func (k Key) String() string {
	return k.Year + k.MonthDay + k.JyoCode + k.Kaiji + k.Nichiji + k.RaceNum
}

// Date returns the race date as YYYY-MM-DD
func (k Key) Date() string {
	return FormatRaceDate(k.Year, k.MonthDay)
}

// Venue returns the venue name, or the raw code if unknown
func (k Key) Venue() string {
	if name, ok := venueNames[k.JyoCode]; ok {
		return name
	}
	return k.JyoCode
}

// VenueCode returns the venue code for a venue name
func VenueCode(name string) (string, bool) {
	name = strings.TrimSpace(name)
	for code, n := range venueNames {
		if n == name {
			return code, true
		}
	}
	return "", false
}

// TrackName returns the course description for a track code
func TrackName(code string) (string, bool) {
	name, ok := trackNames[code]
	return name, ok
}

// FormatRaceDate joins a year and a month-day string into YYYY-MM-DD
func FormatRaceDate(year, monthDay string) string {
	mmdd := monthDay
	if len(mmdd) < 4 {
		mmdd = strings.Repeat("0", 4-len(mmdd)) + mmdd
	}
	return fmt.Sprintf("%s-%s-%s", year, mmdd[0:2], mmdd[2:4])
}

// ParseKaijiNichiji extracts the meeting and day numbers from text such as "3回5"
func ParseKaijiNichiji(kaisai string) (kaiji, nichiji string, ok bool) {
	k := leadingDigits.FindStringSubmatch(kaisai)
	n := trailingDigits.FindStringSubmatch(kaisai)
	if k == nil || n == nil {
		return "", "", false
	}
	return leftPad(k[1], 2), leftPad(n[1], 2), true
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
