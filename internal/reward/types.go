package reward

import (
	"time"

	"github.com/vovakirdan/wordguess/internal/events"
)

// Tier is one of the three streak milestones.
type Tier string

const (
	BoxOffice Tier = "boxOffice"
	Director  Tier = "director"
	Hero      Tier = "hero"
)

// tiers lists the milestones in ascending threshold order.
var tiers = []Tier{BoxOffice, Director, Hero}

// Tiers returns all tiers in ascending threshold order.
func Tiers() []Tier {
	return append([]Tier(nil), tiers...)
}

// Threshold returns the streak length that unlocks the tier.
func (t Tier) Threshold() int {
	switch t {
	case BoxOffice:
		return 1
	case Director:
		return 2
	case Hero:
		return 3
	default:
		return 0
	}
}

// Party is a named person attached to one side of a comparison.
type Party struct {
	Name     string  `yaml:"name"`
	NetWorth float64 `yaml:"net_worth"`
}

// Side is one of the two productions being compared.
type Side struct {
	Industry  string  `yaml:"industry"`
	Film      string  `yaml:"film"`
	BoxOffice float64 `yaml:"box_office"`
	Director  Party   `yaml:"director"`
	Hero      Party   `yaml:"hero"`
}

// Metadata is the two-sided comparison supplied with each question.
type Metadata struct {
	Left  Side `yaml:"left"`
	Right Side `yaml:"right"`
}

// Entry is one formatted side of a record's display data.
type Entry struct {
	Label   string // Film or person name
	Caption string // Industry, or the film the person is credited on
	Value   string // Formatted money
}

// Data is the display payload of a record.
type Data struct {
	Left       Entry
	Right      Entry
	Comparison string
}

// Record is one unlocked reward.
type Record struct {
	Type     Tier
	Title    string
	Data     Data
	Icon     string
	Unlocked time.Time
	Pinned   bool
}

// UnlockedEvent is published when a tier unlocks.
type UnlockedEvent struct {
	Record Record
	Streak int
}

func (UnlockedEvent) EventName() events.Name { return events.RewardUnlocked }
