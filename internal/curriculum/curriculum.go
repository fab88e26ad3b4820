// Package curriculum describes the fixed shape of the Rizal Quest course:
// six chapters of five levels each, all playable from day one.
package curriculum

const (
	ChapterCount     = 6
	LevelsPerChapter = 5
	TotalLevels      = ChapterCount * LevelsPerChapter
	MaxScore         = 100
)

// ChapterTitles maps chapter id to its display title.
var ChapterTitles = map[int]string{
	1: "Early Life in Calamba",
	2: "Education and Studies",
	3: "Travels Abroad",
	4: "Noli Me Tangere",
	5: "El Filibusterismo and the Reform Movement",
	6: "Exile and Martyrdom",
}

// ValidChapter reports whether id is a real chapter.
func ValidChapter(id int) bool {
	return id >= 1 && id <= ChapterCount
}

// ValidLevel reports whether id is a real level within a chapter.
func ValidLevel(id int) bool {
	return id >= 1 && id <= LevelsPerChapter
}

// UnlockPolicy decides whether a level is playable. The shipped curriculum is
// fully open, but the hook stays so sequential gating can be added without a
// schema change.
type UnlockPolicy interface {
	IsUnlocked(chapterID, levelID int, completedInChapter int) bool
}

// OpenPolicy unlocks everything.
type OpenPolicy struct{}

func (OpenPolicy) IsUnlocked(chapterID, levelID int, completedInChapter int) bool {
	return ValidChapter(chapterID) && ValidLevel(levelID)
}

// DefaultPolicy is the policy used across the engine.
var DefaultPolicy UnlockPolicy = OpenPolicy{}
