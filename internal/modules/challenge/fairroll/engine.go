// Package fairroll computes commit-reveal challenge rolls. Every roll is a
// pure function of the revealed seed material, so any third party holding the
// published record can recompute and audit an outcome.
//
// The base roll maps the first 8 hex digits of an HMAC-SHA256 digest through
// a modulo-20 reduction. 2^32 is not divisible by 20, so the mapping carries a
// small statistical bias; it is kept bit-exact because published results must
// stay verifiable.
package fairroll

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

const (
	// rollSides is the size of the die every base roll is reduced to.
	rollSides = 20

	// inputSeparator joins the client seed, encounter and subject into the
	// HMAC input. Changing it invalidates every published result.
	inputSeparator = ":"

	// TiebreakMarker is appended to an encounter ID for sudden-death rolls,
	// so a tiebreak roll never collides with the original encounter roll.
	TiebreakMarker = "#tiebreak"
)

// Breakdown itemizes how a roll total was reached.
type Breakdown struct {
	Base           int `json:"base"`
	EnergyBonus    int `json:"energy_bonus"`
	ItemBonus      int `json:"item_bonus"`
	EventBonus     int `json:"event_bonus"`
	ArchetypeBonus int `json:"archetype_bonus"`
	DebuffPenalty  int `json:"debuff_penalty"`
}

// RollResult is the full, recomputable outcome of a single roll.
type RollResult struct {
	SubjectID   string    `json:"subject_id"`
	EncounterID string    `json:"encounter_id"`
	Roll        int       `json:"roll"`
	Breakdown   Breakdown `json:"breakdown"`
	Total       int       `json:"total"`
}

// Modifiers carries the scoring-time inputs beyond the seeds. Verification of
// a total is bit-exact only when the verifier supplies the same modifiers the
// scorer used.
type Modifiers struct {
	Energy           int
	ItemBonus        int
	EventBonus       int
	Debuffs          []string
	ArchetypeBonus   int
	DebuffResistance float64
}

// HashSeedCommitment returns the one-way commitment published for a seed
// before its reveal.
func HashSeedCommitment(seed string) string {
	sum := sha256.Sum256([]byte(seed))
	return hex.EncodeToString(sum[:])
}

// GenerateRoll deterministically computes a subject's roll for an encounter.
// Identical inputs always produce an identical RollResult.
func GenerateRoll(serverSeed, clientSeed, encounterID, subjectID string, mods Modifiers) RollResult {
	base := baseRoll(serverSeed, clientSeed, encounterID, subjectID)

	energyBonus := mods.Energy / rollSides

	debuffPenalty := len(mods.Debuffs) * 2
	if mods.DebuffResistance > 0 {
		debuffPenalty = int(float64(debuffPenalty) * (1 - mods.DebuffResistance))
	}

	total := base + energyBonus + mods.ItemBonus + mods.EventBonus + mods.ArchetypeBonus - debuffPenalty
	if total < 1 {
		total = 1
	}

	return RollResult{
		SubjectID:   subjectID,
		EncounterID: encounterID,
		Roll:        base,
		Breakdown: Breakdown{
			Base:           base,
			EnergyBonus:    energyBonus,
			ItemBonus:      mods.ItemBonus,
			EventBonus:     mods.EventBonus,
			ArchetypeBonus: mods.ArchetypeBonus,
			DebuffPenalty:  debuffPenalty,
		},
		Total: total,
	}
}

// SuddenDeathRoll computes the deterministic tiebreak roll for a subject,
// reusing the already-revealed seeds with a marked encounter ID.
func SuddenDeathRoll(serverSeed, clientSeed, encounterID, subjectID string, mods Modifiers) RollResult {
	return GenerateRoll(serverSeed, clientSeed, encounterID+TiebreakMarker, subjectID, mods)
}

// VerifyChallengeResult recomputes a subject's roll from revealed seed
// material and checks it against the expected total. A missing client seed
// yields false, never an error. The caller must supply the modifiers used at
// scoring time for the comparison to be meaningful.
func VerifyChallengeResult(serverSeed string, clientSeeds map[string]string, encounterID, subjectID string, expectedTotal int, mods Modifiers) bool {
	clientSeed, ok := clientSeeds[subjectID]
	if !ok {
		return false
	}

	result := GenerateRoll(serverSeed, clientSeed, encounterID, subjectID, mods)
	if result.Roll < 1 || result.Roll > rollSides {
		return false
	}
	return result.Total == expectedTotal
}

func baseRoll(serverSeed, clientSeed, encounterID, subjectID string) int {
	input := clientSeed + inputSeparator + encounterID + inputSeparator + subjectID

	mac := hmac.New(sha256.New, []byte(serverSeed))
	mac.Write([]byte(input))
	digest := hex.EncodeToString(mac.Sum(nil))

	// First 8 hex digits as an unsigned 32-bit integer, reduced modulo 20.
	n, err := strconv.ParseUint(digest[:8], 16, 32)
	if err != nil {
		// Unreachable: hex.EncodeToString only emits hex digits.
		return 1
	}
	return int(n%rollSides) + 1
}
