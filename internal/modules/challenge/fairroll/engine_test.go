package fairroll

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRollIsDeterministic(t *testing.T) {
	mods := Modifiers{Energy: 80, ItemBonus: 2, Debuffs: []string{"hungry"}}

	first := GenerateRoll("server-seed", "client-seed", "s1:d2:challenge", "player-7", mods)
	second := GenerateRoll("server-seed", "client-seed", "s1:d2:challenge", "player-7", mods)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Roll, second.Roll)
	assert.Equal(t, first.Total, second.Total)
}

func TestBaseRollRange(t *testing.T) {
	rnd := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		serverSeed := fmt.Sprintf("srv-%d", rnd.Int63())
		clientSeed := fmt.Sprintf("cli-%d", rnd.Int63())
		encounterID := fmt.Sprintf("enc-%d", rnd.Int63())
		subjectID := fmt.Sprintf("sub-%d", rnd.Int63())

		result := GenerateRoll(serverSeed, clientSeed, encounterID, subjectID, Modifiers{})
		assert.GreaterOrEqual(t, result.Roll, 1)
		assert.LessOrEqual(t, result.Roll, 20)
		assert.Equal(t, result.Roll, result.Breakdown.Base)
	}
}

func TestEnergyBonusFloors(t *testing.T) {
	full := GenerateRoll("s", "c", "e", "p", Modifiers{Energy: 100})
	assert.Equal(t, 5, full.Breakdown.EnergyBonus)

	partial := GenerateRoll("s", "c", "e", "p", Modifiers{Energy: 39})
	assert.Equal(t, 1, partial.Breakdown.EnergyBonus)

	none := GenerateRoll("s", "c", "e", "p", Modifiers{Energy: 19})
	assert.Equal(t, 0, none.Breakdown.EnergyBonus)
}

func TestDebuffPenalty(t *testing.T) {
	clean := GenerateRoll("s", "c", "e", "p", Modifiers{Energy: 100})
	debuffed := GenerateRoll("s", "c", "e", "p", Modifiers{Energy: 100, Debuffs: []string{"injured"}})

	assert.Equal(t, 2, debuffed.Breakdown.DebuffPenalty)
	assert.Equal(t, clean.Total-2, debuffed.Total)
}

func TestDebuffResistanceReducesPenalty(t *testing.T) {
	result := GenerateRoll("s", "c", "e", "p", Modifiers{
		Debuffs:          []string{"injured", "hungry"},
		DebuffResistance: 0.5,
	})

	// 2 debuffs * 2 = 4, floor(4 * 0.5) = 2
	assert.Equal(t, 2, result.Breakdown.DebuffPenalty)
}

func TestTotalNeverBelowOne(t *testing.T) {
	result := GenerateRoll("s", "c", "e", "p", Modifiers{
		Debuffs: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o"},
	})

	assert.Equal(t, 1, result.Total)
}

func TestSuddenDeathRollReproducibleAndDistinct(t *testing.T) {
	first := SuddenDeathRoll("srv", "cli", "enc-1", "p1", Modifiers{})
	second := SuddenDeathRoll("srv", "cli", "enc-1", "p1", Modifiers{})
	original := GenerateRoll("srv", "cli", "enc-1", "p1", Modifiers{})

	assert.Equal(t, first, second)
	assert.NotEqual(t, original.EncounterID, first.EncounterID)
	assert.Equal(t, "enc-1"+TiebreakMarker, first.EncounterID)
}

func TestVerifyChallengeResultRoundTrip(t *testing.T) {
	mods := Modifiers{Energy: 60, ItemBonus: 1, EventBonus: 2, ArchetypeBonus: 1}
	result := GenerateRoll("srv", "cli", "enc-9", "p1", mods)

	seeds := map[string]string{"p1": "cli"}
	assert.True(t, VerifyChallengeResult("srv", seeds, "enc-9", "p1", result.Total, mods))

	// Wrong total fails.
	assert.False(t, VerifyChallengeResult("srv", seeds, "enc-9", "p1", result.Total+1, mods))

	// Missing client seed fails without panicking.
	assert.False(t, VerifyChallengeResult("srv", map[string]string{}, "enc-9", "p1", result.Total, mods))

	// Different modifiers fail the bit-exact check.
	assert.False(t, VerifyChallengeResult("srv", seeds, "enc-9", "p1", result.Total, Modifiers{}))
}

func TestHashSeedCommitment(t *testing.T) {
	commit := HashSeedCommitment("secret-seed")

	assert.Len(t, commit, 64)
	assert.Equal(t, commit, HashSeedCommitment("secret-seed"))
	assert.NotEqual(t, commit, HashSeedCommitment("other-seed"))
}
