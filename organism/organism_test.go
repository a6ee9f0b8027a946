package organism

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncounter(t *testing.T) {
	type org = Organism[string]
	cases := []struct {
		name  string
		a, b  org
		wantA uint64
		wantB uint64
		child *uint64
	}{
		{"dead is a no-op", New("wolf", 0, Carnivore), New("deer", 10, Herbivore), 0, 10, nil},
		{"same species breeds", New("wolf", 10, Carnivore), New("wolf", 21, Carnivore), 10, 21, ptr(15)},
		{"carnivores fight", New("wolf", 10, Carnivore), New("bear", 30, Carnivore), 0, 35, nil},
		{"equal fighters both die", New("wolf", 10, Carnivore), New("bear", 10, Carnivore), 0, 0, nil},
		{"herbivores ignore each other", New("deer", 10, Herbivore), New("goat", 3, Herbivore), 10, 3, nil},
		{"herbivore eats plant", New("deer", 10, Herbivore), New("grass", 4, Plant), 14, 0, nil},
		{"plant first is eaten too", New("grass", 4, Plant), New("deer", 10, Herbivore), 0, 14, nil},
		{"carnivore ignores plant", New("wolf", 10, Carnivore), New("grass", 4, Plant), 10, 4, nil},
		{"carnivore and omnivore fight", New("wolf", 10, Carnivore), New("boar", 8, Omnivore), 14, 0, nil},
		{"stronger carnivore eats herbivore", New("wolf", 10, Carnivore), New("deer", 6, Herbivore), 13, 0, nil},
		{"weaker carnivore loses nothing", New("wolf", 5, Carnivore), New("deer", 6, Herbivore), 5, 6, nil},
		{"stronger herbivore does not eat", New("deer", 10, Herbivore), New("wolf", 6, Carnivore), 10, 6, nil},
		{"omnivore eats herbivore second", New("deer", 2, Herbivore), New("boar", 9, Omnivore), 0, 10, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a, b, child, err := Encounter(tc.a, tc.b)
			require.NoError(t, err)
			assert.Equal(t, tc.wantA, a.Vitality)
			assert.Equal(t, tc.wantB, b.Vitality)
			assert.Equal(t, tc.a.Species, a.Species)
			assert.Equal(t, tc.b.Diet, b.Diet)
			if tc.child == nil {
				assert.Nil(t, child)
				return
			}
			require.NotNil(t, child)
			assert.Equal(t, *tc.child, child.Vitality)
			assert.Equal(t, tc.a.Species, child.Species)
			assert.Equal(t, tc.a.Diet, child.Diet)
		})
	}
}

func TestEncounterPlants(t *testing.T) {
	_, _, _, err := Encounter(New("moss", 1, Plant), New("fern", 0, Plant))
	require.ErrorIs(t, err, ErrPlantsCannotMeet)
}

func TestOffspringVitalityDoesNotOverflow(t *testing.T) {
	const max = ^uint64(0)
	_, _, child, err := Encounter(New(1, max, Omnivore), New(1, max, Omnivore))
	require.NoError(t, err)
	require.NotNil(t, child)
	assert.Equal(t, max, child.Vitality)
}

func TestEncounterSeries(t *testing.T) {
	wolf := New("wolf", 10, Carnivore)
	got, err := EncounterSeries(wolf,
		New("deer", 4, Herbivore),
		New("grass", 3, Plant),
		New("bear", 100, Carnivore),
	)
	require.NoError(t, err)
	assert.True(t, got.Dead())

	got, err = EncounterSeries(New("grass", 3, Plant), New("deer", 4, Herbivore), New("moss", 1, Plant))
	require.ErrorIs(t, err, ErrPlantsCannotMeet)
	assert.True(t, got.Dead())

	got, err = EncounterSeries(wolf)
	require.NoError(t, err)
	assert.Equal(t, wolf, got)
}

func TestDiet(t *testing.T) {
	assert.True(t, Omnivore.EatsMeat())
	assert.True(t, Omnivore.EatsPlants())
	assert.False(t, Plant.EatsPlants())
	assert.Equal(t, "carnivore", Carnivore.String())
	assert.Equal(t, "Diet(9)", Diet(9).String())
}

func ptr(v uint64) *uint64 { return &v }
