// Package organism simulates encounters between organisms.
package organism

import (
	"errors"
	"fmt"
)

// ErrPlantsCannotMeet is returned when both organisms are plants.
var ErrPlantsCannotMeet = errors.New("organism: two plants cannot meet")

// Diet describes what an organism eats.
type Diet uint8

const (
	Plant     Diet = iota // eats nothing
	Herbivore             // eats plants
	Carnivore             // eats animals
	Omnivore              // eats both
)

// EatsMeat reports whether the diet includes animals.
func (d Diet) EatsMeat() bool { return d == Carnivore || d == Omnivore }

// EatsPlants reports whether the diet includes plants.
func (d Diet) EatsPlants() bool { return d == Herbivore || d == Omnivore }

func (d Diet) String() string {
	switch d {
	case Plant:
		return "plant"
	case Herbivore:
		return "herbivore"
	case Carnivore:
		return "carnivore"
	case Omnivore:
		return "omnivore"
	default:
		return fmt.Sprintf("Diet(%d)", uint8(d))
	}
}

// Organism is a member of species S. An organism with zero vitality is dead.
type Organism[S comparable] struct {
	Species  S
	Vitality uint64
	Diet     Diet
}

// New returns an organism.
func New[S comparable](species S, vitality uint64, diet Diet) Organism[S] {
	return Organism[S]{Species: species, Vitality: vitality, Diet: diet}
}

// Dead reports whether o has no vitality left.
func (o Organism[S]) Dead() bool { return o.Vitality == 0 }

func (o Organism[S]) with(vitality uint64) Organism[S] {
	o.Vitality = vitality
	return o
}

// Encounter lets a meet b and returns both afterwards plus an optional
// offspring. Rules, first match wins:
//
//   - two plants cannot meet;
//   - if either is dead nothing happens;
//   - same diet and species: they breed, the child has their mean vitality;
//   - same diet, both eat meat: they fight;
//   - same diet otherwise: nothing happens;
//   - a plant meets a plant eater: it is eaten, the eater gains its vitality;
//   - a plant meets anything else: nothing happens;
//   - both eat meat: they fight;
//   - otherwise the stronger eats the weaker if it eats meat.
//
// In a fight the stronger gains half the vitality of the weaker, which dies;
// equally strong fighters both die.
func Encounter[S comparable](a, b Organism[S]) (Organism[S], Organism[S], *Organism[S], error) {
	if a.Diet == Plant && b.Diet == Plant {
		return a, b, nil, ErrPlantsCannotMeet
	}
	if a.Dead() || b.Dead() {
		return a, b, nil, nil
	}

	if a.Diet == b.Diet {
		if a.Species == b.Species {
			child := a.with(a.Vitality/2 + b.Vitality/2 + (a.Vitality%2+b.Vitality%2)/2)
			return a, b, &child, nil
		}
		if a.Diet.EatsMeat() {
			a, b = fight(a, b)
		}
		return a, b, nil, nil
	}

	switch {
	case b.Diet == Plant:
		if a.Diet.EatsPlants() {
			return a.with(a.Vitality + b.Vitality), b.with(0), nil, nil
		}
		return a, b, nil, nil
	case a.Diet == Plant:
		if b.Diet.EatsPlants() {
			return a.with(0), b.with(a.Vitality + b.Vitality), nil, nil
		}
		return a, b, nil, nil
	case a.Diet.EatsMeat() && b.Diet.EatsMeat():
		a, b = fight(a, b)
		return a, b, nil, nil
	case a.Vitality > b.Vitality && a.Diet.EatsMeat():
		return a.with(a.Vitality + b.Vitality/2), b.with(0), nil, nil
	case b.Vitality > a.Vitality && b.Diet.EatsMeat():
		return a.with(0), b.with(b.Vitality + a.Vitality/2), nil, nil
	default:
		return a, b, nil, nil
	}
}

func fight[S comparable](a, b Organism[S]) (Organism[S], Organism[S]) {
	switch {
	case a.Vitality > b.Vitality:
		return a.with(a.Vitality + b.Vitality/2), b.with(0)
	case a.Vitality < b.Vitality:
		return a.with(0), b.with(b.Vitality + a.Vitality/2)
	default:
		return a.with(0), b.with(0)
	}
}

// EncounterSeries lets first meet each of others in turn and returns first
// afterwards. Offspring are discarded.
func EncounterSeries[S comparable](first Organism[S], others ...Organism[S]) (Organism[S], error) {
	for i, o := range others {
		var err error
		first, _, _, err = Encounter(first, o)
		if err != nil {
			return first, fmt.Errorf("encounter %d: %w", i, err)
		}
	}
	return first, nil
}
