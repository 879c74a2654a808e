package main

import (
	"math"
	"testing"

	"github.com/emberline/horde/internal/data"
)

func TestBuildReport(t *testing.T) {
	entities, err := data.NewEntityTable([]data.EntityTemplate{
		{Variant: "grunt", Kind: data.KindEnemy, Movement: data.MoveLinear},
		{Variant: "hound", Kind: data.KindEnemy, Movement: data.MoveInertia},
		{Variant: "dart", Kind: data.KindBullet, Movement: data.MoveFixed},
	})
	if err != nil {
		t.Fatal(err)
	}
	tables, err := data.NewSpawnTableSet([]data.SpawnTableDef{
		{Name: "basic", Kind: data.KindEnemy, Entries: []data.SpawnWeight{
			{Variant: "grunt", Weight: 3}, {Variant: "hound", Weight: 1, MinWave: 2},
		}},
		{Name: "darts", Kind: data.KindBullet, Entries: []data.SpawnWeight{{Variant: "dart", Weight: 1}}},
	}, entities)
	if err != nil {
		t.Fatal(err)
	}
	waves, err := data.NewWaveTable([]data.WaveConfig{{Level: 1, SpawnInterval: 2, Tables: []string{"basic"}}}, tables)
	if err != nil {
		t.Fatal(err)
	}

	rep := buildReport(tables, waves, 2)
	if len(rep.Levels) != 2 {
		t.Fatalf("levels = %d", len(rep.Levels))
	}
	l1 := rep.Levels[0]
	if got := l1.Odds["enemy"]; len(got) != 1 || got[0].Variant != "grunt" || got[0].Chance != 1 {
		t.Fatalf("level 1 enemy odds = %+v", got)
	}
	// Bullets are not named by the wave, so all bullet tables stay active.
	if got := l1.Odds["bullet"]; len(got) != 1 || got[0].Variant != "dart" {
		t.Fatalf("level 1 bullet odds = %+v", got)
	}
	if len(l1.Warnings) != 1 {
		t.Fatalf("warnings = %v", l1.Warnings)
	}

	l2 := rep.Levels[1].Odds["enemy"]
	if len(l2) != 2 || l2[0].Variant != "grunt" || math.Abs(l2[0].Chance-0.75) > 1e-12 {
		t.Fatalf("level 2 enemy odds = %+v", l2)
	}
}
