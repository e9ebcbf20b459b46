package worldstate

import (
	"testing"

	"github.com/blentz/artifactsmmo-sub002/internal/actioncontext"
	"github.com/blentz/artifactsmmo-sub002/internal/knowledge"
	"github.com/blentz/artifactsmmo-sub002/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildReflectsCharacterVitals(t *testing.T) {
	c := model.Character{HP: 5, MaxHP: 10, Level: 4, Gold: 100}
	ac := actioncontext.New(c, nil, nil, nil)
	s := Build(ac)
	assert.Equal(t, true, s.Get("character_status.alive"))
	assert.Equal(t, 50.0, s.Get("character_status.hp_percent"))
	assert.Equal(t, 4, s.Get("character_status.level"))
}

func TestBuildDerivesAtResourceFromKnowledge(t *testing.T) {
	kb := knowledge.New("")
	kb.LearnLocation("resource", "copper_rocks", 2, 2)

	c := model.Character{X: 2, Y: 2}
	ac := actioncontext.New(c, kb, nil, nil)
	ac.SetResourceTarget("copper_rocks")

	s := Build(ac)
	// Without recorded Drops, IsAtResourceLocation can't match the material
	// code against the resource's drop list, so at_resource stays false.
	assert.Equal(t, false, s.Get("location_context.at_resource"))
}

func TestBuildSkillStatusReflectsCharacterSkills(t *testing.T) {
	c := model.Character{Skills: model.Skills{Mining: 7}}
	ac := actioncontext.New(c, nil, nil, nil)
	s := Build(ac)
	assert.Equal(t, 7, s.Get("skill_status.mining"))
}
