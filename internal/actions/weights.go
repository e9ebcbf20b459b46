package actions

// Weight constants follow spec.md 4.4's semantic scale (1-30; rest=1,
// move=10, analyze=15, upgrade_skill=30).
const (
	WeightRest          = 1
	WeightEquip         = 3
	WeightAttack        = 5
	WeightMapLookup     = 6
	WeightGather        = 8
	WeightMove          = 10
	WeightCraft         = 12
	WeightAnalyze       = 15
	WeightExplore       = 18
	WeightUpgradeSkill  = 30
)
