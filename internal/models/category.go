package models

type Category string

const (
	NoCategory    Category = "no-category"
	Content       Category = "content"
	Overhaul      Category = "overhaul"
	Tweaks        Category = "tweaks"
	Utilities     Category = "utilities"
	Scenarios     Category = "scenarios"
	ModPacks      Category = "mod-packs"
	Localizations Category = "localizations"
	Internal      Category = "internal"
)

func AllCategories() []Category {
	return []Category{
		NoCategory, Content, Overhaul, Tweaks, Utilities, Scenarios, ModPacks, Localizations, Internal,
	}
}

func (c Category) String() string {
	return string(c)
}

type Tag string

const (
	Transportation  Tag = "transportation"
	Logistics       Tag = "logistics"
	Trains          Tag = "trains"
	Combat          Tag = "combat"
	Armor           Tag = "armor"
	Enemies         Tag = "enemies"
	Environment     Tag = "environment"
	Mining          Tag = "mining"
	Fluids          Tag = "fluids"
	LogisticNetwork Tag = "logistic-network"
	CircuitNetwork  Tag = "circuit-network"
	Manufacturing   Tag = "manufacturing"
	Power           Tag = "power"
	Storage         Tag = "storage"
	Blueprints      Tag = "blueprints"
	Cheats          Tag = "cheats"
)
