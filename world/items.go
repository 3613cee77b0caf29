package world

// ItemID identifies a row in the static items table (out of scope per spec
// §1; only the id and the effects it contributes are modeled here).
type ItemID int

// TechniqueID identifies a cultivation technique, adoptable via gathering
// (spec §4.9 "student adopts teacher's technique").
type TechniqueID int

// Inventory is an agent's owned items (spec §3 "Agent... owned items").
type Inventory struct {
	Weapon     *ItemID
	Auxiliary  *ItemID
	Technique  *TechniqueID
	Materials  map[string]int // material table id -> count
	Currency   int
}

// NewInventory returns an empty Inventory ready for use.
func NewInventory() Inventory {
	return Inventory{Materials: make(map[string]int)}
}

// AddMaterials merges gained materials into the inventory (used by Hunt,
// Harvest, Mine finish() handlers).
func (inv *Inventory) AddMaterials(gained map[string]int) {
	if inv.Materials == nil {
		inv.Materials = make(map[string]int)
	}
	for k, v := range gained {
		inv.Materials[k] += v
	}
}
