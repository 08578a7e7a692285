package model

// ItemStack is the content of one inventory slot. The zero value is the empty slot.
type ItemStack struct {
	Item  string
	Count int
}

func (s ItemStack) Empty() bool { return s.Item == "" || s.Count <= 0 }

// Inventory is an ordered sequence of slots.
type Inventory struct {
	Slots []ItemStack
}

func NewInventory(size int) *Inventory {
	if size < 0 {
		size = 0
	}
	return &Inventory{Slots: make([]ItemStack, size)}
}

// Total sums the counts of all non-empty slots.
func (inv *Inventory) Total() int {
	if inv == nil {
		return 0
	}
	n := 0
	for _, s := range inv.Slots {
		if s.Empty() {
			continue
		}
		n += s.Count
	}
	return n
}

// CountOf sums the counts of all stacks holding item.
func (inv *Inventory) CountOf(item string) int {
	if inv == nil {
		return 0
	}
	n := 0
	for _, s := range inv.Slots {
		if s.Empty() || s.Item != item {
			continue
		}
		n += s.Count
	}
	return n
}

// Add puts count items into the first slot already holding item, else the first
// empty slot. It returns how many items did not fit.
func (inv *Inventory) Add(item string, count int) int {
	if inv == nil || item == "" || count <= 0 {
		return count
	}
	for i := range inv.Slots {
		if !inv.Slots[i].Empty() && inv.Slots[i].Item == item {
			inv.Slots[i].Count += count
			return 0
		}
	}
	for i := range inv.Slots {
		if inv.Slots[i].Empty() {
			inv.Slots[i] = ItemStack{Item: item, Count: count}
			return 0
		}
	}
	return count
}

// TakeAt removes one item from slot i. A slot whose count drops to zero becomes empty.
func (inv *Inventory) TakeAt(i int) bool {
	if inv == nil || i < 0 || i >= len(inv.Slots) || inv.Slots[i].Empty() {
		return false
	}
	inv.Slots[i].Count--
	if inv.Slots[i].Count <= 0 {
		inv.Slots[i] = ItemStack{}
	}
	return true
}
