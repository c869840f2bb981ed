package model

import "strings"

// ArmorSlots lists the armor table columns in display order.
var ArmorSlots = []string{
	"Weapon", "Secondary", "Emblem", "Hat", "Top", "Bottom",
	"Shoe", "Cape", "Gloves", "Shoulder",
}

// AccessorySlots lists the accessory table columns in display order.
var AccessorySlots = []string{
	"Face", "Eye", "Ear", "Ring 1", "Ring 2", "Ring 3", "Ring 4",
	"Pendant 1", "Pendant 2", "Belt", "Badge", "Medal", "Android", "Heart",
}

type slotInfo struct {
	name  string
	group string
}

var slotIndex = func() map[string]slotInfo {
	idx := make(map[string]slotInfo, len(ArmorSlots)+len(AccessorySlots))
	for _, s := range ArmorSlots {
		idx[foldSlot(s)] = slotInfo{s, GroupArmor}
	}
	for _, s := range AccessorySlots {
		idx[foldSlot(s)] = slotInfo{s, GroupAccessory}
	}
	return idx
}()

func foldSlot(s string) string {
	return strings.ToLower(strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s))
}

// CanonicalSlot maps a slot key such as "ring_1" or "hat" to its display
// name and group. Unknown slots keep their name and report ok == false.
func CanonicalSlot(key string) (name, group string, ok bool) {
	if e, found := slotIndex[foldSlot(key)]; found {
		return e.name, e.group, true
	}
	return strings.TrimSpace(key), "", false
}
