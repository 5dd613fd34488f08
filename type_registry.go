package usersload

import "sync"

var (
	atkRegistryMu sync.RWMutex
	atkRegistry   = make(map[string]Attack)
)

// RegisterAttacker makes attack prototype available by name, used by cmd
func RegisterAttacker(name string, atk Attack) {
	atkRegistryMu.Lock()
	defer atkRegistryMu.Unlock()
	atkRegistry[name] = atk
}

// AttackerFromString returns registered attack prototype or nil
func AttackerFromString(name string) Attack {
	atkRegistryMu.RLock()
	defer atkRegistryMu.RUnlock()
	return atkRegistry[name]
}
