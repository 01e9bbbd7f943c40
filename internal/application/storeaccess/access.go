// Package storeaccess calcula, a partir de la identidad y de la tabla externa
// de asignaciones, qué tiendas puede ver y modificar un usuario y cuál está
// activa. El filtrado resultante es orientativo: no es una frontera de seguridad.
package storeaccess

import (
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// AccessType alcance de tiendas de una identidad.
type AccessType string

const (
	Single   AccessType = "single"
	Multiple AccessType = "multiple"
	Global   AccessType = "global"
)

// AllStores valor explícito de "todas las tiendas accesibles" para SetActiveStore.
const AllStores = ""

// Policy decisiones configurables del cálculo.
type Policy struct {
	// AdminIsGlobal concede acceso global también a admin (superadmin siempre lo tiene).
	AdminIsGlobal bool
	// UnscopedVisible: entidades sin store_id visibles para cualquiera.
	UnscopedVisible bool
}

// DefaultPolicy reproduce el comportamiento histórico: solo superadmin es global y
// lo que no tiene tienda es visible para todos.
func DefaultPolicy() Policy {
	return Policy{UnscopedVisible: true}
}

// StoreAccess resultado del cálculo para una identidad.
type StoreAccess struct {
	AccessibleStoreIDs []string   `json:"accessible_store_ids"`
	ActiveStoreID      string     `json:"active_store_id"`
	AccessType         AccessType `json:"access_type"`
}

// IsGlobalRole informa si el rol recibe acceso global bajo la política dada.
func IsGlobalRole(role string, policy Policy) bool {
	if role == entity.RoleSuperAdmin {
		return true
	}
	return policy.AdminIsGlobal && role == entity.RoleAdmin
}

// Compute deriva el acceso de forma pura. assignments es la tabla externa
// de asignaciones del usuario; allStores se usa para el acceso global.
// Una identidad ausente no tiene acceso a ninguna tienda.
func Compute(identity *entity.Identity, assignments []*entity.StoreAssignment, allStores []*entity.Store, policy Policy) StoreAccess {
	if identity == nil {
		return StoreAccess{AccessibleStoreIDs: []string{}, AccessType: Single}
	}
	if IsGlobalRole(identity.Role, policy) {
		ids := make([]string, 0, len(allStores))
		for _, s := range allStores {
			ids = append(ids, s.ID)
		}
		return StoreAccess{AccessibleStoreIDs: ids, AccessType: Global}
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(assignments)+1)
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	add(identity.StoreID)
	for _, a := range assignments {
		if a != nil && a.UserID == identity.ID {
			add(a.StoreID)
		}
	}

	switch len(ids) {
	case 0:
		return StoreAccess{AccessibleStoreIDs: ids, AccessType: Single}
	case 1:
		return StoreAccess{AccessibleStoreIDs: ids, ActiveStoreID: ids[0], AccessType: Single}
	default:
		return StoreAccess{AccessibleStoreIDs: ids, ActiveStoreID: identity.StoreID, AccessType: Multiple}
	}
}

// CanAccess informa si storeID está entre las tiendas accesibles.
func (a StoreAccess) CanAccess(storeID string) bool {
	for _, id := range a.AccessibleStoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}

// SetActiveStore cambia la tienda activa.
//   - single: solo acepta la tienda ya activa (ErrStoreLocked en otro caso).
//   - multiple/global: AllStores ("") desactiva el filtro; cualquier otra debe ser accesible.
func (a *StoreAccess) SetActiveStore(storeID string) error {
	if a.AccessType == Single {
		if storeID == a.ActiveStoreID {
			return nil
		}
		return domain.ErrStoreLocked
	}
	if storeID == AllStores {
		a.ActiveStoreID = AllStores
		return nil
	}
	if !a.CanAccess(storeID) {
		return domain.ErrForbidden
	}
	a.ActiveStoreID = storeID
	return nil
}

// IsFiltered informa si las consultas deben filtrarse por tienda.
func (a StoreAccess) IsFiltered() bool {
	return !(a.AccessType == Global && a.ActiveStoreID == AllStores)
}

// Visible decide si una entidad de la tienda storeID es visible.
func (a StoreAccess) Visible(storeID string, policy Policy) bool {
	if storeID == "" {
		return policy.UnscopedVisible
	}
	if a.ActiveStoreID != AllStores {
		return storeID == a.ActiveStoreID
	}
	if a.AccessType == Global {
		return true
	}
	return a.CanAccess(storeID)
}

// Filter aplica Visible a una colección; storeOf extrae la tienda de cada elemento.
func Filter[T any](items []T, storeOf func(T) string, access StoreAccess, policy Policy) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if access.Visible(storeOf(it), policy) {
			out = append(out, it)
		}
	}
	return out
}
