package entity

// NavigationItem entrada estática del menú: clave de ruta y roles que pueden verla.
// La tabla completa vive en domain/navigation y no cambia en tiempo de ejecución.
type NavigationItem struct {
	ID    string   `json:"id"`
	Label string   `json:"label"`
	Icon  string   `json:"icon"`
	Roles []string `json:"roles"`
}

// Allows informa si role figura entre los roles permitidos.
func (n NavigationItem) Allows(role string) bool {
	for _, r := range n.Roles {
		if r == role {
			return true
		}
	}
	return false
}
