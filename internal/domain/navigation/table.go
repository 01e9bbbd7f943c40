// Package navigation define la tabla estática de pantallas alcanzables y su
// control por rol. La consumen la puerta de acceso (viewrouter), el menú
// lateral y los middlewares HTTP que protegen los grupos de la API.
package navigation

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// Claves de ruta.
const (
	ViewHome         = "home"
	ViewShop         = "shop"
	ViewPointsOfSale = "points-of-sale"
	ViewDashboard    = "dashboard"
	ViewPOS          = "pos"
	ViewArticles     = "articles"
	ViewServices     = "services"
	ViewInventory    = "inventory"
	ViewClients      = "clients"
	ViewSales        = "sales"
	ViewInvoices     = "invoices"
	ViewAccounting   = "accounting"
	ViewCommercial   = "commercial"
	ViewReports      = "reports"
	ViewStores       = "stores"
	ViewUsers        = "users"
	ViewSettings     = "settings"
	ViewChat         = "chat"
	ViewSupport      = "support"
	ViewProfile      = "profile"
	ViewMyOrders     = "my-orders"
	ViewFavorites    = "favorites"
	ViewCart         = "cart"
	ViewLoyalty      = "loyalty"
)

// DefaultView ruta por defecto tras login, logout y claves desconocidas.
const DefaultView = ViewDashboard

var (
	all      = entity.AllRoles
	staff    = entity.StaffRoles
	admins   = []string{entity.RoleSuperAdmin, entity.RoleAdmin}
	clients  = []string{entity.RoleClient}
	managers = []string{entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleManager}
)

func roles(extra ...string) []string {
	return append(append([]string{}, managers...), extra...)
}

var items = []entity.NavigationItem{
	{ID: ViewHome, Label: "Accueil", Icon: "home", Roles: all},
	{ID: ViewShop, Label: "Boutique", Icon: "shopping-bag", Roles: all},
	{ID: ViewPointsOfSale, Label: "Points de vente", Icon: "map-pin", Roles: all},
	{ID: ViewDashboard, Label: "Tableau de bord", Icon: "layout-dashboard", Roles: all},
	{ID: ViewPOS, Label: "Caisse", Icon: "calculator", Roles: roles(entity.RoleCommercial, entity.RoleSecretaire)},
	{ID: ViewArticles, Label: "Articles", Icon: "package", Roles: roles(entity.RoleCommercial)},
	{ID: ViewServices, Label: "Services", Icon: "wrench", Roles: roles(entity.RoleCommercial, entity.RoleSecretaire)},
	{ID: ViewInventory, Label: "Inventaire", Icon: "boxes", Roles: roles()},
	{ID: ViewClients, Label: "Clients", Icon: "users", Roles: roles(entity.RoleCommercial, entity.RoleSecretaire)},
	{ID: ViewSales, Label: "Ventes", Icon: "receipt", Roles: roles(entity.RoleCommercial, entity.RoleComptable)},
	{ID: ViewInvoices, Label: "Factures", Icon: "file-text", Roles: []string{entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleComptable, entity.RoleSecretaire}},
	{ID: ViewAccounting, Label: "Comptabilité", Icon: "landmark", Roles: []string{entity.RoleSuperAdmin, entity.RoleAdmin, entity.RoleComptable}},
	{ID: ViewCommercial, Label: "Commercial", Icon: "briefcase", Roles: roles(entity.RoleCommercial)},
	{ID: ViewReports, Label: "Rapports", Icon: "bar-chart", Roles: roles(entity.RoleComptable)},
	{ID: ViewStores, Label: "Magasins", Icon: "store", Roles: admins},
	{ID: ViewUsers, Label: "Utilisateurs", Icon: "user-cog", Roles: admins},
	{ID: ViewSettings, Label: "Paramètres", Icon: "settings", Roles: admins},
	{ID: ViewChat, Label: "Messagerie", Icon: "message-circle", Roles: staff},
	{ID: ViewSupport, Label: "Support clients", Icon: "life-buoy", Roles: roles(entity.RoleSecretaire)},
	{ID: ViewProfile, Label: "Mon profil", Icon: "user", Roles: all},
	{ID: ViewMyOrders, Label: "Mes commandes", Icon: "shopping-cart", Roles: clients},
	{ID: ViewFavorites, Label: "Favoris", Icon: "heart", Roles: clients},
	{ID: ViewCart, Label: "Panier", Icon: "shopping-basket", Roles: clients},
	{ID: ViewLoyalty, Label: "Fidélité", Icon: "award", Roles: clients},
}

var index = func() map[string]entity.NavigationItem {
	m := make(map[string]entity.NavigationItem, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}()

// publicViews se pueden ver sin sesión.
var publicViews = map[string]bool{
	ViewHome:         true,
	ViewShop:         true,
	ViewPointsOfSale: true,
}

// Lookup busca la entrada de navegación por clave.
func Lookup(key string) (entity.NavigationItem, bool) {
	it, ok := index[key]
	return it, ok
}

// IsPublic informa si la clave es navegable sin sesión.
func IsPublic(key string) bool {
	return publicViews[key]
}

// Items devuelve una copia de la tabla completa en orden de menú.
func Items() []entity.NavigationItem {
	out := make([]entity.NavigationItem, len(items))
	copy(out, items)
	return out
}

// VisibleFor filtra la tabla para el menú de un rol.
func VisibleFor(role string) []entity.NavigationItem {
	out := make([]entity.NavigationItem, 0, len(items))
	for _, it := range items {
		if it.Allows(role) {
			out = append(out, it)
		}
	}
	return out
}
