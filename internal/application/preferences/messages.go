package preferences

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message/catalog"
)

// Claves de los mensajes mostrados en línea.
const (
	MsgInvalidCredentials = "auth.invalid_credentials"
	MsgInactiveProfile    = "auth.inactive_profile"
	MsgEmailTaken         = "auth.email_taken"
	MsgRegisterFailed     = "auth.register_failed"
	MsgSessionExpired     = "auth.session_expired"
	MsgInvalidInput       = "input.invalid"
	MsgAccessDenied       = "access.denied"
	MsgStoreLocked        = "store.locked"
	MsgConnectionFailed   = "backend.connection_failed"
	MsgPendingWrites      = "backend.pending_writes"
	MsgLowStock           = "alert.low_stock"
	MsgNewSale            = "alert.new_sale"
	MsgNewMessage         = "alert.new_message"

	MsgReceiptTitle   = "receipt.title"
	MsgReceiptClient  = "receipt.client"
	MsgReceiptWalkIn  = "receipt.walk_in"
	MsgReceiptItem    = "receipt.item"
	MsgReceiptQty     = "receipt.qty"
	MsgReceiptPrice   = "receipt.price"
	MsgReceiptTax     = "receipt.tax"
	MsgReceiptNet     = "receipt.net"
	MsgReceiptTotal   = "receipt.total"
	MsgReceiptPayment = "receipt.payment"
	MsgReceiptPoints  = "receipt.points"
	MsgReceiptThanks  = "receipt.thanks"
)

var translations = map[string]map[language.Tag]string{
	MsgInvalidCredentials: {
		language.French:  "Email ou mot de passe incorrect",
		language.English: "Invalid email or password",
		language.Spanish: "Email o contraseña incorrectos",
	},
	MsgInactiveProfile: {
		language.French:  "Votre compte est désactivé",
		language.English: "Your account is disabled",
		language.Spanish: "Tu cuenta está desactivada",
	},
	MsgEmailTaken: {
		language.French:  "Cet email est déjà utilisé",
		language.English: "This email is already registered",
		language.Spanish: "El email ya está registrado",
	},
	MsgRegisterFailed: {
		language.French:  "Inscription impossible pour le moment",
		language.English: "Registration failed, try again later",
		language.Spanish: "No se pudo completar el registro",
	},
	MsgSessionExpired: {
		language.French:  "Session expirée, reconnectez-vous",
		language.English: "Session expired, please sign in again",
		language.Spanish: "Sesión expirada, inicia sesión de nuevo",
	},
	MsgInvalidInput: {
		language.French:  "Données invalides",
		language.English: "Invalid data",
		language.Spanish: "Datos inválidos",
	},
	MsgAccessDenied: {
		language.French:  "Accès refusé",
		language.English: "Access denied",
		language.Spanish: "Acceso denegado",
	},
	MsgStoreLocked: {
		language.French:  "Votre magasin actif ne peut pas être changé",
		language.English: "Your active store cannot be changed",
		language.Spanish: "Tu tienda activa no puede cambiarse",
	},
	MsgConnectionFailed: {
		language.French:  "Connexion au serveur impossible",
		language.English: "Connection failed",
		language.Spanish: "Error de conexión",
	},
	MsgPendingWrites: {
		language.French:  "%d modification(s) en attente de synchronisation",
		language.English: "%d change(s) waiting to sync",
		language.Spanish: "%d cambio(s) pendientes de sincronizar",
	},
	MsgLowStock: {
		language.French:  "Stock bas : %s",
		language.English: "Low stock: %s",
		language.Spanish: "Stock bajo: %s",
	},
	MsgNewSale: {
		language.French:  "Nouvelle vente %s",
		language.English: "New sale %s",
		language.Spanish: "Nueva venta %s",
	},
	MsgNewMessage: {
		language.French:  "Nouveau message de %s",
		language.English: "New message from %s",
		language.Spanish: "Nuevo mensaje de %s",
	},
	MsgReceiptTitle: {
		language.French:  "Ticket de caisse",
		language.English: "Sales receipt",
		language.Spanish: "Ticket de venta",
	},
	MsgReceiptClient: {
		language.French:  "Client",
		language.English: "Customer",
		language.Spanish: "Cliente",
	},
	MsgReceiptWalkIn: {
		language.French:  "Client de passage",
		language.English: "Walk-in customer",
		language.Spanish: "Cliente de paso",
	},
	MsgReceiptItem: {
		language.French:  "Désignation",
		language.English: "Item",
		language.Spanish: "Descripción",
	},
	MsgReceiptQty: {
		language.French:  "Qté",
		language.English: "Qty",
		language.Spanish: "Cant.",
	},
	MsgReceiptPrice: {
		language.French:  "P.U.",
		language.English: "Unit price",
		language.Spanish: "P. unit.",
	},
	MsgReceiptTax: {
		language.French:  "TVA",
		language.English: "Tax",
		language.Spanish: "IVA",
	},
	MsgReceiptNet: {
		language.French:  "Total HT",
		language.English: "Net total",
		language.Spanish: "Subtotal neto",
	},
	MsgReceiptTotal: {
		language.French:  "Total TTC",
		language.English: "Total",
		language.Spanish: "Total a pagar",
	},
	MsgReceiptPayment: {
		language.French:  "Paiement",
		language.English: "Payment",
		language.Spanish: "Medio de pago",
	},
	MsgReceiptPoints: {
		language.French:  "Points fidélité gagnés : %d",
		language.English: "Loyalty points earned: %d",
		language.Spanish: "Puntos de fidelidad ganados: %d",
	},
	MsgReceiptThanks: {
		language.French:  "Merci de votre visite",
		language.English: "Thank you for your visit",
		language.Spanish: "Gracias por su visita",
	},
}

var messages = buildCatalog()

func buildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.French))
	for key, byLang := range translations {
		for tag, msg := range byLang {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
	return b
}
