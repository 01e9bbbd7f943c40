package entity

// CompanyInfo datos de la empresa mostrados en cabeceras, tickets y la tienda en línea.
// Se guarda como preferencia global en el almacén clave-valor.
type CompanyInfo struct {
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"` // SIRET / NIF
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
	LogoURL  string `json:"logo_url"`
}

// DefaultCompanyInfo valores iniciales si nadie configuró la empresa.
func DefaultCompanyInfo() CompanyInfo {
	return CompanyInfo{Name: "Ma Boutique", Currency: "EUR"}
}
