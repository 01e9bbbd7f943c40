package preferences

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/currency"

	"github.com/jhoicas/Gestion-api/internal/application/ports"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

const companyKey = "pref:company"

// CompanyProvider datos globales de la empresa.
type CompanyProvider struct {
	kv  ports.KVStore
	log zerolog.Logger
}

// NewCompanyProvider construye el proveedor.
func NewCompanyProvider(kv ports.KVStore, log zerolog.Logger) *CompanyProvider {
	return &CompanyProvider{kv: kv, log: log}
}

// Get devuelve los datos guardados o los valores por defecto.
func (p *CompanyProvider) Get(ctx context.Context) entity.CompanyInfo {
	info := entity.DefaultCompanyInfo()
	ok, err := ports.GetJSON(ctx, p.kv, companyKey, &info)
	if err != nil {
		p.log.Warn().Err(err).Msg("leer datos de empresa")
		return entity.DefaultCompanyInfo()
	}
	if !ok {
		return entity.DefaultCompanyInfo()
	}
	return info
}

// Set valida y guarda los datos de la empresa.
func (p *CompanyProvider) Set(ctx context.Context, info entity.CompanyInfo) (entity.CompanyInfo, error) {
	info.Name = strings.TrimSpace(info.Name)
	if info.Name == "" {
		return info, fmt.Errorf("nombre de empresa vacío: %w", domain.ErrInvalidInput)
	}
	if info.Currency == "" {
		info.Currency = entity.DefaultCompanyInfo().Currency
	}
	unit, err := currency.ParseISO(strings.ToUpper(info.Currency))
	if err != nil {
		return info, fmt.Errorf("moneda %q: %w", info.Currency, domain.ErrInvalidInput)
	}
	info.Currency = unit.String()
	if info.Email != "" {
		if _, err := mail.ParseAddress(info.Email); err != nil {
			return info, fmt.Errorf("email %q: %w", info.Email, domain.ErrInvalidInput)
		}
	}
	if err := ports.SetJSON(ctx, p.kv, companyKey, info, 0); err != nil {
		return info, fmt.Errorf("guardar datos de empresa: %w", err)
	}
	return info, nil
}
