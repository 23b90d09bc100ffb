package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	applicensing "github.com/jhoicas/moda-retail/internal/application/licensing"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// PlatformBrand marca por defecto de la plataforma.
type PlatformBrand struct {
	Name           string
	LogoURL        string
	PrimaryColor   string
	SecondaryColor string
}

// BrandingUseCase marca efectiva y edición white-label.
type BrandingUseCase struct {
	tx       repository.TxRunner
	authz    *authz.Authorizer
	c        ports.Collaborators
	platform PlatformBrand
}

// NewBrandingUseCase construye el caso de uso.
func NewBrandingUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators, platform PlatformBrand) *BrandingUseCase {
	return &BrandingUseCase{tx: tx, authz: az, c: c, platform: platform}
}

// Effective combina la marca de la plataforma con la personalizada según la licencia:
// sin white-label se usa la de la plataforma; los colores propios exigen el flag de colores.
func Effective(platform PlatformBrand, custom *entity.Branding, ent licensing.Entitlement) dto.BrandingResponse {
	out := dto.BrandingResponse{
		DisplayName:    platform.Name,
		LogoURL:        platform.LogoURL,
		PrimaryColor:   platform.PrimaryColor,
		SecondaryColor: platform.SecondaryColor,
	}
	if !ent.WhiteLabelEnabled || custom == nil {
		return out
	}
	out.WhiteLabel = true
	if custom.DisplayName != "" {
		out.DisplayName = custom.DisplayName
	}
	if custom.LogoURL != "" {
		out.LogoURL = custom.LogoURL
	}
	if ent.WhiteLabelColorsEnabled {
		if custom.PrimaryColor != "" {
			out.PrimaryColor = custom.PrimaryColor
		}
		if custom.SecondaryColor != "" {
			out.SecondaryColor = custom.SecondaryColor
		}
	}
	return out
}

// Get marca efectiva de la empresa del actor.
func (uc *BrandingUseCase) Get(ctx context.Context, actor entity.Actor) (dto.BrandingResponse, error) {
	var out dto.BrandingResponse
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		ent, _, err := applicensing.Load(r, actor.CompanyID, uc.c.Clock())
		if err != nil {
			return err
		}
		custom, err := r.Branding.Get(actor.CompanyID)
		if err != nil {
			return err
		}
		out = Effective(uc.platform, custom, ent)
		return nil
	})
	return out, err
}

// Update guarda la marca propia. Requiere white-label en la licencia; los colores
// solo se aceptan con el flag de colores.
func (uc *BrandingUseCase) Update(ctx context.Context, actor entity.Actor, in dto.BrandingRequest) (dto.BrandingResponse, error) {
	for _, c := range []string{in.PrimaryColor, in.SecondaryColor} {
		if c != "" && !hexColor.MatchString(c) {
			return dto.BrandingResponse{}, fmt.Errorf("%w: color %q", domain.ErrInvalidInput, c)
		}
	}
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out dto.BrandingResponse
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, permission.ForPermission(entity.PermConfiguracoesMarca), "")
		if err != nil {
			return err
		}
		ent := acc.Entitlement
		if !ent.WhiteLabelEnabled {
			return fmt.Errorf("%w: white-label no incluido en la licencia", domain.ErrModuleNotLicensed)
		}
		if !ent.WhiteLabelColorsEnabled && (in.PrimaryColor != "" || in.SecondaryColor != "") {
			return fmt.Errorf("%w: colores propios no incluidos en la licencia", domain.ErrModuleNotLicensed)
		}
		before, err := r.Branding.Get(actor.CompanyID)
		if err != nil {
			return err
		}
		b := &entity.Branding{
			CompanyID:      actor.CompanyID,
			DisplayName:    strings.TrimSpace(in.DisplayName),
			LogoURL:        strings.TrimSpace(in.LogoURL),
			PrimaryColor:   in.PrimaryColor,
			SecondaryColor: in.SecondaryColor,
			UpdatedAt:      now,
		}
		if err := r.Branding.Save(b); err != nil {
			return err
		}
		fx.Audit("branding.updated", "branding", actor.CompanyID, "", before, b)
		fx.Persist(ports.KindBranding, actor.CompanyID, b)
		fx.Emit("branding.updated", "branding", actor.CompanyID)
		out = Effective(uc.platform, b, ent)
		return nil
	})
	if err != nil {
		return dto.BrandingResponse{}, err
	}
	uc.c.Flush(ctx, fx)
	return out, nil
}
