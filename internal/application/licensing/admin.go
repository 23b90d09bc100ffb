package licensing

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/moda-retail/internal/application/auth"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

// AdminService operaciones del administrador global: planes, empresas y licencias.
type AdminService struct {
	tx repository.TxRunner
	c  ports.Collaborators
}

// NewAdminService construye el servicio.
func NewAdminService(tx repository.TxRunner, c ports.Collaborators) *AdminService {
	return &AdminService{tx: tx, c: c}
}

func requireGlobalAdmin(actor entity.Actor) error {
	if actor.Role != entity.RoleGlobalAdmin {
		return fmt.Errorf("%w: requiere administrador global", domain.ErrForbidden)
	}
	return nil
}

func parseModules(in []string) ([]entity.ModuleID, error) {
	out := make([]entity.ModuleID, 0, len(in))
	seen := map[entity.ModuleID]bool{}
	for _, s := range in {
		m := entity.ModuleID(strings.TrimSpace(s))
		if !m.Valid() {
			return nil, fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, s)
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

func applyPlan(p *entity.Plan, in dto.PlanRequest) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: nombre del plan requerido", domain.ErrInvalidInput)
	}
	if in.MaxUsers < 0 || in.MaxStores < 0 || in.MaxSKUs < 0 || in.MaxSalesPerMonth < 0 {
		return fmt.Errorf("%w: límites no pueden ser negativos", domain.ErrInvalidInput)
	}
	if in.MonthlyPrice.IsNegative() {
		return fmt.Errorf("%w: precio mensual negativo", domain.ErrInvalidInput)
	}
	modules, err := parseModules(in.ModulesEnabled)
	if err != nil {
		return err
	}
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.ModulesEnabled = modules
	p.MaxUsers = in.MaxUsers
	p.MaxStores = in.MaxStores
	p.MaxSKUs = in.MaxSKUs
	p.MaxSalesPerMonth = in.MaxSalesPerMonth
	p.MonthlyPrice = in.MonthlyPrice
	return nil
}

// ── planes ───────────────────────────────────────────────────────────────────

// CreatePlan da de alta un plan.
func (s *AdminService) CreatePlan(ctx context.Context, actor entity.Actor, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	now := s.c.Clock()
	plan := &entity.Plan{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}
	if err := applyPlan(plan, in); err != nil {
		return nil, err
	}
	fx := ports.NewEffects(repository.PlatformScope, actor.Name(), now)
	err := s.tx.Run(ctx, repository.PlatformScope, func(r repository.Repos) error {
		if err := r.Plans.Save(plan); err != nil {
			return err
		}
		fx.Audit("plan.created", "plan", plan.ID, "", nil, plan)
		fx.Persist(ports.KindPlan, plan.ID, plan)
		fx.Emit("plan.created", "plan", plan.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return dto.ToPlanResponse(plan), nil
}

// UpdatePlan edita un plan. El cambio de módulos se refleja en la próxima resolución
// de cada empresa con ese plan.
func (s *AdminService) UpdatePlan(ctx context.Context, actor entity.Actor, id string, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	now := s.c.Clock()
	fx := ports.NewEffects(repository.PlatformScope, actor.Name(), now)
	var out *entity.Plan
	err := s.tx.Run(ctx, repository.PlatformScope, func(r repository.Repos) error {
		plan, err := r.Plans.Get(id)
		if err != nil {
			return err
		}
		if plan == nil {
			return domain.ErrNotFound
		}
		before := *plan
		if err := applyPlan(plan, in); err != nil {
			return err
		}
		plan.UpdatedAt = now
		if err := r.Plans.Save(plan); err != nil {
			return err
		}
		fx.Audit("plan.updated", "plan", plan.ID, "", before, plan)
		fx.Persist(ports.KindPlan, plan.ID, plan)
		fx.Emit("plan.updated", "plan", plan.ID)
		out = plan
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return dto.ToPlanResponse(out), nil
}

// ListPlans lista el catálogo de planes.
func (s *AdminService) ListPlans(ctx context.Context, actor entity.Actor) ([]*dto.PlanResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	var out []*dto.PlanResponse
	err := s.tx.Run(ctx, repository.PlatformScope, func(r repository.Repos) error {
		plans, err := r.Plans.List()
		if err != nil {
			return err
		}
		for _, p := range plans {
			out = append(out, dto.ToPlanResponse(p))
		}
		return nil
	})
	return out, err
}

// ── empresas ─────────────────────────────────────────────────────────────────

// CreateCompany da de alta el tenant con su primera loja y su company_admin.
// La empresa nace sin licencia: ningún módulo queda disponible hasta IssueLicense.
func (s *AdminService) CreateCompany(ctx context.Context, actor entity.Actor, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.StoreName) == "" || strings.TrimSpace(in.AdminEmail) == "" {
		return nil, fmt.Errorf("%w: nombre, loja y email del admin requeridos", domain.ErrInvalidInput)
	}
	hash, err := auth.HashPassword(in.AdminPassword)
	if err != nil {
		return nil, err
	}
	now := s.c.Clock()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Document:  in.Document,
		Email:     in.Email,
		Phone:     in.Phone,
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store := &entity.Store{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		Name:      strings.TrimSpace(in.StoreName),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	admin := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        strings.TrimSpace(in.AdminEmail),
		PasswordHash: hash,
		Name:         in.AdminName,
		Role:         entity.RoleCompanyAdmin,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	fx := ports.NewEffects(company.ID, actor.Name(), now)
	err = repository.RunCrossTenant(ctx, s.tx, company.ID, func(r repository.Repos) error {
		existing, err := r.Users.FindByEmail(admin.Email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		if err := r.Companies.Save(company); err != nil {
			return err
		}
		if err := r.Companies.SaveStore(store); err != nil {
			return err
		}
		if err := r.Users.Save(admin); err != nil {
			return err
		}
		fx.Audit("company.created", "company", company.ID, "", nil, company)
		fx.Persist(ports.KindCompany, company.ID, company)
		fx.Persist(ports.KindStore, store.ID, store)
		fx.Persist(ports.KindUser, admin.ID, admin)
		fx.Emit("company.created", "company", company.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	s.c.Logger().Info().Str("company_id", company.ID).Str("actor", actor.Name()).Msg("empresa creada")
	return dto.ToCompanyResponse(company, []*entity.Store{store}), nil
}

// SetCompanyStatus activa, suspende o da de baja el tenant.
func (s *AdminService) SetCompanyStatus(ctx context.Context, actor entity.Actor, companyID string, in dto.SetCompanyStatusRequest) (*dto.CompanyResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	status := entity.CompanyStatus(in.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	now := s.c.Clock()
	fx := ports.NewEffects(companyID, actor.Name(), now)
	var out *dto.CompanyResponse
	err := s.tx.Run(ctx, companyID, func(r repository.Repos) error {
		company, err := r.Companies.Get(companyID)
		if err != nil {
			return err
		}
		if company == nil {
			return domain.ErrNotFound
		}
		if company.Status == entity.CompanyStatusTerminated && status != entity.CompanyStatusTerminated {
			return fmt.Errorf("%w: empresa dada de baja", domain.ErrConflict)
		}
		before := *company
		company.Status = status
		company.UpdatedAt = now
		if err := r.Companies.Save(company); err != nil {
			return err
		}
		stores, err := r.Companies.ListStores(companyID)
		if err != nil {
			return err
		}
		fx.Audit("company.status_changed", "company", company.ID, string(status), before, company)
		fx.Persist(ports.KindCompany, company.ID, company)
		fx.Emit("company.status_changed", "company", company.ID)
		out = dto.ToCompanyResponse(company, stores)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return out, nil
}

// ListCompanies lista los tenants.
func (s *AdminService) ListCompanies(ctx context.Context, actor entity.Actor) ([]*dto.CompanyResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	var out []*dto.CompanyResponse
	err := s.tx.Run(ctx, repository.PlatformScope, func(r repository.Repos) error {
		companies, err := r.Companies.List()
		if err != nil {
			return err
		}
		for _, c := range companies {
			stores, err := r.Companies.ListStores(c.ID)
			if err != nil {
				return err
			}
			out = append(out, dto.ToCompanyResponse(c, stores))
		}
		return nil
	})
	return out, err
}

// ── licencias ────────────────────────────────────────────────────────────────

// IssueLicense emite una licencia activa. La licencia activa anterior pasa a expired;
// el historial se conserva.
func (s *AdminService) IssueLicense(ctx context.Context, actor entity.Actor, in dto.IssueLicenseRequest) (*dto.LicenseResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	now := s.c.Clock()
	start := in.StartDate
	if start.IsZero() {
		start = now
	}
	if !in.EndDate.IsZero() && in.EndDate.Before(start) {
		return nil, fmt.Errorf("%w: fin anterior al inicio", domain.ErrInvalidInput)
	}
	policy := entity.SuspensionPolicy(in.SuspensionPolicy)
	if policy == "" {
		policy = entity.SuspensionFullBlock
	}
	if !policy.Valid() {
		return nil, fmt.Errorf("%w: política de suspensión %q", domain.ErrInvalidInput, in.SuspensionPolicy)
	}
	lic := &entity.License{
		ID:                      uuid.New().String(),
		CompanyID:               in.CompanyID,
		PlanID:                  in.PlanID,
		StartDate:               start,
		EndDate:                 in.EndDate,
		Status:                  entity.LicenseStatusActive,
		SuspensionPolicy:        policy,
		WhiteLabelEnabled:       in.WhiteLabelEnabled,
		WhiteLabelColorsEnabled: in.WhiteLabelEnabled && in.WhiteLabelColorsEnabled,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
	fx := ports.NewEffects(in.CompanyID, actor.Name(), now)
	err := s.tx.Run(ctx, in.CompanyID, func(r repository.Repos) error {
		company, err := r.Companies.Get(in.CompanyID)
		if err != nil {
			return err
		}
		if company == nil {
			return fmt.Errorf("%w: empresa %s", domain.ErrNotFound, in.CompanyID)
		}
		plan, err := r.Plans.Get(in.PlanID)
		if err != nil {
			return err
		}
		if plan == nil {
			return fmt.Errorf("%w: plan %s", domain.ErrNotFound, in.PlanID)
		}
		previous, err := r.Licenses.ListByCompany(in.CompanyID)
		if err != nil {
			return err
		}
		for _, old := range previous {
			if old.Status != entity.LicenseStatusActive {
				continue
			}
			old.Status = entity.LicenseStatusExpired
			old.UpdatedAt = now
			if err := r.Licenses.Save(old); err != nil {
				return err
			}
			fx.Audit("license.expired", "license", old.ID, "reemplazada por "+lic.ID, nil, old)
			fx.Persist(ports.KindLicense, old.ID, old)
		}
		if err := r.Licenses.Save(lic); err != nil {
			return err
		}
		fx.Audit("license.issued", "license", lic.ID, "", nil, lic)
		fx.Persist(ports.KindLicense, lic.ID, lic)
		fx.Emit("license.issued", "license", lic.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return dto.ToLicenseResponse(lic), nil
}

// BlockLicense bloquea una licencia: la empresa pierde todos los módulos en la próxima resolución.
func (s *AdminService) BlockLicense(ctx context.Context, actor entity.Actor, licenseID, reason string) (*dto.LicenseResponse, error) {
	return s.mutateLicense(ctx, actor, licenseID, "license.blocked", reason, func(l *entity.License) error {
		if l.Status == entity.LicenseStatusBlocked {
			return fmt.Errorf("%w: licencia ya bloqueada", domain.ErrConflict)
		}
		l.Status = entity.LicenseStatusBlocked
		return nil
	})
}

// SetWhiteLabel cambia los flags white-label. Colores sin white-label quedan apagados.
func (s *AdminService) SetWhiteLabel(ctx context.Context, actor entity.Actor, licenseID string, in dto.WhiteLabelRequest) (*dto.LicenseResponse, error) {
	return s.mutateLicense(ctx, actor, licenseID, "license.white_label", "", func(l *entity.License) error {
		l.WhiteLabelEnabled = in.Enabled
		l.WhiteLabelColorsEnabled = in.Enabled && in.ColorsEnabled
		return nil
	})
}

func (s *AdminService) mutateLicense(ctx context.Context, actor entity.Actor, licenseID, action, reason string, mutate func(*entity.License) error) (*dto.LicenseResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	companyID, err := s.licenseCompany(ctx, licenseID)
	if err != nil {
		return nil, err
	}
	now := s.c.Clock()
	fx := ports.NewEffects(companyID, actor.Name(), now)
	var out *entity.License
	err = s.tx.Run(ctx, companyID, func(r repository.Repos) error {
		lic, err := r.Licenses.Get(licenseID)
		if err != nil {
			return err
		}
		if lic == nil || lic.CompanyID != companyID {
			return domain.ErrNotFound
		}
		before := *lic
		if err := mutate(lic); err != nil {
			return err
		}
		lic.UpdatedAt = now
		if err := r.Licenses.Save(lic); err != nil {
			return err
		}
		fx.Audit(action, "license", lic.ID, reason, before, lic)
		fx.Persist(ports.KindLicense, lic.ID, lic)
		fx.Emit(action, "license", lic.ID)
		out = lic
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.c.Flush(ctx, fx)
	return dto.ToLicenseResponse(out), nil
}

// licenseCompany ubica la empresa dueña para serializar la mutación en su tenant.
func (s *AdminService) licenseCompany(ctx context.Context, licenseID string) (string, error) {
	var companyID string
	err := s.tx.Run(ctx, repository.PlatformScope, func(r repository.Repos) error {
		lic, err := r.Licenses.Get(licenseID)
		if err != nil {
			return err
		}
		if lic == nil {
			return domain.ErrNotFound
		}
		companyID = lic.CompanyID
		return nil
	})
	return companyID, err
}

// ListLicenses historial de licencias de la empresa.
func (s *AdminService) ListLicenses(ctx context.Context, actor entity.Actor, companyID string) ([]*dto.LicenseResponse, error) {
	if err := requireGlobalAdmin(actor); err != nil {
		return nil, err
	}
	var out []*dto.LicenseResponse
	err := s.tx.Run(ctx, companyID, func(r repository.Repos) error {
		list, err := r.Licenses.ListByCompany(companyID)
		if err != nil {
			return err
		}
		for _, l := range list {
			out = append(out, dto.ToLicenseResponse(l))
		}
		return nil
	})
	return out, err
}
