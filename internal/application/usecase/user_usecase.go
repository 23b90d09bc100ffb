package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/moda-retail/internal/application/auth"
	"github.com/jhoicas/moda-retail/internal/application/authz"
	"github.com/jhoicas/moda-retail/internal/application/dto"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
	"github.com/jhoicas/moda-retail/internal/domain/permission"
	"github.com/jhoicas/moda-retail/internal/domain/repository"
)

var manageUsers = permission.ForPermission(entity.PermUsuariosGerenciar)

// UserUseCase alta de usuarios y gestión de concesiones (módulos y permisos).
type UserUseCase struct {
	tx    repository.TxRunner
	authz *authz.Authorizer
	c     ports.Collaborators
}

// NewUserUseCase construye el caso de uso.
func NewUserUseCase(tx repository.TxRunner, az *authz.Authorizer, c ports.Collaborators) *UserUseCase {
	return &UserUseCase{tx: tx, authz: az, c: c}
}

// CreateUser crea un usuario de la empresa respetando el límite de usuarios del plan.
func (uc *UserUseCase) CreateUser(ctx context.Context, actor entity.Actor, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role := entity.Role(in.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: rol %q", domain.ErrInvalidInput, in.Role)
	}
	if role == entity.RoleEmployee && in.StoreID == "" {
		return nil, fmt.Errorf("%w: empleado requiere loja", domain.ErrInvalidInput)
	}
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return nil, fmt.Errorf("%w: email requerido", domain.ErrInvalidInput)
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.c.Clock()
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    actor.CompanyID,
		StoreID:      in.StoreID,
		Email:        email,
		PasswordHash: hash,
		Name:         in.Name,
		Role:         role,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	err = repository.RunCrossTenant(ctx, uc.tx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, manageUsers, "")
		if err != nil {
			return err
		}
		if user.StoreID != "" {
			store, err := r.Companies.GetStore(actor.CompanyID, user.StoreID)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("%w: loja %s", domain.ErrNotFound, user.StoreID)
			}
		}
		existing, err := r.Users.FindByEmail(email)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrEmailAlreadyExists
		}
		users, err := r.Users.ListByCompany(actor.CompanyID)
		if err != nil {
			return err
		}
		if err := licensing.CheckLimit(acc.Plan, licensing.LimitUsers, countActive(users)); err != nil {
			return err
		}
		if err := r.Users.Save(user); err != nil {
			return err
		}
		fx.Audit("user.created", "user", user.ID, "", nil, dto.ToUserResponse(user))
		fx.Persist(ports.KindUser, user.ID, user)
		fx.Emit("user.created", "user", user.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	return dto.ToUserResponse(user), nil
}

func countActive(users []*entity.User) int {
	n := 0
	for _, u := range users {
		if u.Status != entity.UserStatusTerminated {
			n++
		}
	}
	return n
}

// List usuarios de la empresa.
func (uc *UserUseCase) List(ctx context.Context, actor entity.Actor) ([]*dto.UserResponse, error) {
	var out []*dto.UserResponse
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		if _, err := uc.authz.Authorize(ctx, r, actor, manageUsers, ""); err != nil {
			return err
		}
		users, err := r.Users.ListByCompany(actor.CompanyID)
		if err != nil {
			return err
		}
		for _, u := range users {
			out = append(out, dto.ToUserResponse(u))
		}
		return nil
	})
	return out, err
}

// SetStatus suspende, reactiva o da de baja un usuario. Un admin no puede cambiar su propio estado.
func (uc *UserUseCase) SetStatus(ctx context.Context, actor entity.Actor, userID string, in dto.SetUserStatusRequest) (*dto.UserResponse, error) {
	status := entity.UserStatus(in.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, in.Status)
	}
	if userID == actor.UserID {
		return nil, fmt.Errorf("%w: no se puede cambiar el propio estado", domain.ErrConflict)
	}
	return uc.mutate(ctx, actor, userID, "user.status_changed", string(status), func(u *entity.User, _ licensing.Entitlement) error {
		u.Status = status
		return nil
	})
}

// SetModules reemplaza los módulos concedidos (subconjunto de los licenciados).
// Los permisos de módulos retirados se eliminan en cascada.
func (uc *UserUseCase) SetModules(ctx context.Context, actor entity.Actor, userID string, in dto.SetModulesRequest) (*dto.UserResponse, error) {
	modules := make([]entity.ModuleID, 0, len(in.Modules))
	for _, m := range in.Modules {
		modules = append(modules, entity.ModuleID(m))
	}
	return uc.mutate(ctx, actor, userID, "user.modules_set", "", func(u *entity.User, ent licensing.Entitlement) error {
		return permission.SetModules(u, ent, modules)
	})
}

// GrantModule concede un módulo licenciado.
func (uc *UserUseCase) GrantModule(ctx context.Context, actor entity.Actor, userID, module string) (*dto.UserResponse, error) {
	m := entity.ModuleID(module)
	return uc.mutate(ctx, actor, userID, "user.module_granted", module, func(u *entity.User, ent licensing.Entitlement) error {
		return permission.GrantModule(u, ent, m)
	})
}

// RevokeModule retira un módulo y sus permisos. Volver a concederlo no los restaura.
func (uc *UserUseCase) RevokeModule(ctx context.Context, actor entity.Actor, userID, module string) (*dto.UserResponse, error) {
	m := entity.ModuleID(module)
	return uc.mutate(ctx, actor, userID, "user.module_revoked", module, func(u *entity.User, _ licensing.Entitlement) error {
		if !m.Valid() {
			return fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, module)
		}
		permission.RevokeModule(u, m)
		return nil
	})
}

// GrantPermission concede un permiso cuyo módulo ya está concedido.
func (uc *UserUseCase) GrantPermission(ctx context.Context, actor entity.Actor, userID string, in dto.GrantPermissionRequest) (*dto.UserResponse, error) {
	p := entity.PermissionID(in.Permission)
	return uc.mutate(ctx, actor, userID, "user.permission_granted", in.Permission, func(u *entity.User, _ licensing.Entitlement) error {
		return permission.GrantPermission(u, p)
	})
}

// RevokePermission retira un permiso.
func (uc *UserUseCase) RevokePermission(ctx context.Context, actor entity.Actor, userID, perm string) (*dto.UserResponse, error) {
	p := entity.PermissionID(perm)
	return uc.mutate(ctx, actor, userID, "user.permission_revoked", perm, func(u *entity.User, _ licensing.Entitlement) error {
		permission.RevokePermission(u, p)
		return nil
	})
}

func (uc *UserUseCase) mutate(ctx context.Context, actor entity.Actor, userID, action, reason string, fn func(*entity.User, licensing.Entitlement) error) (*dto.UserResponse, error) {
	now := uc.c.Clock()
	fx := ports.NewEffects(actor.CompanyID, actor.Name(), now)
	var out *entity.User
	err := uc.tx.Run(ctx, actor.CompanyID, func(r repository.Repos) error {
		acc, err := uc.authz.Authorize(ctx, r, actor, manageUsers, "")
		if err != nil {
			return err
		}
		user, err := r.Users.Get(actor.CompanyID, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.ErrUserNotFound
		}
		before := dto.ToUserResponse(user)
		if err := fn(user, acc.Entitlement); err != nil {
			return err
		}
		user.UpdatedAt = now
		if err := r.Users.Save(user); err != nil {
			return err
		}
		fx.Audit(action, "user", user.ID, reason, before, dto.ToUserResponse(user))
		fx.Persist(ports.KindUser, user.ID, user)
		fx.Emit(action, "user", user.ID)
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.c.Flush(ctx, fx)
	return dto.ToUserResponse(out), nil
}
