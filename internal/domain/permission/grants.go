package permission

import (
	"fmt"

	"github.com/jhoicas/moda-retail/internal/domain"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/domain/licensing"
)

// SetModules reemplaza los módulos concedidos. Deben ser subconjunto de los licenciados;
// los permisos cuyo módulo deja de estar concedido se eliminan en cascada.
func SetModules(user *entity.User, ent licensing.Entitlement, modules []entity.ModuleID) error {
	seen := make(map[entity.ModuleID]bool, len(modules))
	next := make([]entity.ModuleID, 0, len(modules))
	for _, m := range modules {
		if !m.Valid() {
			return fmt.Errorf("%w: módulo desconocido %q", domain.ErrInvalidInput, m)
		}
		if !ent.Licensed(m) {
			return fmt.Errorf("%w: %s", domain.ErrModuleNotLicensed, m)
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		next = append(next, m)
	}
	user.ModulesGranted = next
	user.PermissionsGranted = prunePermissions(user.PermissionsGranted, seen)
	return nil
}

// GrantModule concede un módulo licenciado. No restaura permisos revocados antes.
func GrantModule(user *entity.User, ent licensing.Entitlement, m entity.ModuleID) error {
	if user.HasModuleGrant(m) {
		return nil
	}
	return SetModules(user, ent, append(append([]entity.ModuleID{}, user.ModulesGranted...), m))
}

// RevokeModule quita el módulo y todos sus permisos.
func RevokeModule(user *entity.User, m entity.ModuleID) {
	keep := make(map[entity.ModuleID]bool, len(user.ModulesGranted))
	next := user.ModulesGranted[:0:0]
	for _, g := range user.ModulesGranted {
		if g == m {
			continue
		}
		keep[g] = true
		next = append(next, g)
	}
	user.ModulesGranted = next
	user.PermissionsGranted = prunePermissions(user.PermissionsGranted, keep)
}

// GrantPermission concede un permiso; su módulo debe estar concedido previamente.
func GrantPermission(user *entity.User, p entity.PermissionID) error {
	if !p.Valid() {
		return fmt.Errorf("%w: permiso desconocido %q", domain.ErrInvalidInput, p)
	}
	if !user.HasModuleGrant(p.Module()) {
		return fmt.Errorf("%w: %s requiere %s", domain.ErrPermissionNeedsModule, p, p.Module())
	}
	if user.HasPermissionGrant(p) {
		return nil
	}
	user.PermissionsGranted = append(user.PermissionsGranted, p)
	return nil
}

// RevokePermission quita un permiso (no-op si no estaba).
func RevokePermission(user *entity.User, p entity.PermissionID) {
	next := user.PermissionsGranted[:0:0]
	for _, g := range user.PermissionsGranted {
		if g != p {
			next = append(next, g)
		}
	}
	user.PermissionsGranted = next
}

func prunePermissions(perms []entity.PermissionID, modules map[entity.ModuleID]bool) []entity.PermissionID {
	out := make([]entity.PermissionID, 0, len(perms))
	for _, p := range perms {
		if modules[p.Module()] {
			out = append(out, p)
		}
	}
	return out
}
