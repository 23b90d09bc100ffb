package entity

import "sort"

// ModuleID identifica un área funcional licenciable.
type ModuleID string

// Módulos del sistema. Deben coincidir con el catálogo moduleCatalog.
const (
	ModuleDashboard     ModuleID = "dashboard"
	ModulePDV           ModuleID = "pdv"
	ModuleEstoque       ModuleID = "estoque"
	ModuleProdutos      ModuleID = "produtos"
	ModuleClientes      ModuleID = "clientes"
	ModuleFornecedores  ModuleID = "fornecedores"
	ModuleCaixa         ModuleID = "caixa"
	ModuleContasReceber ModuleID = "contas_receber"
	ModuleCustos        ModuleID = "custos"
	ModulePrecificacao  ModuleID = "precificacao"
	ModuleRelatorios    ModuleID = "relatorios"
	ModuleUsuarios      ModuleID = "usuarios"
	ModuleConfiguracoes ModuleID = "configuracoes"
)

// ModuleGroup agrupa módulos con reglas de visibilidad propias.
type ModuleGroup string

const (
	GroupOperacao      ModuleGroup = "operacao"
	GroupFinanceiro    ModuleGroup = "financeiro"
	GroupCadastros     ModuleGroup = "cadastros"     // solo company_admin
	GroupConfiguracoes ModuleGroup = "configuracoes" // solo company_admin
)

// PermissionID identifica una acción puntual dentro de un módulo ("modulo.acao").
type PermissionID string

const (
	PermCaixaAbrir              PermissionID = "caixa.abrir"
	PermCaixaFechar             PermissionID = "caixa.fechar"
	PermCaixaSangria            PermissionID = "caixa.sangria"
	PermCaixaSuprimento         PermissionID = "caixa.suprimento"
	PermEstoqueEntrada          PermissionID = "estoque.entrada"
	PermEstoqueAjustar          PermissionID = "estoque.ajustar"
	PermEstoqueTransferir       PermissionID = "estoque.transferir"
	PermPDVFinalizarVenda       PermissionID = "pdv.finalizar_venda"
	PermContasReceberVisualizar PermissionID = "contas_receber.visualizar"
	PermContasReceberBaixar     PermissionID = "contas_receber.baixar"
	PermCustosVisualizar        PermissionID = "custos.visualizar"
	PermCustosEditar            PermissionID = "custos.editar"
	PermPrecificacaoVisualizar  PermissionID = "precificacao.visualizar"
	PermPrecificacaoEditar      PermissionID = "precificacao.editar"
	PermRelatoriosVisualizar    PermissionID = "relatorios.visualizar"
	PermUsuariosGerenciar       PermissionID = "usuarios.gerenciar"
	PermConfiguracoesMarca      PermissionID = "configuracoes.marca"
	PermConfiguracoesLojas      PermissionID = "configuracoes.lojas"
)

var moduleCatalog = map[ModuleID]ModuleGroup{
	ModuleDashboard:     GroupOperacao,
	ModulePDV:           GroupOperacao,
	ModuleEstoque:       GroupOperacao,
	ModuleProdutos:      GroupCadastros,
	ModuleClientes:      GroupCadastros,
	ModuleFornecedores:  GroupCadastros,
	ModuleCaixa:         GroupFinanceiro,
	ModuleContasReceber: GroupFinanceiro,
	ModuleCustos:        GroupFinanceiro,
	ModulePrecificacao:  GroupFinanceiro,
	ModuleRelatorios:    GroupFinanceiro,
	ModuleUsuarios:      GroupConfiguracoes,
	ModuleConfiguracoes: GroupConfiguracoes,
}

// Cada permiso pertenece a exactamente un módulo.
var permissionCatalog = map[PermissionID]ModuleID{
	PermCaixaAbrir:              ModuleCaixa,
	PermCaixaFechar:             ModuleCaixa,
	PermCaixaSangria:            ModuleCaixa,
	PermCaixaSuprimento:         ModuleCaixa,
	PermEstoqueEntrada:          ModuleEstoque,
	PermEstoqueAjustar:          ModuleEstoque,
	PermEstoqueTransferir:       ModuleEstoque,
	PermPDVFinalizarVenda:       ModulePDV,
	PermContasReceberVisualizar: ModuleContasReceber,
	PermContasReceberBaixar:     ModuleContasReceber,
	PermCustosVisualizar:        ModuleCustos,
	PermCustosEditar:            ModuleCustos,
	PermPrecificacaoVisualizar:  ModulePrecificacao,
	PermPrecificacaoEditar:      ModulePrecificacao,
	PermRelatoriosVisualizar:    ModuleRelatorios,
	PermUsuariosGerenciar:       ModuleUsuarios,
	PermConfiguracoesMarca:      ModuleConfiguracoes,
	PermConfiguracoesLojas:      ModuleConfiguracoes,
}

// Valid informa si el módulo existe en el catálogo fijo.
func (m ModuleID) Valid() bool {
	_, ok := moduleCatalog[m]
	return ok
}

// Group devuelve el grupo del módulo ("" si no existe).
func (m ModuleID) Group() ModuleGroup { return moduleCatalog[m] }

// AdminOnly: módulos de cadastros y configuraciones nunca se muestran a empleados.
func (m ModuleID) AdminOnly() bool {
	g := moduleCatalog[m]
	return g == GroupCadastros || g == GroupConfiguracoes
}

// Permisos de solo lectura: siguen permitidos con la licencia en read_only.
var readPermissions = map[PermissionID]bool{
	PermContasReceberVisualizar: true,
	PermCustosVisualizar:        true,
	PermPrecificacaoVisualizar:  true,
	PermRelatoriosVisualizar:    true,
}

// ReadOnly informa si el permiso solo consulta datos.
func (p PermissionID) ReadOnly() bool { return readPermissions[p] }

// Valid informa si el permiso existe en el catálogo fijo.
func (p PermissionID) Valid() bool {
	_, ok := permissionCatalog[p]
	return ok
}

// Module devuelve el módulo dueño del permiso ("" si no existe).
func (p PermissionID) Module() ModuleID { return permissionCatalog[p] }

// AllModules lista el catálogo completo ordenado.
func AllModules() []ModuleID {
	out := make([]ModuleID, 0, len(moduleCatalog))
	for m := range moduleCatalog {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PermissionsOf lista los permisos que pertenecen al módulo, ordenados.
func PermissionsOf(m ModuleID) []PermissionID {
	var out []PermissionID
	for p, owner := range permissionCatalog {
		if owner == m {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ModuleSet conjunto de módulos.
type ModuleSet map[ModuleID]struct{}

// NewModuleSet construye un conjunto ignorando IDs fuera del catálogo.
func NewModuleSet(ids ...ModuleID) ModuleSet {
	s := make(ModuleSet, len(ids))
	for _, id := range ids {
		if id.Valid() {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has informa si el módulo está en el conjunto.
func (s ModuleSet) Has(m ModuleID) bool {
	_, ok := s[m]
	return ok
}

// Slice devuelve los módulos ordenados (salida estable para JSON y logs).
func (s ModuleSet) Slice() []ModuleID {
	out := make([]ModuleID, 0, len(s))
	for m := range s {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
