// seed escribe una plataforma de demostración en entity_snapshots: administrador global,
// plan completo, empresa con licencia activa, usuarios, pools de costos, tarifas de cartão
// y catálogo con estoque inicial.
//
// Uso: go run ./cmd/seed [ruta/catalogo.csv]
// El CSV (exportado de planillas en ISO-8859-1, separador ';') tiene las columnas
// codigo;item;cor;tamanho;quantidade;custo;preco_cartao. Sin archivo se usa un catálogo fijo.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/auth"
	"github.com/jhoicas/moda-retail/internal/application/ports"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/internal/infrastructure/postgres"
	"github.com/jhoicas/moda-retail/pkg/config"
	"github.com/jhoicas/moda-retail/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	lines := demoCatalog()
	if len(os.Args) > 1 {
		f, err := os.Open(os.Args[1])
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV")
		}
		lines, err = parseCatalog(f)
		f.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer catálogo")
		}
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("esquema PostgreSQL")
	}

	recs, err := buildPlatform(time.Now().UTC(), lines, envOr("SEED_ADMIN_PASSWORD", "trocar-senha-123"))
	if err != nil {
		log.Fatal().Err(err).Msg("armar plataforma demo")
	}
	repo := postgres.NewSnapshotRepository(pool)
	for _, rec := range recs {
		if err := repo.Save(ctx, rec); err != nil {
			log.Fatal().Err(err).Str("key", rec.Key()).Msg("guardar snapshot")
		}
	}
	log.Info().Int("records", len(recs)).Int("skus", len(lines)).Msg("plataforma demo generada")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// buildPlatform arma los registros en orden de dependencia (la hidratación no lo exige, pero facilita leer la tabla).
func buildPlatform(now time.Time, lines []*entity.PricingLine, password string) ([]ports.SyncRecord, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	companyID := uuid.New().String()
	storeID := uuid.New().String()
	planID := uuid.New().String()

	var out []ports.SyncRecord
	add := func(kind, company, id string, v any) {
		out = append(out, ports.SyncRecord{Kind: kind, CompanyID: company, ID: id, Payload: v, At: now})
	}

	root := &entity.User{
		ID: uuid.New().String(), Email: "root@modaretail.local", PasswordHash: hash, Name: "Administrador",
		Role: entity.RoleGlobalAdmin, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	add(ports.KindUser, "", root.ID, root)

	plan := &entity.Plan{
		ID: planID, Name: "Completo", Description: "Todos os módulos", ModulesEnabled: entity.AllModules(),
		MaxUsers: 10, MaxStores: 3, MaxSKUs: 2000, MaxSalesPerMonth: 0,
		MonthlyPrice: decimal.RequireFromString("199.90"), CreatedAt: now, UpdatedAt: now,
	}
	add(ports.KindPlan, "", plan.ID, plan)

	company := &entity.Company{
		ID: companyID, Name: "Moda Demo", Document: "12345678000190", Email: "contato@modademo.local",
		Status: entity.CompanyStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	add(ports.KindCompany, companyID, company.ID, company)
	store := &entity.Store{ID: storeID, CompanyID: companyID, Name: "Loja Centro", Active: true, CreatedAt: now, UpdatedAt: now}
	add(ports.KindStore, companyID, store.ID, store)

	lic := &entity.License{
		ID: uuid.New().String(), CompanyID: companyID, PlanID: planID,
		StartDate: now, EndDate: now.AddDate(1, 0, 0), Status: entity.LicenseStatusActive,
		SuspensionPolicy: entity.SuspensionReadOnly, CreatedAt: now, UpdatedAt: now,
	}
	add(ports.KindLicense, companyID, lic.ID, lic)

	admin := &entity.User{
		ID: uuid.New().String(), CompanyID: companyID, Email: "admin@modademo.local", PasswordHash: hash,
		Name: "Dona da loja", Role: entity.RoleCompanyAdmin, Status: entity.UserStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	add(ports.KindUser, companyID, admin.ID, admin)
	seller := &entity.User{
		ID: uuid.New().String(), CompanyID: companyID, StoreID: storeID, Email: "vendas@modademo.local", PasswordHash: hash,
		Name: "Vendedora", Role: entity.RoleEmployee, Status: entity.UserStatusActive,
		ModulesGranted:     []entity.ModuleID{entity.ModulePDV, entity.ModuleCaixa, entity.ModuleEstoque},
		PermissionsGranted: []entity.PermissionID{entity.PermPDVFinalizarVenda, entity.PermCaixaAbrir, entity.PermCaixaFechar, entity.PermEstoqueEntrada},
		CreatedAt:          now, UpdatedAt: now,
	}
	add(ports.KindUser, companyID, seller.ID, seller)

	for _, c := range []struct {
		kind   entity.CostKind
		desc   string
		amount string
	}{
		{entity.CostKindFixed, "Aluguel", "3000"},
		{entity.CostKindFixed, "Salários", "4500"},
		{entity.CostKindVariable, "Energia", "450"},
		{entity.CostKindVariable, "Embalagens", "300"},
	} {
		it := &entity.CostItem{
			ID: uuid.New().String(), CompanyID: companyID, Kind: c.kind, Description: c.desc,
			Amount: decimal.RequireFromString(c.amount), Active: true, CreatedAt: now, UpdatedAt: now,
		}
		add(ports.KindCostItem, companyID, it.ID, it)
	}
	add(ports.KindCostParameters, companyID, companyID, &entity.CostParameters{
		CompanyID: companyID, TotalStockUnitsForAllocation: decimal.NewFromInt(500),
		DefaultCashDiscountPercent: decimal.NewFromInt(10), UpdatedAt: now,
	})

	for _, network := range []entity.CardNetwork{"visa", "mastercard", "elo"} {
		for ft, pct := range map[entity.FeeType]string{
			entity.FeeDebit:             "1.5",
			entity.FeeCredit:            "3.2",
			entity.FeeInstallments2to6:  "4.5",
			entity.FeeInstallments7to12: "6.9",
		} {
			p := decimal.RequireFromString(pct)
			fee := &entity.CardFee{CompanyID: companyID, Network: network, FeeType: ft, FeePercent: &p, UpdatedAt: now}
			add(ports.KindCardFee, companyID, string(network)+"/"+string(ft), fee)
		}
	}

	for _, l := range lines {
		l.CompanyID = companyID
		l.CreatedAt, l.UpdatedAt = now, now
		add(ports.KindPricingLine, companyID, l.Code, l)
		b := &entity.StockBalance{CompanyID: companyID, StoreID: storeID, SKU: l.Code, Available: l.Quantity, UpdatedAt: now}
		add(ports.KindStockBalance, companyID, storeID+"/"+l.Code, b)
	}
	return out, nil
}

func demoCatalog() []*entity.PricingLine {
	mk := func(code, item, color, size string, qty int, cost, card string) *entity.PricingLine {
		return &entity.PricingLine{
			Code: code, ItemName: item, Color: color, Size: size, Quantity: qty,
			WholesaleCost:    entity.Priced(decimal.RequireFromString(cost)),
			CardPrice:        entity.Priced(decimal.RequireFromString(card)),
			CashDiscountMode: entity.DiscountStandard, Active: true,
		}
	}
	return []*entity.PricingLine{
		mk("VM-P-AZ", "Vestido midi", "Azul", "P", 8, "62.00", "199.90"),
		mk("VM-M-AZ", "Vestido midi", "Azul", "M", 10, "62.00", "199.90"),
		mk("CJ-38-PR", "Calça jeans", "Preto", "38", 12, "48.50", "159.90"),
		mk("BL-U-BR", "Blusa de linho", "Branco", "U", 6, "35.00", "119.90"),
	}
}
