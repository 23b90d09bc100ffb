package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/moda-retail/internal/domain/entity"
)

const catalogColumns = 7

// parseCatalog lee el CSV de catálogo en ISO-8859-1. La primera fila es cabecera.
// Costo o precio vacíos quedan sin definir (la línea aparece como incompleta en el catálogo).
func parseCatalog(r io.Reader) ([]*entity.PricingLine, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = catalogColumns
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catálogo vacío")
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}

	var out []*entity.PricingLine
	seen := map[string]bool{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		code := strings.TrimSpace(rec[0])
		if code == "" {
			return nil, fmt.Errorf("línea %d: código vacío", line)
		}
		if seen[code] {
			return nil, fmt.Errorf("línea %d: código %q repetido", line, code)
		}
		seen[code] = true
		qty, err := strconv.Atoi(strings.TrimSpace(rec[4]))
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantidade %q", line, rec[4])
		}
		cost, err := parseAmount(rec[5])
		if err != nil {
			return nil, fmt.Errorf("línea %d: custo: %w", line, err)
		}
		card, err := parseAmount(rec[6])
		if err != nil {
			return nil, fmt.Errorf("línea %d: preco_cartao: %w", line, err)
		}
		out = append(out, &entity.PricingLine{
			Code: code, ItemName: strings.TrimSpace(rec[1]), Color: strings.TrimSpace(rec[2]), Size: strings.TrimSpace(rec[3]),
			Quantity: qty, WholesaleCost: cost, CardPrice: card,
			CashDiscountMode: entity.DiscountStandard, Active: true,
		})
	}
	return out, nil
}

// parseAmount acepta "1.234,56" y "1234.56".
func parseAmount(s string) (entity.Amount, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	if s == "" {
		return entity.Unpriced(), nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return entity.Amount{}, err
	}
	if d.IsNegative() {
		return entity.Amount{}, fmt.Errorf("monto negativo %s", s)
	}
	return entity.Priced(d), nil
}
