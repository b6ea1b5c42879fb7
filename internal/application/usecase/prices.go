package usecase

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/litethinking-inventario/internal/application/dto"
	"github.com/jhoicas/litethinking-inventario/internal/domain/entity"
	"github.com/jhoicas/litethinking-inventario/internal/domain/validation"
)

// ExchangeRates tasas de conversión desde USD.
type ExchangeRates struct {
	USDToCOP decimal.Decimal
	USDToEUR decimal.Decimal
}

type priceTarget struct {
	unit currency.Unit
	tag  language.Tag
	kind currency.Kind
	rate decimal.Decimal
}

func (r ExchangeRates) targets() []priceTarget {
	return []priceTarget{
		{unit: currency.USD, tag: language.AmericanEnglish, kind: currency.Standard, rate: decimal.NewFromInt(1)},
		// El peso colombiano circula sin centavos.
		{unit: currency.MustParseISO("COP"), tag: language.MustParse("es-CO"), kind: currency.Cash, rate: r.USDToCOP},
		{unit: currency.EUR, tag: language.Spanish, kind: currency.Standard, rate: r.USDToEUR},
	}
}

// Convert calcula el precio del producto en cada moneda soportada.
func (r ExchangeRates) Convert(p *entity.Product) ([]dto.PriceResponse, error) {
	targets := r.targets()
	out := make([]dto.PriceResponse, 0, len(targets))
	for _, t := range targets {
		if err := validation.ExchangeRate(t.rate); err != nil {
			return nil, err
		}
		amount, err := p.PriceIn(t.rate)
		if err != nil {
			return nil, err
		}
		scale, _ := t.kind.Rounding(t.unit)
		amount = amount.Round(int32(scale))
		out = append(out, dto.PriceResponse{
			Currency:  t.unit.String(),
			Amount:    amount,
			Formatted: formatMoney(t.tag, t.unit, amount, scale),
			Rate:      t.rate,
		})
	}
	return out, nil
}

// formatMoney aplica los separadores de miles y decimales del idioma.
func formatMoney(tag language.Tag, unit currency.Unit, amount decimal.Decimal, scale int) string {
	p := message.NewPrinter(tag)
	return p.Sprintf("%s %v", unit.String(), number.Decimal(amount.InexactFloat64(), number.Scale(scale)))
}
