package derivation

import (
	"fmt"
	"math"

	"korx-catalog/internal/core/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	PriceOnRequest = "Price on Request"

	crore = 10_000_000
	lakh  = 100_000
)

// DerivePrice returns the display price of a record.
// Containers have no price of their own and show their category instead.
func DerivePrice(r domain.PropertyRecord) string {
	if r.RecordKind == domain.KindContainer {
		return containerLabel(r.Category)
	}

	sale := positive(r.SalePrice)
	rent := positive(r.RentPrice)

	switch {
	case r.ForSale && !r.ForRent:
		if sale != nil {
			return FormatPrice(*sale, r.SaleCurrency)
		}
	case r.ForRent && !r.ForSale:
		if rent != nil {
			return FormatPrice(*rent, r.RentCurrency) + "/mo"
		}
	default:
		// оба флага или ни одного: сначала продажа, потом аренда
		if sale != nil {
			return FormatPrice(*sale, r.SaleCurrency)
		}
		if rent != nil {
			return FormatPrice(*rent, r.RentCurrency) + "/mo"
		}
	}
	return PriceOnRequest
}

// FormatPrice formats an amount in the given currency. An empty currency is AF.
//
//	USD:  $1,250,000
//	AF:   1.25 Cr AF | 99.99 Lac AF | 50,000 AF
func FormatPrice(amount float64, currency domain.Currency) string {
	p := message.NewPrinter(language.English)

	if currency == domain.CurrencyUSD {
		return "$" + p.Sprintf("%d", int64(math.Round(amount)))
	}

	switch {
	case amount >= crore:
		return fmt.Sprintf("%.2f Cr AF", truncate2(amount/crore))
	case amount >= lakh:
		return fmt.Sprintf("%.2f Lac AF", truncate2(amount/lakh))
	default:
		return p.Sprintf("%d", int64(math.Round(amount))) + " AF"
	}
}

// truncate2 отбрасывает все после второго знака: 99.99999 -> 99.99, а не 100.00.
func truncate2(v float64) float64 {
	return math.Floor(v*100+1e-9) / 100
}

// positive treats zero and negative amounts as absent.
func positive(v *float64) *float64 {
	if v == nil || *v <= 0 || math.IsNaN(*v) {
		return nil
	}
	return v
}
