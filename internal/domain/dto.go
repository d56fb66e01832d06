package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var brl = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way receipts show it, e.g. "R$ 25,90".
func FormatBRL(d decimal.Decimal) string {
	return "R$ " + brl.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// TicketCode is the zero padded daily number shown on the queue board.
func TicketCode(n int) string { return fmt.Sprintf("%03d", n) }
