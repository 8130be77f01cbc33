package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/inventario-ledger/internal/domain/inventory"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCostCalculator(t *testing.T) {
	cases := []struct {
		name                             string
		stock, cost, inQty, inCost, want string
	}{
		{"sin stock previo toma el costo de entrada", "0", "0", "10", "5", "5"},
		{"promedio ponderado simple", "10", "5", "10", "7", "6"},
		{"pesos desiguales", "30", "10", "10", "20", "12.5"},
		{"stock negativo se toma como cero", "-4", "8", "10", "3", "3"},
		{"denominador no positivo devuelve costo de entrada", "0", "9", "0", "4", "4"},
		{"redondeo a seis decimales", "1", "1", "2", "2", "1.666667"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := inventory.CostCalculator(d(tc.stock), d(tc.cost), d(tc.inQty), d(tc.inCost))
			assert.Truef(t, d(tc.want).Equal(got), "esperado %s, obtenido %s", tc.want, got)
		})
	}
}
