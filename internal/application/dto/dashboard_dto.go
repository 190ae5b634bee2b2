package dto

import "github.com/shopspring/decimal"

// PeriodMetricsDTO ingresos y número de operaciones de un período.
type PeriodMetricsDTO struct {
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// TopProductDTO producto más vendido del mes.
type TopProductDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// DashboardSummaryDTO resumen de la tienda: ventas de hoy y del mes, servicios cobrados,
// productos más vendidos y productos por reponer.
type DashboardSummaryDTO struct {
	TodaySales      PeriodMetricsDTO              `json:"today_sales"`
	MonthlySales    PeriodMetricsDTO              `json:"monthly_sales"`
	MonthlyServices PeriodMetricsDTO              `json:"monthly_services"`
	MonthlyIncome   decimal.Decimal               `json:"monthly_income"` // ventas + servicios del mes
	TopProducts     []TopProductDTO               `json:"top_products"`
	LowStock        []ProductAvailabilityResponse `json:"low_stock"`
	DateLabel       string                        `json:"date_label"`
}
