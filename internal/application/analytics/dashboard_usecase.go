// Package analytics contiene el resumen del dashboard de la tienda.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/todolap-api/internal/application/dto"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
)

const (
	dashboardTopProducts = 5  // productos en el widget de más vendidos
	lowStockThreshold    = 3  // stock igual o menor se considera por reponer
	lowStockLimit        = 10 // máximo de productos por reponer en el resumen
)

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only).
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, now: time.Now}
}

// WithClock fija el reloj usado para calcular "hoy" y "mes en curso".
func (uc *DashboardUseCase) WithClock(now func() time.Time) *DashboardUseCase {
	uc.now = now
	return uc
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cinco llamadas en paralelo:
//  1. GetSalesMetrics(hoy)
//  2. GetSalesMetrics(mes)
//  3. GetServiceMetrics(mes)
//  4. GetTopProducts(mes, top 5)
//  5. GetLowStock(umbral)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := uc.now()

	// ── Rangos de fecha [inicio, fin) ──────────────────────────────────────────
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := todayStart.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// ── Goroutines para paralelizar las consultas ──────────────────────────────
	type metricsResult struct {
		m   repository.PeriodMetrics
		err error
	}
	type topResult struct {
		items []repository.TopProductResult
		err   error
	}
	type stockResult struct {
		items []*entity.Product
		err   error
	}

	todayCh := make(chan metricsResult, 1)
	monthCh := make(chan metricsResult, 1)
	servicesCh := make(chan metricsResult, 1)
	topCh := make(chan topResult, 1)
	stockCh := make(chan stockResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, todayStart, tomorrow)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, monthStart, tomorrow)
		monthCh <- metricsResult{m, err}
	}()
	go func() {
		m, err := uc.analyticsRepo.GetServiceMetrics(ctx, monthStart, tomorrow)
		servicesCh <- metricsResult{m, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.GetTopProducts(ctx, monthStart, tomorrow, dashboardTopProducts)
		topCh <- topResult{items, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.GetLowStock(ctx, lowStockThreshold, lowStockLimit)
		stockCh <- stockResult{items, err}
	}()

	today := <-todayCh
	month := <-monthCh
	services := <-servicesCh
	top := <-topCh
	stock := <-stockCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: ventas del mes: %w", month.err)
	}
	if services.err != nil {
		return nil, fmt.Errorf("dashboard: servicios del mes: %w", services.err)
	}
	if top.err != nil {
		return nil, fmt.Errorf("dashboard: más vendidos: %w", top.err)
	}
	if stock.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", stock.err)
	}

	// ── Construir DTO ──────────────────────────────────────────────────────────
	out := &dto.DashboardSummaryDTO{
		TodaySales:      metricsDTO(today.m),
		MonthlySales:    metricsDTO(month.m),
		MonthlyServices: metricsDTO(services.m),
		MonthlyIncome:   month.m.Revenue.Add(services.m.Revenue).Round(2),
		TopProducts:     make([]dto.TopProductDTO, 0, len(top.items)),
		LowStock:        make([]dto.ProductAvailabilityResponse, 0, len(stock.items)),
		DateLabel:       monthLabel(now),
	}
	for _, t := range top.items {
		out.TopProducts = append(out.TopProducts, dto.TopProductDTO{
			ProductID:    t.ProductID,
			ProductName:  t.ProductName,
			QuantitySold: t.QuantitySold,
			Revenue:      t.Revenue.Round(2),
		})
	}
	for _, p := range stock.items {
		out.LowStock = append(out.LowStock, dto.ProductAvailabilityResponse{ID: p.ID, Name: p.Name, Price: p.Price, Stock: p.Stock})
	}
	return out, nil
}

func metricsDTO(m repository.PeriodMetrics) dto.PeriodMetricsDTO {
	return dto.PeriodMetricsDTO{Revenue: m.Revenue.Round(2), Count: m.Count}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
