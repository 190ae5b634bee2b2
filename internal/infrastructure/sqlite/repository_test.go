package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/todolap-api/internal/domain"
	"github.com/jhoicas/todolap-api/internal/domain/entity"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
	"github.com/jhoicas/todolap-api/internal/infrastructure/sqlite"
)

func openDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedProduct(t *testing.T, repo *sqlite.ProductRepo, name, price string, stock int) *entity.Product {
	t.Helper()
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		Name:      name,
		Price:     decimal.RequireFromString(price),
		Stock:     stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func seedUser(t *testing.T, repo *sqlite.UserRepo, username string) *entity.User {
	t.Helper()
	now := time.Now()
	u := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		FirstName:    "Ana",
		LastName:     "Pérez",
		PasswordHash: "hash",
		Role:         entity.RoleTecnico,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedService(t *testing.T, repo *sqlite.ServiceRepo, name, cost string, technicianID *string) *entity.Service {
	t.Helper()
	now := time.Now()
	s := &entity.Service{
		ID:           uuid.New().String(),
		Name:         name,
		Cost:         decimal.RequireFromString(cost),
		TechnicianID: technicianID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, repo.Create(context.Background(), s))
	return s
}

func TestProductRepo_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewProductRepository(openDB(t))
	p := seedProduct(t, repo, "Mouse Óptico", "45000.50", 3)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Mouse Óptico", got.Name)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("45000.50")))
	assert.Equal(t, 3, got.Stock)

	byName, err := repo.GetByName(ctx, "Mouse Óptico")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, p.ID, byName.ID)

	p.Name = "Mouse Inalámbrico"
	p.Price = decimal.RequireFromString("52000")
	p.Stock = 99 // Update no toca el stock
	p.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, p))

	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mouse Inalámbrico", got.Name)
	assert.Equal(t, 3, got.Stock)

	require.NoError(t, repo.Delete(ctx, p.ID))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), domain.ErrProductNotFound)
}

func TestProductRepo_DecrementStock_NoBajaDeCero(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewProductRepository(openDB(t))
	p := seedProduct(t, repo, "Teclado", "80000", 2)

	ok, err := repo.DecrementStock(ctx, p.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, p.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DecrementStock(ctx, p.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Stock)

	require.NoError(t, repo.IncrementStock(ctx, p.ID, 5))
	got, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)

	assert.ErrorIs(t, repo.IncrementStock(ctx, uuid.New().String(), 1), domain.ErrProductNotFound)
}

func TestProductRepo_List_Filtros(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewProductRepository(openDB(t))
	seedProduct(t, repo, "Cargador Dell", "90000", 0)
	seedProduct(t, repo, "Cargador HP", "85000", 4)
	seedProduct(t, repo, "Memoria RAM 8GB", "120000", 1)
	seedProduct(t, repo, "Cable 100%", "5000", 1)

	list, err := repo.List(ctx, repository.ProductFilter{Query: "CARGADOR"})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Cargador Dell", list[0].Name)

	list, err = repo.List(ctx, repository.ProductFilter{Query: "cargador", InStockOnly: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cargador HP", list[0].Name)

	list, err = repo.List(ctx, repository.ProductFilter{Query: "%"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Cable 100%", list[0].Name)

	list, err = repo.List(ctx, repository.ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSaleRepo_VentaConLineasYRango(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := sqlite.NewProductRepository(db)
	users := sqlite.NewUserRepository(db)
	sales := sqlite.NewSaleRepository(db)

	p := seedProduct(t, products, "SSD 480GB", "150000", 10)
	u := seedUser(t, users, "ana")

	old := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)
	for _, at := range []time.Time{old, recent} {
		s := &entity.Sale{
			ID:            uuid.New().String(),
			OperatorID:    &u.ID,
			PaymentMethod: entity.PaymentCash,
			Total:         decimal.RequireFromString("300000"),
			CreatedAt:     at,
		}
		require.NoError(t, sales.Create(ctx, s))
		line := &entity.SaleLine{
			ID: uuid.New().String(), SaleID: s.ID, Position: 0, ProductID: p.ID, ProductName: p.Name,
			Quantity: 2, UnitPrice: p.Price,
		}
		require.NoError(t, sales.CreateLine(ctx, line))
		assert.True(t, line.Subtotal.Equal(decimal.RequireFromString("300000")))
	}

	all, err := sales.List(ctx, repository.SaleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.True(t, all[0].CreatedAt.Equal(recent), "más reciente primero")
	assert.Equal(t, "Ana Pérez", all[0].OperatorName)

	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	ranged, err := sales.List(ctx, repository.SaleFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, ranged, 1)

	to := from
	ranged, err = sales.List(ctx, repository.SaleFilter{To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.True(t, ranged[0].CreatedAt.Equal(old))

	lines, err := sales.GetLines(ctx, ranged[0].ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "SSD 480GB", lines[0].ProductName)

	// El producto con ventas no se puede borrar.
	assert.ErrorIs(t, products.Delete(ctx, p.ID), domain.ErrProductInUse)

	// La venta sobrevive a la eliminación del operador.
	require.NoError(t, users.Delete(ctx, u.ID))
	got, err := sales.GetByID(ctx, ranged[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.OperatorID)

	missing, err := sales.GetByID(ctx, uuid.New().String())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuoteRepo_MarkPaidSoloUnaVez(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	services := sqlite.NewServiceRepository(db)
	quotes := sqlite.NewQuoteRepository(db)

	svc := seedService(t, services, "Cambio de pantalla", "100000", nil)
	q := &entity.ServiceQuote{
		ID:            uuid.New().String(),
		ServiceID:     svc.ID,
		ClientName:    "Juan",
		ServicePrice:  svc.Cost,
		ProductsPrice: decimal.RequireFromString("50000"),
		Status:        entity.QuoteStatusQuoted,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, quotes.Create(ctx, q))
	assert.True(t, q.Total.Equal(decimal.RequireFromString("150000")))

	paidAt := time.Now()
	ok, err := quotes.MarkPaid(ctx, q.ID, paidAt)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = quotes.MarkPaid(ctx, q.ID, paidAt.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := quotes.GetByID(ctx, q.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.IsPaid())
	require.NotNil(t, got.PaidAt)
	assert.True(t, got.PaidAt.Equal(paidAt.UTC()))
	assert.Equal(t, "Cambio de pantalla", got.ServiceName)

	ok, err = quotes.MarkPaid(ctx, uuid.New().String(), paidAt)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, services.Delete(ctx, svc.ID), domain.ErrServiceInUse)
}

func TestQuoteRepo_ListPorEstadoYBusqueda(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	services := sqlite.NewServiceRepository(db)
	quotes := sqlite.NewQuoteRepository(db)

	screen := seedService(t, services, "Cambio de pantalla", "100000", nil)
	clean := seedService(t, services, "Limpieza interna", "40000", nil)

	mk := func(svc *entity.Service, client string) *entity.ServiceQuote {
		q := &entity.ServiceQuote{
			ID: uuid.New().String(), ServiceID: svc.ID, ClientName: client, ServicePrice: svc.Cost,
			Status: entity.QuoteStatusQuoted, CreatedAt: time.Now(),
		}
		require.NoError(t, quotes.Create(ctx, q))
		return q
	}
	mk(screen, "María")
	mk(clean, "Pedro")
	paid := mk(clean, "Lucía")
	_, err := quotes.MarkPaid(ctx, paid.ID, time.Now())
	require.NoError(t, err)

	pending, err := quotes.List(ctx, repository.QuoteFilter{Status: entity.QuoteStatusQuoted})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	done, err := quotes.List(ctx, repository.QuoteFilter{Status: entity.QuoteStatusPaid})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "Lucía", done[0].ClientName)

	byService, err := quotes.List(ctx, repository.QuoteFilter{Status: entity.QuoteStatusQuoted, Query: "limpieza"})
	require.NoError(t, err)
	require.Len(t, byService, 1)
	assert.Equal(t, "Pedro", byService[0].ClientName)

	byClient, err := quotes.List(ctx, repository.QuoteFilter{Query: "marí"})
	require.NoError(t, err)
	require.Len(t, byClient, 1)
}

func TestServiceRepo_TecnicoInexistenteYBorrado(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	users := sqlite.NewUserRepository(db)
	services := sqlite.NewServiceRepository(db)

	ghost := uuid.New().String()
	now := time.Now()
	err := services.Create(ctx, &entity.Service{
		ID: uuid.New().String(), Name: "Formateo", Cost: decimal.NewFromInt(60000),
		TechnicianID: &ghost, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	tech := seedUser(t, users, "tecnico1")
	svc := seedService(t, services, "Formateo", "60000", &tech.ID)

	require.NoError(t, users.Delete(ctx, tech.ID))
	got, err := services.GetByID(ctx, svc.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.TechnicianID)
}

func TestUserRepo_UsernameUnico(t *testing.T) {
	ctx := context.Background()
	users := sqlite.NewUserRepository(openDB(t))
	seedUser(t, users, "carlos")

	now := time.Now()
	err := users.Create(ctx, &entity.User{
		ID: uuid.New().String(), Username: "carlos", PasswordHash: "x", Role: entity.RoleAdmin,
		Active: true, CreatedAt: now, UpdatedAt: now,
	})
	assert.ErrorIs(t, err, domain.ErrUsernameExists)

	got, err := users.GetByUsername(ctx, "carlos")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ana Pérez", got.DisplayName())

	none, err := users.GetByUsername(ctx, "nadie")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestProductRepo_ErroresDeRestriccionPorCodigo(t *testing.T) {
	ctx := context.Background()
	products := sqlite.NewProductRepository(openDB(t))
	p := seedProduct(t, products, "Mouse", "20000", 3)

	// Clave primaria repetida: duplicado.
	dup := *p
	dup.Name = "Otro"
	assert.ErrorIs(t, products.Create(ctx, &dup), domain.ErrDuplicate)

	// CHECK (stock >= 0): no es duplicado ni conflicto de llave foránea.
	bad := *p
	bad.ID, bad.Name, bad.Stock = uuid.New().String(), "Negativo", -1
	err := products.Create(ctx, &bad)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assert.NotErrorIs(t, err, domain.ErrDuplicate)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	products := sqlite.NewProductRepository(db)
	p := seedProduct(t, products, "Batería", "200000", 5)

	runner := sqlite.NewTxRunner(db)
	err := runner.RunStock(ctx, func(repo repository.ProductRepository) error {
		if err := repo.IncrementStock(ctx, p.ID, 10); err != nil {
			return err
		}
		return domain.ErrInvalidQuantity
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	got, err := products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Stock)
}
