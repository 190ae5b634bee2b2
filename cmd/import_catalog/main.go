// import_catalog carga productos en lote desde un CSV (nombre;descripcion;precio;stock)
// usando la misma configuración de almacenamiento que la API (DB_DRIVER, DATABASE_URL, SQLITE_DSN...).
//
// Uso: go run ./cmd/import_catalog -file catalogo.csv [-encoding iso-8859-1] [-delimiter ";"]
// Los nombres que ya existen se omiten: reimportar el mismo archivo no duplica productos.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/jhoicas/todolap-api/internal/application/usecase"
	"github.com/jhoicas/todolap-api/internal/domain/repository"
	"github.com/jhoicas/todolap-api/internal/infrastructure/postgres"
	"github.com/jhoicas/todolap-api/internal/infrastructure/sqlite"
	"github.com/jhoicas/todolap-api/pkg/config"
	"github.com/jhoicas/todolap-api/pkg/logger"
)

func main() {
	file := flag.String("file", "catalogo.csv", "ruta del CSV")
	encoding := flag.String("encoding", "utf-8", "utf-8 | iso-8859-1")
	delimiter := flag.String("delimiter", ";", "separador de columnas")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("import")

	sep, size := utf8.DecodeRuneInString(*delimiter)
	if size == 0 || size != len(*delimiter) {
		fmt.Fprintf(os.Stderr, "El separador debe ser un solo carácter: %q\n", *delimiter)
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := context.Background()
	products, closeStore, err := openProducts(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DB.Driver).Msg("conexión al almacenamiento")
	}
	defer closeStore()

	importer := usecase.NewCatalogImportUseCase(usecase.NewProductUseCase(products))
	res, err := importer.Import(ctx, f, usecase.ImportOptions{Encoding: *encoding, Delimiter: sep})
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("importación fallida")
	}

	for _, e := range res.Errors {
		log.Warn().Str("file", *file).Msg(e)
	}
	log.Info().
		Str("file", *file).
		Int("creados", res.Created).
		Int("omitidos", res.Skipped).
		Int("errores", len(res.Errors)).
		Msg("importación terminada")
}

func openProducts(ctx context.Context, cfg config.DBConfig) (repository.ProductRepository, func(), error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := sqlite.Open(ctx, cfg.SQLiteDSN)
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewProductRepository(db), func() { _ = db.Close() }, nil
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return postgres.NewProductRepository(pool), pool.Close, nil
}
