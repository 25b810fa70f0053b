// seed importa el catálogo inicial de un comercio desde un CSV.
//
// Uso: go run ./cmd/seed --commerce <uuid> [--encoding latin1] [--dry-run] catalogo.csv
//
// Encabezados: nombre, precio_venta y opcionalmente sku, categoria, costo, stock,
// alerta_stock, descripcion. Las categorías que no existan se crean.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/abastoflow/abastoflow/internal/application/dto"
	"github.com/abastoflow/abastoflow/internal/application/usecase"
	"github.com/abastoflow/abastoflow/internal/domain"
	"github.com/abastoflow/abastoflow/internal/infrastructure/postgres"
	"github.com/abastoflow/abastoflow/pkg/config"
	"github.com/abastoflow/abastoflow/pkg/logger"
)

func main() {
	commerceID := pflag.String("commerce", "", "UUID del comercio dueño del catálogo")
	encoding := pflag.String("encoding", "utf-8", "codificación del archivo: utf-8, latin1, windows-1252")
	delimiter := pflag.String("delimiter", ",", "separador de columnas")
	dryRun := pflag.Bool("dry-run", false, "solo valida el archivo, no escribe en la base")
	pflag.Parse()

	if pflag.NArg() != 1 || (*commerceID == "" && !*dryRun) {
		fmt.Fprintln(os.Stderr, "uso: seed --commerce <uuid> [--encoding latin1] [--dry-run] catalogo.csv")
		pflag.PrintDefaults()
		os.Exit(2)
	}
	if *commerceID != "" && !domain.ValidID(*commerceID) {
		fmt.Fprintln(os.Stderr, "--commerce debe ser un UUID")
		os.Exit(2)
	}
	comma := []rune(*delimiter)
	if len(comma) != 1 {
		fmt.Fprintln(os.Stderr, "el separador debe ser un solo carácter")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info", Service: "seed"})

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir CSV")
	}
	defer f.Close()

	in, err := decodeInput(f, *encoding)
	if err != nil {
		log.Fatal().Err(err).Msg("codificación")
	}
	rows, bad, err := parseCatalog(in, comma[0])
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}
	for _, e := range bad {
		log.Warn().Int("linea", e.Line).Err(e.Err).Msg("fila descartada")
	}
	log.Info().Int("validas", len(rows)).Int("descartadas", len(bad)).Msg("catálogo leído")
	if *dryRun {
		return
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conectar a la base")
	}
	defer pool.Close()

	imp := importer{
		products:   usecase.NewProductUseCase(postgres.NewProductRepository(pool)),
		categories: usecase.NewCategoryUseCase(postgres.NewCategoryRepository(pool)),
		log:        log.Zerolog(),
	}
	created, err := imp.run(ctx, *commerceID, rows)
	if err != nil {
		log.Fatal().Err(err).Int("creados", created).Msg("importación interrumpida")
	}
	log.Info().Int("creados", created).Msg("importación terminada")
}

type importer struct {
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	log        zerolog.Logger
}

// run crea las categorías faltantes y luego los productos. Un producto rechazado por
// validación se registra y se omite; un error de base detiene la importación.
func (imp importer) run(ctx context.Context, commerceID string, rows []catalogRow) (int, error) {
	existing, err := imp.categories.List(ctx, commerceID)
	if err != nil {
		return 0, fmt.Errorf("listar categorías: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	created := 0
	for _, row := range rows {
		p := row.Product
		if row.Category != "" {
			id, ok := byName[strings.ToLower(row.Category)]
			if !ok {
				c, err := imp.categories.Create(ctx, commerceID, dto.CreateCategoryRequest{Name: row.Category})
				if err != nil {
					return created, fmt.Errorf("línea %d: crear categoría %q: %w", row.Line, row.Category, err)
				}
				id = c.ID
				byName[strings.ToLower(row.Category)] = id
				imp.log.Info().Str("categoria", row.Category).Msg("categoría creada")
			}
			p.CategoryID = &id
		}
		if _, err := imp.products.Create(ctx, commerceID, p); err != nil {
			if isValidation(err) {
				imp.log.Warn().Int("linea", row.Line).Str("producto", p.Name).Err(err).Msg("producto rechazado")
				continue
			}
			return created, fmt.Errorf("línea %d: %w", row.Line, err)
		}
		created++
	}
	return created, nil
}

// isValidation errores que solo descartan la fila. Un SKU repetido también se omite,
// así el mismo archivo puede volver a importarse.
func isValidation(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) || errors.Is(err, domain.ErrDuplicate)
}
