// import_materials carga el catálogo de materiales de una empresa desde un CSV
// exportado del sistema anterior (separador ';', codificación ISO-8859-1).
//
// Uso: go run ./cmd/import_materials <company_id> [ruta/materiales.csv]
// Columnas: codigo;nombre;descripcion;unidad;exento (S/N).
// Los códigos que ya existen en la empresa se omiten.
package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Compras-api/internal/application/dto"
	"github.com/jhoicas/Compras-api/internal/application/usecase"
	"github.com/jhoicas/Compras-api/internal/domain"
	"github.com/jhoicas/Compras-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Compras-api/pkg/config"
	"github.com/jhoicas/Compras-api/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: import_materials <company_id> [materiales.csv]")
		os.Exit(2)
	}
	companyID := os.Args[1]
	csvPath := "materiales.csv"
	if len(os.Args) > 2 {
		csvPath = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "import_materials"})

	f, err := os.Open(csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", csvPath).Msg("abrir CSV")
	}
	defer f.Close()

	rows, err := parseMaterials(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer CSV")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	uc := usecase.NewMaterialUseCase(postgres.NewMaterialRepository(pool), postgres.NewPriceHistoryRepository(pool))

	var created, skipped int
	for i, in := range rows {
		_, err := uc.Create(ctx, companyID, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			log.Error().Err(err).Int("line", i+2).Str("code", in.Code).Msg("material no importado")
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Int("total", len(rows)).Msg("importación terminada")
}

// parseMaterials lee el CSV (con cabecera) y devuelve una solicitud por fila.
// Las filas sin código o sin nombre se descartan.
func parseMaterials(r io.Reader) ([]dto.CreateMaterialRequest, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("cabecera: %w", err)
	}

	var out []dto.CreateMaterialRequest
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		in := dto.CreateMaterialRequest{
			Code: field(rec, 0),
			Name: field(rec, 1),
		}
		if in.Code == "" || in.Name == "" {
			continue
		}
		in.Description = field(rec, 2)
		in.Unit = strings.ToUpper(field(rec, 3))
		switch strings.ToUpper(field(rec, 4)) {
		case "S", "SI", "SÍ", "1", "X":
			in.IsExempt = true
		}
		out = append(out, in)
	}
	return out, nil
}

func field(rec []string, i int) string {
	if i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
