package infra

import (
	"fmt"

	"github.com/rsg28/TuSalud-Backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (sequences, partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		// Unique violations surface as gorm.ErrDuplicatedKey so the
		// services can distinguish them from other persistence failures.
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	// gen_random_uuid() defaults on the id columns require pgcrypto on
	// PostgreSQL < 13.
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return nil, fmt.Errorf("pgcrypto: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Empresa{},
		&model.UsuarioEmpresa{},
		&model.Sede{},
		&model.Examen{},
		&model.ExamenPrecio{},
		&model.Pedido{},
		&model.PedidoExamen{},
		&model.PedidoPaciente{},
		&model.PacienteExamenAsignado{},
		&model.PacienteExamenCompletado{},
		&model.HistorialPedido{},
		&model.Cotizacion{},
		&model.CotizacionItem{},
		&model.Factura{},
		&model.FacturaCotizacion{},
		&model.FacturaDetalle{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	if err := applySchemaPatches(db); err != nil {
		return nil, fmt.Errorf("schema patches: %w", err)
	}

	return db, nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// express.  Each statement uses IF NOT EXISTS semantics so re-running on an
// already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Document numbering: one sequence per document type.  Numbers are
		// allocated inside the creation transaction via nextval(), so two
		// concurrent creations can never collide.
		`CREATE SEQUENCE IF NOT EXISTS pedidos_numero_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS cotizaciones_numero_seq START 1`,
		`CREATE SEQUENCE IF NOT EXISTS facturas_numero_seq START 1`,
		// Price lookups always filter by exam and scope by sede (or its
		// absence, for the general fallback price).
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_examen_precio_examen_sede') THEN
		    CREATE INDEX idx_examen_precio_examen_sede ON examen_precio (examen_id, sede_id);
		  END IF;
		END $$`,
		// The quotation listing joins pedidos on every request.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cotizaciones_pedido') THEN
		    CREATE INDEX idx_cotizaciones_pedido ON cotizaciones (pedido_id);
		  END IF;
		END $$`,
		// Order timelines are always read newest-first for a single order.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_historial_pedido_pedido') THEN
		    CREATE INDEX idx_historial_pedido_pedido ON historial_pedido (pedido_id, created_at DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

// RunMigrations applies the full schema for integration tests.
func RunMigrations(db *gorm.DB) error {
	return applySchemaPatches(db)
}
