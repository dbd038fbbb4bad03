// Package persist implements the map-state persistence contract of section
// 6/11.4. A Snapshot carries the grid extent and pitch, per-cell terrain
// and obstacle stamps (id, fence, glass), layers with their destroyed flag,
// bridge state and connect cells, and the pending request queue. It does
// not carry occupancy flags, zone indices, the ignore-obstacle id or the
// wall-piece list. Load returns a Snapshot only; this package does not
// rebuild an engine from it.
//
// Grounded on the teacher's services/gormbe/db.go (gorm.Open dispatch on a
// connection-string prefix, a package-level otelslog logger) for the
// database-backed repository, generalized from a game's player/match tables
// to a single navigation-state row plus its cell/layer child tables.
package persist

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"google.golang.org/protobuf/types/known/timestamppb"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/fieldforge/navcore/internal/cellgrid"
	"github.com/fieldforge/navcore/internal/geom"
	"github.com/fieldforge/navcore/internal/layers"
)

var logger = otelslog.NewLogger("github.com/fieldforge/navcore/internal/persist")

// Snapshot is the full persisted state of one map, independent of storage
// backend: both the gorm repository and the JSON file format round-trip
// through this struct.
type Snapshot struct {
	Width, Height int32
	Pitch         float64

	Cells []CellRecord

	Layers []LayerRecord

	PendingQueue []QueueRecord

	SavedAt time.Time
}

type CellRecord struct {
	X, Y          int32
	Terrain       cellgrid.TerrainCategory
	Obstacle      cellgrid.ObstacleID
	ObstacleFence bool
	ObstacleGlass bool
}

type LayerRecord struct {
	ID            layers.ID
	Kind          layers.Kind
	Width, Height int32
	SurfaceZ      float64
	Destroyed     bool
	BridgeState   layers.BridgeState
	GroundConnect []geom.Coord
	LayerConnect  []geom.Coord
}

type QueueRecord struct {
	Unit   uint32
	FromX  int32
	FromY  int32
	ToX    int32
	ToY    int32
	Kind   uint8
	Ticket uint64
}

// StateStore is the persistence boundary: anything that can save and load a
// Snapshot, whether backed by postgres or a plain file.
type StateStore interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, bool, error)
}

// gorm row models, kept private to this file: the package's public surface
// is Snapshot, not the storage schema.
type gridRow struct {
	ID            uint `gorm:"primaryKey"`
	Width, Height int32
	Pitch         float64
	SavedAt       time.Time
}

type cellRow struct {
	GridID        uint `gorm:"index"`
	X, Y          int32
	Terrain       uint8
	Obstacle      uint32
	ObstacleFence bool
	ObstacleGlass bool
}

type layerRow struct {
	GridID        uint `gorm:"index"`
	LayerID       int32
	Kind          uint8
	Width, Height int32
	SurfaceZ      float64
	Destroyed     bool
	BridgeState   uint8
	ConnectJSON   string // small connect-cell table, serialized rather than normalized into its own table
}

type queueRow struct {
	GridID uint `gorm:"index"`
	Unit   uint32
	FromX  int32
	FromY  int32
	ToX    int32
	ToY    int32
	Kind   uint8
	Ticket uint64
}

// GormStore persists snapshots to a postgres database via gorm, per 11.4.
type GormStore struct {
	db *gorm.DB
}

// OpenGormStore opens a postgres connection and migrates the schema,
// mirroring the teacher's OpenDB dispatch on a "postgres://" prefixed DSN.
func OpenGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("persist: opening postgres: %w", err)
	}
	if err := db.AutoMigrate(&gridRow{}, &cellRow{}, &layerRow{}, &queueRow{}); err != nil {
		return nil, fmt.Errorf("persist: migrating schema: %w", err)
	}
	logger.Info("gorm store ready", "dsn_scheme", "postgres")
	return &GormStore{db: db}, nil
}

// Save writes snap as a fresh grid row plus its child rows, replacing any
// previously saved snapshot (this package persists exactly one live map per
// database, matching the singleton-engine ownership model).
func (s *GormStore) Save(ctx context.Context, snap Snapshot) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM grid_rows").Error; err != nil {
			return err
		}
		row := gridRow{Width: snap.Width, Height: snap.Height, Pitch: snap.Pitch, SavedAt: snap.SavedAt}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		cells := make([]cellRow, 0, len(snap.Cells))
		for _, c := range snap.Cells {
			cells = append(cells, cellRow{
				GridID: row.ID, X: c.X, Y: c.Y, Terrain: uint8(c.Terrain),
				Obstacle: uint32(c.Obstacle), ObstacleFence: c.ObstacleFence, ObstacleGlass: c.ObstacleGlass,
			})
		}
		if len(cells) > 0 {
			if err := tx.CreateInBatches(cells, 500).Error; err != nil {
				return err
			}
		}
		for _, l := range snap.Layers {
			lr := layerRow{
				GridID: row.ID, LayerID: int32(l.ID), Kind: uint8(l.Kind),
				Width: l.Width, Height: l.Height, SurfaceZ: l.SurfaceZ,
				Destroyed: l.Destroyed, BridgeState: uint8(l.BridgeState),
				ConnectJSON: encodeConnect(l.GroundConnect, l.LayerConnect),
			}
			if err := tx.Create(&lr).Error; err != nil {
				return err
			}
		}
		for _, q := range snap.PendingQueue {
			qr := queueRow{
				GridID: row.ID, Unit: q.Unit, FromX: q.FromX, FromY: q.FromY,
				ToX: q.ToX, ToY: q.ToY, Kind: q.Kind, Ticket: q.Ticket,
			}
			if err := tx.Create(&qr).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Load reads the most recently saved snapshot, or (false, nil) if none
// exists yet.
func (s *GormStore) Load(ctx context.Context) (Snapshot, bool, error) {
	var row gridRow
	err := s.db.WithContext(ctx).Order("saved_at desc").First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("persist: loading grid row: %w", err)
	}

	var cellRows []cellRow
	if err := s.db.WithContext(ctx).Where("grid_id = ?", row.ID).Find(&cellRows).Error; err != nil {
		return Snapshot{}, false, fmt.Errorf("persist: loading cells: %w", err)
	}
	var layerRows []layerRow
	if err := s.db.WithContext(ctx).Where("grid_id = ?", row.ID).Find(&layerRows).Error; err != nil {
		return Snapshot{}, false, fmt.Errorf("persist: loading layers: %w", err)
	}
	var queueRows []queueRow
	if err := s.db.WithContext(ctx).Where("grid_id = ?", row.ID).Find(&queueRows).Error; err != nil {
		return Snapshot{}, false, fmt.Errorf("persist: loading queue: %w", err)
	}

	snap := Snapshot{Width: row.Width, Height: row.Height, Pitch: row.Pitch, SavedAt: row.SavedAt}
	for _, c := range cellRows {
		snap.Cells = append(snap.Cells, CellRecord{
			X: c.X, Y: c.Y, Terrain: cellgrid.TerrainCategory(c.Terrain),
			Obstacle: cellgrid.ObstacleID(c.Obstacle), ObstacleFence: c.ObstacleFence, ObstacleGlass: c.ObstacleGlass,
		})
	}
	for _, l := range layerRows {
		gc, lc := decodeConnect(l.ConnectJSON)
		snap.Layers = append(snap.Layers, LayerRecord{
			ID: layers.ID(l.LayerID), Kind: layers.Kind(l.Kind), Width: l.Width, Height: l.Height,
			SurfaceZ: l.SurfaceZ, Destroyed: l.Destroyed, BridgeState: layers.BridgeState(l.BridgeState),
			GroundConnect: gc, LayerConnect: lc,
		})
	}
	for _, q := range queueRows {
		snap.PendingQueue = append(snap.PendingQueue, QueueRecord{
			Unit: q.Unit, FromX: q.FromX, FromY: q.FromY, ToX: q.ToX, ToY: q.ToY, Kind: q.Kind, Ticket: q.Ticket,
		})
	}
	return snap, true, nil
}

// encodeConnect/decodeConnect pack the small connect-cell correspondence
// table as a compact textual form; a handful of coordinate pairs per layer
// does not warrant a normalized child table.
func encodeConnect(ground, layer []geom.Coord) string {
	s := ""
	for i := range ground {
		if i > 0 {
			s += ";"
		}
		s += fmt.Sprintf("%d,%d:%d,%d", ground[i].X, ground[i].Y, layer[i].X, layer[i].Y)
	}
	return s
}

func decodeConnect(s string) (ground, layer []geom.Coord) {
	if s == "" {
		return nil, nil
	}
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ';' {
			pair := s[start:i]
			var gx, gy, lx, ly int32
			fmt.Sscanf(pair, "%d,%d:%d,%d", &gx, &gy, &lx, &ly)
			ground = append(ground, geom.Coord{X: gx, Y: gy})
			layer = append(layer, geom.Coord{X: lx, Y: ly})
			start = i + 1
		}
	}
	return ground, layer
}

// stampedNow wraps time.Now into a protobuf timestamp, the one place this
// package touches wall-clock time for a persisted record rather than an
// in-memory computation — used by JSONStore.Save to stamp SavedAt.
// GormStore.Save stores the caller's snap.SavedAt as given.
func stampedNow() *timestamppb.Timestamp {
	return timestamppb.New(time.Now())
}
