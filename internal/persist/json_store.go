package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/protobuf/types/known/timestamppb"
)

// jsonDoc is the on-disk shape for JSONStore: Snapshot with SavedAt held as
// a protobuf well-known timestamp. The gorm-backed store keeps SavedAt as a
// plain time.Time column; both load back into the same Snapshot.
type jsonDoc struct {
	Width, Height int32
	Pitch         float64
	Cells         []CellRecord
	Layers        []LayerRecord
	PendingQueue  []QueueRecord
	SavedAt       *timestamppb.Timestamp
}

// JSONStore is the dependency-free fallback StateStore: a single snapshot
// file, for operators running cmd/navcli without a postgres instance
// available — the same external contract as GormStore, satisfying the same
// interface, so the facade's caller never needs to know which backend is in
// use.
type JSONStore struct {
	path string
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Save(ctx context.Context, snap Snapshot) error {
	doc := jsonDoc{
		Width: snap.Width, Height: snap.Height, Pitch: snap.Pitch,
		Cells: snap.Cells, Layers: snap.Layers, PendingQueue: snap.PendingQueue,
		SavedAt: stampedNow(),
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("persist: creating snapshot file: %w", err)
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("persist: encoding snapshot: %w", err)
	}
	return nil
}

func (s *JSONStore) Load(ctx context.Context) (Snapshot, bool, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Snapshot{}, false, nil
		}
		return Snapshot{}, false, fmt.Errorf("persist: opening snapshot file: %w", err)
	}
	defer f.Close()

	var doc jsonDoc
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return Snapshot{}, false, fmt.Errorf("persist: decoding snapshot: %w", err)
	}

	snap := Snapshot{
		Width: doc.Width, Height: doc.Height, Pitch: doc.Pitch,
		Cells: doc.Cells, Layers: doc.Layers, PendingQueue: doc.PendingQueue,
	}
	if doc.SavedAt != nil {
		snap.SavedAt = doc.SavedAt.AsTime()
	}
	return snap, true, nil
}
