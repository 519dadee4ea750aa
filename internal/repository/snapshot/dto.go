package snapshot

import (
	"time"

	domcol "github.com/basil-labs/basil/internal/domain/collection"
	"github.com/basil-labs/basil/internal/domain/metric"
	"github.com/basil-labs/basil/internal/domain/vector"
	"github.com/basil-labs/basil/internal/repository/memstore"
)

// formatVersion is bumped on incompatible layout changes.
const formatVersion = 1

type fileDTO struct {
	Version     int             `json:"version"`
	Revision    uint64          `json:"revision"`
	SavedAt     time.Time       `json:"saved_at"`
	Collections []collectionDTO `json:"collections"`
}

type collectionDTO struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Dimension int         `json:"dimension"`
	Metric    string      `json:"metric"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Vectors   []vectorDTO `json:"vectors"`
}

type vectorDTO struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

func toDTO(dumps []memstore.Dump, rev uint64, now time.Time) fileDTO {
	f := fileDTO{
		Version:     formatVersion,
		Revision:    rev,
		SavedAt:     now,
		Collections: make([]collectionDTO, 0, len(dumps)),
	}
	for _, d := range dumps {
		c := d.Collection
		cd := collectionDTO{
			ID:        c.ID(),
			Name:      c.Name(),
			Dimension: c.Dimension(),
			Metric:    c.Metric().String(),
			CreatedAt: c.CreatedAt(),
			UpdatedAt: c.UpdatedAt(),
			Vectors:   make([]vectorDTO, 0, len(d.Records)),
		}
		for _, r := range d.Records {
			cd.Vectors = append(cd.Vectors, vectorDTO{
				ID:       r.ID(),
				Values:   r.Values(),
				Metadata: r.Metadata(),
			})
		}
		f.Collections = append(f.Collections, cd)
	}
	return f
}

func fromDTO(f fileDTO) []memstore.Dump {
	dumps := make([]memstore.Dump, 0, len(f.Collections))
	for _, cd := range f.Collections {
		recs := make([]vector.Record, 0, len(cd.Vectors))
		for _, vd := range cd.Vectors {
			recs = append(recs, vector.Reconstruct(vd.ID, vd.Values, vector.Metadata(vd.Metadata)))
		}
		col := domcol.Reconstruct(
			cd.ID, cd.Name, cd.Dimension, metric.Metric(cd.Metric),
			len(recs), cd.CreatedAt, cd.UpdatedAt,
		)
		dumps = append(dumps, memstore.Dump{Collection: col, Records: recs})
	}
	return dumps
}
