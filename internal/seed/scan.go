package seed

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/gyeh/healthnav/internal/model"
	"github.com/gyeh/healthnav/internal/normalize"
	"github.com/gyeh/healthnav/internal/parquetread"
)

const readBatchSize = 1024

// Dimensions holds the distinct dimension rows of a fixture, keyed by id.
// The first occurrence of an id wins.
type Dimensions struct {
	Hospitals    map[string]*model.Hospital
	Providers    map[string]*model.Provider
	Plans        map[string]*model.Plan
	ServiceCodes map[string]*model.ServiceCode

	RowsRead     int64
	RowsRejected int64
	Duration     time.Duration
}

func newDimensions() *Dimensions {
	return &Dimensions{
		Hospitals:    make(map[string]*model.Hospital),
		Providers:    make(map[string]*model.Provider),
		Plans:        make(map[string]*model.Plan),
		ServiceCodes: make(map[string]*model.ServiceCode),
	}
}

// Add records the dimension entities of one split row.
func (d *Dimensions) Add(s *normalize.Split) {
	if _, ok := d.Hospitals[s.Hospital.ID]; !ok {
		h := s.Hospital
		d.Hospitals[h.ID] = &h
	}
	if s.Provider != nil {
		if _, ok := d.Providers[s.Provider.ID]; !ok {
			p := *s.Provider
			d.Providers[p.ID] = &p
		}
	}
	if s.Plan != nil {
		if _, ok := d.Plans[s.Plan.ID]; !ok {
			p := *s.Plan
			d.Plans[p.ID] = &p
		}
	}
	if _, ok := d.ServiceCodes[s.Code.Code]; !ok {
		c := s.Code
		d.ServiceCodes[c.Code] = &c
	}
}

// Scan reads the fixture once and collects its dimensions. Rows without a
// hospital id or code are counted as rejected.
func Scan(path string, log zerolog.Logger) (*Dimensions, error) {
	start := time.Now()

	reader, err := parquetread.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scan open: %w", err)
	}
	defer reader.Close()

	d := newDimensions()
	_, err = reader.Each(readBatchSize, func(row *model.ChargeFixtureRow) error {
		d.RowsRead++
		s, err := normalize.SplitFixtureRow(row)
		if errors.Is(err, normalize.ErrMissingKey) {
			d.RowsRejected++
			log.Warn().Err(err).Int64("row", d.RowsRead).Msg("row rejected")
			return nil
		}
		if err != nil {
			return err
		}
		d.Add(s)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan read at row %d: %w", d.RowsRead, err)
	}

	d.Duration = time.Since(start)
	log.Info().
		Int64("rows_read", d.RowsRead).
		Int64("rows_rejected", d.RowsRejected).
		Int("hospitals", len(d.Hospitals)).
		Int("providers", len(d.Providers)).
		Int("plans", len(d.Plans)).
		Int("codes", len(d.ServiceCodes)).
		Str("duration", d.Duration.String()).
		Msg("scan complete")
	return d, nil
}

// sortedValues returns the map's values ordered by key.
func sortedValues[T any](m map[string]*T) []*T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*T, len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}
