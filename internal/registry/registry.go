// Package registry maps resident ids to names and regions.
package registry

import (
	"sort"
	"strings"

	"github.com/dhima/rural-vitals/internal/logging"
	"github.com/dhima/rural-vitals/internal/models"
	"go.uber.org/zap"
)

// Registry is an immutable, repaired view of the configured residents.
type Registry struct {
	residents map[string]models.Resident
	regions   []string
	known     map[string]bool
}

// New builds a registry. Bad entries are repaired rather than rejected:
// blank ids are dropped, later duplicates win, missing names get a placeholder
// and unknown regions fall back to models.RegionUnassigned.
// A nil regions list means models.DefaultRegions.
func New(residents []models.Resident, regions []string, logger logging.Logger) *Registry {
	if regions == nil {
		regions = models.DefaultRegions
	}

	r := &Registry{
		residents: make(map[string]models.Resident, len(residents)),
		known:     map[string]bool{},
	}
	for _, name := range regions {
		name = strings.TrimSpace(name)
		if name == "" || r.known[name] || name == models.RegionUnassigned {
			continue
		}
		r.known[name] = true
		r.regions = append(r.regions, name)
	}

	for _, res := range residents {
		res.ID = strings.TrimSpace(res.ID)
		if res.ID == "" {
			logger.Warn("dropping registry entry without resident_id", zap.String("name", res.Name))
			continue
		}
		if _, dup := r.residents[res.ID]; dup {
			logger.Warn("duplicate registry entry, keeping the last one", zap.String("resident_id", res.ID))
		}
		res.Name = strings.TrimSpace(res.Name)
		if res.Name == "" {
			res.Name = Placeholder(res.ID)
		}
		res.Region = strings.TrimSpace(res.Region)
		if !r.known[res.Region] {
			if res.Region != "" && res.Region != models.RegionUnassigned {
				logger.Warn("unknown region, resident moved to unassigned",
					zap.String("resident_id", res.ID),
					zap.String("region", res.Region))
			}
			res.Region = models.RegionUnassigned
		}
		r.residents[res.ID] = res
	}
	return r
}

// Placeholder is the display name synthesized for an unregistered resident.
func Placeholder(id string) string {
	return "Resident " + id
}

// Lookup returns the registered resident.
func (r *Registry) Lookup(id string) (models.Resident, bool) {
	if r == nil {
		return models.Resident{}, false
	}
	res, ok := r.residents[id]
	return res, ok
}

// Resolve returns the registered resident or a synthesized unassigned one.
func (r *Registry) Resolve(id string) models.Resident {
	if res, ok := r.Lookup(id); ok {
		return res
	}
	return models.Resident{ID: id, Name: Placeholder(id), Region: models.RegionUnassigned}
}

// All returns every registered resident sorted by id.
func (r *Registry) All() []models.Resident {
	if r == nil {
		return nil
	}
	out := make([]models.Resident, 0, len(r.residents))
	for _, res := range r.residents {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Regions returns the known region names in configured order.
func (r *Registry) Regions() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.regions))
	copy(out, r.regions)
	return out
}
