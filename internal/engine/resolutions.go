package engine

import (
	"context"
	"math"
	"strings"
)

const (
	DefaultResolutionTarget = 100
	DefaultResolutionUnit   = "%"
	DefaultPageSize         = 5
)

type Resolution struct {
	ID       string             `json:"id"`
	Title    string             `json:"title"`
	Category ResolutionCategory `json:"category"`
	Target   float64            `json:"target"`
	Current  float64            `json:"current"`
	Unit     string             `json:"unit"`
}

func (r Resolution) IsCompleted() bool { return r.Current >= r.Target }

// Progress is current/target capped at 1.
func (r Resolution) Progress() float64 {
	if r.Target <= 0 {
		return 0
	}
	return math.Min(r.Current/r.Target, 1)
}

type AddResolutionInput struct {
	Title    string
	Category ResolutionCategory `validate:"omitempty,oneof=Personal Coding Finance Health Career"`
	// Target defaults to 100 when zero.
	Target float64 `validate:"gte=0"`
	Unit   string  `validate:"max=24"`
}

type ResolutionStats struct {
	Total           int
	Sealed          int
	OverallProgress int
}

type Page struct {
	Items      []Resolution
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Resolutions owns the Vault goal list. Reach it through Service.Resolutions.
type Resolutions struct {
	svc   *Service
	items []Resolution
}

func (r *Resolutions) All() []Resolution {
	out := make([]Resolution, len(r.items))
	copy(out, r.items)
	return out
}

// Add appends a new goal with Current = 0. An empty title is a silent no-op.
func (r *Resolutions) Add(ctx context.Context, in AddResolutionInput) (*Resolution, error) {
	title, ok := normalizeTitle(in.Title)
	if !ok {
		return nil, nil
	}
	if err := checkInput(in); err != nil {
		return nil, err
	}
	res := Resolution{
		ID:       r.svc.newID(),
		Title:    title,
		Category: in.Category,
		Target:   in.Target,
		Unit:     strings.TrimSpace(in.Unit),
	}
	if res.Category == "" {
		res.Category = DefaultResolutionCategory
	}
	if res.Target == 0 {
		res.Target = DefaultResolutionTarget
	}
	if res.Unit == "" {
		res.Unit = DefaultResolutionUnit
	}

	r.items = append(r.items, res)
	return &res, r.save(ctx)
}

func (r *Resolutions) Delete(ctx context.Context, id string) (bool, error) {
	i := r.index(id)
	if i < 0 {
		return false, nil
	}
	r.items = append(r.items[:i:i], r.items[i+1:]...)
	return true, r.save(ctx)
}

// MarkComplete sets Current = Target. Calling it again changes nothing.
func (r *Resolutions) MarkComplete(ctx context.Context, id string) (*Resolution, error) {
	i := r.index(id)
	if i < 0 {
		return nil, ErrResolutionNotFound
	}
	if r.items[i].Current == r.items[i].Target {
		res := r.items[i]
		return &res, nil
	}
	r.items[i].Current = r.items[i].Target
	res := r.items[i]
	return &res, r.save(ctx)
}

// Increment adds one unit of progress, clamped to [0, Target].
func (r *Resolutions) Increment(ctx context.Context, id string) (*Resolution, error) {
	i := r.index(id)
	if i < 0 {
		return nil, ErrResolutionNotFound
	}
	next := clamp(r.items[i].Current+1, 0, r.items[i].Target)
	if next == r.items[i].Current {
		res := r.items[i]
		return &res, nil
	}
	r.items[i].Current = next
	res := r.items[i]
	return &res, r.save(ctx)
}

func (r *Resolutions) Find(prefix string) (*Resolution, error) {
	i, err := matchID(r.items, func(x Resolution) string { return x.ID }, prefix, ErrResolutionNotFound)
	if err != nil {
		return nil, err
	}
	res := r.items[i]
	return &res, nil
}

func (r *Resolutions) Paginate(search string, pageSize int, page int) Page {
	return PaginateResolutions(r.items, search, pageSize, page)
}

func (r *Resolutions) Stats() ResolutionStats {
	return SummarizeResolutions(r.items)
}

func (r *Resolutions) index(id string) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Resolutions) save(ctx context.Context) error {
	return r.svc.persist(ctx, KeyResolutions, r.items)
}

// PaginateResolutions filters list by a case-insensitive title match and
// returns the 1-based page. Pages past the end are empty.
func PaginateResolutions(list []Resolution, search string, pageSize int, page int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if page < 1 {
		page = 1
	}

	q := strings.ToLower(strings.TrimSpace(search))
	filtered := make([]Resolution, 0, len(list))
	for _, res := range list {
		if q == "" || strings.Contains(strings.ToLower(res.Title), q) {
			filtered = append(filtered, res)
		}
	}

	p := Page{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: len(filtered),
		TotalPages: (len(filtered) + pageSize - 1) / pageSize,
	}
	start := (page - 1) * pageSize
	if start >= len(filtered) {
		p.Items = []Resolution{}
		return p
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	p.Items = filtered[start:end]
	return p
}

// SummarizeResolutions computes the Vault header numbers. OverallProgress is
// the rounded mean of capped progress, 0 for an empty list.
func SummarizeResolutions(list []Resolution) ResolutionStats {
	st := ResolutionStats{Total: len(list)}
	if len(list) == 0 {
		return st
	}
	sum := 0.0
	for _, res := range list {
		sum += res.Progress()
		if res.IsCompleted() {
			st.Sealed++
		}
	}
	st.OverallProgress = int(math.Round(sum / float64(len(list)) * 100))
	return st
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// normalizeResolutions maps categories from older documents onto the
// canonical set and repairs impossible numbers.
func normalizeResolutions(in []Resolution) []Resolution {
	out := make([]Resolution, 0, len(in))
	for _, res := range in {
		if res.ID == "" {
			continue
		}
		if !res.Category.IsValid() {
			res.Category = DefaultResolutionCategory
		}
		if res.Target <= 0 {
			res.Target = DefaultResolutionTarget
		}
		if res.Current < 0 {
			res.Current = 0
		}
		if res.Unit == "" {
			res.Unit = DefaultResolutionUnit
		}
		out = append(out, res)
	}
	return out
}
