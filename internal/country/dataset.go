package country

import (
	"golang.org/x/exp/slices"
)

// Pagination describes one page of a list result. TotalItems counts the
// records that matched the predicate, not the whole dataset.
type Pagination struct {
	Page         uint32 `json:"page"`
	ItemsPerPage uint32 `json:"items_per_page"`
	TotalItems   uint32 `json:"total_items"`
}

// Page is the result of Dataset.List.
type Page struct {
	Data       []Record   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Dataset holds the loaded countries in two views: the ordered sequence used
// for listing and an id index used for lookup. It is built once and never
// modified, so it is safe for concurrent use without locking.
type Dataset struct {
	items      []entry
	byID       map[uint8]int
	duplicates []uint8
}

type entry struct {
	rec  Record
	keys keys
}

// NewDataset builds a Dataset from records in source order.
//
// A repeated id keeps every entry in the ordered view while the index points
// at the last one seen. Duplicates reports which ids were affected.
func NewDataset(records []Record) *Dataset {
	d := &Dataset{
		items: make([]entry, 0, len(records)),
		byID:  make(map[uint8]int, len(records)),
	}
	for i, r := range records {
		r = r.clone()
		if _, seen := d.byID[r.ID]; seen && !slices.Contains(d.duplicates, r.ID) {
			d.duplicates = append(d.duplicates, r.ID)
		}
		d.items = append(d.items, entry{rec: r, keys: keysOf(r)})
		d.byID[r.ID] = i
	}
	return d
}

// Len returns the number of records in the ordered view, duplicates included.
func (d *Dataset) Len() int {
	return len(d.items)
}

// Duplicates returns the ids that occur more than once, in first-seen order.
func (d *Dataset) Duplicates() []uint8 {
	return slices.Clone(d.duplicates)
}

// All returns a copy of every record in source order.
func (d *Dataset) All() []Record {
	out := make([]Record, len(d.items))
	for i, e := range d.items {
		out[i] = e.rec.clone()
	}
	return out
}

// Lookup returns the record with the given id.
func (d *Dataset) Lookup(id uint8) (Record, bool) {
	i, ok := d.byID[id]
	if !ok {
		return Record{}, false
	}
	return d.items[i].rec.clone(), true
}

// List filters the ordered view by p (nil means no filter) and returns the
// requested page. Pages are zero-based; the page starts at page*pageSize
// within the filtered sequence. Out-of-range pages and a zero pageSize
// produce an empty Data slice with TotalItems still set.
func (d *Dataset) List(p *Predicate, page, pageSize uint32) Page {
	match := func(keys) bool { return true }
	if p != nil {
		match = p.matcher()
	}

	start := uint64(page) * uint64(pageSize)
	end := start + uint64(pageSize)

	data := make([]Record, 0, min(uint64(pageSize), uint64(len(d.items))))
	var total uint64
	for _, e := range d.items {
		if !match(e.keys) {
			continue
		}
		if total >= start && total < end {
			data = append(data, e.rec.clone())
		}
		total++
	}

	return Page{
		Data: data,
		Pagination: Pagination{
			Page:         page,
			ItemsPerPage: pageSize,
			TotalItems:   uint32(total),
		},
	}
}
