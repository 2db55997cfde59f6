// Package reportcache keeps computed reports keyed by request and graph
// generation. Nothing is cached implicitly inside the engine.
package reportcache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"icreport/internal/logic/report"
	"icreport/internal/mode"
	"icreport/internal/rollup"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Key hashes a request together with the generation of the graph it runs
// against. Requests that differ only by an explicit default Kinds list share
// a key, as do requests that repeat a kind.
func Key(generation uint64, req report.Request) string {
	kinds := req.Kinds
	if v, ok := rollup.Lookup(req.Variant); ok && len(kinds) == 0 {
		kinds = v.Kinds
	}
	kinds = mode.UniqueKinds(kinds)
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	canonical := fmt.Sprintf("%d|%s|%d|%d|%s|%s",
		generation, req.Variant, req.StartYear, req.EndYear, req.DepartmentID, strings.Join(names, ","))
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Computer runs one report. report.Engine is the production implementation.
type Computer interface {
	Compute(g *mode.Graph, req report.Request) (*rollup.Report, error)
}

// Cache serves reports from an LRU. Cached reports are shared between
// callers and must be treated as read-only.
type Cache struct {
	engine   Computer
	reports  *lru.Cache[string, *rollup.Report]
	trackers sync.Map
}

func New(size int, engine Computer) (*Cache, error) {
	reports, err := lru.New[string, *rollup.Report](size)
	if err != nil {
		return nil, errors.Wrap(err, "report cache")
	}
	return &Cache{engine: engine, reports: reports}, nil
}

// tracker returns the generation tracker of one report view: a variant
// under one department filter. Requests for other views never supersede it.
func (c *Cache) tracker(req report.Request) *report.Tracker {
	t, _ := c.trackers.LoadOrStore(req.Variant+"|"+req.DepartmentID, &report.Tracker{})
	return t.(*report.Tracker)
}

// Report returns the cached report for (graph generation, request) or
// computes it. A cache miss for the same variant and department filter that
// begins while this one computes supersedes it: the result is still cached
// but ErrSuperseded is returned.
func (c *Cache) Report(g *mode.Graph, req report.Request) (*rollup.Report, error) {
	key := Key(g.Generation, req)
	if r, ok := c.reports.Get(key); ok {
		log.WithFields(log.Fields{"variant": req.Variant, "generation": g.Generation}).Debug("report cache hit")
		return r, nil
	}
	ticket := c.tracker(req).Begin()
	r, err := c.engine.Compute(g, req)
	if err != nil {
		return nil, err
	}
	c.reports.Add(key, r)
	if !ticket.Current() {
		return nil, report.ErrSuperseded
	}
	return r, nil
}

func (c *Cache) Len() int {
	return c.reports.Len()
}

func (c *Cache) Purge() {
	c.reports.Purge()
}
