// Package report runs one report computation over an immutable graph:
// filter, classify, allocate, roll up.
package report

import (
	"runtime"
	"sort"
	"sync"

	"icreport/internal/attribution"
	"icreport/internal/mode"
	"icreport/internal/participant"
	"icreport/internal/period"
	"icreport/internal/rollup"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Request selects a report. Kinds overrides the variant's default output
// kinds when set.
type Request struct {
	Variant      string
	StartYear    int
	EndYear      int
	DepartmentID string
	Kinds        []mode.OutputKind
}

func (r Request) Window() period.Window {
	return period.Window{Start: r.StartYear, End: r.EndYear}
}

// chunkSize is fixed so the reduction order, and therefore every float sum,
// does not depend on the number of workers.
const chunkSize = 256

// Engine computes reports. The zero value uses one worker per CPU.
type Engine struct {
	Workers int
}

// Compute runs a report with the default engine.
func Compute(g *mode.Graph, req Request) (*rollup.Report, error) {
	return Engine{}.Compute(g, req)
}

type pass struct {
	variant   *rollup.Variant
	snapshot  *mode.Snapshot
	allocator *attribution.Allocator
	window    period.Window
	filter    string
}

type chunkResult struct {
	index   int
	builder *rollup.Builder
	stats   rollup.Stats
}

// Compute never mutates g and shares no state with other computations. The
// only error is an unknown variant; bad data shrinks totals instead.
func (e Engine) Compute(g *mode.Graph, req Request) (*rollup.Report, error) {
	v, ok := rollup.Lookup(req.Variant)
	if !ok {
		return nil, errors.Errorf("unknown report variant %q", req.Variant)
	}
	kinds := req.Kinds
	if len(kinds) == 0 {
		kinds = v.Kinds
	}
	kinds = mode.UniqueKinds(kinds)
	s := g.Index()
	resolved, pstats := participant.ResolveAll(s)
	p := &pass{
		variant:   v,
		snapshot:  s,
		allocator: attribution.New(s, resolved),
		window:    req.Window(),
		filter:    req.DepartmentID,
	}
	if p.filter != "" {
		if _, ok := s.Departments[p.filter]; !ok {
			log.WithField("department", p.filter).Warn("department filter matches no department")
		}
	}

	outputs := g.Outputs(kinds...)
	chunks := (len(outputs) + chunkSize - 1) / chunkSize
	results := make([]chunkResult, chunks)

	workers := e.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > chunks {
		workers = chunks
	}

	IDChan := make(chan int, chunks)
	ResultChan := make(chan chunkResult, chunks)

	resultWg := sync.WaitGroup{}
	resultWg.Add(1)
	go func() {
		for item := range ResultChan {
			results[item.index] = item
		}
		resultWg.Done()
	}()

	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			for index := range IDChan {
				start := index * chunkSize
				end := start + chunkSize
				if end > len(outputs) {
					end = len(outputs)
				}
				ResultChan <- p.run(index, outputs[start:end], g.Departments)
			}
			wg.Done()
		}()
	}
	for i := 0; i < chunks; i++ {
		IDChan <- i
	}
	close(IDChan)
	wg.Wait()
	close(ResultChan)
	resultWg.Wait()

	builder := rollup.NewBuilder(v, g.Departments)
	var stats rollup.Stats
	for _, item := range results {
		builder.Merge(item.builder)
		stats.Outputs += item.stats.Outputs
		stats.OutOfWindow += item.stats.OutOfWindow
		stats.NoProject += item.stats.NoProject
		stats.Filtered += item.stats.Filtered
		stats.Unattributed += item.stats.Unattributed
		stats.Unclassified += item.stats.Unclassified
		stats.Counted += item.stats.Counted
	}
	stats.Malformed = pstats.Malformed
	stats.Orphans = p.allocator.Orphans()
	sort.Strings(stats.Orphans)

	if v.Members {
		builder.SetMembers(rollup.Members(s, resolved, p.window))
	}
	if p.filter != "" {
		builder.Keep(p.filter)
	}

	log.WithFields(log.Fields{
		"variant":      v.Name,
		"window":       p.window,
		"outputs":      stats.Outputs,
		"counted":      stats.Counted,
		"unattributed": stats.Unattributed,
	}).Debug("report computed")

	return &rollup.Report{
		Variant:      v,
		Window:       p.window,
		DepartmentID: p.filter,
		Generation:   g.Generation,
		Rows:         builder.Build(),
		Stats:        stats,
	}, nil
}

func (p *pass) run(index int, outputs []mode.Output, departments []mode.Department) chunkResult {
	ret := chunkResult{index: index, builder: rollup.NewBuilder(p.variant, departments)}
	for _, o := range outputs {
		ret.stats.Outputs++
		p.add(ret.builder, &ret.stats, o)
	}
	return ret
}

// add runs one output through filter, allocate and classify, and credits
// every (department, bucket) pair.
func (p *pass) add(b *rollup.Builder, stats *rollup.Stats, o mode.Output) {
	if len(o.ProjectIDs) == 0 {
		stats.NoProject++
		return
	}
	if !p.window.Includes(o.PeriodStart, o.PeriodEnd) {
		stats.OutOfWindow++
		return
	}
	alloc := p.allocator.Allocate(o)
	if alloc.Projects == 0 {
		stats.NoProject++
		return
	}
	if p.filter != "" && !alloc.Touched.Contains(p.filter) {
		stats.Filtered++
		return
	}
	if !alloc.Attributed() {
		log.WithField("output", o.ID).Debug("no department attributable credit")
		stats.Unattributed++
		return
	}
	buckets := p.variant.Classify(o, p.variant.Mode)
	if len(buckets) == 0 && !p.variant.Detail {
		stats.Unclassified++
		return
	}
	stats.Counted++

	var item rollup.Item
	if p.variant.Detail {
		item = p.item(o)
	}
	for _, departmentID := range alloc.Order {
		credit := alloc.Credit[departmentID]
		if credit == 0 {
			continue
		}
		for _, bucket := range buckets {
			b.Add(departmentID, bucket, credit)
		}
		if p.variant.Detail {
			item.Credit = credit
			b.AddItem(departmentID, item)
		}
	}
}
