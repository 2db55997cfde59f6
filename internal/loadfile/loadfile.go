package loadfile

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"icreport/internal/mode"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Collections are read from <name>*.jsonl or <name>*.jsonl.gz files inside a
// snapshot directory.
const (
	Departments  = "departments"
	Persons      = "persons"
	Projects     = "projects"
	Funds        = "funds"
	Publications = "publications"
	Conferences  = "conferences"
	Books        = "books"
)

var processCount = 4

// Load reads a graph snapshot. A file holds a single JSON document (plain or
// gzip); a directory holds one JSON-lines stream per collection.
func Load(path string) (*mode.Graph, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot")
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

func LoadFile(filePath string) (*mode.Graph, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "snapshot file")
	}
	defer f.Close()
	r, err := reader(filePath, f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var g mode.Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, errors.Wrapf(err, "decode %s", filePath)
	}
	if g.Generation == 0 {
		g.Generation = generationOf(f)
	}
	log.WithFields(log.Fields{
		"file":         filePath,
		"departments":  len(g.Departments),
		"persons":      len(g.Persons),
		"projects":     len(g.Projects),
		"publications": len(g.Publications),
	}).Info("snapshot loaded")
	return &g, nil
}

func LoadDir(dir string) (*mode.Graph, error) {
	g := &mode.Graph{}
	var err error
	if g.Departments, err = extracting[mode.Department](dir, Departments); err != nil {
		return nil, err
	}
	if g.Persons, err = extracting[mode.Person](dir, Persons); err != nil {
		return nil, err
	}
	if g.Projects, err = extracting[mode.Project](dir, Projects); err != nil {
		return nil, err
	}
	if g.Funds, err = extracting[mode.Fund](dir, Funds); err != nil {
		return nil, err
	}
	if g.Publications, err = extracting[mode.Output](dir, Publications); err != nil {
		return nil, err
	}
	if g.Conferences, err = extracting[mode.Output](dir, Conferences); err != nil {
		return nil, err
	}
	if g.Books, err = extracting[mode.Output](dir, Books); err != nil {
		return nil, err
	}
	paths, err := iteratePath(dir, "")
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		if info, err := os.Stat(path); err == nil {
			if gen := uint64(info.ModTime().UnixNano()); gen > g.Generation {
				g.Generation = gen
			}
		}
	}
	log.WithFields(log.Fields{
		"dir":          dir,
		"departments":  len(g.Departments),
		"persons":      len(g.Persons),
		"projects":     len(g.Projects),
		"publications": len(g.Publications),
		"conferences":  len(g.Conferences),
		"books":        len(g.Books),
	}).Info("snapshot loaded")
	return g, nil
}

// iteratePath lists the JSON-lines files of a collection in name order. An
// empty collection name matches every stream in dir.
func iteratePath(dir, collection string) (retPathStrs []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".jsonl") && !strings.HasSuffix(name, ".jsonl.gz") {
			return nil
		}
		if strings.HasPrefix(name, collection) {
			retPathStrs = append(retPathStrs, path)
		}
		return nil
	})
	sort.Strings(retPathStrs)
	return retPathStrs, errors.Wrapf(err, "walk %s", dir)
}

type part[S any] struct {
	index int
	items []S
	err   error
}

func worker[S any](paths <-chan int, all []string, results chan<- part[S], wg *sync.WaitGroup) {
	defer wg.Done()
	for index := range paths {
		items, err := readLines[S](all[index])
		results <- part[S]{index: index, items: items, err: err}
	}
}

// extracting reads every file of a collection with a small worker pool and
// concatenates the records in file order.
func extracting[S any](dir, collection string) ([]S, error) {
	paths, err := iteratePath(dir, collection)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	pathChan := make(chan int, len(paths))
	for i := range paths {
		pathChan <- i
	}
	close(pathChan)

	results := make(chan part[S], len(paths))
	wg := sync.WaitGroup{}
	wg.Add(processCount)
	for w := 0; w < processCount; w++ {
		go worker(pathChan, paths, results, &wg)
	}
	wg.Wait()
	close(results)

	parts := make([][]S, len(paths))
	for p := range results {
		if p.err != nil {
			return nil, p.err
		}
		parts[p.index] = p.items
	}
	var ret []S
	for _, items := range parts {
		ret = append(ret, items...)
	}
	return ret, nil
}

// readLines decodes one record per line. Lines that do not decode are logged
// and skipped.
func readLines[S any](filePath string) ([]S, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(err, "open")
	}
	defer f.Close()
	r, err := reader(filePath, f)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var ret []S
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(strings.TrimSpace(string(raw))) == 0 {
			continue
		}
		var item S
		if err := json.Unmarshal(raw, &item); err != nil {
			log.WithFields(log.Fields{"file": filePath, "line": line}).Warn("skipping undecodable record: ", err)
			continue
		}
		ret = append(ret, item)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read %s", filePath)
	}
	return ret, nil
}

func reader(filePath string, f *os.File) (io.ReadCloser, error) {
	if !strings.HasSuffix(filePath, ".gz") {
		return io.NopCloser(f), nil
	}
	gr, err := gzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "gzip %s", filePath)
	}
	return gr, nil
}

func generationOf(f *os.File) uint64 {
	info, err := f.Stat()
	if err != nil {
		return 0
	}
	return uint64(info.ModTime().UnixNano())
}
