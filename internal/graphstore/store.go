// Package graphstore reads the research graph from MongoDB and writes
// computed reports back.
package graphstore

import (
	"context"
	"fmt"
	"time"

	"icreport/internal/mode"
	"icreport/internal/rollup"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

const (
	Departments  = "departments"
	Persons      = "persons"
	Projects     = "projects"
	Funds        = "funds"
	Publications = "publications"
	Conferences  = "conferences"
	Books        = "books"
	ReportRows   = "report_rows"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.NewClient(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "mongo client")
	}
	if err = client.Connect(ctx); err != nil {
		return nil, errors.Wrap(err, "mongo connect")
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func readAll[T any](ctx context.Context, collection *mongo.Collection, out *[]T) error {
	cursor, err := collection.Find(ctx, bson.D{})
	if err != nil {
		return errors.Wrapf(err, "find %s", collection.Name())
	}
	if err := cursor.All(ctx, out); err != nil {
		return errors.Wrapf(err, "decode %s", collection.Name())
	}
	return nil
}

// LoadGraph reads every collection concurrently. Each load is a new
// snapshot and gets a fresh generation.
func (s *Store) LoadGraph(ctx context.Context) (*mode.Graph, error) {
	g := &mode.Graph{Generation: uint64(time.Now().UnixNano())}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Departments), &g.Departments) })
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Persons), &g.Persons) })
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Projects), &g.Projects) })
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Funds), &g.Funds) })
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Publications), &g.Publications) })
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Conferences), &g.Conferences) })
	eg.Go(func() error { return readAll(ctx, s.db.Collection(Books), &g.Books) })
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	log.Infoln("graph loaded from mongo:", len(g.Departments), "departments,", len(g.Projects), "projects,",
		len(g.Publications)+len(g.Conferences)+len(g.Books), "outputs")
	return g, nil
}

// RowDocument is one report row as stored in ReportRows. Rerunning the same
// report replaces its rows.
type RowDocument struct {
	ID           string             `bson:"_id"`
	Report       string             `bson:"report"`
	Variant      string             `bson:"variant"`
	StartYear    int                `bson:"start_year"`
	EndYear      int                `bson:"end_year"`
	Filter       string             `bson:"filter,omitempty"`
	Generation   uint64             `bson:"generation"`
	Position     int                `bson:"position"`
	DepartmentID string             `bson:"department_id,omitempty"`
	Department   string             `bson:"department"`
	IsTotal      bool               `bson:"is_total"`
	Values       map[string]float64 `bson:"values"`
	Updated      time.Time          `bson:"updated"`
}

// ReportID names a report by variant, window and department filter.
func ReportID(r *rollup.Report) string {
	id := fmt.Sprintf("%s:%d-%d", r.Variant.Name, r.Window.Start, r.Window.End)
	if r.DepartmentID != "" {
		id += ":" + r.DepartmentID
	}
	return id
}

func RowDocuments(r *rollup.Report, now time.Time) []RowDocument {
	reportID := ReportID(r)
	ret := make([]RowDocument, 0, len(r.Rows))
	for i, row := range r.Rows {
		key := row.DepartmentID
		if row.IsTotal {
			key = "total"
		}
		values := make(map[string]float64, len(r.Variant.Columns))
		for _, col := range r.Variant.Columns {
			values[col.Key] = row.Value(col)
		}
		ret = append(ret, RowDocument{
			ID:           reportID + "/" + key,
			Report:       reportID,
			Variant:      r.Variant.Name,
			StartYear:    r.Window.Start,
			EndYear:      r.Window.End,
			Filter:       r.DepartmentID,
			Generation:   r.Generation,
			Position:     i,
			DepartmentID: row.DepartmentID,
			Department:   row.Department,
			IsTotal:      row.IsTotal,
			Values:       values,
			Updated:      now,
		})
	}
	return ret
}

func (s *Store) DumpReport(ctx context.Context, r *rollup.Report) error {
	docs := RowDocuments(r, time.Now().UTC())
	if len(docs) == 0 {
		return nil
	}
	opts := options.BulkWrite().SetOrdered(false)
	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"_id": doc.ID}).
			SetReplacement(doc).
			SetUpsert(true))
	}
	res, err := s.db.Collection(ReportRows).BulkWrite(ctx, models, opts)
	if err != nil {
		return errors.Wrap(err, "bulk upsert report rows")
	}
	log.WithFields(log.Fields{
		"report":   ReportID(r),
		"upserted": res.UpsertedCount,
		"modified": res.ModifiedCount,
	}).Info("report dumped")
	return nil
}
