package repositories

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const runPrefix = "run:"

type IRunRepository interface {
	StoreRun(record RunRecord) error
	GetRuns(experimentID *uuid.UUID) ([]RunRecord, error)
}

// RunRecord is the outcome of one repetition of an experiment.
type RunRecord struct {
	ExperimentID uuid.UUID
	Run          int
	TrainAuthors []string
	// TestAuthors holds the true author of every test row, in prediction order.
	TestAuthors       []string
	ForestPredictions []string
	MarginPredictions []string
	ForestAccuracy    float64
	MarginAccuracy    float64
	Columns           int
	At                time.Time
}

type RunRepository struct {
	db  *badger.DB
	log *slog.Logger
}

func NewRunRepository(db *badger.DB, log *slog.Logger) *RunRepository {
	return &RunRepository{db: db, log: log}
}

// StoreRun persists a run outcome in BadgerDB.
// The key is formatted as "run:{experiment}:{run padded to 19 digits}" so that a prefix
// scan returns the runs of an experiment in repetition order.
func (r RunRepository) StoreRun(record RunRecord) error {
	key := fmt.Sprintf("%s%s:%019d", runPrefix, record.ExperimentID, record.Run)
	value, err := fromRunRecord(record)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetRuns retrieves the runs of one experiment, or of every experiment when
// experimentID is nil.
func (r RunRepository) GetRuns(experimentID *uuid.UUID) ([]RunRecord, error) {
	prefix := runPrefix
	if experimentID != nil {
		prefix = fmt.Sprintf("%s%s:", runPrefix, *experimentID)
	}

	var records []RunRecord
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			err := item.Value(func(v []byte) error {
				record, err := DecodeRun(v)
				if err != nil {
					return fmt.Errorf("failed to decode run %s: %w", item.Key(), err)
				}
				records = append(records, record)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DecodeRun reads a value stored by StoreRun.
func DecodeRun(raw []byte) (RunRecord, error) {
	var value structpb.Struct
	if err := proto.Unmarshal(raw, &value); err != nil {
		return RunRecord{}, err
	}
	return toRunRecord(&value)
}

func fromRunRecord(record RunRecord) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"experiment_id":      record.ExperimentID.String(),
		"run":                record.Run,
		"train_authors":      lo.ToAnySlice(record.TrainAuthors),
		"test_authors":       lo.ToAnySlice(record.TestAuthors),
		"forest_predictions": lo.ToAnySlice(record.ForestPredictions),
		"margin_predictions": lo.ToAnySlice(record.MarginPredictions),
		"forest_accuracy":    record.ForestAccuracy,
		"margin_accuracy":    record.MarginAccuracy,
		"columns":            record.Columns,
		"at":                 record.At.UTC().Format(time.RFC3339Nano),
	})
}

func toRunRecord(value *structpb.Struct) (RunRecord, error) {
	fields := value.GetFields()
	experimentID, err := uuid.Parse(fields["experiment_id"].GetStringValue())
	if err != nil {
		return RunRecord{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return RunRecord{}, err
	}
	return RunRecord{
		ExperimentID:      experimentID,
		Run:               int(fields["run"].GetNumberValue()),
		TrainAuthors:      toStrings(fields["train_authors"]),
		TestAuthors:       toStrings(fields["test_authors"]),
		ForestPredictions: toStrings(fields["forest_predictions"]),
		MarginPredictions: toStrings(fields["margin_predictions"]),
		ForestAccuracy:    fields["forest_accuracy"].GetNumberValue(),
		MarginAccuracy:    fields["margin_accuracy"].GetNumberValue(),
		Columns:           int(fields["columns"].GetNumberValue()),
		At:                at,
	}, nil
}

func toStrings(value *structpb.Value) []string {
	values := value.GetListValue().GetValues()
	if len(values) == 0 {
		return nil
	}
	return lo.Map(values, func(item *structpb.Value, _ int) string {
		return item.GetStringValue()
	})
}
