package storage

import (
	"authorship-lab/domain"
	"authorship-lab/errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Feature files hold a protobuf ListValue:
//
//	histograms:  [ {"<source>:<tokens>": count, ...}, ... ]
//	vocabulary:  [ "<source>:<tokens>", ... ]   // index is the column
//	importances: [ score, ... ]
var marshalOptions = proto.MarshalOptions{Deterministic: true}

func toKeyString(key domain.FeatureKey) string {
	return strconv.Itoa(int(key.Source)) + ":" + key.Tokens
}

func fromKeyString(raw string) (domain.FeatureKey, error) {
	source, tokens, found := strings.Cut(raw, ":")
	if !found {
		return domain.FeatureKey{}, fmt.Errorf("%w: key %q has no source", errors.ErrCorruptedFile, raw)
	}
	value, err := strconv.Atoi(source)
	if err != nil {
		return domain.FeatureKey{}, fmt.Errorf("%w: key %q: %v", errors.ErrCorruptedFile, raw, err)
	}
	return domain.FeatureKey{Source: domain.Source(value), Tokens: tokens}, nil
}

func marshalList(values []*structpb.Value) ([]byte, error) {
	return marshalOptions.Marshal(&structpb.ListValue{Values: values})
}

func unmarshalList(b []byte) ([]*structpb.Value, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(b, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCorruptedFile, err)
	}
	return list.GetValues(), nil
}

func fromHistogram(histogram domain.Histogram) *structpb.Value {
	fields := make(map[string]*structpb.Value, len(histogram))
	for key, count := range histogram {
		fields[toKeyString(key)] = structpb.NewNumberValue(float64(count))
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

func toHistogram(value *structpb.Value) (domain.Histogram, error) {
	encoded := value.GetStructValue()
	if encoded == nil {
		return nil, fmt.Errorf("%w: histogram is not a struct", errors.ErrCorruptedFile)
	}
	histogram := make(domain.Histogram, len(encoded.GetFields()))
	for raw, count := range encoded.GetFields() {
		key, err := fromKeyString(raw)
		if err != nil {
			return nil, err
		}
		histogram[key] = int(count.GetNumberValue())
	}
	return histogram, nil
}

func marshalHistograms(histograms []domain.Histogram) ([]byte, error) {
	return marshalList(lo.Map(histograms, func(histogram domain.Histogram, _ int) *structpb.Value {
		return fromHistogram(histogram)
	}))
}

func unmarshalHistograms(b []byte) ([]domain.Histogram, error) {
	values, err := unmarshalList(b)
	if err != nil {
		return nil, err
	}
	histograms := make([]domain.Histogram, 0, len(values))
	for _, value := range values {
		histogram, err := toHistogram(value)
		if err != nil {
			return nil, err
		}
		histograms = append(histograms, histogram)
	}
	return histograms, nil
}

func marshalVocabulary(columns []domain.FeatureKey) ([]byte, error) {
	return marshalList(lo.Map(columns, func(key domain.FeatureKey, _ int) *structpb.Value {
		return structpb.NewStringValue(toKeyString(key))
	}))
}

func unmarshalVocabulary(b []byte) ([]domain.FeatureKey, error) {
	values, err := unmarshalList(b)
	if err != nil {
		return nil, err
	}
	columns := make([]domain.FeatureKey, 0, len(values))
	for _, value := range values {
		key, err := fromKeyString(value.GetStringValue())
		if err != nil {
			return nil, err
		}
		columns = append(columns, key)
	}
	return columns, nil
}

func marshalImportances(scores []float64) ([]byte, error) {
	return marshalList(lo.Map(scores, func(score float64, _ int) *structpb.Value {
		return structpb.NewNumberValue(score)
	}))
}

func unmarshalImportances(b []byte) ([]float64, error) {
	values, err := unmarshalList(b)
	if err != nil {
		return nil, err
	}
	return lo.Map(values, func(value *structpb.Value, _ int) float64 {
		return value.GetNumberValue()
	}), nil
}
