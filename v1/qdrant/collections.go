package qdrant

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/google/uuid"
	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vexpr/v1/schema"
	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
)

const defaultBatchSize = 200

// Point is a record to store. ID must be an unsigned integer or a UUID.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// EnsureCollection creates the collection described by def if it does not
// exist yet, with payload indexes for indexed and partition-key columns.
// The first FloatVector column sets the vector size and distance.
func (a *Adapter) EnsureCollection(ctx context.Context, def *schema.CollectionDefinition) error {
	exists, err := a.client.api.CollectionExists(ctx, def.Name)
	if err != nil {
		return fmt.Errorf("qdrant: check collection %s: %w", def.Name, err)
	}
	if exists {
		return nil
	}

	var vector *schema.ColumnDefinition
	for _, c := range def.Columns {
		if c.DataType == schema.FloatVector {
			vector = c
			break
		}
	}
	if vector == nil {
		return fmt.Errorf("qdrant: collection %s has no float vector column", def.Name)
	}

	err = a.client.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: def.Name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vector.VectorDimension),
			Distance: distance(vector.MetricType),
		}),
	})
	if err != nil {
		return fmt.Errorf("qdrant: create collection %s: %w", def.Name, err)
	}

	for _, c := range def.Columns {
		if c.Primary || c.DataType.IsVector() || !(c.Index || c.PartitionKey) {
			continue
		}
		ft, ok := fieldType(c)
		if !ok {
			continue
		}
		_, err := a.client.api.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: def.Name,
			Wait:           qdrant.PtrOf(true),
			FieldName:      c.Name,
			FieldType:      qdrant.PtrOf(ft),
		})
		if err != nil {
			return fmt.Errorf("qdrant: index %s.%s: %w", def.Name, c.Name, err)
		}
	}

	a.client.log.Info("created qdrant collection", nil, map[string]interface{}{
		"collection": def.Name,
		"dimension":  vector.VectorDimension,
	})
	return nil
}

// DropCollection deletes a collection and its points.
func (a *Adapter) DropCollection(ctx context.Context, name string) error {
	if err := a.client.api.DeleteCollection(ctx, name); err != nil {
		return fmt.Errorf("qdrant: drop collection %s: %w", name, err)
	}
	return nil
}

// Count returns the number of points matching the request filter. Paging
// and output fields are ignored.
func (a *Adapter) Count(ctx context.Context, req vectordb.QueryRequest) (uint64, error) {
	q, err := BuildQueryPoints(req, 0)
	if err != nil {
		return 0, err
	}
	n, err := a.client.api.Count(ctx, &qdrant.CountPoints{
		CollectionName:   q.CollectionName,
		Filter:           q.Filter,
		Exact:            qdrant.PtrOf(true),
		ReadConsistency:  q.ReadConsistency,
		ShardKeySelector: q.ShardKeySelector,
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count %s: %w", req.Collection, err)
	}
	return n, nil
}

// Upsert writes points in batches, waiting for each batch to be applied.
func (a *Adapter) Upsert(ctx context.Context, collection string, points ...Point) error {
	for start := 0; start < len(points); start += defaultBatchSize {
		end := min(start+defaultBatchSize, len(points))
		if err := a.upsertBatch(ctx, collection, points[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (a *Adapter) upsertBatch(ctx context.Context, collection string, batch []Point) error {
	structs := make([]*qdrant.PointStruct, 0, len(batch))
	for _, p := range batch {
		id, err := pointID(p.ID)
		if err != nil {
			return err
		}
		payload, err := qdrant.TryValueMap(normalizePayload(p.Payload))
		if err != nil {
			return fmt.Errorf("qdrant: payload of point %s: %w", p.ID, err)
		}
		structs = append(structs, &qdrant.PointStruct{
			Id:      id,
			Vectors: qdrant.NewVectors(p.Vector...),
			Payload: payload,
		})
	}

	_, err := a.client.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: collection,
		Wait:           qdrant.PtrOf(true),
		Points:         structs,
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %d points into %s: %w", len(batch), collection, err)
	}
	return nil
}

// UpsertEntities stores entities of a registered model. The primary key
// becomes the point ID, the first float vector column the vector, and the
// remaining scalar columns the payload.
func UpsertEntities[T any](ctx context.Context, a *Adapter, registry *schema.Registry, entities ...T) error {
	def, err := registry.Collection(reflect.TypeFor[T]())
	if err != nil {
		return err
	}
	points := make([]Point, 0, len(entities))
	for i := range entities {
		p, err := entityPoint(def, reflect.ValueOf(&entities[i]).Elem())
		if err != nil {
			return err
		}
		points = append(points, p)
	}
	return a.Upsert(ctx, def.Name, points...)
}

func entityPoint(def *schema.CollectionDefinition, v reflect.Value) (Point, error) {
	p := Point{Payload: make(map[string]any, len(def.Columns))}
	for _, c := range def.Columns {
		f := v.FieldByIndex(c.FieldIndex)
		switch {
		case c.Primary:
			p.ID = fmt.Sprint(f.Interface())
		case c.DataType == schema.FloatVector && p.Vector == nil:
			vec, ok := f.Interface().([]float32)
			if !ok {
				return Point{}, fmt.Errorf("qdrant: column %s is %s, want []float32", c.Name, f.Type())
			}
			p.Vector = vec
		case c.DataType.IsVector():
			// Only one vector per point.
		default:
			p.Payload[c.Name] = f.Interface()
		}
	}
	return p, nil
}

func pointID(id string) (*qdrant.PointId, error) {
	if n, err := strconv.ParseUint(id, 10, 64); err == nil {
		return qdrant.NewIDNum(n), nil
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("qdrant: point id %q is neither an unsigned integer nor a UUID", id)
	}
	return qdrant.NewIDUUID(id), nil
}

func distance(m schema.MetricType) qdrant.Distance {
	switch m {
	case schema.IP:
		return qdrant.Distance_Dot
	case schema.Cosine:
		return qdrant.Distance_Cosine
	default:
		return qdrant.Distance_Euclid
	}
}

func fieldType(c *schema.ColumnDefinition) (qdrant.FieldType, bool) {
	dt := c.DataType
	if dt == schema.Array {
		dt = c.ElementType
	}
	switch dt {
	case schema.VarChar:
		return qdrant.FieldType_FieldTypeKeyword, true
	case schema.Int8, schema.Int16, schema.Int32, schema.Int64:
		return qdrant.FieldType_FieldTypeInteger, true
	case schema.Float, schema.Double:
		return qdrant.FieldType_FieldTypeFloat, true
	case schema.Bool:
		return qdrant.FieldType_FieldTypeBool, true
	default:
		return 0, false
	}
}

// normalizePayload converts typed slices and maps into the []any and
// map[string]any shapes the Qdrant value constructors accept.
func normalizePayload(payload map[string]any) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = normalizeValue(reflect.ValueOf(v))
	}
	return out
}

func normalizeValue(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return normalizeValue(v.Elem())
	case reflect.Slice, reflect.Array:
		if v.Kind() == reflect.Slice && v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes()
		}
		out := make([]any, v.Len())
		for i := range out {
			out[i] = normalizeValue(v.Index(i))
		}
		return out
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return v.Interface()
		}
		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			out[iter.Key().String()] = normalizeValue(iter.Value())
		}
		return out
	case reflect.String:
		return v.String()
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return v.Interface()
	}
}
