package qdrant

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/vexpr/v1/vectordb"
)

// Adapter executes filter queries against Qdrant. It implements
// vectordb.Executor.
type Adapter struct {
	client *QdrantClient
}

var _ vectordb.Executor = (*Adapter)(nil)

// NewAdapter returns an Adapter over a connected client.
func NewAdapter(client *QdrantClient) *Adapter {
	return &Adapter{client: client}
}

// Query translates the request filter and runs it as a Qdrant query
// without a vector, so matching points come back ordered by ID.
func (a *Adapter) Query(ctx context.Context, req vectordb.QueryRequest) ([]vectordb.Row, error) {
	points, err := BuildQueryPoints(req, a.client.cfg.Timeout)
	if err != nil {
		return nil, err
	}

	res, err := a.client.api.Query(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("qdrant: query %s: %w", req.Collection, err)
	}

	rows := make([]vectordb.Row, 0, len(res))
	for _, p := range res {
		rows = append(rows, vectordb.Row{
			ID:     pointIDString(p.GetId()),
			Score:  p.GetScore(),
			Fields: payloadToMap(p.GetPayload()),
		})
	}
	return rows, nil
}

// BuildQueryPoints maps a request onto a Qdrant query. A timeout below one
// second is rounded up, since Qdrant takes whole seconds.
func BuildQueryPoints(req vectordb.QueryRequest, timeout time.Duration) (*qdrant.QueryPoints, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if len(req.Params) > 0 {
		return nil, fmt.Errorf("%w: bound placeholders", vectordb.ErrUnsupportedExpression)
	}
	if len(req.Filter) == 0 && req.Expr != "" {
		return nil, fmt.Errorf("%w: textual expression without nodes", vectordb.ErrUnsupportedExpression)
	}

	filter, err := Translate(req.Filter)
	if err != nil {
		return nil, err
	}

	q := &qdrant.QueryPoints{
		CollectionName: req.Collection,
		Filter:         filter,
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if req.Limit > 0 {
		q.Limit = qdrant.PtrOf(uint64(req.Limit))
	}
	if req.Offset > 0 {
		q.Offset = qdrant.PtrOf(uint64(req.Offset))
	}
	if len(req.OutputFields) > 0 {
		q.WithPayload = qdrant.NewWithPayloadInclude(req.OutputFields...)
	}
	if rc := readConsistency(req.ConsistencyLevel); rc != nil {
		q.ReadConsistency = rc
	}
	if len(req.PartitionNames) > 0 {
		keys := make([]*qdrant.ShardKey, 0, len(req.PartitionNames))
		for _, p := range req.PartitionNames {
			keys = append(keys, qdrant.NewShardKey(p))
		}
		q.ShardKeySelector = &qdrant.ShardKeySelector{ShardKeys: keys}
	}
	if timeout > 0 {
		q.Timeout = qdrant.PtrOf(uint64(math.Ceil(timeout.Seconds())))
	}
	return q, nil
}

// readConsistency maps a level onto Qdrant's replica consistency. Eventually
// leaves the server default, which reads from any single replica.
func readConsistency(level vectordb.ConsistencyLevel) *qdrant.ReadConsistency {
	switch level {
	case vectordb.ConsistencyStrong:
		return qdrant.NewReadConsistencyType(qdrant.ReadConsistencyType_All)
	case vectordb.ConsistencySession, vectordb.ConsistencyBounded:
		return qdrant.NewReadConsistencyType(qdrant.ReadConsistencyType_Majority)
	case vectordb.ConsistencyCustomized:
		return qdrant.NewReadConsistencyType(qdrant.ReadConsistencyType_Quorum)
	default:
		return nil
	}
}

func pointIDString(id *qdrant.PointId) string {
	switch v := id.GetPointIdOptions().(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10)
	case *qdrant.PointId_Uuid:
		return v.Uuid
	default:
		return ""
	}
}

func payloadToMap(payload map[string]*qdrant.Value) map[string]any {
	out := make(map[string]any, len(payload))
	for k, v := range payload {
		out[k] = valueToAny(v)
	}
	return out
}

func valueToAny(v *qdrant.Value) any {
	switch k := v.GetKind().(type) {
	case *qdrant.Value_BoolValue:
		return k.BoolValue
	case *qdrant.Value_IntegerValue:
		return k.IntegerValue
	case *qdrant.Value_DoubleValue:
		return k.DoubleValue
	case *qdrant.Value_StringValue:
		return k.StringValue
	case *qdrant.Value_ListValue:
		values := k.ListValue.GetValues()
		out := make([]any, 0, len(values))
		for _, item := range values {
			out = append(out, valueToAny(item))
		}
		return out
	case *qdrant.Value_StructValue:
		return payloadToMap(k.StructValue.GetFields())
	default:
		return nil
	}
}
