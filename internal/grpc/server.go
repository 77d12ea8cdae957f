package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/snake-draft/internal/logger"
	"github.com/Billy-Davies-2/snake-draft/internal/models"
	"github.com/Billy-Davies-2/snake-draft/internal/service"
)

// Drafter is the draft operations the gRPC layer calls
type Drafter interface {
	Start(ctx context.Context, key string, slot int) (models.DraftView, error)
	Restart(ctx context.Context, key string, slot *int) (models.DraftView, error)
	Pick(ctx context.Context, key string, index int) (models.DraftView, error)
	State(ctx context.Context, key string) (models.DraftView, error)
	Search(ctx context.Context, key, query string, limit int) ([]models.SearchResult, error)
	Options() service.Options
}

// Server implements the gRPC DraftService
type Server struct {
	drafts Drafter
}

// NewServer creates a new gRPC server
func NewServer(drafts Drafter) *Server {
	return &Server{drafts: drafts}
}

// Start begins a draft. Fields: session_id, slot (optional).
func (s *Server) Start(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	slot := s.drafts.Options().DefaultSlot
	if v, ok := req.GetFields()["slot"]; ok {
		if slot, ok = wholeNumber(v); !ok {
			return nil, status.Error(codes.InvalidArgument, s.slotTypeMessage())
		}
	}

	logger.Info("gRPC: Starting draft", "session", key, "slot", slot)
	view, err := s.drafts.Start(ctx, key, slot)
	return viewResponse(view, err)
}

// Restart restarts a draft, reusing the last slot when none is given
func (s *Server) Restart(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	var slot *int
	if v, ok := req.GetFields()["slot"]; ok && !isNull(v) {
		n, ok := wholeNumber(v)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, s.slotTypeMessage())
		}
		slot = &n
	}

	logger.Info("gRPC: Restarting draft", "session", key)
	view, err := s.drafts.Restart(ctx, key, slot)
	return viewResponse(view, err)
}

// Pick drafts a pool player for the user. Fields: session_id, index.
func (s *Server) Pick(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	v, ok := req.GetFields()["index"]
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "index (0-based top-20 index) is required")
	}
	index, ok := wholeNumber(v)
	if !ok {
		return nil, status.Error(codes.InvalidArgument, "index must be an integer")
	}

	view, err := s.drafts.Pick(ctx, key, index)
	return viewResponse(view, err)
}

// GetState returns the session's draft, starting the default game if needed
func (s *Server) GetState(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	logger.Debug("gRPC: Getting draft state", "session", key)
	view, err := s.drafts.State(ctx, key)
	return viewResponse(view, err)
}

// Search fuzzy-matches undrafted players. Fields: session_id, query, limit.
func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := sessionID(req)
	if err != nil {
		return nil, err
	}
	limit := 0
	if v, ok := req.GetFields()["limit"]; ok {
		if limit, ok = wholeNumber(v); !ok {
			return nil, status.Error(codes.InvalidArgument, "limit must be an integer")
		}
	}
	query := req.GetFields()["query"].GetStringValue()

	results, err := s.drafts.Search(ctx, key, query, limit)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(map[string]any{"results": results})
}

func (s *Server) slotTypeMessage() string {
	return fmt.Sprintf("slot must be an integer between 1 and %d", s.drafts.Options().Teams)
}

// sessionKeyPrefix keeps gRPC sessions apart from the cookie and user keys
// the HTTP API uses
const sessionKeyPrefix = "grpc:"

func sessionID(req *structpb.Struct) (string, error) {
	id := req.GetFields()["session_id"].GetStringValue()
	if id == "" {
		return "", status.Error(codes.InvalidArgument, "session_id is required")
	}
	return sessionKeyPrefix + id, nil
}

func isNull(v *structpb.Value) bool {
	_, ok := v.GetKind().(*structpb.Value_NullValue)
	return ok
}

// wholeNumber reads an integral number value
func wholeNumber(v *structpb.Value) (int, bool) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, false
	}
	f := n.NumberValue
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}

func viewResponse(view models.DraftView, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(view)
}

// toStruct converts v through its JSON form
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case service.IsInvalidInput(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case service.IsFailedPrecondition(err):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, service.ErrNoRankings):
		return status.Error(codes.Unavailable, err.Error())
	default:
		logger.Error("gRPC: Draft request failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}
