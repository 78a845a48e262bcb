package catalogv1

import (
	"encoding/json"
	"fmt"

	"github.com/devmojahid/restu-food-sub005/internal/model"
	"github.com/devmojahid/restu-food-sub005/internal/variation"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type ProductRequest struct {
	ProductID string `json:"product_id"`
}

type SetAttributesRequest struct {
	ProductID  string             `json:"product_id"`
	Attributes model.AttributeSet `json:"attributes"`
	Regenerate bool               `json:"regenerate"`
}

type AddVariationRequest struct {
	ProductID string          `json:"product_id"`
	KeyTuple  model.KeyTuple  `json:"key_tuple"`
	Seed      variation.Patch `json:"seed"`
}

type BulkEditRequest struct {
	ProductID string   `json:"product_id"`
	IDs       []string `json:"ids"`
	Field     string   `json:"field"`
	Value     any      `json:"value"`
}

type DeleteVariationsRequest struct {
	ProductID string   `json:"product_id"`
	IDs       []string `json:"ids"`
}

type ListVariationsRequest struct {
	ProductID string `json:"product_id"`
	Search    string `json:"search"`
	SortBy    string `json:"sort_by"`
	Desc      bool   `json:"desc"`
}

type ProductResponse struct {
	Product *model.Product `json:"product"`
}

type VariationsResponse struct {
	Variations []model.Variation `json:"variations"`
	Total      int               `json:"total"`
}

// Encode converts v to a Struct through its JSON form.
func Encode(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := &structpb.Struct{}
	if err := protojson.Unmarshal(b, s); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return s, nil
}

// Decode fills v from s through its JSON form. A nil Struct decodes as {}.
func Decode(s *structpb.Struct, v any) error {
	if s == nil {
		s = &structpb.Struct{}
	}
	b, err := protojson.Marshal(s)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
