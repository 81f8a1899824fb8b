package models

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidIdentifier is returned when a string cannot be parsed into an ID.
var ErrInvalidIdentifier = errors.New("invalid identifier")

// ID is the opaque document identifier. It is stored as an ObjectID and
// rendered as a hex string in JSON.
type ID struct {
	oid primitive.ObjectID
}

// NewID returns a fresh identifier. IDs created later sort after earlier ones.
func NewID() ID {
	return ID{oid: primitive.NewObjectID()}
}

// ParseID parses a hex identifier coming from a path or body.
func ParseID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return ID{oid: oid}, nil
}

func (id ID) String() string { return id.oid.Hex() }

// IsZero lets the bson encoder honour omitempty.
func (id ID) IsZero() bool { return id.oid.IsZero() }

// Less orders identifiers by creation.
func (id ID) Less(other ID) bool {
	return id.oid.Hex() < other.oid.Hex()
}

func (id ID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(id.oid)
}

func (id *ID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.Null, bsontype.Undefined:
		*id = ID{}
		return nil
	case bsontype.ObjectID:
		oid, ok := bson.RawValue{Type: t, Value: data}.ObjectIDOK()
		if !ok {
			return fmt.Errorf("%w: malformed object id", ErrInvalidIdentifier)
		}
		id.oid = oid
		return nil
	case bsontype.String:
		s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
		if !ok {
			return fmt.Errorf("%w: malformed string id", ErrInvalidIdentifier)
		}
		parsed, err := ParseID(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	default:
		return fmt.Errorf("%w: unsupported bson type %s", ErrInvalidIdentifier, t)
	}
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(id.oid.Hex())
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidIdentifier, err)
	}
	if s == "" {
		*id = ID{}
		return nil
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
