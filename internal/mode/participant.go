package mode

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type Participant struct {
	PersonID   string  `json:"personId,omitempty" bson:"person_id,omitempty"`
	IsInternal bool    `json:"isInternal" bson:"is_internal"`
	Share      float64 `json:"share" bson:"share"`
	// DepartmentIDs, when present, overrides the person's own memberships.
	DepartmentIDs []string `json:"departmentIds,omitempty" bson:"department_ids,omitempty"`
}

type participantJSON struct {
	PersonID      json.RawMessage `json:"personId"`
	IsInternal    bool            `json:"isInternal"`
	Share         json.RawMessage `json:"share"`
	DepartmentIDs []string        `json:"departmentIds"`
}

// UnmarshalJSON accepts person ids as string or number and shares as number
// or numeric string.
func (p *Participant) UnmarshalJSON(data []byte) error {
	var w participantJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	personID, err := looseString(w.PersonID)
	if err != nil {
		return errors.Wrap(err, "participant personId")
	}
	share, err := looseFloat(w.Share)
	if err != nil {
		return errors.Wrapf(err, "participant %s share", personID)
	}
	*p = Participant{
		PersonID:      personID,
		IsInternal:    w.IsInternal,
		Share:         share,
		DepartmentIDs: w.DepartmentIDs,
	}
	return nil
}

func looseString(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}

func looseFloat(raw json.RawMessage) (float64, error) {
	s, err := looseString(raw)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

type participantBSON struct {
	PersonID      bson.RawValue `bson:"person_id"`
	IsInternal    bool          `bson:"is_internal"`
	Share         bson.RawValue `bson:"share"`
	DepartmentIDs []string      `bson:"department_ids"`
}

// UnmarshalBSON applies the same loose person id and share types as
// UnmarshalJSON.
func (p *Participant) UnmarshalBSON(data []byte) error {
	var w participantBSON
	if err := bson.Unmarshal(data, &w); err != nil {
		return err
	}
	personID, err := bsonString(w.PersonID)
	if err != nil {
		return errors.Wrap(err, "participant person_id")
	}
	share, err := bsonFloat(w.Share)
	if err != nil {
		return errors.Wrapf(err, "participant %s share", personID)
	}
	*p = Participant{
		PersonID:      personID,
		IsInternal:    w.IsInternal,
		Share:         share,
		DepartmentIDs: w.DepartmentIDs,
	}
	return nil
}

func bsonString(v bson.RawValue) (string, error) {
	switch v.Type {
	case 0, bsontype.Null, bsontype.Undefined:
		return "", nil
	case bsontype.String:
		return v.StringValue(), nil
	case bsontype.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10), nil
	case bsontype.Int64:
		return strconv.FormatInt(v.Int64(), 10), nil
	case bsontype.Double:
		return strconv.FormatFloat(v.Double(), 'f', -1, 64), nil
	}
	return "", errors.Errorf("unexpected bson type %s", v.Type)
}

func bsonFloat(v bson.RawValue) (float64, error) {
	switch v.Type {
	case bsontype.Double:
		return v.Double(), nil
	case bsontype.Int32:
		return float64(v.Int32()), nil
	case bsontype.Int64:
		return float64(v.Int64()), nil
	}
	s, err := bsonString(v)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// RawParticipants is the participant list of a project as it arrives from a
// loader: either a native list or a string holding the serialized list.
// Decoding never fails the surrounding document; a malformed value yields an
// empty list and Err reports why.
type RawParticipants struct {
	List []Participant
	err  error
}

func NewParticipants(list ...Participant) RawParticipants {
	return RawParticipants{List: list}
}

func (r RawParticipants) Err() error {
	return r.err
}

func (r RawParticipants) MarshalJSON() ([]byte, error) {
	if r.List == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.List)
}

func (r *RawParticipants) UnmarshalJSON(data []byte) error {
	r.List, r.err = nil, nil
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			r.err = err
			return nil
		}
		r.List, r.err = DecodeParticipants(s)
	case data[0] == '[':
		if err := json.Unmarshal(data, &r.List); err != nil {
			r.List, r.err = nil, errors.Wrap(err, "participant list")
		}
	default:
		r.err = errors.Errorf("participants: unexpected json value %.16q", data)
	}
	return nil
}

func (r RawParticipants) MarshalBSONValue() (bsontype.Type, []byte, error) {
	list := r.List
	if list == nil {
		list = []Participant{}
	}
	return bson.MarshalValue(list)
}

func (r *RawParticipants) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	r.List, r.err = nil, nil
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
	case bsontype.String:
		s, ok := raw.StringValueOK()
		if !ok {
			r.err = errors.New("participants: unreadable bson string")
			return nil
		}
		r.List, r.err = DecodeParticipants(s)
	case bsontype.Array:
		if err := raw.Unmarshal(&r.List); err != nil {
			r.List, r.err = nil, errors.Wrap(err, "participant array")
		}
	default:
		r.err = errors.Errorf("participants: unexpected bson type %s", t)
	}
	return nil
}

// DecodeParticipants parses the serialized participant encoding. Strings that
// were encoded twice are unwrapped once more.
func DecodeParticipants(s string) ([]Participant, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return nil, nil
	}
	if s[0] == '"' {
		var inner string
		if err := json.Unmarshal([]byte(s), &inner); err != nil {
			return nil, errors.Wrap(err, "serialized participants")
		}
		return DecodeParticipants(inner)
	}
	var list []Participant
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return nil, errors.Wrap(err, "serialized participants")
	}
	return list, nil
}
